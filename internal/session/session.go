// Package session classifies timestamps against the US equity session.
package session

import (
	"time"
	_ "time/tzdata" // America/New_York without a system zoneinfo
)

// Moment is the US market phase at a point in time.
type Moment int

const (
	DayOff Moment = iota
	PreMarket
	Working
	PostMarket
)

var momentNames = [...]string{"day_off", "pre_market", "working", "post_market"}

func (m Moment) String() string {
	if m < 0 || int(m) >= len(momentNames) {
		return "unknown"
	}
	return momentNames[m]
}

// Session hours in New York time, as hhmm.
const (
	preMarketOpen  = 400
	regularOpen    = 930
	regularClose   = 1600
	postMarketShut = 2000
)

// NewYork is the exchange time zone.
var NewYork = mustLoad("America/New_York")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// MomentAt classifies t in New York time. Weekends are DayOff; holidays
// are not tracked.
func MomentAt(t time.Time) Moment {
	et := t.In(NewYork)
	if wd := et.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return DayOff
	}

	hm := et.Hour()*100 + et.Minute()
	switch {
	case hm >= regularOpen && hm < regularClose:
		return Working
	case hm >= preMarketOpen && hm < regularOpen:
		return PreMarket
	case hm >= regularClose && hm < postMarketShut:
		return PostMarket
	default:
		return DayOff
	}
}

// IsWorking reports whether the regular session is open at t.
func IsWorking(t time.Time) bool {
	return MomentAt(t) == Working
}
