package pattern

import (
	"fmt"

	"example.com/level-pattern-monitor/internal/kline"
	"example.com/level-pattern-monitor/internal/tolerance"
)

// RetestGrade tells how close in time the two touches were.
type RetestGrade string

const (
	RetestNear RetestGrade = "near"
	RetestFar  RetestGrade = "far"
)

// BumpDirection is the side a candle approached the level from.
type BumpDirection string

const (
	BumpFromBelow BumpDirection = "from_below"
	BumpFromAbove BumpDirection = "from_above"
)

// retestMinDepth is the smallest series that can hold a retest:
// current touch, one non-touching candle, earlier touch.
const retestMinDepth = 3

// RetestConfig holds configuration for the retest detector.
type RetestConfig struct {
	Tolerance  float64 // Fraction of the level (0.02 = 2%)
	NearPeriod int     // Candles counted from the most recent for a near retest
	FarPeriod  int     // Candles counted from the most recent for a far retest
}

// DefaultRetestConfig returns the default retest configuration.
func DefaultRetestConfig() RetestConfig {
	return RetestConfig{
		Tolerance:  0.02,
		NearPeriod: 10,
		FarPeriod:  30,
	}
}

// Validate checks the configuration.
func (c RetestConfig) Validate() error {
	if c.Tolerance < 0 {
		return fmt.Errorf("retest: negative tolerance %v", c.Tolerance)
	}
	if c.NearPeriod < 1 || c.FarPeriod < c.NearPeriod {
		return fmt.Errorf("retest: invalid periods near=%d far=%d", c.NearPeriod, c.FarPeriod)
	}
	return nil
}

// Retest is a detected retest of a level.
type Retest struct {
	Direction BumpDirection
	Grade     RetestGrade
	TimeKey   int64 // Time key of the earlier of the two counted touches
}

// RetestDetector detects repeated level touches in recent history.
type RetestDetector struct {
	config RetestConfig
}

// NewRetestDetector creates a new retest detector.
func NewRetestDetector(config RetestConfig) *RetestDetector {
	return &RetestDetector{config: config}
}

func (r *RetestDetector) Name() string { return "retest" }

// Detect walks from the most recent candle backwards counting touches.
// The most recent candle must touch, the one before it must not (the level
// would still be under test), and all touches must come from one side.
func (r *RetestDetector) Detect(series kline.Series, lvl float64) (Retest, bool) {
	n := series.Len()
	if n < retestMinDepth {
		return Retest{}, false
	}

	band := tolerance.Percent(r.config.Tolerance)
	touches := 0
	var prev BumpDirection

	for idx := 0; idx < n && idx <= r.config.FarPeriod; idx++ {
		c := series.At(n - 1 - idx)
		dir, ok := bumpedIntoLevel(c, lvl, band)

		if !ok {
			if idx == 0 {
				return Retest{}, false
			}
			continue
		}
		if idx == 1 {
			return Retest{}, false
		}
		if prev != "" && prev != dir {
			return Retest{}, false
		}
		prev = dir
		touches++

		if touches >= 2 {
			grade := RetestFar
			if idx <= r.config.NearPeriod {
				grade = RetestNear
			}
			return Retest{Direction: dir, Grade: grade, TimeKey: c.TimeKey()}, true
		}
	}

	return Retest{}, false
}

// Match adapts Detect to the Pattern interface. A retest from below is
// bullish, from above bearish.
func (r *RetestDetector) Match(series kline.Series, lvl float64) (Detection, bool) {
	rt, ok := r.Detect(series, lvl)
	if !ok {
		return Detection{}, false
	}

	d := Detection{
		Pattern:     PatternRetestNear,
		Direction:   DirectionBullish,
		Level:       lvl,
		TimeKey:     ptrInt64(rt.TimeKey),
		Description: fmt.Sprintf("%s retest %s", rt.Grade, rt.Direction),
	}
	if rt.Grade == RetestFar {
		d.Pattern = PatternRetestFar
	}
	if rt.Direction == BumpFromAbove {
		d.Direction = DirectionBearish
	}
	return d, true
}

// bumpedIntoLevel reports whether the candle's high (from below) or low
// (from above) lies inside the band around lvl.
func bumpedIntoLevel(c kline.Candle, lvl float64, band tolerance.Tolerance) (BumpDirection, bool) {
	if band.Contains(lvl, c.HighPrice()) {
		return BumpFromBelow, true
	}
	if band.Contains(lvl, c.LowPrice()) {
		return BumpFromAbove, true
	}
	return "", false
}
