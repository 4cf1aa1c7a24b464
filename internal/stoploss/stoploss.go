// Package stoploss derives stop distances from the daily ATR.
package stoploss

import (
	"errors"
	"fmt"

	"github.com/markcheno/go-talib"

	"example.com/level-pattern-monitor/internal/kline"
)

const (
	// techStopATRShare is the share of the day ATR used as technical stop
	// for crypto and US stocks.
	techStopATRShare = 0.15
	// luftShare is the share of the technical stop kept as entry slack.
	luftShare = 0.2
)

// ErrNotEnoughCandles is returned when the series is too short for the ATR period.
var ErrNotEnoughCandles = errors.New("stoploss: not enough candles for ATR")

// Atr is an average true range in price units.
type Atr float64

// Value returns the raw ATR.
func (a Atr) Value() float64 { return float64(a) }

// TechStopLoss is the technical stop distance in price units.
type TechStopLoss float64

// FromDayATR returns the technical stop for a daily ATR.
func FromDayATR(dayATR Atr) TechStopLoss {
	return TechStopLoss(dayATR.Value() * techStopATRShare)
}

// Value returns the raw stop distance.
func (t TechStopLoss) Value() float64 { return float64(t) }

// Luft returns the slack derived from the stop.
func (t TechStopLoss) Luft() Luft {
	return Luft(t.Value() * luftShare)
}

// Luft is the slack between level and entry in price units.
type Luft float64

// Value returns the raw slack.
func (l Luft) Value() float64 { return float64(l) }

// DayATR computes Wilder's ATR over daily candles and returns the most
// recent value. The series needs more than period candles.
func DayATR(series kline.Series, period int) (Atr, error) {
	if period < 1 {
		return 0, fmt.Errorf("stoploss: invalid ATR period %d", period)
	}
	n := series.Len()
	if n <= period {
		return 0, fmt.Errorf("%w: have %d, need %d", ErrNotEnoughCandles, n, period+1)
	}

	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	for i := 0; i < n; i++ {
		c := series.At(i)
		highs[i] = c.HighPrice()
		lows[i] = c.LowPrice()
		closes[i] = c.ClosePrice()
	}

	values := talib.Atr(highs, lows, closes, period)
	return Atr(values[n-1]), nil
}
