// Package kline provides candle data structures and ordered series for level pattern recognition.
package kline

import (
	"math"
	"time"
)

// Candle is the read-only view of one OHLC bar that detectors consume.
// Storage is supplied by the caller; detectors never assume a concrete type.
type Candle interface {
	TimeKey() int64
	OpenPrice() float64
	HighPrice() float64
	LowPrice() float64
	ClosePrice() float64
}

// Kline represents a single candlestick (K-line) data.
type Kline struct {
	Symbol   string    `json:"symbol"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	OpenTime time.Time `json:"open_time"`
}

// TimeKey returns the open time in Unix milliseconds.
func (k Kline) TimeKey() int64 { return k.OpenTime.UnixMilli() }

func (k Kline) OpenPrice() float64  { return k.Open }
func (k Kline) HighPrice() float64  { return k.High }
func (k Kline) LowPrice() float64   { return k.Low }
func (k Kline) ClosePrice() float64 { return k.Close }

// Body returns the absolute size of the candle body (|Close - Open|).
func Body(c Candle) float64 {
	return math.Abs(c.ClosePrice() - c.OpenPrice())
}

// Range returns the total range of the candle (High - Low).
func Range(c Candle) float64 {
	return c.HighPrice() - c.LowPrice()
}

// UpperShadow returns the length of the upper shadow.
func UpperShadow(c Candle) float64 {
	return c.HighPrice() - math.Max(c.OpenPrice(), c.ClosePrice())
}

// LowerShadow returns the length of the lower shadow.
func LowerShadow(c Candle) float64 {
	return math.Min(c.OpenPrice(), c.ClosePrice()) - c.LowPrice()
}

// IsBullish returns true if the candle closed above its open.
func IsBullish(c Candle) bool {
	return c.ClosePrice() > c.OpenPrice()
}

// IsBearish returns true if the candle closed below its open.
func IsBearish(c Candle) bool {
	return c.ClosePrice() < c.OpenPrice()
}
