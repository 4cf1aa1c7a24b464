package kline

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrNotMonotonic is returned when time keys do not strictly increase.
	ErrNotMonotonic = errors.New("kline: time keys must strictly increase")
	// ErrDuplicateKey is returned when two candles share a time key.
	ErrDuplicateKey = errors.New("kline: duplicate time key")
)

// Series is an ordered-by-time, read-only collection of candles.
// Index 0 is the oldest candle, Len()-1 the most recent.
type Series interface {
	Len() int
	At(i int) Candle
}

// SliceSeries is a pre-sorted contiguous Series.
type SliceSeries struct {
	candles []Candle
}

// NewSeries builds a series from candles that are already in time order
// (oldest first, newest last). The slice is copied.
func NewSeries[C Candle](candles []C) (*SliceSeries, error) {
	out := make([]Candle, len(candles))
	for i, c := range candles {
		if i > 0 && c.TimeKey() <= candles[i-1].TimeKey() {
			return nil, fmt.Errorf("%w: index %d key %d after %d", ErrNotMonotonic, i, c.TimeKey(), candles[i-1].TimeKey())
		}
		out[i] = c
	}
	return &SliceSeries{candles: out}, nil
}

// SortedSeries sorts candles by time key before building the series.
// Unlike NewSeries it accepts any input order but still rejects duplicates.
func SortedSeries[C Candle](candles []C) (*SliceSeries, error) {
	out := make([]Candle, len(candles))
	for i, c := range candles {
		out[i] = c
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TimeKey() < out[j].TimeKey() })
	for i := 1; i < len(out); i++ {
		if out[i].TimeKey() == out[i-1].TimeKey() {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateKey, out[i].TimeKey())
		}
	}
	return &SliceSeries{candles: out}, nil
}

// Len returns the number of candles.
func (s *SliceSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.candles)
}

// At returns the i-th candle in chronological order.
func (s *SliceSeries) At(i int) Candle { return s.candles[i] }

// Last returns the n most recent candles, oldest first.
// If fewer than n candles exist, all of them are returned.
func Last(s Series, n int) []Candle {
	if n > s.Len() {
		n = s.Len()
	}
	if n <= 0 {
		return nil
	}
	out := make([]Candle, n)
	start := s.Len() - n
	for i := range out {
		out[i] = s.At(start + i)
	}
	return out
}

// Reversed returns all candles most recent first.
func Reversed(s Series) []Candle {
	out := make([]Candle, s.Len())
	for i := range out {
		out[i] = s.At(s.Len() - 1 - i)
	}
	return out
}
