package pattern

import (
	"fmt"

	"example.com/level-pattern-monitor/internal/kline"
	"example.com/level-pattern-monitor/internal/level"
)

// BounceIndex holds the positions of the setup candle and its two
// confirmation candles within the scanned series.
type BounceIndex struct {
	Setup    int
	Confirm1 int
	Confirm2 int
}

// BounceConfig holds configuration for the bounce finder.
type BounceConfig struct {
	Tolerance float64 // Absolute price distance allowed for the second confirmation
}

// DefaultBounceConfig returns the default bounce configuration.
func DefaultBounceConfig() BounceConfig {
	return BounceConfig{Tolerance: 0.02}
}

// Validate checks the configuration.
func (c BounceConfig) Validate() error {
	if c.Tolerance < 0 {
		return fmt.Errorf("bounce: negative tolerance %v", c.Tolerance)
	}
	return nil
}

// FindBounce finds a setup candle whose high or low equals lvl exactly,
// then the first adjacent pair after it where the first candle touches
// the level and the second stays on the same side within tol.
func FindBounce(series kline.Series, lvl, tol float64) (BounceIndex, bool) {
	n := series.Len()
	if n < 3 {
		return BounceIndex{}, false
	}

	setup := -1
	for i := 0; i < n; i++ {
		c := series.At(i)
		if c.HighPrice() == lvl || c.LowPrice() == lvl {
			setup = i
			break
		}
	}
	if setup < 0 {
		return BounceIndex{}, false
	}

	for i := setup + 1; i < n-1; i++ {
		if confirmsBounce(series.At(i), series.At(i+1), lvl, tol) {
			return BounceIndex{Setup: setup, Confirm1: i, Confirm2: i + 1}, true
		}
	}
	return BounceIndex{}, false
}

func confirmsBounce(first, second kline.Candle, lvl, tol float64) bool {
	touch := level.Classify(first, lvl)
	if !touch.IsTouch() {
		return false
	}

	next := level.Classify(second, lvl)
	switch next.Position {
	case level.Above, level.TouchesAbove:
		if touch.IsBelowOrTouchesBelow() {
			return false
		}
	case level.Below, level.TouchesBelow:
		if touch.IsAboveOrTouchesAbove() {
			return false
		}
	default:
		return false
	}

	return next.Distance <= tol
}

// BounceFinder adapts FindBounce to the Pattern interface.
type BounceFinder struct {
	config BounceConfig
}

// NewBounceFinder creates a new bounce finder.
func NewBounceFinder(config BounceConfig) *BounceFinder {
	return &BounceFinder{config: config}
}

func (b *BounceFinder) Name() string { return string(PatternBounce) }

// Match reports a bounce. Confirmations under the level are a rejection
// from resistance (bearish), confirmations over it a hold of support (bullish).
func (b *BounceFinder) Match(series kline.Series, lvl float64) (Detection, bool) {
	idx, ok := FindBounce(series, lvl, b.config.Tolerance)
	if !ok {
		return Detection{}, false
	}

	dir := DirectionBullish
	if level.Classify(series.At(idx.Confirm1), lvl).IsBelowOrTouchesBelow() {
		dir = DirectionBearish
	}

	return Detection{
		Pattern:     PatternBounce,
		Direction:   dir,
		Level:       lvl,
		TimeKey:     ptrInt64(series.At(idx.Confirm2).TimeKey()),
		Description: fmt.Sprintf("setup #%d confirmed by #%d and #%d", idx.Setup, idx.Confirm1, idx.Confirm2),
	}, true
}
