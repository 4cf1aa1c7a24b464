package pattern

import (
	"fmt"

	"example.com/level-pattern-monitor/internal/kline"
)

// HammerDetector flags a hammer on the most recent candle: a body smaller
// than the lower wick and an upper wick smaller than the body.
type HammerDetector struct{}

// NewHammerDetector creates a new hammer detector.
func NewHammerDetector() *HammerDetector {
	return &HammerDetector{}
}

func (h *HammerDetector) Name() string { return string(PatternHammer) }

// Match checks the last candle. lvl only affects the description.
func (h *HammerDetector) Match(series kline.Series, lvl float64) (Detection, bool) {
	if series.Len() == 0 {
		return Detection{}, false
	}
	last := series.At(series.Len() - 1)

	body := kline.Body(last)
	if !(body < kline.LowerShadow(last) && kline.UpperShadow(last) < body) {
		return Detection{}, false
	}

	description := "hammer detected"
	if last.LowPrice() <= lvl && lvl <= last.HighPrice() {
		description = fmt.Sprintf("hammer near level %.2f", lvl)
	}

	return Detection{
		Pattern:     PatternHammer,
		Direction:   DirectionBullish,
		Level:       lvl,
		TimeKey:     ptrInt64(last.TimeKey()),
		Description: description,
	}, true
}
