package pattern

import (
	"fmt"
	"math"

	"example.com/level-pattern-monitor/internal/kline"
)

// TrendDirection is the outcome of the higher-high / lower-low count.
type TrendDirection string

const (
	TrendUp       TrendDirection = "up"
	TrendDown     TrendDirection = "down"
	TrendSideways TrendDirection = "sideways"
)

// TrendConfig holds configuration for the HH/LL trend detector.
type TrendConfig struct {
	MinConfirmationRatio float64 // Share of candle pairs that must confirm
	Period               int     // Most recent candles to inspect; 0 uses the whole series
}

// DefaultTrendConfig returns the default configuration.
func DefaultTrendConfig() TrendConfig {
	return TrendConfig{
		MinConfirmationRatio: 0.6,
		Period:               10,
	}
}

// Validate checks the configuration.
func (c TrendConfig) Validate() error {
	if c.MinConfirmationRatio <= 0 || c.MinConfirmationRatio > 1 {
		return fmt.Errorf("trend: confirmation ratio %v outside (0, 1]", c.MinConfirmationRatio)
	}
	if c.Period < 0 {
		return fmt.Errorf("trend: negative period %d", c.Period)
	}
	return nil
}

// TrendDetector classifies the recent trend by counting higher highs and lower lows.
type TrendDetector struct {
	config TrendConfig
}

// NewTrendDetector creates a new HH/LL trend detector.
func NewTrendDetector(config TrendConfig) *TrendDetector {
	return &TrendDetector{config: config}
}

func (t *TrendDetector) Name() string { return string(PatternTrend) }

// DetectTrend needs at least two candles.
func (t *TrendDetector) DetectTrend(series kline.Series) (TrendDirection, bool) {
	n := series.Len()
	if t.config.Period > 0 && t.config.Period < n {
		n = t.config.Period
	}
	candles := kline.Last(series, n)
	if len(candles) < 2 {
		return "", false
	}

	higherHighs, lowerLows := 0, 0
	for i := 1; i < len(candles); i++ {
		if candles[i].HighPrice() > candles[i-1].HighPrice() {
			higherHighs++
		}
		if candles[i].LowPrice() < candles[i-1].LowPrice() {
			lowerLows++
		}
	}

	checks := len(candles) - 1
	required := int(math.Ceil(float64(checks) * t.config.MinConfirmationRatio))

	switch {
	case higherHighs >= required:
		return TrendUp, true
	case lowerLows >= required:
		return TrendDown, true
	default:
		return TrendSideways, true
	}
}

// Match reports up and down trends; sideways is not a signal.
func (t *TrendDetector) Match(series kline.Series, lvl float64) (Detection, bool) {
	trend, ok := t.DetectTrend(series)
	if !ok || trend == TrendSideways {
		return Detection{}, false
	}

	dir := DirectionBullish
	if trend == TrendDown {
		dir = DirectionBearish
	}
	return Detection{
		Pattern:     PatternTrend,
		Direction:   dir,
		Level:       lvl,
		TimeKey:     ptrInt64(series.At(series.Len() - 1).TimeKey()),
		Description: fmt.Sprintf("%s trend", trend),
	}, true
}
