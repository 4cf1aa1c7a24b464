package pattern

import (
	"fmt"
	"math"

	"example.com/level-pattern-monitor/internal/kline"
)

// AtrSpikeConfig holds configuration for the volatility spike detector.
type AtrSpikeConfig struct {
	Period     int
	Multiplier float64
	ATR        float64 // Precomputed ATR, e.g. from a filtered candle set; 0 computes it from the series
}

// DefaultAtrSpikeConfig returns the default configuration.
func DefaultAtrSpikeConfig() AtrSpikeConfig {
	return AtrSpikeConfig{
		Period:     14,
		Multiplier: 1.5,
	}
}

// Validate checks the configuration.
func (c AtrSpikeConfig) Validate() error {
	if c.Period < 1 {
		return fmt.Errorf("atr spike: period %d must be positive", c.Period)
	}
	if c.Multiplier <= 0 {
		return fmt.Errorf("atr spike: multiplier %v must be positive", c.Multiplier)
	}
	return nil
}

// AtrSpikeDetector flags a last candle whose range exceeds Multiplier x ATR.
type AtrSpikeDetector struct {
	config AtrSpikeConfig
}

// NewAtrSpikeDetector creates a new ATR spike detector.
func NewAtrSpikeDetector(config AtrSpikeConfig) *AtrSpikeDetector {
	return &AtrSpikeDetector{config: config}
}

func (a *AtrSpikeDetector) Name() string { return string(PatternAtrSpike) }

// CandleATR returns the mean high-low range of the last period candles.
func CandleATR(series kline.Series, period int) (float64, bool) {
	if period < 1 || series.Len() < period {
		return 0, false
	}
	sum := 0.0
	for _, c := range kline.Last(series, period) {
		sum += kline.Range(c)
	}
	return sum / float64(period), true
}

// Match reports a neutral spike; confidence grows with the excess over the multiplier.
func (a *AtrSpikeDetector) Match(series kline.Series, lvl float64) (Detection, bool) {
	if series.Len() == 0 {
		return Detection{}, false
	}

	atr := a.config.ATR
	if atr == 0 {
		var ok bool
		if atr, ok = CandleATR(series, a.config.Period); !ok {
			return Detection{}, false
		}
	}

	last := series.At(series.Len() - 1)
	rng := kline.Range(last)
	if !(rng > a.config.Multiplier*atr) {
		return Detection{}, false
	}

	confidence := math.Min(math.Max(rng/atr-a.config.Multiplier, 0), 1)

	return Detection{
		Pattern:     PatternAtrSpike,
		Direction:   DirectionNeutral,
		Level:       lvl,
		TimeKey:     ptrInt64(last.TimeKey()),
		Confidence:  ptrFloat(confidence),
		Description: fmt.Sprintf("volatility spike: range %.2f > %.2fxATR (%.2f)", rng, a.config.Multiplier, atr),
	}, true
}
