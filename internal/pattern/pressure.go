package pattern

import (
	"fmt"

	"example.com/level-pattern-monitor/internal/kline"
	"example.com/level-pattern-monitor/internal/tolerance"
)

// PressureBuildupConfig holds configuration for the pressure buildup detector.
type PressureBuildupConfig struct {
	Tolerance float64 // Fraction of the level (0.02 = 2%)
	Period    int     // Number of most recent candles that must compress
}

// DefaultPressureBuildupConfig returns the default configuration.
func DefaultPressureBuildupConfig() PressureBuildupConfig {
	return PressureBuildupConfig{
		Tolerance: 0.02,
		Period:    4,
	}
}

// Validate checks the configuration.
func (c PressureBuildupConfig) Validate() error {
	if c.Tolerance < 0 {
		return fmt.Errorf("pressure buildup: negative tolerance %v", c.Tolerance)
	}
	if c.Period < 1 {
		return fmt.Errorf("pressure buildup: period %d must be positive", c.Period)
	}
	return nil
}

// PressureBuildupDetector checks whether the last Period candles all press
// into the level from the same side without leaving the tolerance band.
type PressureBuildupDetector struct {
	config PressureBuildupConfig
}

// NewPressureBuildupDetector creates a new pressure buildup detector.
func NewPressureBuildupDetector(config PressureBuildupConfig) *PressureBuildupDetector {
	return &PressureBuildupDetector{config: config}
}

func (p *PressureBuildupDetector) Name() string { return string(PatternPressureBuildup) }

// Detect evaluates the window oldest first. The first candle fixes the
// side: from below when its high is at or under the level.
func (p *PressureBuildupDetector) Detect(series kline.Series, lvl float64) (Detection, bool) {
	if p.config.Period < 1 || series.Len() < p.config.Period {
		return Detection{}, false
	}

	lower, upper := tolerance.Percent(p.config.Tolerance).Bounds(lvl)
	window := kline.Last(series, p.config.Period)

	fromBelow := window[0].HighPrice() <= lvl
	for _, c := range window {
		if (c.HighPrice() <= lvl) != fromBelow {
			return Detection{}, false
		}

		price := c.LowPrice()
		if fromBelow {
			price = c.HighPrice()
		}
		if !tolerance.InRange(price, lower, upper) {
			return Detection{}, false
		}
	}

	d := Detection{
		Pattern:     PatternPressureBuildup,
		Direction:   DirectionBullish,
		Level:       lvl,
		TimeKey:     ptrInt64(window[len(window)-1].TimeKey()),
		Description: fmt.Sprintf("%d candles pressing from above", len(window)),
	}
	if fromBelow {
		d.Direction = DirectionBearish
		d.Description = fmt.Sprintf("%d candles pressing from below", len(window))
	}
	return d, true
}

// Match adapts Detect to the Pattern interface.
func (p *PressureBuildupDetector) Match(series kline.Series, lvl float64) (Detection, bool) {
	return p.Detect(series, lvl)
}
