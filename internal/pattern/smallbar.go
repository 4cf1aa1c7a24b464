package pattern

import (
	"fmt"
	"math"

	"example.com/level-pattern-monitor/internal/kline"
)

// smallBarMinThreshold is the floor for the body/range ratio threshold.
const smallBarMinThreshold = 0.25

// SmallBarConfig holds configuration for the small bar approach detector.
type SmallBarConfig struct {
	Period       int
	TuningFactor float64   // Scales the average body/range ratio into the threshold
	Direction    Direction // Empty means detect from the closes
}

// DefaultSmallBarConfig returns the default configuration.
func DefaultSmallBarConfig() SmallBarConfig {
	return SmallBarConfig{
		Period:       3,
		TuningFactor: 1.0,
	}
}

// Validate checks the configuration.
func (c SmallBarConfig) Validate() error {
	if c.Period < 1 {
		return fmt.Errorf("small bar: period %d must be positive", c.Period)
	}
	if c.TuningFactor <= 0 {
		return fmt.Errorf("small bar: tuning factor %v must be positive", c.TuningFactor)
	}
	return nil
}

// SmallBarDetector detects a run of small-bodied candles creeping into the level.
type SmallBarDetector struct {
	config SmallBarConfig
}

// NewSmallBarDetector creates a new small bar approach detector.
func NewSmallBarDetector(config SmallBarConfig) *SmallBarDetector {
	return &SmallBarDetector{config: config}
}

func (s *SmallBarDetector) Name() string { return string(PatternSmallBarApproach) }

// Match requires every candle of the window to be small and the last one
// to reach the level from the approach side.
func (s *SmallBarDetector) Match(series kline.Series, lvl float64) (Detection, bool) {
	if s.config.Period < 1 || series.Len() < s.config.Period {
		return Detection{}, false
	}
	window := kline.Last(series, s.config.Period)

	threshold := math.Max(avgBodyRatio(window)*s.config.TuningFactor, smallBarMinThreshold)
	for _, c := range window {
		if !isSmallBar(c, threshold) {
			return Detection{}, false
		}
	}

	dir := s.config.Direction
	if dir == "" {
		dir = closesDirection(window)
	}

	last := window[len(window)-1]
	var near bool
	switch dir {
	case DirectionBullish:
		near = last.ClosePrice() < lvl && last.HighPrice() >= lvl
	case DirectionBearish:
		near = last.ClosePrice() > lvl && last.LowPrice() <= lvl
	}
	if !near {
		return Detection{}, false
	}

	return Detection{
		Pattern:     PatternSmallBarApproach,
		Direction:   dir,
		Level:       lvl,
		TimeKey:     ptrInt64(last.TimeKey()),
		Confidence:  ptrFloat(0.8),
		Description: fmt.Sprintf("small bar approach toward level %.2f (%s)", lvl, dir),
	}, true
}

func isSmallBar(c kline.Candle, threshold float64) bool {
	rng := kline.Range(c)
	return rng > 0 && kline.Body(c)/rng <= threshold+1e-12
}

// avgBodyRatio treats a zero-range candle as all body.
func avgBodyRatio(window []kline.Candle) float64 {
	sum := 0.0
	for _, c := range window {
		rng := kline.Range(c)
		if rng == 0 {
			sum += 1
			continue
		}
		sum += kline.Body(c) / rng
	}
	return sum / float64(len(window))
}

func closesDirection(window []kline.Candle) Direction {
	first, last := window[0].ClosePrice(), window[len(window)-1].ClosePrice()
	switch {
	case last > first:
		return DirectionBullish
	case last < first:
		return DirectionBearish
	default:
		return DirectionNeutral
	}
}
