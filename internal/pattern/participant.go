package pattern

import (
	"fmt"

	"example.com/level-pattern-monitor/internal/kline"
	"example.com/level-pattern-monitor/internal/tolerance"
)

const participantMinWindow = 3

// LimitParticipantConfig holds configuration for the limit participant detector.
type LimitParticipantConfig struct {
	Tolerance  tolerance.Tolerance // Band around the rounded reference high/low
	Digits     int32               // Decimal precision the reference is rounded to
	WindowSize int                 // Candles per window, at least 3
}

// DefaultLimitParticipantConfig returns the default configuration.
func DefaultLimitParticipantConfig() LimitParticipantConfig {
	return LimitParticipantConfig{
		Tolerance:  tolerance.Percent(0.002),
		Digits:     2,
		WindowSize: participantMinWindow,
	}
}

// Validate checks the configuration.
func (c LimitParticipantConfig) Validate() error {
	if err := c.Tolerance.Validate(); err != nil {
		return fmt.Errorf("limit participant: %w", err)
	}
	if c.WindowSize < participantMinWindow {
		return fmt.Errorf("limit participant: window %d smaller than %d", c.WindowSize, participantMinWindow)
	}
	if c.Digits < 0 {
		return fmt.Errorf("limit participant: negative digits %d", c.Digits)
	}
	return nil
}

// LimitParticipantDetector finds a short run of candles whose highs (or
// lows) stick to one price while candle direction keeps flipping, the
// footprint of a large resting limit order.
type LimitParticipantDetector struct {
	config LimitParticipantConfig
}

// NewLimitParticipantDetector creates a new limit participant detector.
func NewLimitParticipantDetector(config LimitParticipantConfig) *LimitParticipantDetector {
	return &LimitParticipantDetector{config: config}
}

func (d *LimitParticipantDetector) Name() string { return string(PatternLimitParticipant) }

// Detect slides the window over the candles most recent first and returns
// the first window that clusters. Highs are checked before lows.
func (d *LimitParticipantDetector) Detect(series kline.Series) (Detection, bool) {
	size := d.config.WindowSize
	if size < participantMinWindow {
		return Detection{}, false
	}

	candles := kline.Reversed(series)
	if len(candles) < size {
		return Detection{}, false
	}

	for start := 0; start+size <= len(candles); start++ {
		window := candles[start : start+size]
		if !mixedDirection(window) {
			continue
		}

		refHigh, refLow := d.references(window)

		if d.clustered(window, refHigh, kline.Candle.HighPrice) {
			return d.detection(SideSeller, refHigh, window[0]), true
		}
		if d.clustered(window, refLow, kline.Candle.LowPrice) {
			return d.detection(SideBuyer, refLow, window[0]), true
		}
	}

	return Detection{}, false
}

// Match ignores lvl: the detector locates its own level.
func (d *LimitParticipantDetector) Match(series kline.Series, _ float64) (Detection, bool) {
	return d.Detect(series)
}

// references returns the window's average high and low rounded to the
// configured precision.
func (d *LimitParticipantDetector) references(window []kline.Candle) (high, low float64) {
	for _, c := range window {
		high += c.HighPrice()
		low += c.LowPrice()
	}
	n := float64(len(window))
	return tolerance.RoundToPrecision(high/n, d.config.Digits), tolerance.RoundToPrecision(low/n, d.config.Digits)
}

func (d *LimitParticipantDetector) clustered(window []kline.Candle, ref float64, price func(kline.Candle) float64) bool {
	for _, c := range window {
		if !d.config.Tolerance.Contains(ref, price(c)) {
			return false
		}
	}
	return true
}

func (d *LimitParticipantDetector) detection(side Side, lvl float64, latest kline.Candle) Detection {
	return Detection{
		Pattern:     PatternLimitParticipant,
		Direction:   side.Direction(),
		Side:        side,
		Level:       lvl,
		TimeKey:     ptrInt64(latest.TimeKey()),
		Description: fmt.Sprintf("limit %s at %.*f", side, int(d.config.Digits), lvl),
	}
}

// mixedDirection reports at least one up candle and one down candle.
func mixedDirection(window []kline.Candle) bool {
	up, down := false, false
	for _, c := range window {
		if kline.IsBullish(c) {
			up = true
		}
		if kline.IsBearish(c) {
			down = true
		}
	}
	return up && down
}
