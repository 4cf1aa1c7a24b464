package pattern

import (
	"fmt"
	"math"
	"time"

	"example.com/level-pattern-monitor/internal/kline"
)

// Detection is what a detector emits when its pattern is present.
// It is a pure function of the series, the level and the detector config.
type Detection struct {
	Pattern     PatternType `json:"pattern"`
	Direction   Direction   `json:"direction"`
	Side        Side        `json:"side,omitempty"`
	Level       float64     `json:"level"`
	TimeKey     *int64      `json:"time_key,omitempty"`
	Confidence  *float64    `json:"confidence,omitempty"` // 0.0-1.0
	Description string      `json:"description,omitempty"`
}

// Pattern is the uniform capability the analyzer runs against (series, level).
// Name identifies the detector, not the PatternType it reports: the retest
// and shape detectors each emit several types.
type Pattern interface {
	Name() string
	Match(series kline.Series, level float64) (Detection, bool)
}

// Signal is a detection stamped with the symbol and kline it was found on.
type Signal struct {
	ID          string      `json:"id"`
	Symbol      string      `json:"symbol"`
	Pattern     PatternType `json:"pattern"`
	PatternName string      `json:"pattern_name"`
	Direction   Direction   `json:"direction"`
	Side        Side        `json:"side,omitempty"`
	Level       float64     `json:"level"`
	TimeKey     *int64      `json:"time_key,omitempty"`
	Confidence  *float64    `json:"confidence,omitempty"`
	Description string      `json:"description,omitempty"`
	KlineTime   time.Time   `json:"kline_time"` // Open time of the most recent kline
	DetectedAt  time.Time   `json:"detected_at"`
}

// NewSignal creates a new pattern signal from a detection.
func NewSignal(symbol string, d Detection, klineTime time.Time) Signal {
	return Signal{
		ID:          generateID(symbol, d.Pattern, klineTime),
		Symbol:      symbol,
		Pattern:     d.Pattern,
		PatternName: PatternNames[d.Pattern],
		Direction:   d.Direction,
		Side:        d.Side,
		Level:       d.Level,
		TimeKey:     d.TimeKey,
		Confidence:  d.Confidence,
		Description: d.Description,
		KlineTime:   klineTime,
		DetectedAt:  time.Now().UTC(),
	}
}

// generateID generates a unique signal ID using symbol + pattern + klineTime.
// Format: {klineTime_unix_nano}-{symbol}-{pattern}
func generateID(symbol string, pattern PatternType, klineTime time.Time) string {
	return fmt.Sprintf("%d-%s-%s", klineTime.UnixNano(), symbol, pattern)
}

// IsValid returns true if the signal has all required fields.
func (s *Signal) IsValid() bool {
	if s.ID == "" {
		return false
	}
	if s.Symbol == "" {
		return false
	}
	if s.Pattern == "" {
		return false
	}
	if s.Direction != DirectionBullish && s.Direction != DirectionBearish && s.Direction != DirectionNeutral {
		return false
	}
	if s.Confidence != nil && (*s.Confidence < 0 || *s.Confidence > 1) {
		return false
	}
	if math.IsNaN(s.Level) || math.IsInf(s.Level, 0) {
		return false
	}
	if s.KlineTime.IsZero() {
		return false
	}
	if s.DetectedAt.IsZero() {
		return false
	}
	return true
}

func ptrFloat(v float64) *float64 { return &v }

func ptrInt64(v int64) *int64 { return &v }
