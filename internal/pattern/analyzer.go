package pattern

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"example.com/level-pattern-monitor/internal/kline"
	"example.com/level-pattern-monitor/internal/metrics"
)

// Report is the outcome of running every registered pattern once.
type Report struct {
	ID        string    `json:"id"`
	Symbol    string    `json:"symbol"`
	Level     float64   `json:"level"`
	Signals   []Signal  `json:"signals"`
	Evaluated int       `json:"evaluated"`
	KlineTime time.Time `json:"kline_time"`
}

// Analyzer holds a set of patterns and runs them against the same inputs.
type Analyzer struct {
	patterns []Pattern
	logger   zerolog.Logger
	metrics  *metrics.Metrics
}

// NewAnalyzer creates an analyzer. m may be nil.
func NewAnalyzer(logger zerolog.Logger, m *metrics.Metrics) *Analyzer {
	return &Analyzer{
		logger:  logger.With().Str("component", "analyzer").Logger(),
		metrics: m,
	}
}

// Register adds patterns; they run in registration order.
func (a *Analyzer) Register(patterns ...Pattern) {
	for _, p := range patterns {
		if p == nil {
			continue
		}
		a.patterns = append(a.patterns, p)
	}
}

// Patterns returns the registered pattern names.
func (a *Analyzer) Patterns() []string {
	names := make([]string, len(a.patterns))
	for i, p := range a.patterns {
		names[i] = p.Name()
	}
	return names
}

// Analyze evaluates every pattern against (series, lvl) and collects the matches.
func (a *Analyzer) Analyze(symbol string, series kline.Series, lvl float64) Report {
	start := time.Now()
	report := Report{
		ID:     uuid.NewString(),
		Symbol: symbol,
		Level:  lvl,
	}
	if series.Len() == 0 {
		a.logger.Debug().Str("symbol", symbol).Msg("empty series, nothing to analyze")
		return report
	}
	report.KlineTime = time.UnixMilli(series.At(series.Len() - 1).TimeKey()).UTC()

	for _, p := range a.patterns {
		report.Evaluated++
		a.metrics.ObserveEvaluation(p.Name())

		d, ok := p.Match(series, lvl)
		if !ok {
			continue
		}
		a.metrics.ObserveMatch(string(d.Pattern), string(d.Direction))

		sig := NewSignal(symbol, d, report.KlineTime)
		if !sig.IsValid() {
			a.logger.Warn().Str("pattern", p.Name()).Str("symbol", symbol).Msg("dropping invalid signal")
			continue
		}
		a.logger.Debug().
			Str("symbol", symbol).
			Str("pattern", string(d.Pattern)).
			Str("direction", string(d.Direction)).
			Float64("level", lvl).
			Msg("pattern matched")
		report.Signals = append(report.Signals, sig)
	}

	a.metrics.ObserveRun(time.Since(start).Seconds())
	return report
}
