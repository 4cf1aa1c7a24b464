// Package metrics holds the Prometheus collectors for pattern analysis.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics for the analyzer.
type Metrics struct {
	Evaluations *prometheus.CounterVec // labels: detector
	Matches     *prometheus.CounterVec // labels: pattern, direction
	AnalyzeDur  prometheus.Histogram
	LevelRuns   prometheus.Counter
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "levelscan_detector_evaluations_total",
			Help: "Total detector evaluations by detector name",
		}, []string{"detector"}),
		Matches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "levelscan_pattern_matches_total",
			Help: "Total detector matches by pattern and direction",
		}, []string{"pattern", "direction"}),
		AnalyzeDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "levelscan_analyze_duration_seconds",
			Help:    "Time to run every registered detector against one series",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		}),
		LevelRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "levelscan_analyze_runs_total",
			Help: "Total analyzer runs",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.Evaluations,
			m.Matches,
			m.AnalyzeDur,
			m.LevelRuns,
		)
	}
	return m
}

// ObserveEvaluation counts one detector run.
func (m *Metrics) ObserveEvaluation(detector string) {
	if m == nil {
		return
	}
	m.Evaluations.WithLabelValues(detector).Inc()
}

// ObserveMatch counts one match by the PatternType it reported.
func (m *Metrics) ObserveMatch(pattern, direction string) {
	if m == nil {
		return
	}
	m.Matches.WithLabelValues(pattern, direction).Inc()
}

// ObserveRun records one analyzer run and its duration in seconds.
func (m *Metrics) ObserveRun(seconds float64) {
	if m == nil {
		return
	}
	m.LevelRuns.Inc()
	m.AnalyzeDur.Observe(seconds)
}

// Summary flattens the counters in g into "name{labels}" -> value.
func Summary(g prometheus.Gatherer) (map[string]float64, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64)
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			c := metric.GetCounter()
			if c == nil {
				continue
			}
			key := mf.GetName()
			if labels := metric.GetLabel(); len(labels) > 0 {
				key += "{"
				for i, l := range labels {
					if i > 0 {
						key += ","
					}
					key += l.GetName() + "=" + l.GetValue()
				}
				key += "}"
			}
			out[key] = c.GetValue()
		}
	}
	return out, nil
}
