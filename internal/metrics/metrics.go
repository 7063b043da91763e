package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/MikeSquared-Agency/notewise/internal/action"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds the Prometheus collectors for the analysis pipeline. All
// methods are safe on a nil receiver.
type Metrics struct {
	AnalysesTotal        *prometheus.CounterVec
	ActionsTotal         *prometheus.CounterVec
	AnalysisDuration     prometheus.Histogram
	AnalysisConfidence   prometheus.Histogram
	ReviewsTotal         *prometheus.CounterVec
	PersistFailuresTotal prometheus.Counter
}

// NewMetrics registers the collectors on the default registry once per
// process and returns the shared instance.
//
// Metrics:
//   - notewise_analyses_total{source,outcome}
//   - notewise_actions_total{type}
//   - notewise_analysis_duration_seconds
//   - notewise_analysis_confidence
//   - notewise_reviews_total{status}
//   - notewise_persist_failures_total
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			AnalysesTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "notewise_analyses_total",
					Help: "Total number of text analyses",
				},
				[]string{"source", "outcome"}, // source: api, nats, cli; outcome: ok, failed
			),
			ActionsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "notewise_actions_total",
					Help: "Total number of actions detected",
				},
				[]string{"type"},
			),
			AnalysisDuration: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "notewise_analysis_duration_seconds",
					Help:    "Wall time of a single analysis",
					Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
				},
			),
			AnalysisConfidence: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "notewise_analysis_confidence",
					Help:    "Overall confidence of analyses that found actions",
					Buckets: prometheus.LinearBuckets(0.5, 0.05, 10),
				},
			),
			ReviewsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "notewise_reviews_total",
					Help: "Total number of approval-queue status changes",
				},
				[]string{"status"},
			),
			PersistFailuresTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "notewise_persist_failures_total",
					Help: "Total number of failed approval-queue writes",
				},
			),
		}
	})
	return globalMetrics
}

// ObserveAnalysis records a successful analysis.
func (m *Metrics) ObserveAnalysis(source string, actions []action.Action, confidence float64, took time.Duration) {
	if m == nil {
		return
	}
	m.AnalysesTotal.WithLabelValues(source, "ok").Inc()
	m.AnalysisDuration.Observe(took.Seconds())
	for _, a := range actions {
		m.ActionsTotal.WithLabelValues(string(a.Type)).Inc()
	}
	if len(actions) > 0 {
		m.AnalysisConfidence.Observe(confidence)
	}
}

func (m *Metrics) AnalysisFailed(source string) {
	if m == nil {
		return
	}
	m.AnalysesTotal.WithLabelValues(source, "failed").Inc()
}

func (m *Metrics) Reviewed(status action.Status) {
	if m == nil {
		return
	}
	m.ReviewsTotal.WithLabelValues(string(status)).Inc()
}

func (m *Metrics) PersistFailed() {
	if m == nil {
		return
	}
	m.PersistFailuresTotal.Inc()
}
