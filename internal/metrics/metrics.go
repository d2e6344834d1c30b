// Package metrics declares the prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"flex_report/internal/engine"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Estimate outcomes used as the "outcome" label.
const (
	OutcomeDetermined   = "determined"
	OutcomeUndetermined = "undetermined"
	OutcomeExpired      = "expired"
	OutcomeRejected     = "rejected"
)

var (
	// estimatesTotal counts estimates by outcome.
	estimatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flex_estimates_total",
		Help: "Remaining-life estimates by outcome",
	}, []string{"outcome"})

	estimateDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "flex_estimate_duration_seconds",
		Help:    "Wall time of one estimate",
		Buckets: []float64{0.000001, 0.00001, 0.0001, 0.001, 0.01},
	})

	solverEvaluations = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "flex_solver_evaluations",
		Help:    "Health-index evaluations per threshold-crossing solve",
		Buckets: []float64{1, 10, 25, 50, 75, 100},
	})

	batchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "flex_batch_items",
		Help:    "Items per batch estimate request",
		Buckets: []float64{1, 5, 10, 50, 100, 500},
	})
)

// ObserveCrossing records solver work. It matches engine.WithCrossingObserver.
func ObserveCrossing(c engine.Crossing) {
	solverEvaluations.Observe(float64(c.Evaluations))
}

// ObserveEstimate records the outcome and latency of one estimate.
func ObserveEstimate(outcome string, took time.Duration) {
	estimatesTotal.WithLabelValues(outcome).Inc()
	estimateDuration.Observe(took.Seconds())
}

// ObserveBatch records the size of a batch request.
func ObserveBatch(n int) {
	batchSize.Observe(float64(n))
}
