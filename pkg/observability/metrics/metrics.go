// Package metrics exposes Prometheus metrics for the detection pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DetectorLatency tracks per-detector invocation latency in seconds
	DetectorLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "visionova_detector_latency_seconds",
			Help:    "Latency of individual detector invocations",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"detector"},
	)

	// DetectorFailures counts failed detector invocations by reason
	DetectorFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "visionova_detector_failures_total",
			Help: "Number of detector invocations that failed",
		},
		[]string{"detector", "reason"},
	)

	// FusionEvaluations tracks fusion computation latency in seconds
	FusionEvaluations = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "visionova_fusion_evaluation_seconds",
			Help:    "Latency of ensemble fusion evaluations",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		},
	)

	// CascadeOutcomes counts cascade runs by outcome (short_circuit, escalated)
	CascadeOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "visionova_cascade_outcomes_total",
			Help: "Number of cascade runs by outcome",
		},
		[]string{"outcome"},
	)

	// Verdicts counts final verdicts by label
	Verdicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "visionova_verdicts_total",
			Help: "Number of final verdicts by label",
		},
		[]string{"verdict"},
	)
)

// RecordDetectorInvocation records latency for one detector invocation.
func RecordDetectorInvocation(detector string, seconds float64) {
	DetectorLatency.WithLabelValues(detector).Observe(seconds)
}

// RecordDetectorFailure records a failed detector invocation.
func RecordDetectorFailure(detector, reason string) {
	DetectorFailures.WithLabelValues(detector, reason).Inc()
}

// RecordFusionEvaluation records latency for one fusion computation.
func RecordFusionEvaluation(seconds float64) {
	FusionEvaluations.Observe(seconds)
}

// RecordCascadeOutcome records whether a cascade run short-circuited or escalated.
func RecordCascadeOutcome(outcome string) {
	CascadeOutcomes.WithLabelValues(outcome).Inc()
}

// RecordVerdict records the final verdict label for a completed analysis.
func RecordVerdict(verdict string) {
	Verdicts.WithLabelValues(verdict).Inc()
}
