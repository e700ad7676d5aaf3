package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ValidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "submission_validations_total",
			Help: "Validation reports produced, by resolved category and confidence",
		},
		[]string{"category", "confidence"},
	)

	AnalyzerFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "submission_analyzer_failures_total",
			Help: "Analyzer calls that surfaced an error, by error kind",
		},
		[]string{"kind"},
	)

	AnalyzerDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "submission_analyzer_duration_seconds",
			Help:    "Duration of analyzer calls including retries",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 8),
		},
		[]string{"provider"},
	)

	WizardTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "submission_wizard_transitions_total",
			Help: "Wizard state transitions, by target state",
		},
		[]string{"state"},
	)
)
