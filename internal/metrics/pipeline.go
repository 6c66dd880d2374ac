package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Answer pipeline metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_requests_total",
			Help:      "Search calls per query variant",
		},
		[]string{"variant", "status"},
	)

	AggregatedResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "aggregated_results",
			Help:      "Number of results kept after aggregation",
			Buckets:   []float64{0, 1, 3, 5, 8, 10, 15},
		},
	)

	GenerationRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_requests_total",
			Help:      "Total number of generation requests",
		},
		[]string{"provider", "model", "status"},
	)

	GenerationRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_request_duration_seconds",
			Help:      "Generation request duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40},
		},
		[]string{"provider", "model"},
	)

	SynthesisOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "synthesis_outcomes_total",
			Help:      "Answers by synthesis outcome",
		},
		[]string{"outcome"},
	)

	FollowupDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "followup_decisions_total",
			Help:      "Follow-up detection decisions",
		},
		[]string{"result"}, // followup / new_topic / cooldown
	)

	QuestionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "question_duration_seconds",
			Help:      "End-to-end time to answer a question",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		},
	)
)

var registerOnce sync.Once

// Register registers every collector with the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(embeddingCollectors()...)
		prometheus.MustRegister(httpCollectors()...)
		prometheus.MustRegister(
			SearchRequestsTotal,
			AggregatedResults,
			GenerationRequestsTotal,
			GenerationRequestDuration,
			SynthesisOutcomesTotal,
			FollowupDecisionsTotal,
			QuestionDuration,
		)
	})
}
