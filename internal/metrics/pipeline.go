// Package metrics holds Prometheus instrumentation for the pipeline and its
// model providers.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Provider call metrics.
var (
	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docent",
			Name:      "embedding_requests_total",
			Help:      "Total number of embedding requests",
		},
		[]string{"model", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docent",
			Name:      "embedding_request_duration_seconds",
			Help:      "Embedding request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"model"},
	)

	CompletionRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docent",
			Name:      "completion_requests_total",
			Help:      "Total number of completion requests",
		},
		[]string{"model", "status"},
	)

	CompletionRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docent",
			Name:      "completion_request_duration_seconds",
			Help:      "Completion request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"model"},
	)
)

// Pipeline metrics.
var (
	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docent",
			Name:      "queries_total",
			Help:      "Total number of processed queries by terminal state",
		},
		[]string{"state"}, // "done" / "failed"
	)

	StepsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docent",
			Name:      "plan_steps_total",
			Help:      "Total number of executed plan steps",
		},
		[]string{"agent", "status"},
	)

	PlanFallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "docent",
			Name:      "plan_fallbacks_total",
			Help:      "Total number of plans replaced by the fallback plan",
		},
	)
)

var registered bool

// Register registers pipeline and provider metrics. Must be called once from main.
func Register() {
	if registered {
		return
	}
	prometheus.MustRegister(
		EmbeddingRequestsTotal,
		EmbeddingRequestDuration,
		CompletionRequestsTotal,
		CompletionRequestDuration,
		QueriesTotal,
		StepsTotal,
		PlanFallbacksTotal,
	)
	registered = true
}
