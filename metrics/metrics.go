package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration is the request latency by route template.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// StageTransitions counts confirmed stage moves.
	StageTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "initiative_stage_transitions_total",
			Help: "Total number of confirmed initiative stage transitions",
		},
		[]string{"from", "to", "kind"}, // kind: forward, backward, skipping
	)

	// RejectedTransitions counts moves refused by the stage policy.
	RejectedTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "initiative_stage_transitions_rejected_total",
			Help: "Total number of stage transitions rejected by policy",
		},
		[]string{"reason"},
	)

	// InitiativesCreated counts submissions by category.
	InitiativesCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "initiatives_created_total",
			Help: "Total number of initiatives submitted",
		},
		[]string{"category"},
	)

	// EventPublishFailures counts events that could not be delivered.
	EventPublishFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_publish_failures_total",
			Help: "Total number of domain events that failed to publish",
		},
		[]string{"routing_key"},
	)
)

// RecordHTTPRequestDuration records one served request.
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// IncrementStageTransition records a confirmed move.
func IncrementStageTransition(from, to, kind string) {
	StageTransitions.WithLabelValues(from, to, kind).Inc()
}

// IncrementRejectedTransition records a move refused by policy.
func IncrementRejectedTransition(reason string) {
	RejectedTransitions.WithLabelValues(reason).Inc()
}

func IncrementInitiativeCreated(category string) {
	InitiativesCreated.WithLabelValues(category).Inc()
}

func IncrementEventPublishFailure(routingKey string) {
	EventPublishFailures.WithLabelValues(routingKey).Inc()
}
