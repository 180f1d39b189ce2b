package metrics

import "github.com/prometheus/client_golang/prometheus"

// Application metrics for the achievement engine. Registered on the
// metrics server's registry at startup.
var (
	EventsProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "achievements_events_processed_total",
			Help: "Total number of domain events processed by the coordinator",
		},
		[]string{"event_type"},
	)

	UnlocksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "achievements_unlocks_total",
			Help: "Total number of achievement unlock transitions",
		},
		[]string{"achievement_id"},
	)

	EvaluatorErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "achievements_evaluator_errors_total",
			Help: "Total number of isolated evaluator failures",
		},
		[]string{"achievement_id"},
	)

	PersistenceConflictsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "achievements_persistence_conflicts_total",
			Help: "Total number of progress writes lost to a concurrent writer after retries",
		},
	)

	NotificationsEnqueuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "achievements_notifications_enqueued_total",
			Help: "Total number of unlock notifications enqueued",
		},
		[]string{"level"},
	)

	EvaluationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "achievements_evaluation_duration_seconds",
			Help:    "Duration of per-player evaluation passes",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Register registers all engine metrics with the given registry.
func Register(registry *prometheus.Registry) {
	registry.MustRegister(
		EventsProcessedTotal,
		UnlocksTotal,
		EvaluatorErrorsTotal,
		PersistenceConflictsTotal,
		NotificationsEnqueuedTotal,
		EvaluationDuration,
	)
}
