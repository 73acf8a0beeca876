// Package metrics defines the Prometheus collectors exported at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "reelrank"

var (
	// Registrations counts registration attempts by result (created, conflict, invalid, error).
	Registrations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Registration attempts by result",
		},
		[]string{"result"},
	)

	// Logins counts login attempts by result (success, failure, error).
	Logins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by result",
		},
		[]string{"result"},
	)

	// LikeToggles counts completed like toggles by outcome (liked, unliked).
	LikeToggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "like_toggles_total",
			Help:      "Completed like toggles by outcome",
		},
		[]string{"outcome"},
	)

	// RecommendationsServed counts recommendation lists returned.
	RecommendationsServed = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommendations_served_total",
			Help:      "Recommendation lists returned",
		},
	)

	// RecommendationSize observes how many items each recommendation list held.
	RecommendationSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recommendation_items",
			Help:      "Items per recommendation list",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		},
	)

	// StoreOperationDuration tracks store call latency by operation.
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_operation_duration_seconds",
			Help:      "Store operation latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// StoreErrors counts store failures by operation and kind (unavailable, other).
	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_errors_total",
			Help:      "Store failures by operation and kind",
		},
		[]string{"operation", "kind"},
	)
)

// ObserveStoreOp records the time elapsed since start for op. Use with defer.
func ObserveStoreOp(op string, start time.Time) {
	StoreOperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
