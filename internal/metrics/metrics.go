package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ActivityIngested tracks accepted activity records by type
	ActivityIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_analytics_activity_ingested_total",
			Help: "Total number of activity records accepted for ingestion",
		},
		[]string{"type"},
	)

	// ActivityFlushed tracks activity records written by the batch worker
	ActivityFlushed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_analytics_activity_flushed_total",
			Help: "Total number of activity records flushed to storage",
		},
		[]string{"status"},
	)

	// StatsRecomputations tracks aggregate recomputations by trigger
	StatsRecomputations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_analytics_stats_recomputations_total",
			Help: "Total number of owner statistics recomputations",
		},
		[]string{"trigger"}, // initial, debounce, refresh, poll, input
	)

	// StatsSkipped tracks recomputations dropped by the single-flight guard
	StatsSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "event_analytics_stats_skipped_total",
			Help: "Total number of recomputations skipped because one was already running",
		},
	)

	// StatsDuration tracks how long a recomputation takes
	StatsDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "event_analytics_stats_duration_seconds",
			Help:    "Owner statistics recomputation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// RemoteFallbacks tracks remote analytics calls answered with mock data
	RemoteFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_analytics_remote_fallback_total",
			Help: "Total number of remote analytics calls served from fallback data",
		},
		[]string{"operation"},
	)

	// RemoteFailures tracks remote analytics calls that failed
	RemoteFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_analytics_remote_failures_total",
			Help: "Total number of failed remote analytics calls",
		},
		[]string{"operation"},
	)

	// RateLimitExceeded tracks rejected ingestion requests
	RateLimitExceeded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "event_analytics_rate_limit_exceeded_total",
			Help: "Total number of ingestion requests rejected by the rate limiter",
		},
	)
)
