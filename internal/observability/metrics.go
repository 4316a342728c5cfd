package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "follicle_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// CacheRequests counts cache-aside lookups by key prefix and outcome (hit/miss).
	CacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "follicle_cache_requests_total",
		Help: "Total cache-aside lookups by key prefix and outcome",
	}, []string{"prefix", "outcome"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "follicle_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// ReactionToggles counts reaction toggles by target kind, reaction kind and result.
	ReactionToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "follicle_reaction_toggles_total",
		Help: "Total reaction toggles by target kind, reaction kind and result",
	}, []string{"target", "kind", "result"})

	// ReactionToggleRetries counts toggle conflicts resolved by the internal retry.
	ReactionToggleRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "follicle_reaction_toggle_retries_total",
		Help: "Total reaction toggles that hit the uniqueness constraint and were retried",
	})

	// CommentWrites counts comment mutations by operation.
	CommentWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "follicle_comment_writes_total",
		Help: "Total comment mutations by operation",
	}, []string{"operation"})

	// TagRecomputes counts usage-count recompute passes and the tags touched.
	TagRecomputes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "follicle_tag_recomputes_total",
		Help: "Total tag usage-count recompute passes",
	})

	// SearchLogDrops counts fire-and-forget search log writes that failed.
	SearchLogDrops = promauto.NewCounter(prometheus.CounterOpts{
		Name: "follicle_search_log_drops_total",
		Help: "Total search log writes that failed and were dropped",
	})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
