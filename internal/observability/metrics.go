// Package observability provides metrics and tracing for the application.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "quill_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// FeedFanoutLatency records the wall time of the concurrent feed source fan-out.
	FeedFanoutLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "quill_feed_fanout_latency_seconds",
		Help:    "Feed assembly fan-out latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"feed"})

	// FeedSourceErrors counts ranking source failures during feed assembly.
	FeedSourceErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quill_feed_source_errors_total",
		Help: "Total number of feed ranking source errors",
	}, []string{"source"})

	// CacheRequests counts cache-aside lookups by key prefix and outcome (hit/miss).
	CacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quill_cache_requests_total",
		Help: "Total cache-aside lookups by key prefix and outcome",
	}, []string{"prefix", "outcome"})
)

// ObserveFeedFanout records the latency of one feed fan-out.
func ObserveFeedFanout(feed string, start time.Time) {
	FeedFanoutLatency.WithLabelValues(feed).Observe(time.Since(start).Seconds())
}

// DatabaseMetrics records query latency for repository operations.
type DatabaseMetrics struct{}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics() *DatabaseMetrics {
	return &DatabaseMetrics{}
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
