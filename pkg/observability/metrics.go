// Package observability provides Prometheus metrics for the orbit request
// pipeline.
package observability

import "github.com/prometheus/client_golang/prometheus"

// LLMBuckets defines histogram buckets suited for LLM inference latencies,
// ranging from 100ms to 120s.
var LLMBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

var (
	// RequestsTotal counts pipeline calls by operation, model, and outcome.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orbit_requests_total",
			Help: "Pipeline requests",
		},
		[]string{"operation", "model", "status"},
	)

	// RequestDuration records end-to-end pipeline latency in seconds.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "orbit_request_duration_seconds",
			Help:    "Request duration",
			Buckets: LLMBuckets,
		},
		[]string{"operation", "model"},
	)

	// RetryAttemptsTotal counts retried attempts by failure classification.
	RetryAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orbit_retry_attempts_total",
			Help: "Retried attempts",
		},
		[]string{"kind"},
	)

	// RateLimitRejectedTotal counts calls denied by the local admission window.
	RateLimitRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "orbit_ratelimit_rejected_total",
			Help: "Rate limit rejections",
		},
	)

	// CacheEventsTotal counts cache lookups by outcome (hit, miss, fill).
	CacheEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orbit_cache_events_total",
			Help: "Cache events",
		},
		[]string{"event"},
	)

	// StreamingConnections tracks the number of active SSE streams.
	StreamingConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "orbit_streaming_connections_active",
			Help: "Active streaming connections",
		},
	)

	// TokensTotal counts tokens processed by direction (prompt/completion).
	TokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orbit_tokens_total",
			Help: "Token count",
		},
		[]string{"model", "direction"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		RetryAttemptsTotal,
		RateLimitRejectedTotal,
		CacheEventsTotal,
		StreamingConnections,
		TokensTotal,
	)
}
