// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fyyur_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fyyur_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "route"},
	)

	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fyyur_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"route"},
	)

	// Writes rejected by the store, by entity and operation.
	PersistenceFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fyyur_persistence_failures_total",
			Help: "Total number of rolled back writes",
		},
		[]string{"entity", "op"},
	)

	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fyyur_cache_hits_total",
		Help: "Total number of listing cache hits",
	})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fyyur_cache_misses_total",
		Help: "Total number of listing cache misses",
	})

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fyyur_events_published_total",
			Help: "Activity events handed to the broker, by outcome",
		},
		[]string{"outcome"},
	)
)

// RecordHTTPRequest records one finished request.
func RecordHTTPRequest(method, route, status string, d time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordPersistenceFailure counts a rolled back write.
func RecordPersistenceFailure(entity, op string) {
	PersistenceFailures.WithLabelValues(entity, op).Inc()
}
