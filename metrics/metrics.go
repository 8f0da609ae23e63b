// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "library_api_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// Catalog store
	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "library_api_store_query_duration_seconds",
			Help:    "Duration of catalog store queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"driver", "collection"},
	)

	StoreQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "library_api_store_query_errors_total",
			Help: "Total number of failed catalog store queries",
		},
		[]string{"driver", "collection"},
	)

	StoreBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "library_api_store_breaker_state",
			Help: "Catalog store circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)

	// Admin statistics
	StatsCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "library_api_stats_cache_hits_total",
			Help: "Total number of admin statistics cache hits",
		},
	)

	StatsCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "library_api_stats_cache_misses_total",
			Help: "Total number of admin statistics cache misses",
		},
	)

	StatsAggregationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "library_api_stats_aggregation_duration_seconds",
			Help:    "Duration of one admin statistics aggregation pass",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	StatsRecordsAggregated = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "library_api_stats_records_aggregated",
			Help: "Number of catalog records in the latest snapshot",
		},
	)
)

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}

// RecordStoreQuery records one catalog store query and its outcome.
func RecordStoreQuery(driver, collection string, duration time.Duration, err error) {
	StoreQueryDuration.WithLabelValues(driver, collection).Observe(duration.Seconds())
	if err != nil {
		StoreQueryErrors.WithLabelValues(driver, collection).Inc()
	}
}
