package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the clan service
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// Cache Metrics
	CacheHitsTotal          *prometheus.CounterVec
	CacheMissesTotal        *prometheus.CounterVec
	CacheInvalidationsTotal prometheus.Counter

	// Business Metrics
	ClanMutationsTotal *prometheus.CounterVec
	RankTableRefreshes *prometheus.CounterVec
	RankTableLevels    prometheus.Gauge
}

// NewMetricsRegistry registers every metric with reg. Tests pass a fresh
// prometheus.NewRegistry(); the server passes prometheus.DefaultRegisterer.
func NewMetricsRegistry(reg prometheus.Registerer) *MetricsRegistry {
	factory := promauto.With(reg)

	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clanhub_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "clanhub_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "clanhub_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		// Cache Metrics
		CacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clanhub_cache_hits_total",
				Help: "Total cache hits by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clanhub_cache_misses_total",
				Help: "Total cache misses by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheInvalidationsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "clanhub_cache_invalidations_total",
				Help: "Total full invalidations of the clan record cache",
			},
		),

		// Business Metrics
		ClanMutationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clanhub_clan_mutations_total",
				Help: "Clan mutations by operation and result (ok or the error code)",
			},
			[]string{"operation", "result"},
		),
		RankTableRefreshes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clanhub_rank_table_refreshes_total",
				Help: "Rank table reloads by result",
			},
			[]string{"result"},
		),
		RankTableLevels: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "clanhub_rank_table_levels",
				Help: "Number of levels in the currently loaded rank table",
			},
		),
	}
}
