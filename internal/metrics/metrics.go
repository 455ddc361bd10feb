package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the dashboard backend
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    prometheus.CounterVec
	HTTPRequestDuration  prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.GaugeVec

	// Routing engine metrics
	RoutingCallsTotal   prometheus.CounterVec
	RoutingCallDuration prometheus.Histogram

	// Route cache metrics
	RouteCacheHitsTotal   prometheus.Counter
	RouteCacheMissesTotal prometheus.Counter
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry with all metrics
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		HTTPRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "raildash_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "raildash_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "raildash_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		RoutingCallsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "raildash_routing_calls_total",
				Help: "Calls to the routing engine by outcome (ok, no_path, upstream_error)",
			},
			[]string{"outcome"},
		),
		RoutingCallDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "raildash_routing_call_duration_seconds",
				Help:    "Routing engine call latency distribution in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
			},
		),

		RouteCacheHitsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "raildash_route_cache_hits_total",
				Help: "Route computations answered from the persistent cache",
			},
		),
		RouteCacheMissesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "raildash_route_cache_misses_total",
				Help: "Route computations that required a routing engine call",
			},
		),
	}
}
