// Package metrics defines the Prometheus metric collectors used across the
// archive service and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the service.
type Metrics struct {
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	SummariesLoadedTotal prometheus.Counter
	SummariesAddedTotal  prometheus.Counter
	LoadFailuresTotal    prometheus.Counter
	LookupsTotal         *prometheus.CounterVec
	IndexSize            *prometheus.GaugeVec
	CacheHitsTotal       prometheus.Counter
	CacheMissesTotal     prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed.",
			},
		),
		SummariesLoadedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "summaries_loaded_total",
				Help: "Total summaries loaded from the data directory.",
			},
		),
		SummariesAddedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "summaries_added_total",
				Help: "Total summaries added through the API.",
			},
		),
		LoadFailuresTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "load_failures_total",
				Help: "Total summary files skipped during batch loads.",
			},
		),
		LookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lookups_total",
				Help: "Total index lookups by index (title, author, keyword) and result (hit, miss).",
			},
			[]string{"index", "result"},
		),
		IndexSize: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "index_size",
				Help: "Current number of entries per index (summaries, authors, keywords).",
			},
			[]string{"index"},
		),
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of cache hits.",
			},
		),
		CacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of cache misses.",
			},
		),
	}

	prometheus.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.SummariesLoadedTotal,
		m.SummariesAddedTotal,
		m.LoadFailuresTotal,
		m.LookupsTotal,
		m.IndexSize,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
	)

	return m
}

// Handler returns the Prometheus scrape HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
