// Package metrics provides Prometheus metrics collection for the quote service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors registered on a dedicated registry.
type Metrics struct {
	registry *prometheus.Registry

	// HTTPRequestDuration tracks HTTP request duration by method, path, and status code.
	HTTPRequestDuration *prometheus.HistogramVec
	// HTTPRequestTotal tracks total HTTP requests by method, path, and status code.
	HTTPRequestTotal *prometheus.CounterVec
	// QuotesTotal tracks computed quotes by outcome.
	QuotesTotal *prometheus.CounterVec
	// RecommendationsTotal tracks recommendations emitted per size.
	RecommendationsTotal *prometheus.CounterVec
}

// New creates a Metrics instance with its own registry, including Go and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		QuotesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quotes_total",
				Help: "Total number of purchase quotes",
			},
			[]string{"status"},
		),
		RecommendationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quote_recommendations_total",
				Help: "Total number of pack completion recommendations by size",
			},
			[]string{"size"},
		),
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRequest records a completed HTTP request.
func (m *Metrics) ObserveRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.HTTPRequestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
	m.HTTPRequestTotal.WithLabelValues(method, path, code).Inc()
}

// RecordQuote records the outcome of a quote and the sizes that received a recommendation.
func (m *Metrics) RecordQuote(status string, recommendedSizes ...string) {
	if m == nil {
		return
	}
	m.QuotesTotal.WithLabelValues(status).Inc()
	for _, size := range recommendedSizes {
		m.RecommendationsTotal.WithLabelValues(size).Inc()
	}
}
