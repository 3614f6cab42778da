// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts served requests by route template and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// CMSRequestsTotal counts outbound CMS calls by outcome (ok, empty, failed).
	CMSRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cms_requests_total",
			Help: "Total number of requests sent to the CMS",
		},
		[]string{"method", "collection", "outcome"},
	)

	CMSRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_cms_request_duration_seconds",
			Help:    "CMS request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "collection"},
	)

	// CircuitBreakerState is 0 closed, 1 half-open, 2 open.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "storefront_circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)

	AdminLoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_admin_logins_total",
			Help: "Admin login attempts by result",
		},
		[]string{"result"},
	)

	AdminWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_admin_writes_total",
			Help: "Admin write commands by kind and result",
		},
		[]string{"kind", "result"},
	)
)

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method, route, status string, d time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordCMSRequest records one outbound CMS call.
func RecordCMSRequest(method, collection, outcome string, d time.Duration) {
	CMSRequestsTotal.WithLabelValues(method, collection, outcome).Inc()
	CMSRequestDuration.WithLabelValues(method, collection).Observe(d.Seconds())
}
