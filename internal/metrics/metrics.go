// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Geocode outcomes.
const (
	GeocodeFound    = "found"
	GeocodeNotFound = "not_found"
	GeocodeError    = "error"
	GeocodeSkipped  = "skipped"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "workorder_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "workorder_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	GeocodeResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "workorder_geocode_results_total",
		Help: "Geocoding attempts by outcome.",
	}, []string{"result"})
)
