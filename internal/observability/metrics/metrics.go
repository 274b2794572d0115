// Package metrics provides Prometheus instrumentation for framemint.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	enabled     bool
	serviceName string
	registry    *prometheus.Registry

	// HTTP metrics
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec

	// Frame metrics
	frameActionsTotal         *prometheus.CounterVec
	mintRequestsTotal         *prometheus.CounterVec
	recipientResolutionsTotal *prometheus.CounterVec
)

// Init initializes the metrics system. Each call starts a fresh registry.
func Init(enabledFlag bool, svcName string) {
	enabled = enabledFlag
	serviceName = svcName

	if !enabled {
		return
	}

	registry = prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)
	constLabels := prometheus.Labels{"service": svcName}

	httpRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency in seconds",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		},
		[]string{"method", "path"},
	)

	frameActionsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "frame_actions_total",
			Help:        "Total number of frame interactions by action and resulting view",
			ConstLabels: constLabels,
		},
		[]string{"action", "view"},
	)

	mintRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "mint_requests_total",
			Help:        "Total number of Crossmint mint requests",
			ConstLabels: constLabels,
		},
		[]string{"chain", "result"},
	)

	recipientResolutionsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "recipient_resolutions_total",
			Help:        "Total number of recipient resolutions",
			ConstLabels: constLabels,
		},
		[]string{"kind", "result"},
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	if !enabled {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
	}
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
}

// Enabled returns whether metrics are enabled.
func Enabled() bool {
	return enabled
}

// ServiceName returns the configured service name for metric labels.
func ServiceName() string {
	return serviceName
}
