// Package metrics defines the Prometheus collectors exported by the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "notifications"

type Metrics struct {
	HTTPRequests    *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	StoreOps        *prometheus.CounterVec
	StoreDuration   *prometheus.HistogramVec
}

// New registers the collectors on reg. Passing a fresh registry keeps tests
// isolated from the global default.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"route", "method", "status"},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Histogram of response durations",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		StoreOps: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_operations_total",
				Help:      "Repository calls by operation and outcome",
			},
			[]string{"op", "result"},
		),
		StoreDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "store_operation_duration_seconds",
				Help:      "Repository call latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"op"},
		),
	}
}
