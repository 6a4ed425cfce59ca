package http

import (
	"github.com/go-notification-api/internal/application/notification"
	"github.com/go-notification-api/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Deps holds everything the router wires into handlers and middleware.
type Deps struct {
	Notifications notification.Service
	// Store is pinged by the readiness check. Optional.
	Store    notification.Pinger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger
}
