package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-notification-api/internal/config"
	"github.com/go-notification-api/internal/transport/http/handler"
	appmiddleware "github.com/go-notification-api/internal/transport/http/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router. ctx bounds background
// work started by middleware.
func NewRouter(ctx context.Context, cfg *config.Config, deps Deps) http.Handler {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(appmiddleware.RequestLogger(log))
	r.Use(chimiddleware.Recoverer)
	if deps.Metrics != nil {
		r.Use(appmiddleware.Metrics(deps.Metrics))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.App.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	writeRL := appmiddleware.NewRateLimiter(ctx, rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst)

	healthH := handler.NewHealthHandler(deps.Store, log)
	notifH := handler.NewNotificationHandler(deps.Notifications, log)

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check/{action}", healthH.Check)

		r.Get("/notification", notifH.List)
		r.Get("/notification/{id}", notifH.Get)

		r.Group(func(r chi.Router) {
			r.Use(writeRL.Limit)

			r.Post("/notification", notifH.Create)
			r.Post("/notification/seen/{id}", notifH.MarkAsSeen)
			r.Post("/notification/deleted/{id}", notifH.MarkAsDeleted)
		})
	})

	return r
}
