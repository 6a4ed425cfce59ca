package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-notification-api/internal/application/notification"
	"go.uber.org/zap"
)

// HealthHandler handles the health-check endpoint. "ping" answers without
// touching dependencies; "ready" also pings the store when one is set.
type HealthHandler struct {
	store notification.Pinger
	log   *zap.Logger
}

func NewHealthHandler(store notification.Pinger, log *zap.Logger) *HealthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &HealthHandler{store: store, log: log}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "action") {
	case "ping":
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "pong"})
	case "ready":
		if h.store != nil {
			if err := h.store.Ping(r.Context()); err != nil {
				h.log.Warn("readiness check failed", zap.Error(err))
				writeError(w, http.StatusServiceUnavailable, "store unavailable")
				return
			}
		}
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "ready"})
	default:
		writeError(w, http.StatusBadRequest, "unknown action")
	}
}
