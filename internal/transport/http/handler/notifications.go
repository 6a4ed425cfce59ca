package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-notification-api/internal/application/notification"
	"github.com/go-notification-api/internal/pkg/validate"
	"go.uber.org/zap"
)

// CreateNotificationRequest is the body of POST /v1/notification.
type CreateNotificationRequest struct {
	Message string `json:"message" validate:"required,notblank"`
}

// NotificationHandler handles notification endpoints.
type NotificationHandler struct {
	svc notification.Service
	log *zap.Logger
}

func NewNotificationHandler(svc notification.Service, log *zap.Logger) *NotificationHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &NotificationHandler{svc: svc, log: log}
}

func (h *NotificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	n, err := h.svc.Create(r.Context(), req.Message)
	if err != nil {
		httpError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toNotificationResponse(n))
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.svc.List(r.Context())
	if err != nil {
		httpError(w, h.log, err)
		return
	}
	out := make([]NotificationResponse, len(notifications))
	for i, n := range notifications {
		out[i] = toNotificationResponse(n)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *NotificationHandler) Get(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toNotificationResponse(n))
}

func (h *NotificationHandler) MarkAsSeen(w http.ResponseWriter, r *http.Request) {
	ok, err := h.svc.MarkAsSeen(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, ok)
}

func (h *NotificationHandler) MarkAsDeleted(w http.ResponseWriter, r *http.Request) {
	ok, err := h.svc.MarkAsDeleted(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, ok)
}
