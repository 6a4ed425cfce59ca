package handler

import (
	"errors"
	"net/http"

	"github.com/go-notification-api/internal/domain"
	"go.uber.org/zap"
)

// httpError maps a service error to its status code. Anything that is not a
// client error is reported as 500 and logged; the storage detail is not
// sent to the client.
func httpError(w http.ResponseWriter, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		log.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
