package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/mountainshoot/internal/api/apierr"
	"github.com/mcoot/mountainshoot/internal/middleware"
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// fail writes err as an API error. Server errors are logged with the request
// logger because their detail is not sent to the client.
func (h *SessionHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if apierr.Status(err) >= http.StatusInternalServerError {
		middleware.LoggerFrom(r.Context(), h.logger).Error("request failed",
			slog.String("error", err.Error()))
	}
	WriteError(w, err)
}
