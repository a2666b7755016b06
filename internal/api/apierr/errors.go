package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/mountainshoot/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeInvalidPlayer    = "INVALID_PLAYER"
	CodeInvalidArgument  = "INVALID_ARGUMENT"
	CodeUnknownEvent     = "UNKNOWN_EVENT"
	CodeNotAllowed       = "ACTION_NOT_ALLOWED"
	CodeSessionNotFound  = "SESSION_NOT_FOUND"
	CodeStreamingBlocked = "STREAMING_UNSUPPORTED"
	CodeInternalError    = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status an error is reported with
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError. Domain errors keep their
// wrapped detail as the message.
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrSessionNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeSessionNotFound, "Session not found"}}
	case errors.Is(err, model.ErrInvalidPlayer):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidPlayer, err.Error()}}
	case errors.Is(err, model.ErrInvalidArgument):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidArgument, err.Error()}}
	case errors.Is(err, model.ErrUnknownEvent):
		return &httpError{http.StatusBadRequest, APIError{CodeUnknownEvent, err.Error()}}
	case errors.Is(err, model.ErrActionNotAllowed):
		return &httpError{http.StatusConflict, APIError{CodeNotAllowed, err.Error()}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewStreamingUnsupportedError is returned when the connection cannot be flushed
func NewStreamingUnsupportedError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeStreamingBlocked, "Streaming unsupported"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
