package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/intavia/visualquery/internal/domain"
)

// ErrorCode is the machine-readable error code of an API error.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest        ErrorCode = "bad_request"
	CodeValidationFailed  ErrorCode = "validation_failed"
	CodeUnauthorized      ErrorCode = "unauthorized"
	CodeSessionNotFound   ErrorCode = "session_not_found"
	CodeSessionLimit      ErrorCode = "session_limit"
	CodeUnknownConstraint ErrorCode = "unknown_constraint"
	CodeInvalidValue      ErrorCode = "invalid_value"
	CodeInvalidGesture    ErrorCode = "invalid_gesture"
	CodeWidgetInert       ErrorCode = "widget_inert"
	CodeRateLimited       ErrorCode = "rate_limited"
	CodeQuotaExceeded     ErrorCode = "quota_exceeded"
	CodeUpstreamError     ErrorCode = "upstream_error"
	CodeInternalError     ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Order matters: rate limiting wraps ErrUpstream.
var errorHandlers = []errorHandler{
	sentinelHandler(domain.ErrSessionNotFound, http.StatusNotFound, CodeSessionNotFound),
	sentinelHandler(domain.ErrUnknownConstraint, http.StatusNotFound, CodeUnknownConstraint),
	sentinelHandler(domain.ErrInvalidValue, http.StatusBadRequest, CodeInvalidValue),
	sentinelHandler(domain.ErrInvalidGesture, http.StatusBadRequest, CodeInvalidGesture),
	sentinelHandler(domain.ErrWidgetInert, http.StatusConflict, CodeWidgetInert),
	sentinelHandler(domain.ErrSessionLimit, http.StatusServiceUnavailable, CodeSessionLimit),
	sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, CodeRateLimited),
	sentinelHandler(domain.ErrQuotaExceeded, http.StatusServiceUnavailable, CodeQuotaExceeded),
	sentinelHandler(domain.ErrUpstream, http.StatusBadGateway, CodeUpstreamError),
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrSessionNotFound,
		domain.ErrSessionLimit,
		domain.ErrUnknownConstraint,
		domain.ErrInvalidValue,
		domain.ErrInvalidGesture,
		domain.ErrWidgetInert,
		domain.ErrRateLimited,
		domain.ErrQuotaExceeded,
		domain.ErrUpstream,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}
