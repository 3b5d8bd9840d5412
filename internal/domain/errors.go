package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound signals a missing or expired query session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionLimit signals that no further sessions can be opened.
	ErrSessionLimit = errors.New("session limit reached")
	// ErrUnknownConstraint signals a constraint ID outside the catalogue.
	ErrUnknownConstraint = errors.New("unknown constraint")
	// ErrInvalidValue signals a constraint value that does not fit its kind.
	ErrInvalidValue = errors.New("invalid constraint value")
	// ErrInvalidGesture signals a gesture the target widget does not accept.
	ErrInvalidGesture = errors.New("invalid gesture")
	// ErrWidgetInert signals a widget whose visualization data is unavailable.
	ErrWidgetInert = errors.New("widget data unavailable")
	// ErrUpstream signals a failure of the entity API.
	ErrUpstream = errors.New("upstream error")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrQuotaExceeded signals an exhausted daily upstream request budget.
	ErrQuotaExceeded = errors.New("upstream quota exceeded")
)

// UpstreamStatusError wraps ErrUpstream with the HTTP status returned by the entity API.
type UpstreamStatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("%s: %s returned %d", ErrUpstream.Error(), e.Endpoint, e.StatusCode)
}

func (e *UpstreamStatusError) Unwrap() error { return ErrUpstream }

// NewUpstreamStatus creates an upstream status error.
func NewUpstreamStatus(endpoint string, statusCode int) error {
	return &UpstreamStatusError{Endpoint: endpoint, StatusCode: statusCode}
}
