package record

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Common errors returned by the fetch pipeline.
var (
	// Permanent failures: retrying cannot fix these.
	ErrProfileNotFound = errors.New("profile not found")
	ErrSuspended       = errors.New("account suspended")
	ErrAuthRequired    = errors.New("authentication required")

	// Transient failures: expected to succeed on retry.
	ErrRateLimited = errors.New("rate limited")
	ErrBlocked     = errors.New("temporarily blocked")
)

// HTTPError represents an unexpected HTTP status from the renderer.
type HTTPError struct {
	URL        string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d fetching %s", e.StatusCode, e.URL)
}

// IsTransient reports whether err is a transient fetch failure worth retrying.
// Permanent failures (not found, suspended, auth required) return false.
// Network errors, timeouts, and context deadlines count as transient; a
// canceled context does not, since the caller gave up.
func IsTransient(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrProfileNotFound),
		errors.Is(err, ErrSuspended),
		errors.Is(err, ErrAuthRequired),
		errors.Is(err, context.Canceled):
		return false
	case errors.Is(err, ErrRateLimited),
		errors.Is(err, ErrBlocked),
		errors.Is(err, context.DeadlineExceeded):
		return true
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.StatusCode {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		default:
			return false // 4xx errors (except 429) are permanent
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	// Unknown errors default to transient so a flaky renderer gets retried.
	return true
}
