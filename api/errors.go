package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNoToken is returned before any request is made when no bearer token is configured.
	ErrNoToken = errors.New("not logged in: run `reelfeed auth login`")

	// ErrNotJSON is returned for HTML error pages and other non-JSON bodies.
	ErrNotJSON = errors.New("server did not return JSON")

	// ErrMalformed is returned for JSON without the expected envelope.
	ErrMalformed = errors.New("unexpected response format")
)

// StatusError is a non-2xx response.
type StatusError struct {
	Method  string
	Path    string
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Code)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Code, msg)
}

// Retryable reports server-side and throttling failures.
func (e *StatusError) Retryable() bool {
	return e.Code >= 500 || e.Code == http.StatusTooManyRequests || e.Code == http.StatusRequestTimeout
}

// IsUnauthorized reports a rejected or missing token.
func IsUnauthorized(err error) bool {
	if errors.Is(err, ErrNoToken) {
		return true
	}

	var se *StatusError
	return errors.As(err, &se) && (se.Code == http.StatusUnauthorized || se.Code == http.StatusForbidden)
}

// Retryable reports whether repeating the request later may succeed.
// Transport failures are retryable, everything the server answered with is
// retryable only for 5xx, 408 and 429.
func Retryable(err error) bool {
	if err == nil {
		return false
	}

	var se *StatusError
	if errors.As(err, &se) {
		return se.Retryable()
	}

	return !errors.Is(err, ErrNoToken) && !errors.Is(err, ErrNotJSON) && !errors.Is(err, ErrMalformed)
}
