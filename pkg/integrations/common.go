package integrations

import (
	"errors"
	"net/http"
	"net/url"
	"time"
)

const httpTimeout = 10 * time.Second

// ErrNetwork is returned for transport failures (timeouts, connection errors,
// unreadable bodies) where no HTTP status is available.
var ErrNetwork = errors.New("network error")

// NewHTTPClient creates an HTTP client with the given timeout.
// Non-positive timeouts fall back to a 10 second default.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = httpTimeout
	}
	return &http.Client{Timeout: timeout}
}

// PathEscape percent-encodes a single URL path segment.
// This is a convenience wrapper around [url.PathEscape].
func PathEscape(s string) string { return url.PathEscape(s) }
