package integrations

import (
	"errors"
	"net/http"
	"time"
)

const httpTimeout = 15 * time.Second

// maxBodySize bounds how much of a response body is read.
const maxBodySize = 16 << 20

var (
	// ErrNotFound is returned when the requested page does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for transport failures and unexpected statuses.
	ErrNetwork = errors.New("network error")

	// ErrRateLimited is returned when the server answers 429.
	ErrRateLimited = errors.New("rate limited")
)

// NewHTTPClient returns an HTTP client with the standard request timeout.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}
