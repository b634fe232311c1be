package errors

import (
	"context"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"invalid url", New(ErrCodeInvalidURL, "bad"), http.StatusBadRequest},
		{"invalid depth", New(ErrCodeInvalidDepth, "bad"), http.StatusBadRequest},
		{"invalid name", New(ErrCodeInvalidName, "bad"), http.StatusBadRequest},
		{"snapshot not found", New(ErrCodeSnapshotNotFound, "gone"), http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("load: %w", New(ErrCodeNotFound, "gone")), http.StatusNotFound},
		{"timeout", New(ErrCodeTimeout, "slow"), http.StatusGatewayTimeout},
		{"network", New(ErrCodeNetwork, "down"), http.StatusBadGateway},
		{"invalid format", New(ErrCodeInvalidFormat, "gif"), http.StatusBadRequest},
		{"rate limited", New(ErrCodeRateLimited, "slow down"), http.StatusTooManyRequests},
		{"unsupported", New(ErrCodeUnsupported, "no"), http.StatusNotImplemented},
		{"deadline", fmt.Errorf("crawl: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"internal", New(ErrCodeInternal, "oops"), http.StatusInternalServerError},
		{"plain error", fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}
