package errors

import (
	"context"
	"errors"
	"net/http"
)

// HTTPStatus maps an error to the status code an API should answer with.
// Uncoded errors are internal errors unless they are a context deadline.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	code := GetCode(err)
	switch {
	case code.Invalid():
		return http.StatusBadRequest
	case code == ErrCodeNotFound, code == ErrCodeSnapshotNotFound:
		return http.StatusNotFound
	case code == ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case code == ErrCodeTimeout, code == "" && errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case code == ErrCodeNetwork:
		return http.StatusBadGateway
	case code == ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
