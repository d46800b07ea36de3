package httpx

import (
	"errors"
	"net/http"

	"github.com/appboilerplate/taskmanager/internal/shared"
)

// StatusFor maps domain errors to HTTP status codes. Errors outside the
// taxonomy resolve to fallback.
func StatusFor(err error, fallback int) int {
	switch {
	case errors.Is(err, shared.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrInvalidCredentials):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrInvalidToken), errors.Is(err, shared.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound
	default:
		return fallback
	}
}
