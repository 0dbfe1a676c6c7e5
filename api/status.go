package api

import (
	stderrors "errors"
	"net/http"

	"roomhub/errors"
)

// statusFor maps the error taxonomy to HTTP statuses. The taxonomy
// kinds are matched, not the specific sentinels, so new causes inherit
// their family's status.
func statusFor(err error) int {
	switch {
	case stderrors.Is(err, errors.ErrValidation):
		return http.StatusBadRequest
	case stderrors.Is(err, errors.ErrNotFound):
		return http.StatusNotFound
	case stderrors.Is(err, errors.ErrConflict):
		return http.StatusConflict
	case stderrors.Is(err, errors.ErrUnauthorized):
		return http.StatusForbidden
	case stderrors.Is(err, errors.ErrExternalService):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
