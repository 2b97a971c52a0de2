package api

import (
	"errors"
	"net/http"

	"github.com/mstern/todolist-api/internal/domain"
	"github.com/mstern/todolist-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes based
// on the error type, so handlers never leak internal error classes to
// clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	case errors.Is(err, domain.ErrProjectNotFound),
		errors.Is(err, domain.ErrTaskNotFound):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrDuplicateProjectName),
		errors.Is(err, domain.ErrProjectLimitReached),
		errors.Is(err, domain.ErrTaskLimitReached):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a message safe to show to clients. The
// domain error types carry user-facing text already; anything else
// collapses to a generic message.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrProjectNotFound),
		errors.Is(err, domain.ErrTaskNotFound),
		errors.Is(err, domain.ErrDuplicateProjectName),
		errors.Is(err, domain.ErrProjectLimitReached),
		errors.Is(err, domain.ErrTaskLimitReached):
		return err.Error()

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}
