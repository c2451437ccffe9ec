package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrNotFound is returned when a resource is not found
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrUnauthorized is returned when authentication fails
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}

// ErrConflict is returned for duplicate registrations and concurrent runs
type ErrConflict struct {
	Message string
}

func (e *ErrConflict) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "conflict"
}

// ErrValidation is returned when input or an upstream credential check fails
type ErrValidation struct {
	Message string
	Fields  map[string]string
}

func (e *ErrValidation) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "validation failed"
}

// ErrTooManyRequests is returned while a cooldown is active
type ErrTooManyRequests struct {
	Message    string
	RetryAfter time.Duration
}

func (e *ErrTooManyRequests) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "too many requests"
}

// HTTPStatus maps an error to its response status. Unknown errors are 500.
func HTTPStatus(err error) int {
	var (
		notFound     *ErrNotFound
		unauthorized *ErrUnauthorized
		conflict     *ErrConflict
		validation   *ErrValidation
		tooMany      *ErrTooManyRequests
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &unauthorized):
		return http.StatusUnauthorized
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &conflict):
		return http.StatusConflict
	case errors.As(err, &tooMany):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// IsClientError true for errors whose message is safe to show the caller.
func IsClientError(err error) bool {
	status := HTTPStatus(err)
	return status >= 400 && status < 500
}

// PublicMessage message of the first typed error in err's chain, without
// the wrapping context added on the way up. Empty for unknown errors.
func PublicMessage(err error) string {
	var (
		notFound     *ErrNotFound
		unauthorized *ErrUnauthorized
		conflict     *ErrConflict
		validation   *ErrValidation
		tooMany      *ErrTooManyRequests
	)
	switch {
	case errors.As(err, &validation):
		return validation.Error()
	case errors.As(err, &unauthorized):
		return unauthorized.Error()
	case errors.As(err, &notFound):
		return notFound.Error()
	case errors.As(err, &conflict):
		return conflict.Error()
	case errors.As(err, &tooMany):
		return tooMany.Error()
	}
	return ""
}
