package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the caller's effective role does not allow the action.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrConflict indicates that the resource is in a state that does not allow the change.
var ErrConflict = errors.New("conflict")

// ErrInternal indicates an unexpected failure in a collaborator (database, storage, queue).
var ErrInternal = errors.New("internal error")

// AppError carries an HTTP-ish status code and a human message alongside the cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the sentinel matching the status code so errors.Is keeps working
// across repository boundaries, followed by the wrapped cause.
func (e *AppError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if sentinel := sentinelFor(e.Code); sentinel != nil {
		errs = append(errs, sentinel)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// NewAppError builds an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError builds a 404 AppError that matches ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message}
}

// NewValidationError builds a 400 AppError that matches ErrValidation.
func NewValidationError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message}
}

// NewDuplicateError builds a 409 AppError that matches ErrDuplicate.
func NewDuplicateError(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message, Err: ErrDuplicate}
}

func sentinelFor(code int) error {
	switch code {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest:
		return ErrValidation
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusConflict:
		return ErrConflict
	case http.StatusInternalServerError:
		return ErrInternal
	}
	return nil
}

// NewForbiddenError builds a 403 AppError that matches ErrForbidden.
func NewForbiddenError(message string) *AppError {
	return &AppError{Code: http.StatusForbidden, Message: message}
}

// NewConflictError builds a 409 AppError that matches ErrConflict.
func NewConflictError(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message}
}
