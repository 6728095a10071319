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

// ErrForbidden indicates that the actor is not allowed to perform the operation.
var ErrForbidden = errors.New("permission denied")

// ErrUnauthorized indicates a missing, invalid or expired session.
var ErrUnauthorized = errors.New("session invalid or expired")

// ErrDependency indicates a delete blocked by entities that still reference the target.
var ErrDependency = errors.New("resource still referenced")

// ErrTransport indicates that the remote gateway could not be reached or failed unexpectedly.
var ErrTransport = errors.New("remote gateway unavailable")

// ErrUnsupported indicates an operation this layer deliberately does not perform.
var ErrUnsupported = errors.New("operation not supported")

// AppError carries an HTTP-ish status code, a human readable message and the wrapped cause.
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

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates a 404 AppError wrapping ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return NewAppError(http.StatusNotFound, message, ErrNotFound)
}

// NewConflictError creates a 409 AppError wrapping ErrDuplicate.
func NewConflictError(message string) *AppError {
	return NewAppError(http.StatusConflict, message, ErrDuplicate)
}

// NewValidationFailedError creates a 400 AppError wrapping ErrValidation.
func NewValidationFailedError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, ErrValidation)
}

// NewForbiddenError creates a 403 AppError wrapping ErrForbidden.
func NewForbiddenError(message string) *AppError {
	return NewAppError(http.StatusForbidden, message, ErrForbidden)
}

// NewUnauthorizedError creates a 401 AppError wrapping ErrUnauthorized.
func NewUnauthorizedError(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, message, ErrUnauthorized)
}

// NewDependencyError creates a 409 AppError wrapping ErrDependency.
func NewDependencyError(message string) *AppError {
	return NewAppError(http.StatusConflict, message, ErrDependency)
}

// NewTransportError creates a 502 AppError wrapping ErrTransport. The cause is kept
// for logs only; it is never shown to the user.
func NewTransportError(message string, cause error) *AppError {
	return NewAppError(http.StatusBadGateway, message, fmt.Errorf("%w: %w", ErrTransport, cause))
}
