package apperrors

import (
	"context"
	"errors"
	"net/http"
)

// Kind is the user facing error category an error belongs to.
type Kind string

const (
	KindNone        Kind = ""
	KindValidation  Kind = "validation"
	KindPermission  Kind = "permission"
	KindAuth        Kind = "auth"
	KindConflict    Kind = "conflict"
	KindDependency  Kind = "dependency"
	KindNotFound    Kind = "not_found"
	KindUnsupported Kind = "unsupported"
	KindTransport   Kind = "transport"
)

// KindOf classifies err. Anything not recognised is a transport error.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrForbidden):
		return KindPermission
	case errors.Is(err, ErrUnauthorized):
		return KindAuth
	case errors.Is(err, ErrDuplicate):
		return KindConflict
	case errors.Is(err, ErrDependency):
		return KindDependency
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrUnsupported):
		return KindUnsupported
	default:
		return KindTransport
	}
}

// HTTPStatus maps err to the status code the transport layer should answer with.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != 0 {
		return appErr.Code
	}
	switch KindOf(err) {
	case KindNone:
		return http.StatusOK
	case KindValidation:
		return http.StatusBadRequest
	case KindPermission:
		return http.StatusForbidden
	case KindAuth:
		return http.StatusUnauthorized
	case KindConflict, KindDependency:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// UserMessage converts err into the message shown to the user. Permission
// errors read the same whether they came from the local engine or a remote 403.
// Transport errors never expose their cause.
func UserMessage(err error) string {
	kind := KindOf(err)
	var appErr *AppError
	hasApp := errors.As(err, &appErr)

	switch kind {
	case KindNone:
		return ""
	case KindPermission:
		return "You do not have permission to perform this action."
	case KindAuth:
		return "Session expired or invalid. Please login again."
	case KindTransport:
		if errors.Is(err, context.DeadlineExceeded) {
			return "The server took too long to respond."
		}
		return "An unexpected error occurred."
	}
	if hasApp && appErr.Message != "" {
		return appErr.Message
	}
	switch kind {
	case KindValidation:
		return "Some fields are missing or invalid."
	case KindConflict:
		return "A record with the same unique value already exists."
	case KindDependency:
		return "This record is still in use and cannot be deleted."
	case KindNotFound:
		return "The requested record was not found."
	case KindUnsupported:
		return "This operation is not supported."
	}
	return "An unexpected error occurred."
}
