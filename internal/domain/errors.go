package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error categories. Callers wrap these with context using fmt.Errorf("%w: ...")
// and the HTTP layer maps them to status codes with errors.Is.
var (
	ErrValidation        = errors.New("validation error")
	ErrAuthentication    = errors.New("authentication error")
	ErrAuthorization     = errors.New("authorization error")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrConflict          = errors.New("conflict")
)

func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func Authenticationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrAuthentication, fmt.Sprintf(format, args...))
}

func Authorizationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrAuthorization, fmt.Sprintf(format, args...))
}

func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func Conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

func InvalidTransitionf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidTransition, fmt.Sprintf(format, args...))
}

// ErrorCategory names the taxonomy bucket of err, or "internal" when err does
// not wrap one of the sentinels above.
func ErrorCategory(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "ValidationError"
	case errors.Is(err, ErrAuthentication):
		return "AuthenticationError"
	case errors.Is(err, ErrAuthorization):
		return "AuthorizationError"
	case errors.Is(err, ErrNotFound):
		return "NotFoundError"
	case errors.Is(err, ErrInvalidTransition):
		return "InvalidTransitionError"
	case errors.Is(err, ErrConflict):
		return "ConflictError"
	default:
		return "InternalError"
	}
}

// Message returns the human readable part of a wrapped taxonomy error.
func Message(err error) string {
	for _, base := range []error{ErrValidation, ErrAuthentication, ErrAuthorization, ErrNotFound, ErrInvalidTransition, ErrConflict} {
		if errors.Is(err, base) {
			return strings.TrimPrefix(err.Error(), base.Error()+": ")
		}
	}
	return err.Error()
}
