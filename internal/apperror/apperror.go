// Package apperror defines the application's error taxonomy.
//
// Services return these errors; the HTTP layer maps them to status codes
// with errors.Is. The sentinels below are the full set of client-visible
// failure categories; anything else surfaces as a generic 500.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrValidation     = errors.New("validation failed")
	ErrConflict       = errors.New("conflict")
	ErrAuthentication = errors.New("authentication failed")
	ErrMissingToken   = errors.New("missing token")
	ErrInvalidToken   = errors.New("invalid token")
)

// AppError carries a sentinel plus a human-readable message safe to
// return to clients.
type AppError struct {
	Err     error  // sentinel category
	Message string // human-readable, client-safe
	Field   string // optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(resource, key string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s already exists: %s", resource, key),
	}
}

// InvalidCredentials returns the login failure error. The message is
// deliberately identical for "no such user" and "wrong password" so a
// caller cannot enumerate which emails are registered.
func InvalidCredentials() *AppError {
	return &AppError{
		Err:     ErrAuthentication,
		Message: "Invalid credentials",
	}
}

// MissingToken indicates no bearer credential was present on a protected
// request. HTTP handlers map this to 401 Unauthorized.
func MissingToken() *AppError {
	return &AppError{
		Err:     ErrMissingToken,
		Message: "authentication token required",
	}
}

// InvalidToken indicates the bearer credential failed signature or expiry
// checks. HTTP handlers map this to 403 Forbidden.
func InvalidToken(message string) *AppError {
	return &AppError{
		Err:     ErrInvalidToken,
		Message: message,
	}
}
