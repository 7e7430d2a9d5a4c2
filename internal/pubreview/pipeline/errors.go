package pipeline

import (
	"fmt"
	"net/http"

	"pubreview/internal/pubreview/model"
)

// The pipeline converts these error kinds into the wire envelope. Any other
// error is unexpected and answered with a generic 500.

// ValidationError means the request did not match its declared shape.
type ValidationError struct {
	Errors model.FieldErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Errors))
}

// AuthError means the caller could not be authenticated.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AuthError) Unwrap() error { return e.Err }

// AppError is a business rule violation surfaced by a handler. It reaches
// the client unchanged.
type AppError struct {
	Code    int
	Message string
	Errors  model.FieldErrors
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

func NewAppError(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func (e *AppError) WithField(path, message string) *AppError {
	if e.Errors == nil {
		e.Errors = model.FieldErrors{}
	}
	e.Errors[path] = model.FieldError{Message: message}
	return e
}

func BadRequest(message string) *AppError { return NewAppError(http.StatusBadRequest, message) }

func NotFound(message string) *AppError { return NewAppError(http.StatusNotFound, message) }
