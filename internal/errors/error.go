package errors

import (
	"fmt"
	"net/http"
)

// Category represents the type of error.
type Category string

const (
	CategoryStore      Category = "store"
	CategorySession    Category = "session"
	CategoryNotFound   Category = "notfound"
	CategoryValidation Category = "validation"
	CategoryConfig     Category = "config"
	CategoryRender     Category = "render"
)

// HTTPStatus returns the status code a request failing with c answers with.
func (c Category) HTTPStatus() int {
	switch c {
	case CategoryValidation:
		return http.StatusBadRequest
	case CategoryNotFound:
		return http.StatusNotFound
	case CategorySession:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// AppError is a structured error with a code, a category and a hint.
type AppError struct {
	// Code is a unique error identifier (e.g., "E001").
	Code string

	// Category is the error type (store, validation, etc.).
	Category Category

	// Message is a short description of the error. It is safe to show to
	// clients.
	Message string

	// Detail is a longer explanation. It may contain internals and is only
	// logged.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *AppError) Unwrap() error {
	return e.Wrapped
}

// HTTPStatus returns the status code for the error's category.
func (e *AppError) HTTPStatus() int {
	return e.Category.HTTPStatus()
}

// WithSuggestion adds a fix suggestion to the error.
func (e *AppError) WithSuggestion(s string) *AppError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *AppError) WithDetail(d string) *AppError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *AppError) Wrap(err error) *AppError {
	e.Wrapped = err
	return e
}

// New creates an AppError from a registered error code.
func New(code string) *AppError {
	template, ok := registry[code]
	if !ok {
		return &AppError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &AppError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// Newf creates a new AppError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *AppError {
	return &AppError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in an AppError. An error that already
// is an *AppError is returned unchanged.
func FromError(err error, code string) *AppError {
	if err == nil {
		return nil
	}
	if ae, ok := err.(*AppError); ok {
		return ae
	}
	return New(code).Wrap(err)
}
