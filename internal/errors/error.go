package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryRuntime  Category = "runtime"
	CategoryTemplate Category = "template"
	CategoryConfig   Category = "config"
	CategoryStorage  Category = "storage"
	CategoryProtocol Category = "protocol"
	CategoryCLI      Category = "cli"
)

// ElixError is a structured error with a code, an explanation and a hint.
type ElixError struct {
	// Code is a unique error identifier (e.g., "E001").
	Code string

	// Category is the error type (runtime, template, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer, instance-specific explanation.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *ElixError) Error() string {
	msg := e.Message
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	if e.Code != "" {
		return e.Code + ": " + msg
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *ElixError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is an ElixError with the same code.
// Errors without a code never match by code.
func (e *ElixError) Is(target error) bool {
	t, ok := target.(*ElixError)
	if !ok || t.Code == "" {
		return false
	}
	return e.Code == t.Code
}

// WithDetail adds a detailed explanation to the error.
func (e *ElixError) WithDetail(d string) *ElixError {
	e.Detail = d
	return e
}

// WithDetailf adds a formatted detailed explanation to the error.
func (e *ElixError) WithDetailf(format string, args ...any) *ElixError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *ElixError) WithSuggestion(s string) *ElixError {
	e.Suggestion = s
	return e
}

// Wrap wraps another error.
func (e *ElixError) Wrap(err error) *ElixError {
	e.Wrapped = err
	return e
}

// New creates an ElixError from a registered error code.
func New(code string) *ElixError {
	template, ok := registry[code]
	if !ok {
		return &ElixError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &ElixError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new ElixError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *ElixError {
	return &ElixError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in an ElixError.
// An error that already is (or wraps) an ElixError is returned as that ElixError.
func FromError(err error, code string) *ElixError {
	if err == nil {
		return nil
	}
	var ee *ElixError
	if stderrors.As(err, &ee) {
		return ee
	}
	return New(code).Wrap(err)
}

// HasCode reports whether err is, or wraps, an ElixError with the given code.
func HasCode(err error, code string) bool {
	var ee *ElixError
	for err != nil {
		if !stderrors.As(err, &ee) {
			return false
		}
		if ee.Code == code {
			return true
		}
		err = ee.Wrapped
	}
	return false
}
