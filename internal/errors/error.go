package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryScheduler Category = "scheduler"
	CategoryWatcher   Category = "watcher"
	CategoryMutation  Category = "mutation"
	CategoryLifecycle Category = "lifecycle"
	CategoryRender    Category = "render"
	CategoryIntegrity Category = "integrity"
	CategoryConfig    Category = "config"
)

// Error is a structured runtime error with a code, a category and documentation.
type Error struct {
	// Code is a unique error identifier (e.g., "R001").
	Code string

	// Category is the error type (scheduler, watcher, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Component is the name of the component the error was raised in, if any.
	Component string

	// Info is the runtime context the error occurred in (e.g. "render",
	// "mounted hook", "scheduler flush").
	Info string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
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
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// WithComponent records the component the error belongs to.
func (e *Error) WithComponent(name string) *Error {
	e.Component = name
	return e
}

// WithInfo records the runtime context string.
func (e *Error) WithInfo(info string) *Error {
	e.Info = info
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *Error) WithDetail(d string) *Error {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *Error) Wrap(err error) *Error {
	e.Wrapped = err
	return e
}

// New creates an Error from a registered error code.
func New(code string) *Error {
	template, ok := registry[code]
	if !ok {
		return &Error{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &Error{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new Error with a formatted message (no code).
func Newf(category Category, format string, args ...any) *Error {
	return &Error{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in an Error. Errors that already carry a
// code are returned unchanged.
func FromError(err error, code string) *Error {
	if err == nil {
		return nil
	}
	var re *Error
	if stderrors.As(err, &re) {
		return re
	}
	return New(code).Wrap(err)
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) string {
	var re *Error
	if stderrors.As(err, &re) {
		return re.Code
	}
	return ""
}
