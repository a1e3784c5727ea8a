package errors

import (
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryRoute      Category = "route"
	CategoryNavigation Category = "navigation"
	CategoryConfig     Category = "config"
	CategoryServe      Category = "serve"
	CategoryCLI        Category = "cli"
)

// Error is a structured error with a code, the route involved and a fix hint.
type Error struct {
	// Code is a unique error identifier (e.g., "R001").
	Code string

	// Category is the error type (route, navigation, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Route is the route pattern or navigation path involved, if any.
	Route string

	// Index is the position of the offending route in its table, or -1.
	Index int

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Route != "" {
		msg += fmt.Sprintf(" (%s)", e.Route)
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

// Is reports whether target is an *Error with the same non-empty code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Code == "" {
		return false
	}
	return t.Code == e.Code
}

// WithRoute records the route pattern or path the error is about.
func (e *Error) WithRoute(route string) *Error {
	e.Route = route
	return e
}

// WithIndex records the table position of the offending route.
func (e *Error) WithIndex(i int) *Error {
	e.Index = i
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
			Index:   -1,
		}
	}
	return &Error{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		Index:    -1,
	}
}

// Newf creates a new Error with a formatted message (no code).
func Newf(category Category, format string, args ...any) *Error {
	return &Error{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
		Index:    -1,
	}
}

// Code returns a bare *Error usable as an errors.Is target for the code.
func Code(code string) *Error {
	return &Error{Code: code, Index: -1}
}

// FromError wraps a standard error in an Error.
func FromError(err error, code string) *Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e
	}
	return New(code).Wrap(err)
}
