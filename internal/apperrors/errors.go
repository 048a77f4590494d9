// Package apperrors defines the domain error kinds returned by the
// service layer. The HTTP layer maps them to status codes with errors.Is,
// so services never need to know about HTTP.
package apperrors

import (
	"errors"
	"fmt"
)

// Error kinds
var (
	// ErrNotFound: a referenced course or student does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict: a uniqueness rule (matrícula, email, course name) would
	// be broken.
	ErrConflict = errors.New("conflict")

	// ErrValidation: the request body broke one or more field constraints.
	ErrValidation = errors.New("validation failed")

	// ErrBadRequest: the request could not be read at all (malformed JSON,
	// non-numeric id, ...).
	ErrBadRequest = errors.New("bad request")
)

// Error is a domain error with a human-readable message.
type Error struct {
	Kind    error
	Message string

	// Details lists one message per failing field for ErrValidation.
	Details []string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.Error()
}

// Unwrap lets errors.Is(err, ErrNotFound) see through the message.
func (e *Error) Unwrap() error {
	return e.Kind
}

// NotFound creates an ErrNotFound error with a formatted message.
func NotFound(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflict creates an ErrConflict error with a formatted message.
func Conflict(format string, args ...any) error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

// Validation creates an ErrValidation error carrying per-field details.
func Validation(details []string) error {
	return &Error{Kind: ErrValidation, Message: "Dados de entrada inválidos", Details: details}
}

// BadRequest creates an ErrBadRequest error with a formatted message.
func BadRequest(format string, args ...any) error {
	return &Error{Kind: ErrBadRequest, Message: fmt.Sprintf(format, args...)}
}

// Details returns the field details of the first *Error in err's chain.
func Details(err error) []string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Details
	}
	return nil
}

// Message returns the message of the first *Error in err's chain, or ""
// if there is none.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return ""
}
