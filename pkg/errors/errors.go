// Package errors provides structured errors shared by the Strut CLI and API.
//
// Every error carries a machine-readable [Code] so the HTTP layer can map
// failures to status codes and clients can branch without string matching.
// Codes group by prefix: INVALID_* for rejected input, NOT_FOUND* for
// missing resources, and the rest for backend or internal failures.
//
// Usage:
//
//	err := errors.New(errors.ErrCodeInvalidRule, "invalid rule: %s", spec)
//	if errors.Is(err, errors.ErrCodeInvalidRule) {
//	    // rejected input
//	}
//
//	err = errors.Wrap(errors.ErrCodeInternal, cause, "solve %d rules", n)
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	// Input validation
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidRule      Code = "INVALID_RULE"
	ErrCodeInvalidTotal     Code = "INVALID_TOTAL"
	ErrCodeInvalidFlex      Code = "INVALID_FLEX"
	ErrCodeInvalidDirection Code = "INVALID_DIRECTION"
	ErrCodeInvalidSpec      Code = "INVALID_SPEC"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"

	// Missing resources
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Backend failures
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	// Everything else
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error pairs a code with a human-readable message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the cause to errors.Is/As.
func (e *Error) Unwrap() error { return e.Cause }

// New creates an Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error around an existing cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// GetCode extracts the code from err, or "" if err is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix for *Error
// values, and err.Error() for anything else.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
