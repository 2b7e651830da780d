// Package errors provides structured error types for beamsplit.
//
// Errors carry a machine-readable [Code] so the CLI and the HTTP API can
// react to a failure class (bad grid, misuse of the engine, configuration)
// without matching on message text.
//
// # Error Codes
//
// Codes follow a simple naming convention:
//   - Grid shape problems: EMPTY_GRID, RAGGED_ROWS, MISSING_SOURCE, MULTIPLE_SOURCES
//   - Engine lifecycle misuse: NOT_TRAVERSED, ALREADY_TRAVERSED
//   - INVALID_*: other input and configuration failures
//   - INTERNAL_*: unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMissingSource, "no %q marker in %d rows", "S", rows)
//	if errors.Is(err, errors.ErrCodeMissingSource) {
//	    // Handle malformed grid
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeFileNotFound, origErr, "read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Grid loading errors
	ErrCodeEmptyGrid       Code = "EMPTY_GRID"
	ErrCodeRaggedRows      Code = "RAGGED_ROWS"
	ErrCodeMissingSource   Code = "MISSING_SOURCE"
	ErrCodeMultipleSources Code = "MULTIPLE_SOURCES"

	// Engine lifecycle errors
	ErrCodeNotTraversed        Code = "NOT_TRAVERSED"
	ErrCodeAlreadyTraversed    Code = "ALREADY_TRAVERSED"
	ErrCodeUnreachableSplitter Code = "UNREACHABLE_SPLITTER"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// inputCodes are the codes caused by the caller's input rather than by the
// system. The HTTP API maps them to 400.
var inputCodes = map[Code]bool{
	ErrCodeEmptyGrid:           true,
	ErrCodeRaggedRows:          true,
	ErrCodeMissingSource:       true,
	ErrCodeMultipleSources:     true,
	ErrCodeUnreachableSplitter: true,
	ErrCodeInvalidInput:        true,
	ErrCodeInvalidPath:         true,
}

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsInputError reports whether err was caused by invalid caller input.
func IsInputError(err error) bool {
	return inputCodes[GetCode(err)]
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
