// Package errors provides structured error types for quasiclique.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library and the CLI
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes map onto the failure taxonomy of a quasi-clique job:
//   - SCHEMA_ERROR, INVALID_CONFIG: fatal, raised before any record is processed
//   - INVALID_RECORD: a single input line is malformed; the line is dropped
//   - WRONG_RECORD_KIND: a caller asked for the edge view of a membership
//     line (or the reverse); local to that call site
//   - INTERNAL_ERROR: unexpected internal failures
//
// A missing result is not an error. The pipeline reports it as an empty result.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeSchema, "unknown target type %q", name)
//	if errors.Is(err, errors.ErrCodeSchema) {
//	    // abort the job
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidRecord, origErr, "node id %q", field)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Configuration errors (fatal)
	ErrCodeSchema        Code = "SCHEMA_ERROR"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Record errors (recoverable)
	ErrCodeInvalidRecord   Code = "INVALID_RECORD"
	ErrCodeWrongRecordKind Code = "WRONG_RECORD_KIND"

	// Input errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeNotFound     Code = "NOT_FOUND"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

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

// IsFatal reports whether err must abort a job rather than drop one record.
func IsFatal(err error) bool {
	switch GetCode(err) {
	case ErrCodeSchema, ErrCodeInvalidConfig, ErrCodeInternal:
		return true
	}
	return false
}

// LineError attaches an input line number to a record-level error.
type LineError struct {
	Line int // 1-based line number
	Err  error
}

// Error implements the error interface.
func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// Unwrap returns the wrapped error.
func (e *LineError) Unwrap() error { return e.Err }
