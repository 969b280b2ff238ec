// Package errors provides structured error types for package-checker.
//
// Error codes separate the failures that abort a run (missing inputs,
// unwritable report sink) from the ones the scan recovers from per file
// (unparsable manifests, unreadable directories).
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidFormat, "missing delimiter in line %d", n)
//	if errors.Is(err, errors.ErrCodeInvalidFormat) {
//	    // Handle the malformed line
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeParse, origErr, "failed to parse %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Fatal input/output errors: the run cannot establish its inputs or
	// produce its report.
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeWrite         Code = "WRITE_ERROR"

	// Per-file errors recovered during the walk.
	ErrCodeParse      Code = "PARSE_ERROR"
	ErrCodePermission Code = "PERMISSION_DENIED"

	// Unexpected internal errors
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

// Recoverable reports whether err is a per-file error the walk should
// log and skip rather than abort on.
func Recoverable(err error) bool {
	switch GetCode(err) {
	case ErrCodeParse, ErrCodePermission:
		return true
	}
	return false
}
