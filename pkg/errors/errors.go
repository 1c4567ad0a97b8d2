// Package errors provides structured error types for the gitscape application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Every failure an engine can report carries one of the Code constants below.
// Codes group into:
//   - UNKNOWN_*: a referenced commit or branch does not exist
//   - SELF_PARENT, SAME_BRANCH, INVALID_NAME: invalid operations on valid entities
//   - CYCLE_DETECTED: a re-parent would make an ancestor its own descendant
//   - ALREADY_MERGED: informational merge no-op, not a true failure
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownBranch, "no branch named %q", name)
//	if errors.Is(err, errors.ErrCodeUnknownBranch) {
//	    // Handle unknown branch
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInternal, origErr, "load session %s", id)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different failure categories.
const (
	// Unknown entity errors
	ErrCodeUnknownBranch Code = "UNKNOWN_BRANCH"
	ErrCodeUnknownCommit Code = "UNKNOWN_COMMIT"
	ErrCodeMissingHead   Code = "MISSING_HEAD"

	// Invalid operation errors
	ErrCodeSelfParent  Code = "SELF_PARENT"
	ErrCodeSameBranch  Code = "SAME_BRANCH"
	ErrCodeInvalidName Code = "INVALID_NAME"

	// Structural errors
	ErrCodeCycleDetected Code = "CYCLE_DETECTED"

	// Informational (merge no-op, not a true failure)
	ErrCodeAlreadyMerged Code = "ALREADY_MERGED"

	// Session errors
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"
	ErrCodeSessionExpired  Code = "SESSION_EXPIRED"

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

// Informational reports whether err is a notice rather than a real failure.
// ALREADY_MERGED is the only informational code: the requested merge is a
// no-op because the source head is already an ancestor of the target head.
func Informational(err error) bool {
	return Is(err, ErrCodeAlreadyMerged)
}
