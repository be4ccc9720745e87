// Package errors carries machine-readable error codes across the citegraph
// layers. The explorer tags failures with a code, and the CLI, TUI, and HTTP
// server each map codes to their own surface (exit message, status line,
// status code) without string matching.
//
//	err := errors.New(errors.ErrCodeInvalidInput, "empty search title")
//	if errors.Is(err, errors.ErrCodeInvalidInput) { ... }
//	err = errors.Wrap(errors.ErrCodeNetwork, cause, "fetch %s", url)
package errors

import (
	"errors"
	"fmt"
)

// Code classifies an error for programmatic handling.
type Code string

const (
	// Validation
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeInvalidNode  Code = "INVALID_NODE"

	// Missing resources
	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodePaperNotFound Code = "PAPER_NOT_FOUND"
	ErrCodeNodeNotFound  Code = "NODE_NOT_FOUND"

	// Upstream failures
	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeRateLimited Code = "RATE_LIMITED"

	// Upstream data quality
	ErrCodeMalformedRecord Code = "MALFORMED_RECORD"

	// Bugs
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error pairs a code with a human-readable message and optional cause.
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

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap annotates cause with a code and message.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether any *Error in err's chain carries code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode returns the code of the first *Error in err's chain, or "" when
// there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix, suitable for
// the TUI status line. Plain errors pass through unchanged.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsRecoverable reports whether the error leaves the graph in a consistent
// state that allows the user to retry the operation. All errors in this
// subsystem are recoverable; only internal errors indicate a bug.
func IsRecoverable(err error) bool {
	return GetCode(err) != ErrCodeInternal
}
