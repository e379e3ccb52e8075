package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for categorizing errors raised anywhere in the daemon, store,
// or CLI.
const (
	ErrConfig    = "CONFIG"
	ErrRunner    = "RUNNER"
	ErrStore     = "STORE"
	ErrCollector = "COLLECTOR"
	ErrCache     = "CACHE"
	ErrDaemon    = "DAEMON"
	ErrMisuse    = "MISUSE"
)

// Error represents a structured error with code, message, suggestion, and optional cause.
//
//	✗ <What failed>
//
//	  <Why it failed - technical details>
//
//	  <How to fix it - actionable steps>
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Cause      error
}

// New creates a new structured error with the given code, message, and suggestion.
func New(code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
	}
}

// Wrap wraps an existing error with a message, defaulting to ErrDaemon code.
func Wrap(err error, message string) *Error {
	return &Error{
		Code:    ErrDaemon,
		Message: message,
		Cause:   err,
	}
}

// WrapWithCode wraps an existing error with a specific code, message, and suggestion.
func WrapWithCode(err error, code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
		Cause:      err,
	}
}

// NewMisuse creates an error for a bad CLI invocation (unknown verb/flag).
func NewMisuse(message, suggestion string) *Error {
	return &Error{
		Code:       ErrMisuse,
		Message:    message,
		Suggestion: suggestion,
	}
}

// Error implements the error interface with the ✗/why/how rendering.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("✗ %s\n", e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Cause.Error()))
	}

	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Suggestion))
	}

	return b.String()
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsCode checks if an error is a structured Error with the given code.
func IsCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var cicErr *Error
	if errors.As(err, &cicErr) {
		return cicErr.Code == code
	}
	return false
}

// ExitError carries a desired process exit code up to main, mirroring the
// CLI's exit code contract (spec.md §4.9): 0 success, 1 operational
// failure, 2 misuse, 3 precondition failure.
type ExitError struct {
	Code int
}

func NewExitError(code int) *ExitError {
	return &ExitError{Code: code}
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// ExitCodeFor maps a structured Error's category to the CLI's exit code
// contract. Unstructured errors default to 1 (operational failure).
func ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	var cicErr *Error
	if errors.As(err, &cicErr) {
		switch cicErr.Code {
		case ErrMisuse:
			return 2
		case ErrStore:
			return 3
		default:
			return 1
		}
	}
	return 1
}
