// Package clierr defines structured error types for CLI commands.
// Errors carry a machine-readable code, a human-readable message,
// and optional details for scripted consumers.
package clierr

import "fmt"

// Error code constants, uppercase and underscore-separated.
const (
	ConfigNotFound      = "CONFIG_NOT_FOUND"
	ConfigAlreadyExists = "CONFIG_ALREADY_EXISTS"
	SnapshotNotFound    = "SNAPSHOT_NOT_FOUND"
	TaskNotFound        = "TASK_NOT_FOUND"
	ViewNotFound        = "VIEW_NOT_FOUND"
	InvalidGroupBy      = "INVALID_GROUP_BY"
	InvalidSort         = "INVALID_SORT"
	InvalidInput        = "INVALID_INPUT"
	InternalError       = "INTERNAL_ERROR"
)

// Error represents a structured CLI error with a machine-readable code.
type Error struct {
	Code    string
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }

// New creates an Error with the given code and message.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithDetails returns the error with the given details map attached.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// ExitCode returns 2 for InternalError, 1 for all others.
func (e *Error) ExitCode() int {
	if e.Code == InternalError {
		return 2 //nolint:mnd // exit code 2 for internal errors
	}
	return 1
}
