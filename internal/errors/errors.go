package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Application exit codes define the standard exit statuses for the application.
const (
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates a generic error.
	ExitErrorTimeout  = 2   // Indicates the operation timed out.
	ExitErrorMismatch = 3   // Indicates that two generators disagreed on F(n).
	ExitErrorConfig   = 4   // Indicates a configuration or input error.
	ExitErrorCanceled = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ConfigError represents a user configuration error, such as an invalid flag,
// environment variable or configuration file entry.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError formats a ConfigError.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// ValidationError represents an input validation failure, such as a negative
// Fibonacci index. Cause, when set, is the sentinel describing the failure.
type ValidationError struct {
	// Field is the name of the input that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
	// Cause is an optional sentinel error for errors.Is checks.
	Cause error
}

// Error returns a formatted message describing the validation failure.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// Unwrap returns the optional sentinel cause.
func (e ValidationError) Unwrap() error { return e.Cause }

// MemoryError reports that an operation would need more memory than the
// configured budget. It is raised before any allocation takes place.
type MemoryError struct {
	// Requested is the estimated number of bytes the operation needs.
	Requested uint64
	// Available is the number of bytes the budget still allows.
	Available uint64
	// Limit is the configured memory limit in bytes.
	Limit uint64
}

// Error returns a formatted message describing the memory error.
func (e MemoryError) Error() string {
	return fmt.Sprintf("memory error: requested %d bytes, available %d bytes (limit: %d)", e.Requested, e.Available, e.Limit)
}

// BusyError reports that a single-writer resource is already held by
// another session.
type BusyError struct {
	// Resource names the contended resource.
	Resource string
}

// Error returns a formatted message naming the busy resource.
func (e BusyError) Error() string {
	return fmt.Sprintf("%s is busy", e.Resource)
}

// ServerError reports a failure while starting or stopping the HTTP server.
type ServerError struct {
	// Message describes the failed lifecycle step.
	Message string
	// Cause is the underlying error.
	Cause error
}

// Error returns the message followed by the cause, if any.
func (e ServerError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

// Unwrap returns the underlying cause.
func (e ServerError) Unwrap() error { return e.Cause }

// NewServerError creates a ServerError.
func NewServerError(message string, cause error) error {
	return ServerError{Message: message, Cause: cause}
}

// ExitCodeFor maps an error to the process exit code the CLI should use.
func ExitCodeFor(err error) int {
	var (
		cfgErr ConfigError
		valErr ValidationError
		memErr MemoryError
	)
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case errors.As(err, &cfgErr), errors.As(err, &valErr), errors.As(err, &memErr):
		return ExitErrorConfig
	default:
		return ExitErrorGeneric
	}
}
