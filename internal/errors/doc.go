// Package apperrors defines the structured error types shared by the
// generators, the device shell, the HTTP server and the CLI, together with
// the mapping from errors to process exit codes.
//
// All wrapper types implement Unwrap so that errors.Is and errors.As see
// through them.
package apperrors
