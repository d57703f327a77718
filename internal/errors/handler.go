package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ColorProvider supplies terminal color codes. It lets this package format
// messages without importing the presentation packages.
type ColorProvider interface {
	Yellow() string
	Reset() string
}

// DefaultColorProvider provides no color codes (for non-terminal output).
type DefaultColorProvider struct{}

func (DefaultColorProvider) Yellow() string { return "" }
func (DefaultColorProvider) Reset() string  { return "" }

// HandleCalculationError prints a status line for a failed calculation and
// returns the matching exit code.
//
// Parameters:
//   - err: The error that occurred.
//   - duration: How long the calculation ran before failing (0 to omit).
//   - out: The writer for the status line.
//   - colors: Provider for terminal color codes (nil for no colors).
//
// Returns:
//   - int: The appropriate exit code for the error type.
func HandleCalculationError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}
	if colors == nil {
		colors = DefaultColorProvider{}
	}

	msgSuffix := ""
	if duration > 0 {
		msgSuffix = fmt.Sprintf(" after %s%s%s", colors.Yellow(), duration, colors.Reset())
	}

	var (
		memErr MemoryError
		valErr ValidationError
	)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		fmt.Fprintf(out, "Status: Failure (Timeout). The execution limit was reached%s.\n", msgSuffix)
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(out, "%sStatus: Canceled%s.%s\n", colors.Yellow(), msgSuffix, colors.Reset())
	case errors.As(err, &memErr):
		fmt.Fprintf(out, "Status: Failure (Memory). %v\n", memErr)
	case errors.As(err, &valErr):
		fmt.Fprintf(out, "Status: Failure (Invalid input). %v\n", valErr)
	default:
		fmt.Fprintf(out, "Status: Failure. An unexpected error occurred: %v\n", err)
	}
	return ExitCodeFor(err)
}
