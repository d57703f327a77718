package orchestration

import (
	"io"
	"sync"
	"time"

	"github.com/agbru/fibdrv/internal/bignum"
	"github.com/agbru/fibdrv/internal/progress"
)

// CalculationResult encapsulates the outcome of a single Fibonacci calculation.
// It serves as the shared domain type between orchestration and presentation layers.
type CalculationResult struct {
	// Name is the display name of the generator used.
	Name string
	// Result is the computed Fibonacci number. It is nil if an error occurred.
	Result *bignum.BigUint
	// Duration is the time taken to complete the calculation.
	Duration time.Duration
	// Err contains any error that occurred during the calculation.
	Err error
}

// OutputFormat selects how a result value is rendered.
type OutputFormat int

const (
	// FormatDecimal renders base-10 digits.
	FormatDecimal OutputFormat = iota
	// FormatHex renders base-16 digits with a 0x prefix.
	FormatHex
	// FormatLimbs renders the little-endian 64-bit limb array.
	FormatLimbs
)

// PresentationOptions configures how results are presented to the user.
type PresentationOptions struct {
	N         uint64
	Verbose   bool
	Details   bool
	ShowValue bool
	Format    OutputFormat
}

// ProgressReporter displays calculation progress. It keeps the
// orchestration layer independent of spinners, bars and dashboards.
type ProgressReporter interface {
	// DisplayProgress consumes updates until progressChan is closed, then
	// calls wg.Done. It runs in its own goroutine.
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numCalculators int, out io.Writer)
}

// ProgressReporterFunc is a function adapter that implements ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numCalculators int, out io.Writer)

// DisplayProgress calls the underlying function.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numCalculators int, out io.Writer) {
	f(wg, progressChan, numCalculators, out)
}

// NullProgressReporter drains the progress channel without displaying
// anything. It is used in quiet mode and in tests.
type NullProgressReporter struct{}

// DisplayProgress drains the channel without output.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	DrainChannel(progressChan)
}

// ResultPresenter renders calculation results.
type ResultPresenter interface {
	// PresentComparisonTable displays the comparison summary table.
	PresentComparisonTable(results []CalculationResult, out io.Writer)

	// PresentResult displays the final calculation result.
	PresentResult(result CalculationResult, opts PresentationOptions, out io.Writer)
}

// ErrorHandler handles calculation errors and returns exit codes.
type ErrorHandler interface {
	HandleError(err error, duration time.Duration, out io.Writer) int
}
