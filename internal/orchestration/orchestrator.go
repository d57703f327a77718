package orchestration

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/agbru/fibdrv/internal/bignum"
	apperrors "github.com/agbru/fibdrv/internal/errors"
	"github.com/agbru/fibdrv/internal/fibonacci"
	"github.com/agbru/fibdrv/internal/progress"
)

// ProgressBufferMultiplier sizes the progress channel per calculator so
// that a slow display rarely blocks a generator.
const ProgressBufferMultiplier = 5

// ExecuteCalculations runs every calculator concurrently for index n and
// collects one result per calculator, in input order. A failing calculator
// does not cancel the others; each result carries its own error.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - calculators: The generators to run.
//   - n: The Fibonacci index.
//   - opts: Options passed to every generator.
//   - progressReporter: Display for progress updates (NullProgressReporter for quiet mode).
//   - out: The writer for progress output.
//
// Returns:
//   - []CalculationResult: One result per calculator.
func ExecuteCalculations(ctx context.Context, calculators []fibonacci.Calculator, n uint64, opts fibonacci.Options, progressReporter ProgressReporter, out io.Writer) []CalculationResult {
	results := make([]CalculationResult, len(calculators))
	progressChan := make(chan progress.ProgressUpdate, len(calculators)*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go progressReporter.DisplayProgress(&displayWg, progressChan, len(calculators), out)

	var g errgroup.Group
	for i, calc := range calculators {
		g.Go(func() error {
			start := time.Now()
			res, err := calc.Calculate(ctx, progressChan, i, n, opts)
			results[i] = CalculationResult{
				Name: calc.Name(), Result: res, Duration: time.Since(start), Err: err,
			}
			if err != nil {
				log.Debug().Err(err).Str("algorithm", calc.Name()).Uint64("n", n).Msg("calculation failed")
			}
			return nil
		})
	}

	_ = g.Wait()
	close(progressChan)
	displayWg.Wait()

	return results
}

// AnalyzeComparisonResults sorts the results (successes first, then by
// duration), presents the comparison table, cross-checks the successful
// values and presents the fastest one.
//
// Returns:
//   - int: ExitSuccess, ExitErrorMismatch when two generators disagree, or
//     the error handler's code when every generator failed.
func AnalyzeComparisonResults(results []CalculationResult, opts PresentationOptions, presenter ResultPresenter, errHandler ErrorHandler, out io.Writer) int {
	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})

	var firstValid *CalculationResult
	var firstError error
	for i := range results {
		if results[i].Err != nil {
			if firstError == nil {
				firstError = results[i].Err
			}
			continue
		}
		if firstValid == nil {
			firstValid = &results[i]
		}
	}

	presenter.PresentComparisonTable(results, out)

	if firstValid == nil {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No algorithm could complete the calculation.\n")
		return errHandler.HandleError(firstError, 0, out)
	}

	if bad := findMismatch(results, firstValid.Result); bad != nil {
		log.Error().Str("reference", firstValid.Name).Str("mismatch", bad.Name).Uint64("n", opts.N).Msg("generators disagree")
		fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! %s and %s returned different values.\n", firstValid.Name, bad.Name)
		return apperrors.ExitErrorMismatch
	}

	fmt.Fprintf(out, "\nGlobal Status: Success. All valid results are consistent.\n")
	presenter.PresentResult(*firstValid, opts, out)
	return apperrors.ExitSuccess
}

// findMismatch returns the first successful result whose value differs
// from ref, or nil.
func findMismatch(results []CalculationResult, ref *bignum.BigUint) *CalculationResult {
	for i := range results {
		r := &results[i]
		if r.Err == nil && r.Result != nil && bignum.Compare(r.Result, ref) != 0 {
			return r
		}
	}
	return nil
}
