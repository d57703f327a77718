// Package fibonacci provides the Fibonacci generators built on the bignum
// engine. It exposes a `Calculator` interface that abstracts the underlying
// algorithm so that the fast doubling generator and the naive oracle can be
// run, compared and benchmarked interchangeably.
package fibonacci

//go:generate mockgen -source=calculator.go -destination=mocks/mock_calculator.go -package=mocks

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/agbru/fibdrv/internal/bignum"
	apperrors "github.com/agbru/fibdrv/internal/errors"
	"github.com/agbru/fibdrv/internal/fibonacci/memory"
	"github.com/agbru/fibdrv/internal/logging"
	"github.com/agbru/fibdrv/internal/ntt"
	"github.com/agbru/fibdrv/internal/progress"
)

var (
	calculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fibonacci_calculations_total",
			Help: "The total number of Fibonacci calculations processed",
		},
		[]string{"algorithm", "status"},
	)
	calculationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "fibonacci_calculation_duration_seconds",
			Help: "The duration of Fibonacci calculations in seconds",
		},
		[]string{"algorithm"},
	)
)

// Calculator defines the public interface for a Fibonacci calculator.
// It is the primary abstraction used by the orchestration layer, the device
// shell and the HTTP server to run a generator.
type Calculator interface {
	// Calculate executes the calculation of the n-th Fibonacci number. It is
	// safe for concurrent use and supports cancellation through the provided
	// context. Progress updates are sent asynchronously to the progressChan.
	//
	// Parameters:
	//   - ctx: The context for managing cancellation and deadlines.
	//   - progressChan: The channel for sending progress updates.
	//   - calcIndex: A unique index for the calculator instance.
	//   - n: The index of the Fibonacci number to calculate.
	//   - opts: Configuration options for the calculation.
	//
	// Returns:
	//   - *bignum.BigUint: The calculated Fibonacci number.
	//   - error: An error if one occurred (e.g., context cancellation).
	Calculate(ctx context.Context, progressChan chan<- ProgressUpdate, calcIndex int, n uint64, opts Options) (*bignum.BigUint, error)

	// Name returns the display name of the calculation algorithm.
	Name() string
}

// coreCalculator is a pure generator without the cross-cutting concerns.
type coreCalculator interface {
	CalculateCore(ctx context.Context, reporter ProgressCallback, n uint64, opts Options) (*bignum.BigUint, error)
	Name() string
}

// FibCalculator implements Calculator by decorating a coreCalculator with
// metrics, tracing, the memory budget check, garbage collector control and
// the single-limb shortcut for small n.
type FibCalculator struct {
	core coreCalculator
}

// NewCalculator wraps core in a FibCalculator. It panics if core is nil.
//
// Parameters:
//   - core: The core calculator to be wrapped.
//
// Returns:
//   - Calculator: A new FibCalculator instance implementing the Calculator interface.
func NewCalculator(core coreCalculator) Calculator {
	if core == nil {
		panic("fibonacci: the `coreCalculator` implementation cannot be nil")
	}
	return &FibCalculator{core: core}
}

// Name returns the name of the encapsulated coreCalculator.
func (c *FibCalculator) Name() string {
	return c.core.Name()
}

// Calculate runs the calculation, forwarding progress to progressChan when
// it is not nil. Every index, small ones included, goes through the core,
// so generators can be cross-checked over the whole range. When logging was
// set up at debug level, progress steps of 25% are also logged.
// See CalculateWithObservers for the observer-based form.
func (c *FibCalculator) Calculate(ctx context.Context, progressChan chan<- ProgressUpdate, calcIndex int, n uint64, opts Options) (*bignum.BigUint, error) {
	subject := NewProgressSubject()
	if progressChan != nil {
		subject.Register(NewChannelObserver(progressChan))
	}
	if logging.DebugEnabled() {
		subject.Register(progress.NewLoggingObserver(log.Logger.With().Str("algorithm", c.core.Name()).Logger(), 0.25))
	}
	return c.CalculateWithObservers(ctx, subject, calcIndex, n, opts)
}

// CalculateWithObservers executes the calculation with observer-based
// progress reporting.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - subject: The progress subject with registered observers. If nil, progress is ignored.
//   - calcIndex: A unique index for the calculator instance.
//   - n: The index of the Fibonacci number to calculate.
//   - opts: Configuration options for the calculation.
//
// Returns:
//   - *bignum.BigUint: The calculated Fibonacci number.
//   - error: An error if one occurred.
func (c *FibCalculator) CalculateWithObservers(ctx context.Context, subject *ProgressSubject, calcIndex int, n uint64, opts Options) (result *bignum.BigUint, err error) {
	tracer := otel.Tracer("fibonacci")
	ctx, span := tracer.Start(ctx, "Calculate")
	span.SetAttributes(
		attribute.String("fibonacci.algorithm", c.core.Name()),
		attribute.Int64("fibonacci.n", int64(n)),
	)
	defer span.End()

	start := time.Now()
	defer func() {
		duration := time.Since(start).Seconds()
		status := "success"
		if err != nil {
			status = "error"
			span.RecordError(err)
		}
		algoName := c.core.Name()
		calculationsTotal.WithLabelValues(algoName, status).Inc()
		calculationDuration.WithLabelValues(algoName).Observe(duration)

		log.Debug().
			Str("algo", algoName).
			Uint64("n", n).
			Float64("duration", duration).
			Str("status", status).
			Msg("calculation completed")
	}()

	// Observers are fixed for the whole run, so report through a snapshot.
	reporter := ProgressCallback(func(float64) {})
	if subject != nil {
		reporter = subject.Freeze(calcIndex)
	}

	opts = normalizeOptions(opts)
	if err := checkMemoryBudget(n, opts.MemoryLimit); err != nil {
		return nil, err
	}

	warmTransformPools(n)

	gc := memory.NewGCController(opts.GCMode, n)
	gc.SetLogger(log.Logger)
	gc.Begin()
	defer gc.End()

	result, err = c.core.CalculateCore(ctx, reporter, n, opts)
	if err == nil && result != nil {
		reporter(1.0)
	}
	return result, err
}

// checkMemoryBudget fails with a MemoryError when the estimated peak of
// computing F(n) exceeds limit. A zero limit disables the check.
func checkMemoryBudget(n, limit uint64) error {
	if limit == 0 {
		return nil
	}
	est := memory.EstimateMemoryUsage(n)
	if est.TotalBytes > limit {
		return apperrors.MemoryError{
			Requested: est.TotalBytes,
			Available: limit,
			Limit:     limit,
		}
	}
	return nil
}

// warmTransformPools pre-fills the transform buffer pools when the final
// multiplications of F(n) are small enough to run through the transform.
func warmTransformPools(n uint64) {
	est := memory.EstimateMemoryUsage(n)
	operandBytes := est.ResultLimbs * 4
	if operandBytes > ntt.Default.MaxDigitTerms() {
		return
	}
	ntt.EnsurePoolsWarmed(ntt.NextPow2(2 * operandBytes))
}
