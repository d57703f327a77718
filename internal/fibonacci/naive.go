package fibonacci

import (
	"context"

	"github.com/agbru/fibdrv/internal/bignum"
	"github.com/agbru/fibdrv/internal/progress"
)

// Naive returns F(k) by k-1 big additions. It exists as an oracle for the
// doubling generator and as a slow baseline for benchmarks. A negative k
// yields a ValidationError wrapping ErrNegativeIndex.
func Naive(ctx context.Context, k int64) (*bignum.BigUint, error) {
	n, err := validateIndex(k)
	if err != nil {
		return nil, err
	}
	return naive(ctx, n, progress.Nop)
}

// NaiveCalculator computes F(n) by repeated addition. Each step adds the
// two running values into the smaller one, so the registers alternate
// between F(i) and F(i+1) without copying.
type NaiveCalculator struct{}

// Name returns the descriptive name of the algorithm.
func (*NaiveCalculator) Name() string {
	return "Naive (O(n), Iterative Addition)"
}

// CalculateCore computes F(n) by iterative addition.
func (*NaiveCalculator) CalculateCore(ctx context.Context, reporter ProgressCallback, n uint64, _ Options) (*bignum.BigUint, error) {
	return naive(ctx, n, reporter)
}

func naive(ctx context.Context, n uint64, reporter ProgressCallback) (*bignum.BigUint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a := bignum.NewForFib(n)
	b := bignum.NewForFib(n)
	b.SetUint64(1)

	for i := uint64(1); i < n; i++ {
		if i%naiveCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			reporter(float64(i) / float64(n))
		}
		bignum.AddToSmaller(a, b)
	}

	if n&1 == 1 {
		return b, nil
	}
	return a, nil
}
