package fibonacci

import (
	"context"
	"math/bits"

	"github.com/agbru/fibdrv/internal/bignum"
	"github.com/agbru/fibdrv/internal/fibonacci/memory"
	"github.com/agbru/fibdrv/internal/progress"
)

// FastDoubling returns F(k) computed with the fast doubling recurrence and
// default options. A negative k yields a ValidationError wrapping
// ErrNegativeIndex. The context is checked between doubling steps.
func FastDoubling(ctx context.Context, k int64) (*bignum.BigUint, error) {
	n, err := validateIndex(k)
	if err != nil {
		return nil, err
	}
	return fastDoubling(ctx, n, normalizeOptions(Options{}), progress.Nop)
}

// DoublingCalculator computes F(n) with the "Fast Doubling" recurrence:
//
//	F(2n)   = F(n) * (2*F(n+1) - F(n))
//	F(2n+1) = F(n)² + F(n+1)²
//
// Starting from (F(1), F(2)) it consumes the bits of n below the leading
// one, from the most significant down. Each step doubles the index and, when
// the bit is set, advances it by one more, so the loop performs O(log n)
// steps of three multiplications each.
type DoublingCalculator struct{}

// Name returns the descriptive name of the algorithm.
func (*DoublingCalculator) Name() string {
	return "Fast Doubling (O(log n), NTT)"
}

// CalculateCore computes F(n) using the Fast Doubling algorithm.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - reporter: The function used for reporting progress.
//   - n: The index of the Fibonacci number to calculate.
//   - opts: Configuration options for the calculation.
//
// Returns:
//   - *bignum.BigUint: The calculated Fibonacci number.
//   - error: An error if one occurred (e.g., context cancellation).
func (*DoublingCalculator) CalculateCore(ctx context.Context, reporter ProgressCallback, n uint64, opts Options) (*bignum.BigUint, error) {
	return fastDoubling(ctx, n, normalizeOptions(opts), reporter)
}

// doublingState holds the registers of one run: the pair (F(m), F(m+1)) and
// two scratch values. All four come from one arena.
type doublingState struct {
	a, b, c, d *bignum.BigUint
}

func newDoublingState(n uint64) *doublingState {
	arena := memory.NewCalculationArena(n)
	s := &doublingState{
		a: arena.Alloc(),
		b: arena.Alloc(),
		c: arena.Alloc(),
		d: arena.Alloc(),
	}
	s.a.SetUint64(1)
	s.b.SetUint64(1)
	return s
}

// step advances (F(m), F(m+1)) to (F(2m), F(2m+1)), or to (F(2m+1), F(2m+2))
// when bitSet is true.
func (s *doublingState) step(bitSet bool, minNTTBytes int) {
	// d = F(m+1)² + F(m)² = F(2m+1)
	bignum.MulWithThreshold(s.d, s.b, s.b, minNTTBytes)
	bignum.MulWithThreshold(s.c, s.a, s.a, minNTTBytes)
	bignum.AddInto(s.d, s.c)

	// c = F(m) * (2*F(m+1) - F(m)) = F(2m). The difference is never
	// negative because F(m+1) >= F(m).
	s.b.Lsh(1)
	s.b.SubAbs(s.b, s.a)
	bignum.MulWithThreshold(s.c, s.b, s.a, minNTTBytes)

	if bitSet {
		// c = F(2m) + F(2m+1) = F(2m+2)
		bignum.AddInto(s.c, s.d)
		s.a, s.b, s.c, s.d = s.d, s.c, s.a, s.b
		return
	}
	s.a, s.b, s.c, s.d = s.c, s.d, s.a, s.b
}

func fastDoubling(ctx context.Context, n uint64, opts Options, reporter ProgressCallback) (*bignum.BigUint, error) {
	if n <= MaxDirectIndex {
		if n == 0 {
			return bignum.NewFromUint64(0), nil
		}
		return bignum.NewFromUint64(1), nil
	}

	s := newDoublingState(n)
	numBits := bits.Len64(n) - 1
	totalWork := progress.CalcTotalWork(numBits)
	powers := progress.PrecomputePowers4(numBits)
	var workDone, lastReported float64

	for i := numBits - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s.step((n>>uint(i))&1 == 1, opts.NTTMinBytes)
		workDone = progress.ReportStepProgress(reporter, &lastReported, totalWork, workDone, i, numBits, powers)
	}
	return s.a, nil
}
