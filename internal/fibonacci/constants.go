package fibonacci

import "github.com/agbru/fibdrv/internal/bignum"

// ─────────────────────────────────────────────────────────────────────────────
// Size Constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	// MaxFibUint64 is the largest index whose Fibonacci number fits in one
	// limb: F(93) = 12200160415121876738 < 2^64 <= F(94).
	MaxFibUint64 = 93

	// MaxDirectIndex is the largest index the doubling generator answers
	// without entering its loop.
	MaxDirectIndex = 2
)

// ─────────────────────────────────────────────────────────────────────────────
// Multiplication Tuning Constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	// DefaultNTTMinBytes is the default operand size, in significant bytes,
	// from which multiplications go through the transform multiplier.
	DefaultNTTMinBytes = bignum.MinNTTBytes

	// naiveCheckInterval is the number of additions the naive generator
	// performs between two context checks and progress reports.
	naiveCheckInterval = 1 << 12
)

// ─────────────────────────────────────────────────────────────────────────────
// Progress Reporting Constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	// FibonacciGrowthFactor is log2(phi), where phi ≈ 1.618 (golden ratio).
	// Used to estimate bit length of F(n).
	FibonacciGrowthFactor = bignum.Log2Phi
)
