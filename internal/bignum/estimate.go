package bignum

import "math"

// Fixed-point constants for sizing F(k): bits(F(k)) ~ k*log2(phi) - log2(sqrt 5).
const (
	Log2Phi   = 0.69424
	Log2Sqrt5 = 1.16096

	// Scaled integer forms used by EstimateFibLimbs.
	log2PhiScaled   = 69424
	log2Sqrt5Scaled = 116096
	log2Scale       = 100000
)

// EstimateFibBits returns an estimate of the bit length of F(k). It is
// intended for pre-sizing buffers; it can be off by a few bits in either
// direction for very large k.
func EstimateFibBits(k uint64) uint64 {
	if k < 2 {
		return 1
	}
	b := float64(k)*Log2Phi - Log2Sqrt5
	if b < 1 {
		return 1
	}
	return uint64(math.Ceil(b))
}

// EstimateFibLimbs returns the number of limbs to reserve for F(k). It uses
// integer arithmetic for every k whose scaled product fits in a uint64.
func EstimateFibLimbs(k uint64) int {
	if k < 2 {
		return 1
	}
	if k > math.MaxUint64/log2PhiScaled {
		return int(EstimateFibBits(k)/64) + 1
	}
	return int((k*log2PhiScaled-log2Sqrt5Scaled)/log2Scale/64) + 1
}

// NewForFib returns a zero value with capacity for F(k).
func NewForFib(k uint64) *BigUint {
	return New(EstimateFibLimbs(k))
}
