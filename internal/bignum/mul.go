package bignum

import (
	"math/bits"

	"github.com/rs/zerolog/log"
)

// MinNTTBytes is the smallest significant byte length, for both operands,
// at which Mul uses the transform multiplier.
const MinNTTBytes = 2

// MulSchoolbook sets out to a * b using the quadratic limb-by-limb method
// and returns out. out may alias a or b.
//
// Each 64x64-bit partial product is formed in 128 bits. Two carries feed the
// high half: the one from adding the low half into the accumulator and the
// one from adding the running row carry. The row carry left after the last
// limb of b lands in the next, still untouched, accumulator limb.
func MulSchoolbook(out, a, b *BigUint) *BigUint {
	if a.IsZero() || b.IsZero() {
		return out.SetUint64(0)
	}
	al, bl := a.limbs, b.limbs
	n := len(al) + len(bl)

	var prod []Limb
	if out == a || out == b {
		prod = make([]Limb, n, n+1)
	} else {
		prod = out.grow(n)
		clear(prod)
	}

	for i, x := range al {
		if x == 0 {
			continue
		}
		var carry uint64
		for j, y := range bl {
			hi, lo := bits.Mul64(x, y)
			var c uint64
			lo, c = bits.Add64(lo, prod[i+j], 0)
			hi += c
			lo, c = bits.Add64(lo, carry, 0)
			hi += c
			prod[i+j] = lo
			carry = hi
		}
		prod[i+len(bl)] = carry
	}

	out.limbs = prod
	return out.Trim()
}

// Mul sets out to a * b and returns out. out may alias a or b.
//
// Operands with fewer than MinNTTBytes significant bytes go to the schoolbook
// multiplier. Everything else is tried with the transform multiplier first
// and falls back to schoolbook when the transform cannot represent the
// product exactly.
func Mul(out, a, b *BigUint) *BigUint {
	return MulWithThreshold(out, a, b, MinNTTBytes)
}

// MulWithThreshold is Mul with a caller-chosen byte threshold for the
// transform multiplier. A threshold below 1 is treated as MinNTTBytes.
func MulWithThreshold(out, a, b *BigUint, minNTTBytes int) *BigUint {
	if minNTTBytes < 1 {
		minNTTBytes = MinNTTBytes
	}
	if a.significantBytes() < minNTTBytes || b.significantBytes() < minNTTBytes {
		return MulSchoolbook(out, a, b)
	}
	if err := MulNTT(out, a, b); err != nil {
		log.Debug().
			Err(err).
			Int("limbs_a", a.Len()).
			Int("limbs_b", b.Len()).
			Msg("ntt multiply unavailable, falling back to schoolbook")
		return MulSchoolbook(out, a, b)
	}
	return out
}

// significantBytes returns the number of bytes needed to hold z, 0 for zero.
func (z *BigUint) significantBytes() int {
	top := len(z.limbs) - 1
	return top*8 + 8 - bits.LeadingZeros64(z.limbs[top])>>3
}
