package bignum

import (
	"math/big"
	"math/rand"
)

// toBig converts x to a math/big value for use as a reference.
func toBig(x *BigUint) *big.Int {
	words := make([]big.Word, len(x.limbs))
	for i, l := range x.limbs {
		words[i] = big.Word(l)
	}
	return new(big.Int).SetBits(words)
}

// fromBig converts a non-negative math/big value.
func fromBig(b *big.Int) *BigUint {
	words := b.Bits()
	limbs := make([]Limb, len(words))
	for i, w := range words {
		limbs[i] = Limb(w)
	}
	return FromLimbs(limbs)
}

// mustBig parses a decimal string.
func mustBig(s string) *big.Int {
	b, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad decimal literal " + s)
	}
	return b
}

// randomBigUint returns a normalized value of up to n limbs.
func randomBigUint(rng *rand.Rand, n int) *BigUint {
	limbs := make([]Limb, 1+rng.Intn(n))
	for i := range limbs {
		switch rng.Intn(8) {
		case 0:
			limbs[i] = 0
		case 1:
			limbs[i] = ^uint64(0)
		default:
			limbs[i] = rng.Uint64()
		}
	}
	return FromLimbs(limbs)
}

// isNormalized reports whether x satisfies the representation invariant.
func isNormalized(x *BigUint) bool {
	if len(x.limbs) == 0 {
		return false
	}
	return len(x.limbs) == 1 || x.limbs[len(x.limbs)-1] != 0
}
