package bignum

import (
	"encoding/binary"
	"math/bits"
)

// ToLimbArray returns a copy of x's normalized limbs, least significant
// first.
func ToLimbArray(x *BigUint) []Limb {
	out := make([]Limb, len(x.limbs))
	copy(out, x.limbs)
	return out
}

// Limbs is the method form of ToLimbArray.
func (z *BigUint) Limbs() []Limb {
	return ToLimbArray(z)
}

// EncodeMinimal serializes limbs as little-endian bytes, dropping the
// leading zero bytes of the most significant limb. A zero top limb keeps a
// single byte, so zero encodes as []byte{0}. An empty slice is treated as
// zero.
func EncodeMinimal(limbs []Limb) []byte {
	if len(limbs) == 0 {
		return []byte{0}
	}
	ms := limbs[len(limbs)-1]
	drop := 7
	if ms != 0 {
		drop = bits.LeadingZeros64(ms) >> 3
	}
	buf := make([]byte, len(limbs)*8)
	for i, l := range limbs {
		binary.LittleEndian.PutUint64(buf[i*8:], l)
	}
	return buf[:len(buf)-drop]
}

// Bytes returns the minimal little-endian encoding of z.
func (z *BigUint) Bytes() []byte {
	return EncodeMinimal(z.limbs)
}

// DecodeLimbs is the inverse of EncodeMinimal: it groups b into 64-bit
// little-endian limbs, zero-extending the last one, and trims zero limbs from
// the top. The result always has at least one limb.
func DecodeLimbs(b []byte) []Limb {
	n := (len(b) + 7) / 8
	limbs := make([]Limb, max(n, 1))
	for i := 0; i < n; i++ {
		var word [8]byte
		copy(word[:], b[i*8:])
		limbs[i] = binary.LittleEndian.Uint64(word[:])
	}
	for len(limbs) > 1 && limbs[len(limbs)-1] == 0 {
		limbs = limbs[:len(limbs)-1]
	}
	return limbs
}

// FromBytes decodes a little-endian byte string into a value.
func FromBytes(b []byte) *BigUint {
	return &BigUint{limbs: DecodeLimbs(b)}
}
