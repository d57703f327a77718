package bignum

import (
	"math"
	"math/bits"
)

// addLimb returns x + y + carry and the carry out of the limb. Overflow is
// detected by comparing against math.MaxUint64 before adding, so the sum
// itself never needs to be inspected.
func addLimb(x, y, carry uint64) (sum, carryOut uint64) {
	if x > math.MaxUint64-y {
		carryOut = 1
	}
	sum = x + y
	if carry != 0 && sum == math.MaxUint64 {
		carryOut = 1
	}
	return sum + carry, carryOut
}

// AddInto adds src to dst in place (dst += src) and returns dst.
//
// Limbs are added from the least significant end. When src is longer, its
// upper limbs are appended to dst together with the outstanding carry. When
// dst is at least as long, the carry ripples into dst's upper limbs and a new
// limb is appended only if it survives past the top. dst and src may be the
// same value.
func AddInto(dst, src *BigUint) *BigUint {
	s := src.limbs
	d := dst.limbs
	n := min(len(d), len(s))

	var carry uint64
	for i := 0; i < n; i++ {
		d[i], carry = addLimb(d[i], s[i], carry)
	}

	if len(s) > len(d) {
		for i := n; i < len(s); i++ {
			var v uint64
			v, carry = addLimb(s[i], 0, carry)
			d = append(d, v)
		}
	} else {
		for i := n; carry != 0 && i < len(d); i++ {
			d[i], carry = addLimb(d[i], 0, carry)
		}
	}
	if carry != 0 {
		d = append(d, carry)
	}
	dst.limbs = d
	return dst
}

// AddToSmaller adds a and b, storing the sum in whichever operand has the
// smaller value, and returns that operand. On a tie the sum goes to b. The
// naive Fibonacci iteration relies on this to alternate its two registers.
func AddToSmaller(a, b *BigUint) *BigUint {
	if Compare(a, b) >= 0 {
		return AddInto(b, a)
	}
	return AddInto(a, b)
}

// SubAbs sets z to |x - y| and returns z. z may alias x or y.
func (z *BigUint) SubAbs(x, y *BigUint) *BigUint {
	if Compare(x, y) < 0 {
		x, y = y, x
	}
	xl, yl := x.limbs, y.limbs
	z.limbs = subInto(z.grow(len(xl)), xl, yl)
	return z.Trim()
}

// subInto stores larger - smaller into dst and returns dst. It requires
// larger >= smaller and len(dst) == len(larger); callers establish the order
// with Compare. dst may share storage with either operand because limb i of
// the inputs is read before limb i of dst is written.
func subInto(dst, larger, smaller []Limb) []Limb {
	var borrow uint64
	i := 0
	for ; i < len(smaller); i++ {
		dst[i], borrow = bits.Sub64(larger[i], smaller[i], borrow)
	}
	for ; i < len(larger); i++ {
		dst[i], borrow = bits.Sub64(larger[i], 0, borrow)
	}
	if borrow != 0 {
		panic("bignum: subtraction underflow")
	}
	return dst
}
