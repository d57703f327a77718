// Package bignum implements the arbitrary-precision unsigned integers used by
// the Fibonacci generators. Values are stored as contiguous little-endian
// sequences of 64-bit limbs.
//
// A BigUint always holds at least one limb, and its most significant limb is
// nonzero unless the value is zero, in which case it holds exactly one zero
// limb. Every exported operation leaves its results in that normalized form.
//
// A BigUint owns its buffer exclusively. It is not safe for concurrent
// mutation; concurrent reads of a value nobody is writing are fine.
package bignum

import "math/bits"

// Limb is one base-2^64 digit.
type Limb = uint64

// BigUint is an arbitrary-precision unsigned integer. The zero value is not
// ready for use; obtain values from New, NewFromUint64 or FromLimbs.
type BigUint struct {
	limbs []Limb
}

// New returns a zero value with room for initialLimbs limbs, so that it can
// grow to that size without reallocating.
func New(initialLimbs int) *BigUint {
	if initialLimbs < 1 {
		initialLimbs = 1
	}
	l := make([]Limb, 1, initialLimbs)
	return &BigUint{limbs: l}
}

// NewWithBuffer returns a zero value that grows into buf before allocating.
// The caller hands buf over; nothing else may use it afterwards. An empty
// buf behaves like New(1).
func NewWithBuffer(buf []Limb) *BigUint {
	if cap(buf) == 0 {
		return New(1)
	}
	buf = buf[:1]
	buf[0] = 0
	return &BigUint{limbs: buf}
}

// NewFromUint64 returns a single-limb value.
func NewFromUint64(v uint64) *BigUint {
	return &BigUint{limbs: []Limb{v}}
}

// FromLimbs returns a value built from a copy of limbs (least significant
// first). Leading zero limbs are trimmed; an empty slice yields zero.
func FromLimbs(limbs []Limb) *BigUint {
	z := &BigUint{limbs: make([]Limb, max(len(limbs), 1))}
	copy(z.limbs, limbs)
	return z.Trim()
}

// SetUint64 sets z to v, keeping the buffer.
func (z *BigUint) SetUint64(v uint64) *BigUint {
	z.limbs = append(z.limbs[:0], v)
	return z
}

// Copy overwrites z with src. A single-limb source is a plain value
// overwrite; otherwise z grows or shrinks to src's length. Copy(z) is a no-op.
func (z *BigUint) Copy(src *BigUint) *BigUint {
	if z == src {
		return z
	}
	if len(src.limbs) == 1 {
		return z.SetUint64(src.limbs[0])
	}
	z.limbs = append(z.limbs[:0], src.limbs...)
	return z
}

// Clone returns an independent copy of z.
func (z *BigUint) Clone() *BigUint {
	c := &BigUint{limbs: make([]Limb, len(z.limbs))}
	copy(c.limbs, z.limbs)
	return c
}

// Trim removes zero limbs from the most significant end, keeping at least one.
func (z *BigUint) Trim() *BigUint {
	n := len(z.limbs)
	for n > 1 && z.limbs[n-1] == 0 {
		n--
	}
	if n == 0 {
		z.limbs = append(z.limbs[:0], 0)
		return z
	}
	z.limbs = z.limbs[:n]
	return z
}

// Len returns the number of limbs in z.
func (z *BigUint) Len() int {
	return len(z.limbs)
}

// IsZero reports whether z == 0.
func (z *BigUint) IsZero() bool {
	return len(z.limbs) == 1 && z.limbs[0] == 0
}

// IsUint64 reports whether z fits in a single limb.
func (z *BigUint) IsUint64() bool {
	return len(z.limbs) == 1
}

// Uint64 returns the least significant limb of z.
func (z *BigUint) Uint64() uint64 {
	return z.limbs[0]
}

// BitLen returns the number of significant bits in z; 0 for zero.
func (z *BigUint) BitLen() int {
	top := len(z.limbs) - 1
	return top*64 + bits.Len64(z.limbs[top])
}

// grow returns a slice of exactly n limbs backed by z's buffer when it is
// large enough. The contents are unspecified; z is not modified.
func (z *BigUint) grow(n int) []Limb {
	if cap(z.limbs) >= n {
		return z.limbs[:n]
	}
	// Leave headroom for the carry limb most operations append.
	return make([]Limb, n, n+1)
}

// Compare returns -1, 0 or +1 depending on whether a < b, a == b or a > b.
// Normalized operands are ordered by length first, then limb by limb from
// the most significant end.
func Compare(a, b *BigUint) int {
	la, lb := len(a.limbs), len(b.limbs)
	if la != lb {
		if la < lb {
			return -1
		}
		return 1
	}
	for i := la - 1; i >= 0; i-- {
		x, y := a.limbs[i], b.limbs[i]
		if x != y {
			if x < y {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Cmp is the method form of Compare.
func (z *BigUint) Cmp(y *BigUint) int {
	return Compare(z, y)
}
