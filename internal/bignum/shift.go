package bignum

// maxShiftStep is the widest shift applied in one pass over the limbs.
// Keeping it below 64 means both x<<s and x>>(64-s) are well defined.
const maxShiftStep = 63

// Lsh shifts z left by n bits in place and returns z.
func (z *BigUint) Lsh(n uint) *BigUint {
	if z.IsZero() {
		return z
	}
	for n > 0 {
		s := min(n, maxShiftStep)
		z.lshStep(s)
		n -= s
	}
	return z
}

// Rsh shifts z right by n bits in place and returns z.
func (z *BigUint) Rsh(n uint) *BigUint {
	for n > 0 && !z.IsZero() {
		s := min(n, maxShiftStep)
		z.rshStep(s)
		n -= s
	}
	return z
}

// lshStep shifts by 1 <= s <= 63 bits, appending a limb for the bits that
// spill out of the top.
func (z *BigUint) lshStep(s uint) {
	l := z.limbs
	top := len(l) - 1
	spill := l[top] >> (64 - s)
	for i := top; i > 0; i-- {
		l[i] = l[i]<<s | l[i-1]>>(64-s)
	}
	l[0] <<= s
	if spill != 0 {
		z.limbs = append(l, spill)
	}
}

// rshStep shifts by 1 <= s <= 63 bits, walking from the most significant limb
// down and dropping the top limb if it becomes zero.
func (z *BigUint) rshStep(s uint) {
	l := z.limbs
	top := len(l) - 1
	var in uint64
	for i := top; i >= 0; i-- {
		v := l[i]
		l[i] = v>>s | in
		in = v << (64 - s)
	}
	if top > 0 && l[top] == 0 {
		z.limbs = l[:top]
	}
}
