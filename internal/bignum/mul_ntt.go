package bignum

import "github.com/agbru/fibdrv/internal/ntt"

// MulNTT sets out to a * b with the number-theoretic transform and returns
// an error, leaving out untouched, when the transform cannot produce the
// exact product (see ntt.ErrUnsupportedLength and ntt.ErrCoefficientOverflow).
// out may alias a or b.
func MulNTT(out, a, b *BigUint) error {
	return mulNTT(ntt.Default, out, a, b)
}

func mulNTT(p ntt.Params, out, a, b *BigUint) error {
	if a.IsZero() || b.IsZero() {
		out.SetUint64(0)
		return nil
	}

	na := a.significantBytes()
	da := ntt.AcquireDigits(na)
	defer ntt.ReleaseDigits(da)
	splitBytes(da, a.limbs)

	db := da
	nb := na
	if a != b {
		nb = b.significantBytes()
		db = ntt.AcquireDigits(nb)
		defer ntt.ReleaseDigits(db)
		splitBytes(db, b.limbs)
	}

	coeffs, err := p.Convolve(da, db)
	if err != nil {
		return err
	}

	// Both operands are snapshotted in the digit buffers, so out may now
	// reuse either operand's storage.
	out.limbs = packBytes(out.grow((na+nb+7)/8), coeffs)
	out.Trim()
	return nil
}

// splitBytes writes the base-256 digits of limbs into dst, least significant
// first. dst must hold exactly the significant bytes.
func splitBytes(dst []uint64, limbs []Limb) {
	for i := range dst {
		dst[i] = (limbs[i>>3] >> (8 * uint(i&7))) & 0xFF
	}
}

// packBytes propagates base-256 carries through coeffs and packs the
// resulting bytes, eight per limb, into dst.
func packBytes(dst []Limb, coeffs []uint64) []Limb {
	clear(dst)
	put := func(pos int, v uint64) {
		for pos>>3 >= len(dst) {
			dst = append(dst, 0)
		}
		dst[pos>>3] |= v << (8 * uint(pos&7))
	}

	var carry uint64
	pos := 0
	for _, c := range coeffs {
		v := c + carry
		put(pos, v&0xFF)
		carry = v >> 8
		pos++
	}
	for ; carry != 0; pos++ {
		put(pos, carry&0xFF)
		carry >>= 8
	}
	return dst
}
