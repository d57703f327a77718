package bignum

import (
	"math/bits"
	"strconv"
	"strings"
)

const (
	// decChunk is the largest power of ten below 2^64. Dividing by it peels
	// off 19 decimal digits per pass over the limbs.
	decChunk       = 10_000_000_000_000_000_000
	decChunkDigits = 19
)

// String returns the decimal representation of z.
func (z *BigUint) String() string {
	return ToDecimalString(z)
}

// ToDecimalString renders x in base 10 without leading zeros; zero is "0".
// x is not modified.
//
// The limbs are divided from the most significant end with 128-bit
// dividends (remainder:limb) until the quotient is zero. Each remainder is a
// group of 19 digits, split into single digits by repeated division by 10.
func ToDecimalString(x *BigUint) string {
	if x.IsUint64() {
		return strconv.FormatUint(x.limbs[0], 10)
	}

	q := make([]Limb, len(x.limbs))
	copy(q, x.limbs)

	groups := make([]uint64, 0, len(q)*20/19+1)
	for len(q) > 0 {
		var r uint64
		for i := len(q) - 1; i >= 0; i-- {
			q[i], r = bits.Div64(r, q[i], decChunk)
		}
		groups = append(groups, r)
		for len(q) > 0 && q[len(q)-1] == 0 {
			q = q[:len(q)-1]
		}
	}

	buf := make([]byte, len(groups)*decChunkDigits)
	for g, v := range groups {
		end := len(buf) - g*decChunkDigits
		for i := 1; i <= decChunkDigits; i++ {
			buf[end-i] = byte('0' + v%10)
			v /= 10
		}
	}
	s := strings.TrimLeft(string(buf), "0")
	if s == "" {
		return "0"
	}
	return s
}

// Text returns the representation of z in the given base, which must be 2,
// 10 or 16. Hexadecimal digits are lower case.
func (z *BigUint) Text(base int) string {
	var width int
	switch base {
	case 10:
		return ToDecimalString(z)
	case 16:
		width = 16
	case 2:
		width = 64
	default:
		panic("bignum: unsupported base " + strconv.Itoa(base))
	}

	var sb strings.Builder
	top := len(z.limbs) - 1
	sb.Grow((top + 1) * width)
	sb.WriteString(strconv.FormatUint(z.limbs[top], base))
	for i := top - 1; i >= 0; i-- {
		s := strconv.FormatUint(z.limbs[i], base)
		sb.WriteString(strings.Repeat("0", width-len(s)))
		sb.WriteString(s)
	}
	return sb.String()
}
