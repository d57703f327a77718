// Package ntt implements the number-theoretic transform over a prime field
// and the linear convolution built on it. Coefficient vectors are plain
// []uint64 slices whose entries must already be reduced modulo the prime.
package ntt

import (
	"errors"
	"fmt"
	"math/bits"
)

// Default transform parameters. 1107296257 = 33*2^25 + 1 is prime and 10 is a
// primitive root, so every power-of-two length up to 2^25 has a principal root
// of unity.
const (
	DefaultModulus uint64 = 1107296257
	DefaultRoot    uint64 = 10
)

// MaxDigit is the largest coefficient produced by a base-256 split.
const MaxDigit uint64 = 255

var (
	// ErrUnsupportedLength is returned when no n-th root of unity exists for
	// the requested transform length under the configured modulus.
	ErrUnsupportedLength = errors.New("ntt: transform length not supported by modulus")
	// ErrCoefficientOverflow is returned when an exact convolution coefficient
	// could reach the modulus and would be silently reduced.
	ErrCoefficientOverflow = errors.New("ntt: convolution coefficient would exceed modulus")
	// ErrInvalidParams is returned for a modulus that cannot be used with
	// 64-bit modular products.
	ErrInvalidParams = errors.New("ntt: invalid parameters")
)

// Params selects the prime field of a transform.
type Params struct {
	// Modulus is the prime p. It must be below 2^32 so that products of two
	// residues fit in a uint64.
	Modulus uint64
	// Root is a primitive root modulo p.
	Root uint64
}

// Default is the parameter set used by the big-integer multiplier.
var Default = Params{Modulus: DefaultModulus, Root: DefaultRoot}

// Validate reports whether p can be used by this package.
func (p Params) Validate() error {
	if p.Modulus < 3 || p.Modulus >= 1<<32 {
		return fmt.Errorf("%w: modulus %d outside [3, 2^32)", ErrInvalidParams, p.Modulus)
	}
	if p.Root < 2 || p.Root >= p.Modulus {
		return fmt.Errorf("%w: root %d outside [2, %d)", ErrInvalidParams, p.Root, p.Modulus)
	}
	return nil
}

// Supports reports whether a transform of length n exists: n must be a power
// of two that divides p-1.
func (p Params) Supports(n int) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if n <= 0 || n&(n-1) != 0 {
		return fmt.Errorf("%w: length %d is not a power of two", ErrUnsupportedLength, n)
	}
	if (p.Modulus-1)%uint64(n) != 0 {
		return fmt.Errorf("%w: length %d does not divide p-1 = %d", ErrUnsupportedLength, n, p.Modulus-1)
	}
	return nil
}

// MaxLength returns the largest power-of-two transform length supported by p.
func (p Params) MaxLength() int {
	tz := bits.TrailingZeros64(p.Modulus - 1)
	if tz > 30 {
		tz = 30
	}
	return 1 << tz
}

// Forward transforms a in place. len(a) must satisfy Supports.
func (p Params) Forward(a []uint64) error {
	return p.transform(a, false)
}

// Inverse undoes Forward in place, including the 1/n scaling.
func (p Params) Inverse(a []uint64) error {
	return p.transform(a, true)
}

func (p Params) transform(a []uint64, inverse bool) error {
	n := len(a)
	if err := p.Supports(n); err != nil {
		return err
	}
	mod := p.Modulus

	bitReversePermute(a)

	for m := 2; m <= n; m <<= 1 {
		wm := PowMod(p.Root, (mod-1)/uint64(m), mod)
		if inverse {
			// Fermat: wm^(p-2) is the inverse of wm.
			wm = PowMod(wm, mod-2, mod)
		}
		half := m >> 1
		for k := 0; k < n; k += m {
			w := uint64(1)
			for j := 0; j < half; j++ {
				t := w * a[k+j+half] % mod
				u := a[k+j]
				a[k+j] = (u + t) % mod
				a[k+j+half] = (u + mod - t) % mod
				w = w * wm % mod
			}
		}
	}

	if inverse {
		inv := PowMod(uint64(n)%mod, mod-2, mod)
		for i := range a {
			a[i] = a[i] * inv % mod
		}
	}
	return nil
}

// Convolve returns the linear convolution of a and b, that is the
// coefficients of the product polynomial, of length len(a)+len(b)-1.
// Every exact coefficient must stay below the modulus; otherwise
// ErrCoefficientOverflow is returned and nothing is computed.
func (p Params) Convolve(a, b []uint64) ([]uint64, error) {
	if len(a) == 0 || len(b) == 0 {
		return []uint64{}, nil
	}
	resultLen := len(a) + len(b) - 1
	n := NextPow2(resultLen)
	if err := p.Supports(n); err != nil {
		return nil, err
	}
	if err := p.checkCoefficientBound(a, b); err != nil {
		return nil, err
	}

	square := len(a) == len(b) && &a[0] == &b[0]

	fa := acquireCoeffs(n)
	defer releaseCoeffs(fa)
	copy(fa, a)
	if err := p.Forward(fa); err != nil {
		return nil, err
	}

	mod := p.Modulus
	if square {
		for i, v := range fa {
			fa[i] = v * v % mod
		}
	} else {
		fb := acquireCoeffs(n)
		defer releaseCoeffs(fb)
		copy(fb, b)
		if err := p.Forward(fb); err != nil {
			return nil, err
		}
		for i, v := range fb {
			fa[i] = fa[i] * v % mod
		}
	}

	if err := p.Inverse(fa); err != nil {
		return nil, err
	}
	out := make([]uint64, resultLen)
	copy(out, fa)
	return out, nil
}

// checkCoefficientBound verifies min(len a, len b) * max(a) * max(b) < p,
// the largest value any exact coefficient of the product can take.
func (p Params) checkCoefficientBound(a, b []uint64) error {
	maxA, maxB := maxOf(a), maxOf(b)
	if maxA >= p.Modulus || maxB >= p.Modulus {
		return fmt.Errorf("%w: input coefficient not reduced modulo %d", ErrCoefficientOverflow, p.Modulus)
	}
	terms := uint64(min(len(a), len(b)))
	hi, lo := bits.Mul64(maxA*maxB, terms)
	if hi != 0 || lo >= p.Modulus {
		return fmt.Errorf("%w: %d terms of up to %d*%d", ErrCoefficientOverflow, terms, maxA, maxB)
	}
	return nil
}

// MaxDigitTerms returns how many base-256 digit products can be summed
// without reaching p.
func (p Params) MaxDigitTerms() int {
	return int((p.Modulus - 1) / (MaxDigit * MaxDigit))
}

func maxOf(a []uint64) uint64 {
	var m uint64
	for _, v := range a {
		if v > m {
			m = v
		}
	}
	return m
}

// PowMod returns x^e mod m by square-and-multiply. m must be below 2^32.
func PowMod(x, e, m uint64) uint64 {
	result := uint64(1) % m
	x %= m
	for e > 0 {
		if e&1 == 1 {
			result = result * x % m
		}
		x = x * x % m
		e >>= 1
	}
	return result
}

// NextPow2 returns the smallest power of two >= x (1 for x <= 1).
func NextPow2(x int) int {
	if x <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(x-1))
}

// ReverseBits reverses the low width bits of x.
func ReverseBits(x, width int) int {
	if width <= 0 {
		return 0
	}
	return int(bits.Reverse64(uint64(x)) >> (64 - width))
}

func bitReversePermute(a []uint64) {
	n := len(a)
	width := bits.TrailingZeros(uint(n))
	for i := 0; i < n; i++ {
		j := ReverseBits(i, width)
		if i < j {
			a[i], a[j] = a[j], a[i]
		}
	}
}
