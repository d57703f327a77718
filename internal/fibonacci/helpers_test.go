package fibonacci

import (
	"math/big"

	"github.com/agbru/fibdrv/internal/bignum"
)

// fibBig is the math/big oracle.
func fibBig(n uint64) *big.Int {
	a, b := big.NewInt(0), big.NewInt(1)
	for i := uint64(0); i < n; i++ {
		a.Add(a, b)
		a, b = b, a
	}
	return a
}

func toBig(x *bignum.BigUint) *big.Int {
	z, ok := new(big.Int).SetString(x.Text(16), 16)
	if !ok {
		panic("bad hex rendering: " + x.Text(16))
	}
	return z
}

func nopReporter(float64) {}
