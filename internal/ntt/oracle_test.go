package ntt

import (
	"math/rand"
	"testing"

	"github.com/tuneinsight/lattigo/v4/ring"
)

// lattigoConvolve multiplies a and b in Z_p[X]/(X^N+1) with lattigo's
// independent NTT. With N >= len(a)+len(b)-1 no wrap-around occurs, so the
// negacyclic product equals the linear convolution.
func lattigoConvolve(t *testing.T, a, b []uint64) []uint64 {
	t.Helper()
	n := NextPow2(len(a) + len(b) - 1)
	if n < 16 {
		n = 16
	}
	ringQ, err := ring.NewRing(n, []uint64{DefaultModulus})
	if err != nil {
		t.Fatalf("ring.NewRing failed: %v", err)
	}

	pa := ringQ.NewPoly()
	pb := ringQ.NewPoly()
	copy(pa.Coeffs[0], a)
	copy(pb.Coeffs[0], b)

	ringQ.NTT(pa, pa)
	ringQ.NTT(pb, pb)
	prod := ringQ.NewPoly()
	ringQ.MulCoeffs(pa, pb, prod)
	ringQ.InvNTT(prod, prod)

	return append([]uint64(nil), prod.Coeffs[0][:len(a)+len(b)-1]...)
}

func TestConvolveMatchesLattigo(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(7))
	for _, sizes := range [][2]int{{1, 1}, {3, 5}, {64, 64}, {300, 211}, {1024, 1024}} {
		a := make([]uint64, sizes[0])
		b := make([]uint64, sizes[1])
		for i := range a {
			a[i] = uint64(rng.Intn(256))
		}
		for i := range b {
			b[i] = uint64(rng.Intn(256))
		}

		got, err := Default.Convolve(a, b)
		if err != nil {
			t.Fatalf("%v: Convolve: %v", sizes, err)
		}
		want := lattigoConvolve(t, a, b)
		if !equalCoeffs(got, want) {
			for i := range got {
				if got[i] != want[i] {
					t.Fatalf("%v: coefficient %d = %d, lattigo has %d", sizes, i, got[i], want[i])
				}
			}
		}
	}
}
