package fibonacci

import (
	"context"
	"testing"

	"github.com/agbru/fibdrv/internal/bignum"
)

// FuzzFastDoublingConsistency checks the doubling generator against the
// naive one and the recurrence F(n+2) = F(n+1) + F(n).
func FuzzFastDoublingConsistency(f *testing.F) {
	for _, n := range []int64{0, 1, 2, 3, 10, 92, 93, 94, 100, 1000, 4096} {
		f.Add(n)
	}

	f.Fuzz(func(t *testing.T, k int64) {
		if k > 20000 {
			return
		}
		ctx := context.Background()
		fd, err := FastDoubling(ctx, k)
		if k < 0 {
			if err == nil {
				t.Fatalf("FastDoubling(%d) accepted a negative index", k)
			}
			return
		}
		if err != nil {
			t.Fatalf("FastDoubling(%d): %v", k, err)
		}
		nv, err := Naive(ctx, k)
		if err != nil {
			t.Fatalf("Naive(%d): %v", k, err)
		}
		if bignum.Compare(fd, nv) != 0 {
			t.Fatalf("k=%d: doubling %s != naive %s", k, fd, nv)
		}

		f1, _ := FastDoubling(ctx, k+1)
		f2, _ := FastDoubling(ctx, k+2)
		sum := bignum.AddInto(fd.Clone(), f1)
		if bignum.Compare(sum, f2) != 0 {
			t.Fatalf("F(%d) + F(%d) != F(%d)", k, k+1, k+2)
		}
	})
}
