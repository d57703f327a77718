// Pool pre-warming for transform buffers.

package ntt

import "sync/atomic"

// PreWarmPools pre-allocates transform buffers for transforms of up to
// maxLen coefficients. The number of buffers grows with the size class:
//   - maxLen < 4096: 2 buffers
//   - maxLen < 262144: 3 buffers
//   - otherwise: 4 buffers
//
// A multiplication needs at most four live buffers (two digit splits and two
// transforms).
func PreWarmPools(maxLen int) {
	idx := coeffPoolIndex(maxLen)
	if idx < 0 {
		return
	}

	numBuffers := 2
	if maxLen >= 262144 {
		numBuffers = 4
	} else if maxLen >= 4096 {
		numBuffers = 3
	}

	for i := 0; i < numBuffers; i++ {
		coeffPools[idx].Put(make([]uint64, coeffSizes[idx]))
	}
}

// poolsWarmed tracks whether pools have been pre-warmed.
var poolsWarmed atomic.Bool

// EnsurePoolsWarmed warms the pools once per process. Later calls are no-ops
// even for larger sizes; the pools grow on demand afterwards.
func EnsurePoolsWarmed(maxLen int) {
	if poolsWarmed.CompareAndSwap(false, true) {
		PreWarmPools(maxLen)
	}
}

// resetPoolsWarmed is used by tests.
func resetPoolsWarmed() {
	poolsWarmed.Store(false)
}
