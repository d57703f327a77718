// This file provides pooling for transform buffers to reduce GC pressure
// during repeated multiplications of similar size.

package ntt

import (
	"math/bits"
	"sync"
)

// ─────────────────────────────────────────────────────────────────────────────
// Coefficient Slice Pools
// ─────────────────────────────────────────────────────────────────────────────

// coeffPools pools []uint64 coefficient buffers by size class.
// Size classes are powers of 4 from 64 to 4M coefficients.
var coeffPools = [...]sync.Pool{
	{New: func() any { return make([]uint64, 64) }},
	{New: func() any { return make([]uint64, 256) }},
	{New: func() any { return make([]uint64, 1024) }},
	{New: func() any { return make([]uint64, 4096) }},
	{New: func() any { return make([]uint64, 16384) }},
	{New: func() any { return make([]uint64, 65536) }},
	{New: func() any { return make([]uint64, 262144) }},
	{New: func() any { return make([]uint64, 1048576) }}, // 1M coefficients = 8MB
	{New: func() any { return make([]uint64, 4194304) }}, // 4M coefficients = 32MB
}

// coeffSizes defines the size classes for coefficient pools.
var coeffSizes = [...]int{64, 256, 1024, 4096, 16384, 65536, 262144, 1048576, 4194304}

// coeffPoolIndex returns the pool index for a given size, or -1 when the
// size is too large for pooling.
//
// coeffSizes are 4^(i+3), so bits.Len(size-1) maps directly to the index.
func coeffPoolIndex(size int) int {
	if size <= 0 {
		return 0
	}
	if size > coeffSizes[len(coeffSizes)-1] {
		return -1
	}
	idx := (bits.Len(uint(size-1)) - 5) / 2
	if idx < 0 {
		idx = 0
	}
	return idx
}

// acquireCoeffs returns a zeroed slice of exactly size coefficients.
// Release it with releaseCoeffs:
//
//	buf := acquireCoeffs(n)
//	defer releaseCoeffs(buf)
func acquireCoeffs(size int) []uint64 {
	idx := coeffPoolIndex(size)
	if idx < 0 {
		return make([]uint64, size)
	}
	buf := coeffPools[idx].Get().([]uint64)
	clear(buf)
	return buf[:size]
}

// releaseCoeffs returns a slice obtained from acquireCoeffs. Slices whose
// capacity does not match a size class are left to the GC.
func releaseCoeffs(buf []uint64) {
	if buf == nil {
		return
	}
	c := cap(buf)
	idx := coeffPoolIndex(c)
	if idx >= 0 && coeffSizes[idx] == c {
		coeffPools[idx].Put(buf[:c])
	}
}

// AcquireDigits returns a zeroed scratch slice of n entries from the shared
// pool. Callers splitting operands into digits use it to avoid a heap
// allocation per multiplication and must hand it back with ReleaseDigits.
func AcquireDigits(n int) []uint64 {
	return acquireCoeffs(n)
}

// ReleaseDigits returns a slice obtained from AcquireDigits.
func ReleaseDigits(buf []uint64) {
	releaseCoeffs(buf)
}
