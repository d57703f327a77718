package fibonacci

import "github.com/agbru/fibdrv/internal/fibonacci/memory"

// Options configures a Fibonacci calculation.
type Options struct {
	// NTTMinBytes is the operand size, in significant bytes, from which
	// multiplications use the transform multiplier. If 0, DefaultNTTMinBytes
	// is used.
	NTTMinBytes int
	// MemoryLimit is the memory budget in bytes. A calculation whose
	// estimated peak exceeds it fails with a MemoryError before allocating.
	// 0 means no limit.
	MemoryLimit uint64
	// GCMode controls the garbage collector while the calculation runs. The
	// zero value behaves like memory.GCModeAuto.
	GCMode memory.GCMode
}

// normalizeOptions returns a copy of opts with defaults filled in for zero
// values.
func normalizeOptions(opts Options) Options {
	normalized := opts
	if normalized.NTTMinBytes <= 0 {
		normalized.NTTMinBytes = DefaultNTTMinBytes
	}
	if normalized.GCMode == "" {
		normalized.GCMode = memory.GCModeAuto
	}
	return normalized
}
