package memory

import (
	"fmt"
	"math"
	"runtime"
	"runtime/debug"

	"github.com/rs/zerolog"
)

// GCMode selects how the garbage collector behaves while a calculation runs.
type GCMode string

const (
	// GCModeAuto suspends collection only for indices of at least
	// GCAutoThreshold.
	GCModeAuto GCMode = "auto"
	// GCModeAggressive suspends collection for every calculation.
	GCModeAggressive GCMode = "aggressive"
	// GCModeDisabled leaves the collector alone.
	GCModeDisabled GCMode = "disabled"
)

// GCAutoThreshold is the smallest index for which GCModeAuto suspends the
// collector. Below it a calculation allocates too little for collection
// pauses to matter.
const GCAutoThreshold uint64 = 100_000

// ParseGCMode validates a mode name. The empty string selects GCModeAuto.
func ParseGCMode(s string) (GCMode, error) {
	switch m := GCMode(s); m {
	case "":
		return GCModeAuto, nil
	case GCModeAuto, GCModeAggressive, GCModeDisabled:
		return m, nil
	default:
		return "", fmt.Errorf("unknown gc mode %q (want auto, aggressive or disabled)", s)
	}
}

// GCController suspends the garbage collector around a calculation. While
// collection is off a soft memory limit of three times the starting Sys
// stays in place.
type GCController struct {
	mode              GCMode
	active            bool
	originalGCPercent int
	logger            zerolog.Logger
	startStats        runtime.MemStats
	endStats          runtime.MemStats
}

// GCStats is the collector activity observed between Begin and End.
type GCStats struct {
	HeapAlloc    uint64
	TotalAlloc   uint64
	NumGC        uint32
	PauseTotalNs uint64
}

// NewGCController returns a controller for computing F(n) under mode.
// Unknown modes behave like GCModeDisabled.
func NewGCController(mode GCMode, n uint64) *GCController {
	gc := &GCController{mode: mode, logger: zerolog.Nop()}
	switch mode {
	case GCModeAggressive:
		gc.active = true
	case GCModeAuto, "":
		gc.active = n >= GCAutoThreshold
	}
	return gc
}

// Active reports whether Begin will suspend the collector.
func (gc *GCController) Active() bool {
	return gc.active
}

// SetLogger configures the logger for GC control events.
func (gc *GCController) SetLogger(l zerolog.Logger) {
	gc.logger = l
}

// Begin suspends collection if the controller is active.
func (gc *GCController) Begin() {
	if !gc.active {
		return
	}
	runtime.ReadMemStats(&gc.startStats)
	gc.originalGCPercent = debug.SetGCPercent(-1)
	if limit := int64(gc.startStats.Sys) * 3; limit > 0 {
		debug.SetMemoryLimit(limit)
	}
	gc.logger.Debug().
		Str("mode", string(gc.mode)).
		Uint64("heap_alloc_bytes", gc.startStats.HeapAlloc).
		Msg("gc suspended")
}

// End restores the previous collector settings and runs a collection.
func (gc *GCController) End() {
	if !gc.active {
		return
	}
	runtime.ReadMemStats(&gc.endStats)
	debug.SetGCPercent(gc.originalGCPercent)
	debug.SetMemoryLimit(math.MaxInt64)
	runtime.GC()
	gc.logger.Debug().
		Str("mode", string(gc.mode)).
		Uint64("heap_alloc_bytes", gc.endStats.HeapAlloc).
		Uint64("total_alloc_bytes", gc.endStats.TotalAlloc-gc.startStats.TotalAlloc).
		Uint32("gc_cycles", gc.endStats.NumGC-gc.startStats.NumGC).
		Msg("gc restored")
}

// Stats returns the collector activity between Begin and End. It is zero for
// an inactive controller.
func (gc *GCController) Stats() GCStats {
	return GCStats{
		HeapAlloc:    gc.endStats.HeapAlloc,
		TotalAlloc:   gc.endStats.TotalAlloc - gc.startStats.TotalAlloc,
		NumGC:        gc.endStats.NumGC - gc.startStats.NumGC,
		PauseTotalNs: gc.endStats.PauseTotalNs - gc.startStats.PauseTotalNs,
	}
}
