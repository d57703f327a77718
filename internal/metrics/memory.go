// Package metrics samples the Go runtime's memory statistics around a
// calculation.
package metrics

import "runtime"

// MemorySnapshot holds a point-in-time memory reading.
type MemorySnapshot struct {
	HeapAlloc    uint64 // bytes in use by application
	HeapSys      uint64 // bytes obtained from OS for heap
	Sys          uint64 // total bytes obtained from OS
	TotalAlloc   uint64 // cumulative bytes allocated
	NumGC        uint32 // number of completed GC cycles
	PauseTotalNs uint64 // cumulative GC pause time
	HeapObjects  uint64 // number of allocated heap objects
}

// MemoryDelta is the difference between two snapshots.
type MemoryDelta struct {
	// PeakHeap is the larger HeapAlloc of the two snapshots.
	PeakHeap     uint64
	Allocated    uint64
	NumGC        uint32
	PauseTotalNs uint64
}

// MemoryCollector reads runtime memory statistics.
type MemoryCollector struct{}

// NewMemoryCollector creates a new memory collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{}
}

// Snapshot reads current memory statistics.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAlloc:    m.HeapAlloc,
		HeapSys:      m.HeapSys,
		Sys:          m.Sys,
		TotalAlloc:   m.TotalAlloc,
		NumGC:        m.NumGC,
		PauseTotalNs: m.PauseTotalNs,
		HeapObjects:  m.HeapObjects,
	}
}

// Since returns the activity between before and s. Counters that went
// backwards (which the runtime never does) yield zero.
func (s MemorySnapshot) Since(before MemorySnapshot) MemoryDelta {
	d := MemoryDelta{PeakHeap: max(s.HeapAlloc, before.HeapAlloc)}
	if s.TotalAlloc >= before.TotalAlloc {
		d.Allocated = s.TotalAlloc - before.TotalAlloc
	}
	if s.NumGC >= before.NumGC {
		d.NumGC = s.NumGC - before.NumGC
	}
	if s.PauseTotalNs >= before.PauseTotalNs {
		d.PauseTotalNs = s.PauseTotalNs - before.PauseTotalNs
	}
	return d
}
