package metrics

import "testing"

func TestMemoryCollector_Snapshot(t *testing.T) {
	t.Parallel()

	mc := NewMemoryCollector()
	snap := mc.Snapshot()

	if snap.HeapAlloc == 0 {
		t.Error("HeapAlloc should be > 0")
	}
	if snap.Sys == 0 {
		t.Error("Sys should be > 0")
	}
}

var sink []byte

func TestMemoryCollector_Delta(t *testing.T) {
	t.Parallel()

	mc := NewMemoryCollector()
	before := mc.Snapshot()
	sink = make([]byte, 1<<20)
	after := mc.Snapshot()

	if after.Sys < before.Sys {
		t.Error("Sys should not decrease between snapshots")
	}
	d := after.Since(before)
	if d.Allocated < 1<<20 {
		t.Errorf("Allocated = %d, want at least 1 MiB", d.Allocated)
	}
	if d.PeakHeap < before.HeapAlloc {
		t.Errorf("PeakHeap = %d below starting heap %d", d.PeakHeap, before.HeapAlloc)
	}
}

func TestSince(t *testing.T) {
	t.Parallel()
	before := MemorySnapshot{HeapAlloc: 10, TotalAlloc: 100, NumGC: 3, PauseTotalNs: 50}
	after := MemorySnapshot{HeapAlloc: 7, TotalAlloc: 160, NumGC: 5, PauseTotalNs: 80}
	got := after.Since(before)
	want := MemoryDelta{PeakHeap: 10, Allocated: 60, NumGC: 2, PauseTotalNs: 30}
	if got != want {
		t.Errorf("Since = %+v, want %+v", got, want)
	}
	if rev := before.Since(after); rev.Allocated != 0 || rev.NumGC != 0 || rev.PauseTotalNs != 0 {
		t.Errorf("reversed Since should clamp to zero, got %+v", rev)
	}
}
