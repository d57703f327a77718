package memory

import (
	"runtime/debug"
	"testing"
)

func TestEstimateMemoryUsage(t *testing.T) {
	t.Parallel()
	est := EstimateMemoryUsage(1000)
	want := MemoryEstimate{
		ResultLimbs:    11,
		RegisterBytes:  384,
		TransformBytes: 5120,
		OutputBytes:    209,
		TotalBytes:     5713,
	}
	if est != want {
		t.Errorf("EstimateMemoryUsage(1000) = %+v, want %+v", est, want)
	}

	// Past the transform's coefficient bound the schoolbook multiplier runs
	// and no transform buffers are needed.
	large := EstimateMemoryUsage(1_000_000)
	if large.ResultLimbs != 10848 {
		t.Errorf("ResultLimbs = %d, want 10848", large.ResultLimbs)
	}
	if large.TransformBytes != 0 {
		t.Errorf("TransformBytes = %d, want 0", large.TransformBytes)
	}
	if large.TotalBytes != large.RegisterBytes+large.OutputBytes {
		t.Errorf("TotalBytes %d is not the sum of its parts", large.TotalBytes)
	}
}

func TestEstimateMemoryUsageMonotonic(t *testing.T) {
	t.Parallel()
	prev := EstimateMemoryUsage(0).RegisterBytes
	for _, n := range []uint64{10, 100, 1000, 10_000, 100_000, 1_000_000} {
		cur := EstimateMemoryUsage(n).RegisterBytes
		if cur < prev {
			t.Errorf("RegisterBytes(%d) = %d decreased from %d", n, cur, prev)
		}
		prev = cur
	}
}

func TestParseMemoryLimit(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in      string
		want    uint64
		wantErr bool
	}{
		{"", 0, false},
		{"100", 100, false},
		{"1024K", 1 << 20, false},
		{"512M", 512 << 20, false},
		{"8G", 8 << 30, false},
		{"2gb", 2 << 30, false},
		{" 1T ", 1 << 40, false},
		{"abc", 0, true},
		{"-1", 0, true},
		{"M", 0, true},
		{"99999999999T", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseMemoryLimit(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseMemoryLimit(%q) = %d, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMemoryLimit(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseMemoryLimit(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatMemoryEstimate(t *testing.T) {
	t.Parallel()
	got := FormatMemoryEstimate(EstimateMemoryUsage(1000))
	want := "5.6 KiB (registers 384 B, transform 5.0 KiB, output 209 B)"
	if got != want {
		t.Errorf("FormatMemoryEstimate = %q, want %q", got, want)
	}
}

func TestCalculationArena(t *testing.T) {
	t.Parallel()
	a := NewCalculationArena(10_000)
	if a.RegisterLimbs() != 110 || a.CapacityLimbs() != 440 {
		t.Fatalf("arena sized %d x %d, want 110 x 4", a.RegisterLimbs(), a.CapacityLimbs())
	}
	for i := 0; i < arenaTemporaries; i++ {
		if z := a.Alloc(); !z.IsZero() {
			t.Fatalf("Alloc #%d returned a nonzero value", i)
		}
	}
	if a.UsedLimbs() != a.CapacityLimbs() {
		t.Errorf("UsedLimbs = %d, want %d", a.UsedLimbs(), a.CapacityLimbs())
	}
	// Exhausted arenas fall back to the heap.
	if z := a.Alloc(); !z.IsZero() {
		t.Error("fallback Alloc returned a nonzero value")
	}
	a.Reset()
	if a.UsedLimbs() != 0 {
		t.Errorf("UsedLimbs after Reset = %d", a.UsedLimbs())
	}
}

func TestCalculationArenaSmallIndex(t *testing.T) {
	t.Parallel()
	a := NewCalculationArena(50)
	if a.CapacityLimbs() != 0 {
		t.Errorf("small arena capacity = %d, want 0", a.CapacityLimbs())
	}
	if z := a.Alloc(); !z.IsZero() {
		t.Error("Alloc on an empty arena returned a nonzero value")
	}
}

func TestParseGCMode(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in      string
		want    GCMode
		wantErr bool
	}{
		{"", GCModeAuto, false},
		{"auto", GCModeAuto, false},
		{"aggressive", GCModeAggressive, false},
		{"disabled", GCModeDisabled, false},
		{"off", "", true},
	}
	for _, tt := range tests {
		got, err := ParseGCMode(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseGCMode(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestGCControllerActivation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		mode GCMode
		n    uint64
		want bool
	}{
		{GCModeAuto, GCAutoThreshold - 1, false},
		{GCModeAuto, GCAutoThreshold, true},
		{"", GCAutoThreshold, true},
		{GCModeAggressive, 1, true},
		{GCModeDisabled, 1 << 40, false},
		{"bogus", 1 << 40, false},
	}
	for _, tt := range tests {
		if got := NewGCController(tt.mode, tt.n).Active(); got != tt.want {
			t.Errorf("NewGCController(%q, %d).Active() = %v, want %v", tt.mode, tt.n, got, tt.want)
		}
	}
}

// Not parallel: it changes process-wide collector settings.
func TestGCControllerRestoresSettings(t *testing.T) {
	before := debug.SetGCPercent(100)
	defer debug.SetGCPercent(before)

	gc := NewGCController(GCModeAggressive, 1)
	gc.Begin()
	if cur := debug.SetGCPercent(-1); cur != -1 {
		t.Errorf("GC percent during calculation = %d, want -1", cur)
	}
	_ = make([]byte, 1<<20)
	gc.End()

	if cur := debug.SetGCPercent(100); cur != 100 {
		t.Errorf("GC percent after End = %d, want 100", cur)
	}
	if gc.Stats().NumGC == 0 {
		t.Log("no collection observed between Begin and End")
	}
}

func TestGCControllerInactiveIsNoop(t *testing.T) {
	t.Parallel()
	gc := NewGCController(GCModeDisabled, 1)
	gc.Begin()
	gc.End()
	if gc.Stats() != (GCStats{}) {
		t.Errorf("inactive controller recorded stats: %+v", gc.Stats())
	}
}
