package bench

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"github.com/agbru/fibdrv/internal/device"
	"github.com/agbru/fibdrv/internal/fibonacci"
	"github.com/agbru/fibdrv/internal/logging"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func quietDevice(opts ...device.Option) *device.Device {
	return device.New(append([]device.Option{device.WithLogger(logging.NewLogger(io.Discard, "device"))}, opts...)...)
}

func TestOutlierFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		in        []float64
		threshold float64
		want      []float64
	}{
		{"empty", nil, 2, nil},
		{"constant keeps all", []float64{5, 5, 5}, 2, []float64{5, 5, 5}},
		{"single", []float64{42}, 2, []float64{42}},
		{"symmetric pair", []float64{1, 2}, 2, []float64{1, 2}},
		{
			"drops spike",
			[]float64{10, 10, 10, 10, 10, 10, 10, 10, 10, 100},
			2,
			[]float64{10, 10, 10, 10, 10, 10, 10, 10, 10},
		},
		{
			"spike kept with loose threshold",
			[]float64{10, 10, 10, 10, 10, 10, 10, 10, 10, 100},
			3.5,
			[]float64{10, 10, 10, 10, 10, 10, 10, 10, 10, 100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := OutlierFilter(tt.in, tt.threshold)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("OutlierFilter (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOutlierFilterDoesNotAlias(t *testing.T) {
	t.Parallel()
	in := []float64{3, 3, 3}
	out := OutlierFilter(in, 2)
	out[0] = 99
	if in[0] != 3 {
		t.Error("OutlierFilter returned a slice aliasing its input")
	}
}

func TestFilteredMean(t *testing.T) {
	t.Parallel()
	if got := FilteredMean([]float64{10, 10, 10, 10, 10, 10, 10, 10, 10, 100}, 2); got != 10 {
		t.Errorf("FilteredMean = %v, want 10", got)
	}
	if got := FilteredMean(nil, 2); !math.IsNaN(got) {
		t.Errorf("FilteredMean(nil) = %v, want NaN", got)
	}
}

func TestAggregate(t *testing.T) {
	t.Parallel()
	ns := time.Nanosecond
	run := func(kernel, user time.Duration) []Sample {
		return []Sample{
			{N: 0, Kernel: kernel, User: user},
			{N: 1, Kernel: 2 * kernel, User: 2 * user},
		}
	}
	runs := [][]Sample{
		run(10*ns, 30*ns),
		run(10*ns, 30*ns),
		run(20*ns, 40*ns),
		run(20*ns, 40*ns),
	}

	rows, err := Aggregate(context.Background(), runs, 2, 2)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	want := []Row{
		{N: 0, Kernel: 15, User: 35, Diff: 20},
		{N: 1, Kernel: 30, User: 70, Diff: 40},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("rows (-want +got):\n%s", diff)
	}
}

func TestAggregateErrors(t *testing.T) {
	t.Parallel()

	if _, err := Aggregate(context.Background(), nil, 2, 1); !errors.Is(err, ErrNoRuns) {
		t.Errorf("no runs: err = %v", err)
	}

	uneven := [][]Sample{{{N: 0}, {N: 1}}, {{N: 0}}}
	if _, err := Aggregate(context.Background(), uneven, 2, 1); err == nil {
		t.Error("expected an error for runs of different lengths")
	}

	shifted := [][]Sample{{{N: 0}, {N: 1}}, {{N: 1}, {N: 2}}}
	if _, err := Aggregate(context.Background(), shifted, 2, 1); err == nil {
		t.Error("expected an error for misaligned runs")
	}
}

func TestSampleDiff(t *testing.T) {
	t.Parallel()
	s := Sample{N: 3, Kernel: 40 * time.Nanosecond, User: 100 * time.Nanosecond}
	if s.Diff() != 60*time.Nanosecond {
		t.Errorf("Diff = %v", s.Diff())
	}
}

func TestCollect(t *testing.T) {
	t.Parallel()
	dev := quietDevice()

	samples, err := Collect(context.Background(), dev, 200)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(samples) != 201 {
		t.Fatalf("len = %d, want 201", len(samples))
	}
	for i, s := range samples {
		if s.N != int64(i) {
			t.Fatalf("sample %d has N=%d", i, s.N)
		}
		if s.User < s.Kernel {
			t.Errorf("F(%d): user %v < kernel %v", s.N, s.User, s.Kernel)
		}
	}

	// The session is released afterwards.
	h, err := dev.Open()
	if err != nil {
		t.Fatalf("device still held: %v", err)
	}
	_ = h.Close()
}

func TestCollectClampsToDeviceMax(t *testing.T) {
	t.Parallel()
	samples, err := Collect(context.Background(), quietDevice(device.WithMaxLength(20)), 1000)
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 21 {
		t.Errorf("len = %d, want 21", len(samples))
	}
}

func TestCollectBusy(t *testing.T) {
	t.Parallel()
	dev := quietDevice()
	h, err := dev.Open()
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	if _, err := Collect(context.Background(), dev, 10); !errors.Is(err, device.ErrBusy) {
		t.Errorf("err = %v, want ErrBusy", err)
	}
}

func TestCollectCanceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Collect(ctx, quietDevice(), 10); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRunner(t *testing.T) {
	t.Parallel()
	dev := quietDevice(device.WithAlgorithm(fibonacci.AlgorithmNaive, fibonacci.GlobalFactory().MustGet(fibonacci.AlgorithmNaive)))

	var calls []int
	r := NewRunner(dev, Config{MaxN: 30, Runs: 3},
		WithLogger(logging.NewLogger(io.Discard, "bench")),
		WithProgress(func(run, runs int) {
			if runs != 3 {
				t.Errorf("runs = %d", runs)
			}
			calls = append(calls, run)
		}),
	)
	if r.Config().Threshold != 2 {
		t.Errorf("default threshold = %v", r.Config().Threshold)
	}

	report, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Algorithm != fibonacci.AlgorithmNaive {
		t.Errorf("Algorithm = %q", report.Algorithm)
	}
	if len(report.Rows) != 31 || report.Runs != 3 {
		t.Errorf("rows = %d runs = %d", len(report.Rows), report.Runs)
	}
	if diff := cmp.Diff([]int{1, 2, 3}, calls); diff != "" {
		t.Errorf("progress calls (-want +got):\n%s", diff)
	}
	if report.Host.LogicalCores == 0 {
		t.Error("host info missing")
	}
}

func TestWriteAndReadText(t *testing.T) {
	t.Parallel()
	rows := []Row{
		{N: 0, Kernel: 12.4, User: 80.6, Diff: 68.2},
		{N: 1, Kernel: 13, User: 81, Diff: 68},
		{N: 2, Kernel: math.NaN(), User: 1, Diff: 1},
	}
	var buf bytes.Buffer
	if err := WriteText(&buf, rows); err != nil {
		t.Fatal(err)
	}
	want := "0 12 81 68\n1 13 81 68\n2 0 1 1\n"
	if buf.String() != want {
		t.Fatalf("WriteText = %q, want %q", buf.String(), want)
	}

	got, err := ReadText(bytes.NewBufferString("# n kernel user diff\n\n" + want))
	if err != nil {
		t.Fatalf("ReadText: %v", err)
	}
	wantRows := []Row{
		{N: 0, Kernel: 12, User: 81, Diff: 68},
		{N: 1, Kernel: 13, User: 81, Diff: 68},
		{N: 2, Kernel: 0, User: 1, Diff: 1},
	}
	if diff := cmp.Diff(wantRows, got); diff != "" {
		t.Errorf("ReadText (-want +got):\n%s", diff)
	}

	if _, err := ReadText(bytes.NewBufferString("1 2 three 4\n")); err == nil {
		t.Error("expected a parse error")
	}
}

func TestPlot(t *testing.T) {
	t.Parallel()
	rows := []Row{
		{N: 0, Kernel: 10, User: 50, Diff: 40},
		{N: 1, Kernel: 12, User: 55, Diff: 43},
		{N: 2, Kernel: 15, User: 60, Diff: 45},
	}
	path := filepath.Join(t.TempDir(), "bench.png")
	if err := Plot(path, "fibdrv", Series{Name: "doubling", Rows: rows}, Series{Name: "naive", Rows: rows}); err != nil {
		t.Fatalf("Plot: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("plot file is empty")
	}
}
