// Package bench measures the device: per-index generator time and the
// caller-side time around a seek and read, repeated over many runs and
// reduced to outlier-filtered means.
package bench

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/agbru/fibdrv/internal/bignum"
	"github.com/agbru/fibdrv/internal/device"
	"github.com/agbru/fibdrv/internal/logging"
	"github.com/agbru/fibdrv/internal/sysmon"
)

// Sample is one measurement of F(N).
type Sample struct {
	N int64
	// Kernel is the time the device spent in the generator.
	Kernel time.Duration
	// User is the wall time around Seek and Read, seen by the caller.
	User time.Duration
}

// Diff is the caller-side overhead, User - Kernel.
func (s Sample) Diff() time.Duration { return s.User - s.Kernel }

// Collect measures F(0) through F(maxN) once, in order, on one device
// session. maxN is clamped to the device maximum.
func Collect(ctx context.Context, dev *device.Device, maxN int64) ([]Sample, error) {
	h, err := dev.Open()
	if err != nil {
		return nil, err
	}
	defer h.Close()

	maxN = min(maxN, dev.MaxLength())
	buf := make([]byte, 8*bignum.EstimateFibLimbs(uint64(max(maxN, 0))))
	samples := make([]Sample, 0, maxN+1)
	for k := int64(0); k <= maxN; k++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		if _, err := h.Seek(k, io.SeekStart); err != nil {
			return nil, err
		}
		if _, err := h.ReadContext(ctx, buf); err != nil {
			return nil, fmt.Errorf("read F(%d): %w", k, err)
		}
		user := time.Since(start)
		samples = append(samples, Sample{N: k, Kernel: h.Elapsed(), User: user})
	}
	return samples, nil
}

// Config controls a benchmark.
type Config struct {
	// MaxN is the largest index measured.
	MaxN int64
	// Runs is the number of full passes.
	Runs int
	// Threshold is the z-score above which a sample is an outlier.
	Threshold float64
	// Workers bounds the goroutines used to reduce the runs.
	Workers int
}

// DefaultConfig returns 50 runs up to the device maximum with |z| < 2.
func DefaultConfig() Config {
	return Config{MaxN: device.MaxLength, Runs: 50, Threshold: 2}
}

// Report is the reduced result of a benchmark.
type Report struct {
	Algorithm string
	Runs      int
	Rows      []Row
	Host      sysmon.HostInfo
	Started   time.Time
	Duration  time.Duration
}

// Runner runs repeated passes over a device.
type Runner struct {
	dev      *device.Device
	cfg      Config
	logger   logging.Logger
	progress func(run, runs int)
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the logger used for per-run events.
func WithLogger(l logging.Logger) RunnerOption {
	return func(r *Runner) { r.logger = l }
}

// WithProgress registers a callback invoked after each completed run.
func WithProgress(fn func(run, runs int)) RunnerOption {
	return func(r *Runner) { r.progress = fn }
}

// NewRunner builds a Runner. Zero fields of cfg take their defaults.
func NewRunner(dev *device.Device, cfg Config, opts ...RunnerOption) *Runner {
	def := DefaultConfig()
	if cfg.MaxN <= 0 {
		cfg.MaxN = def.MaxN
	}
	if cfg.Runs <= 0 {
		cfg.Runs = def.Runs
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = def.Threshold
	}
	r := &Runner{dev: dev, cfg: cfg}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logging.NewDefaultLogger()
	}
	return r
}

// Config returns the effective configuration.
func (r *Runner) Config() Config { return r.cfg }

// Run performs the passes one after another, since the device admits a
// single session, then reduces them cell by cell.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	started := time.Now()
	r.logger.Info("benchmark started",
		logging.String("algorithm", r.dev.Algorithm()),
		logging.Int("runs", r.cfg.Runs),
		logging.Int64("max_n", r.cfg.MaxN),
	)

	runs := make([][]Sample, 0, r.cfg.Runs)
	for i := 0; i < r.cfg.Runs; i++ {
		samples, err := Collect(ctx, r.dev, r.cfg.MaxN)
		if err != nil {
			r.logger.Error("benchmark run failed", err, logging.Int("run", i+1))
			return nil, err
		}
		runs = append(runs, samples)
		r.logger.Debug("run complete", logging.Int("run", i+1))
		if r.progress != nil {
			r.progress(i+1, r.cfg.Runs)
		}
	}

	rows, err := Aggregate(ctx, runs, r.cfg.Threshold, r.cfg.Workers)
	if err != nil {
		return nil, err
	}
	report := &Report{
		Algorithm: r.dev.Algorithm(),
		Runs:      r.cfg.Runs,
		Rows:      rows,
		Host:      sysmon.Host(),
		Started:   started,
		Duration:  time.Since(started),
	}
	r.logger.Info("benchmark finished",
		logging.Duration("duration", report.Duration),
		logging.Int("rows", len(rows)),
	)
	return report, nil
}
