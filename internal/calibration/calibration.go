package calibration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/agbru/fibdrv/internal/cli"
	"github.com/agbru/fibdrv/internal/config"
	apperrors "github.com/agbru/fibdrv/internal/errors"
	"github.com/agbru/fibdrv/internal/fibonacci"
	"github.com/agbru/fibdrv/internal/ui"
)

// CalibrationN is the index computed once per candidate. F(200000) has
// about 17 KB, enough for every candidate to take effect.
const CalibrationN uint64 = 200_000

// Options configures RunCalibration.
type Options struct {
	// N overrides CalibrationN when non-zero.
	N uint64
	// Candidates overrides GenerateNTTThresholds when non-empty.
	Candidates []int
	// ProfilePath is where the profile is saved; empty selects the default.
	ProfilePath string
	// SaveProfile writes the winning cutover to ProfilePath.
	SaveProfile bool
}

type calibrationResult struct {
	Threshold int
	Duration  time.Duration
	Err       error
}

// RunCalibration computes F(N) with calc once per candidate cutover,
// prints a summary table and optionally saves the fastest candidate.
// It returns a process exit code.
func RunCalibration(ctx context.Context, out io.Writer, calc fibonacci.Calculator, opts Options) int {
	fmt.Fprintf(out, "--- Calibration Mode: Finding the NTT Cutover ---\n")
	if calc == nil {
		fmt.Fprintf(out, "%sCritical error: no generator available for calibration.%s\n", ui.ColorRed(), ui.ColorReset())
		return apperrors.ExitErrorGeneric
	}

	n := opts.N
	if n == 0 {
		n = CalibrationN
	}
	candidates := opts.Candidates
	if len(candidates) == 0 {
		candidates = GenerateNTTThresholds()
	}
	fmt.Fprintf(out, "%sComputing F(%d) with %s for %d candidates%s\n",
		ui.ColorCyan(), n, calc.Name(), len(candidates), ui.ColorReset())

	results := make([]calibrationResult, 0, len(candidates))
	best, bestDuration := 0, time.Duration(-1)
	started := time.Now()

	var wg sync.WaitGroup
	progressChan := make(chan fibonacci.ProgressUpdate, 5)
	wg.Add(1)
	go cli.DisplayProgress(&wg, progressChan, 1, out)
	stop := func() {
		close(progressChan)
		wg.Wait()
	}

	for _, threshold := range candidates {
		if ctx.Err() != nil {
			stop()
			fmt.Fprintf(out, "\n%sCalibration interrupted.%s\n", ui.ColorYellow(), ui.ColorReset())
			return apperrors.ExitErrorCanceled
		}

		start := time.Now()
		_, err := calc.Calculate(ctx, progressChan, 0, n, fibonacci.Options{NTTMinBytes: threshold})
		duration := time.Since(start)
		if err != nil {
			results = append(results, calibrationResult{threshold, 0, err})
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				stop()
				return apperrors.HandleCalculationError(err, duration, out, ui.ThemeColors{})
			}
			continue
		}
		results = append(results, calibrationResult{threshold, duration, nil})
		if bestDuration < 0 || duration < bestDuration {
			best, bestDuration = threshold, duration
		}
	}
	stop()

	if bestDuration < 0 {
		fmt.Fprintf(out, "\n%sCalibration failed: no valid results obtained.%s\n", ui.ColorRed(), ui.ColorReset())
		return apperrors.ExitErrorGeneric
	}

	printCalibrationResults(out, results, best)
	fmt.Fprintf(out, "\n%sRecommendation for this machine: %s-ntt-min-bytes %d%s\n",
		ui.ColorGreen(), ui.ColorYellow(), best, ui.ColorReset())

	if opts.SaveProfile {
		profile := NewProfile()
		profile.OptimalNTTMinBytes = best
		profile.CalibrationN = n
		profile.CalibrationTime = time.Since(started).String()
		path := resolvePath(opts.ProfilePath)
		if err := profile.SaveProfile(path); err != nil {
			fmt.Fprintf(out, "%sWarning: failed to save profile: %v%s\n", ui.ColorYellow(), err, ui.ColorReset())
		} else {
			fmt.Fprintf(out, "%sCalibration profile saved to %s%s\n", ui.ColorGreen(), path, ui.ColorReset())
		}
	}
	return apperrors.ExitSuccess
}

// LoadCachedCalibration applies a valid profile to cfg when no cutover was
// chosen explicitly. It reports whether cfg changed.
func LoadCachedCalibration(cfg config.AppConfig, out io.Writer) (config.AppConfig, bool) {
	if cfg.NTTMinBytes != 0 {
		return cfg, false
	}
	profile, loaded := LoadOrCreateProfile(cfg.CalibrationProfile)
	if !loaded || profile.OptimalNTTMinBytes == 0 {
		return cfg, false
	}
	cfg.NTTMinBytes = profile.OptimalNTTMinBytes
	if out != nil {
		printCachedCalibration(out, profile)
	}
	return cfg, true
}
