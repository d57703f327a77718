package bench

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/agbru/fibdrv/internal/parallel"
)

// ErrNoRuns is returned by Aggregate when given no runs.
var ErrNoRuns = errors.New("bench: no runs to aggregate")

// Row is the reduced measurement for one index, in nanoseconds.
type Row struct {
	N      int64
	Kernel float64
	User   float64
	Diff   float64
}

// OutlierFilter keeps the values whose population z-score is below
// threshold in absolute value. When every value is equal it keeps them all.
func OutlierFilter(xs []float64, threshold float64) []float64 {
	if len(xs) == 0 {
		return nil
	}
	mean, std := stat.PopMeanStdDev(xs, nil)
	if std == 0 || math.IsNaN(std) {
		return append([]float64(nil), xs...)
	}
	kept := make([]float64, 0, len(xs))
	for _, x := range xs {
		if math.Abs((x-mean)/std) < threshold {
			kept = append(kept, x)
		}
	}
	return kept
}

// FilteredMean is the mean of OutlierFilter(xs, threshold).
func FilteredMean(xs []float64, threshold float64) float64 {
	kept := OutlierFilter(xs, threshold)
	if len(kept) == 0 {
		return math.NaN()
	}
	return stat.Mean(kept, nil)
}

// Aggregate reduces runs to one Row per index: every cell (index and
// timing category) is outlier-filtered across runs and averaged. All runs
// must cover the same indices in the same order.
func Aggregate(ctx context.Context, runs [][]Sample, threshold float64, workers int) ([]Row, error) {
	if len(runs) == 0 {
		return nil, ErrNoRuns
	}
	width := len(runs[0])
	for i, run := range runs {
		if len(run) != width {
			return nil, fmt.Errorf("bench: run %d has %d samples, want %d", i, len(run), width)
		}
	}

	rows := make([]Row, width)
	err := parallel.ForEach(ctx, width, workers, func(_ context.Context, j int) error {
		kernel := make([]float64, len(runs))
		user := make([]float64, len(runs))
		diff := make([]float64, len(runs))
		n := runs[0][j].N
		for i, run := range runs {
			s := run[j]
			if s.N != n {
				return fmt.Errorf("bench: run %d sample %d is F(%d), want F(%d)", i, j, s.N, n)
			}
			kernel[i] = float64(s.Kernel.Nanoseconds())
			user[i] = float64(s.User.Nanoseconds())
			diff[i] = float64(s.Diff().Nanoseconds())
		}
		rows[j] = Row{
			N:      n,
			Kernel: FilteredMean(kernel, threshold),
			User:   FilteredMean(user, threshold),
			Diff:   FilteredMean(diff, threshold),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}
