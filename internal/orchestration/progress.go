package orchestration

import (
	"time"

	"github.com/agbru/fibdrv/internal/format"
	"github.com/agbru/fibdrv/internal/progress"
)

// ProgressAggregator folds the updates of several generators into one
// average with a smoothed ETA. The CLI spinner and the TUI bridge share it.
// It is not safe for concurrent use; one reader drains the channel.
type ProgressAggregator struct {
	eta   *format.ProgressWithETA
	count int
}

// NewProgressAggregator returns nil when there is nothing to track.
func NewProgressAggregator(numCalculators int) *ProgressAggregator {
	if numCalculators <= 0 {
		return nil
	}
	return &ProgressAggregator{eta: format.NewProgressWithETA(numCalculators), count: numCalculators}
}

// AggregatedProgress is one update together with the state after it.
type AggregatedProgress struct {
	CalculatorIndex int
	Value           float64
	// AverageProgress is the mean over all generators, in [0, 1].
	AverageProgress float64
	ETA             time.Duration
}

// Update records u and returns the new aggregate.
func (a *ProgressAggregator) Update(u progress.ProgressUpdate) AggregatedProgress {
	avg, eta := a.eta.UpdateWithETA(u.CalculatorIndex, u.Value)
	return AggregatedProgress{
		CalculatorIndex: u.CalculatorIndex,
		Value:           u.Value,
		AverageProgress: avg,
		ETA:             eta,
	}
}

// Current returns the aggregate without recording anything, for periodic
// redraws between updates.
func (a *ProgressAggregator) Current() (average float64, eta time.Duration) {
	return a.eta.CalculateAverage(), a.eta.GetETA()
}

// Multi reports whether more than one generator is tracked.
func (a *ProgressAggregator) Multi() bool { return a.count > 1 }

// DrainChannel discards updates until ch is closed.
func DrainChannel(ch <-chan progress.ProgressUpdate) {
	for range ch {
	}
}
