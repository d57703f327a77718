package tui

import (
	"time"

	"github.com/agbru/fibdrv/internal/orchestration"
)

// ProgressMsg carries one aggregated progress update.
type ProgressMsg struct {
	CalculatorIndex int
	Value           float64
	AverageProgress float64
	ETA             time.Duration
}

// ProgressDoneMsg is sent once the progress channel is closed.
type ProgressDoneMsg struct{}

// ComparisonResultsMsg carries the sorted results of a run.
type ComparisonResultsMsg struct {
	Results []orchestration.CalculationResult
}

// FinalResultMsg carries the result selected for display.
type FinalResultMsg struct {
	Result  orchestration.CalculationResult
	Options orchestration.PresentationOptions
}

// ErrorMsg reports a run in which every generator failed.
type ErrorMsg struct {
	Err      error
	Duration time.Duration
}

// TickMsg drives periodic sampling.
type TickMsg time.Time

// MemStatsMsg is a runtime memory sample.
type MemStatsMsg struct {
	Alloc        uint64
	HeapSys      uint64
	NumGC        uint32
	PauseTotalNs uint64
	NumGoroutine int
}

// SysStatsMsg is a host-wide CPU and memory sample, in percent.
type SysStatsMsg struct {
	CPUPercent float64
	MemPercent float64
}

// CalculationCompleteMsg ends a run. Generation identifies the run so that
// messages from a cancelled run are ignored after a restart.
type CalculationCompleteMsg struct {
	ExitCode   int
	Generation uint64
}

// ContextCancelledMsg reports that the run context ended.
type ContextCancelledMsg struct {
	Err        error
	Generation uint64
}
