package tui

import (
	"io"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/agbru/fibdrv/internal/errors"
	"github.com/agbru/fibdrv/internal/orchestration"
	"github.com/agbru/fibdrv/internal/progress"
)

// sender is satisfied by *tea.Program.
type sender interface {
	Send(msg tea.Msg)
}

// programRef lets run goroutines post to the program. Model is copied on
// every Update, so it keeps a pointer to one shared ref.
type programRef struct {
	mu  sync.RWMutex
	dst sender
}

func (r *programRef) attach(s sender) {
	r.mu.Lock()
	r.dst = s
	r.mu.Unlock()
}

// Send posts msg, or drops it while no program is attached.
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	dst := r.dst
	r.mu.RUnlock()
	if dst != nil {
		dst.Send(msg)
	}
}

// runBridge turns orchestration callbacks into dashboard messages. Nothing
// is written to the io.Writer arguments.
type runBridge struct {
	ref *programRef
}

var (
	_ orchestration.ProgressReporter = (*runBridge)(nil)
	_ orchestration.ResultPresenter  = (*runBridge)(nil)
	_ orchestration.ErrorHandler     = (*runBridge)(nil)
)

// DisplayProgress aggregates the updates of numCalculators generators and
// ends with a ProgressDoneMsg once the channel closes.
func (b *runBridge) DisplayProgress(wg *sync.WaitGroup, updates <-chan progress.ProgressUpdate, numCalculators int, _ io.Writer) {
	defer wg.Done()

	agg := orchestration.NewProgressAggregator(numCalculators)
	if agg == nil {
		orchestration.DrainChannel(updates)
		return
	}
	for u := range updates {
		p := agg.Update(u)
		b.ref.Send(ProgressMsg{
			CalculatorIndex: p.CalculatorIndex,
			Value:           p.Value,
			AverageProgress: p.AverageProgress,
			ETA:             p.ETA,
		})
	}
	b.ref.Send(ProgressDoneMsg{})
}

func (b *runBridge) PresentComparisonTable(results []orchestration.CalculationResult, _ io.Writer) {
	b.ref.Send(ComparisonResultsMsg{Results: results})
}

func (b *runBridge) PresentResult(result orchestration.CalculationResult, opts orchestration.PresentationOptions, _ io.Writer) {
	b.ref.Send(FinalResultMsg{Result: result, Options: opts})
}

// HandleError posts the failure and maps it to an exit code.
func (b *runBridge) HandleError(err error, duration time.Duration, _ io.Writer) int {
	b.ref.Send(ErrorMsg{Err: err, Duration: duration})
	return apperrors.ExitCodeFor(err)
}
