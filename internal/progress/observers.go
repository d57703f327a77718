package progress

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// ─────────────────────────────────────────────────────────────────────────────
// Channel Observer
// ─────────────────────────────────────────────────────────────────────────────

// ChannelObserver forwards updates to a channel without blocking. Updates
// that do not fit in the channel buffer are dropped; the next one supersedes
// them anyway.
type ChannelObserver struct {
	channel chan<- ProgressUpdate
}

// NewChannelObserver returns an observer writing to ch. A nil channel
// discards updates.
func NewChannelObserver(ch chan<- ProgressUpdate) *ChannelObserver {
	return &ChannelObserver{channel: ch}
}

// Update implements ProgressObserver.
func (o *ChannelObserver) Update(calcIndex int, progress float64) {
	if o.channel == nil {
		return
	}
	if progress > 1 {
		progress = 1
	}
	select {
	case o.channel <- ProgressUpdate{CalculatorIndex: calcIndex, Value: progress}:
	default:
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Logging Observer
// ─────────────────────────────────────────────────────────────────────────────

// LoggingObserver writes a debug event each time a calculator's progress
// advances by at least the configured threshold.
type LoggingObserver struct {
	logger    zerolog.Logger
	threshold float64

	mu      sync.Mutex
	lastLog map[int]float64
}

// NewLoggingObserver returns a LoggingObserver. A threshold <= 0 means 10%.
func NewLoggingObserver(logger zerolog.Logger, threshold float64) *LoggingObserver {
	if threshold <= 0 {
		threshold = 0.1
	}
	return &LoggingObserver{
		logger:    logger,
		threshold: threshold,
		lastLog:   make(map[int]float64),
	}
}

// Update implements ProgressObserver.
func (o *LoggingObserver) Update(calcIndex int, progress float64) {
	o.mu.Lock()
	defer o.mu.Unlock()

	last, seen := o.lastLog[calcIndex]
	if seen && progress < 1 && progress-last < o.threshold {
		return
	}
	o.logger.Debug().
		Int("calculator", calcIndex).
		Float64("progress", progress).
		Str("percent", fmt.Sprintf("%.1f%%", progress*100)).
		Msg("calculation progress")
	o.lastLog[calcIndex] = progress
}

// ─────────────────────────────────────────────────────────────────────────────
// No-Op Observer
// ─────────────────────────────────────────────────────────────────────────────

// NoOpObserver discards all updates.
type NoOpObserver struct{}

// NewNoOpObserver returns a NoOpObserver.
func NewNoOpObserver() *NoOpObserver {
	return &NoOpObserver{}
}

// Update implements ProgressObserver.
func (*NoOpObserver) Update(int, float64) {}
