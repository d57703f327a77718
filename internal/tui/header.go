package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/fibdrv/internal/format"
)

// HeaderModel is the title bar: product, index under computation and the
// run clock.
type HeaderModel struct {
	version string
	n       uint64
	started time.Time
	stopped time.Time
	width   int
}

// NewHeaderModel starts the clock for a run computing F(n).
func NewHeaderModel(version string, n uint64) HeaderModel {
	return HeaderModel{version: version, n: n, started: time.Now()}
}

// SetDone stops the clock.
func (h *HeaderModel) SetDone() { h.stopped = time.Now() }

// Reset restarts the clock for a new run.
func (h *HeaderModel) Reset() {
	h.started = time.Now()
	h.stopped = time.Time{}
}

func (h *HeaderModel) SetWidth(w int) { h.width = w }

// Elapsed is the run time so far, or the total once stopped.
func (h HeaderModel) Elapsed() time.Duration {
	if h.stopped.IsZero() {
		return time.Since(h.started)
	}
	return h.stopped.Sub(h.started)
}

func (h HeaderModel) View() string {
	name := "fibdrv monitor"
	if h.version != "" && h.version != "dev" {
		name += " " + h.version
	}
	sep := versionStyle.Render(" | ")
	line := titleStyle.Render(name) +
		sep + elapsedStyle.Render(fmt.Sprintf("F(%s)", format.FormatNumberString(fmt.Sprint(h.n)))) +
		sep + elapsedStyle.Render("Elapsed: "+format.FormatExecutionDuration(h.Elapsed()))

	pad := max(h.width-2-lipgloss.Width(line), 0)
	return headerStyle.Width(h.width).Render(line + strings.Repeat(" ", pad))
}
