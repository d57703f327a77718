package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/fibdrv/internal/format"
)

// MetricsModel shows runtime memory figures, the progress rate and, once a
// value is available, its size.
type MetricsModel struct {
	alloc        uint64
	heapSys      uint64
	numGC        uint32
	pauseTotalNs uint64
	numGoroutine int
	speed        float64 // progress per second
	lastProgress float64
	lastUpdate   time.Time
	resultBits   int
	resultLimbs  int
	width        int
	height       int
}

// NewMetricsModel returns an empty panel.
func NewMetricsModel() MetricsModel {
	return MetricsModel{lastUpdate: time.Now()}
}

// SetSize updates the dimensions.
func (m *MetricsModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// UpdateMemStats stores a runtime sample.
func (m *MetricsModel) UpdateMemStats(msg MemStatsMsg) {
	m.alloc = msg.Alloc
	m.heapSys = msg.HeapSys
	m.numGC = msg.NumGC
	m.pauseTotalNs = msg.PauseTotalNs
	m.numGoroutine = msg.NumGoroutine
}

// UpdateProgress folds a new average progress into an exponentially
// smoothed rate. Updates closer than 50ms apart are ignored.
func (m *MetricsModel) UpdateProgress(progress float64) {
	now := time.Now()
	dt := now.Sub(m.lastUpdate).Seconds()
	if dt <= 0.05 {
		return
	}
	if dp := progress - m.lastProgress; dp > 0 {
		instant := dp / dt
		if m.speed > 0 {
			m.speed = 0.7*m.speed + 0.3*instant
		} else {
			m.speed = instant
		}
	}
	m.lastProgress = progress
	m.lastUpdate = now
}

// SetResult records the size of the displayed value.
func (m *MetricsModel) SetResult(bits, limbs int) {
	m.resultBits = bits
	m.resultLimbs = limbs
}

// View renders the panel.
func (m MetricsModel) View() string {
	colWidth := max((m.width-6)/2, 0)

	speed := "-"
	if m.speed > 0 {
		speed = fmt.Sprintf("%.1f%%/s", m.speed*100)
	}

	left := []string{
		formatMetricCol("Memory:", format.FormatBytes(m.alloc), colWidth),
		formatMetricCol("GC Runs:", fmt.Sprintf("%d (%.1fms)", m.numGC, float64(m.pauseTotalNs)/1e6), colWidth),
	}
	right := []string{
		formatMetricCol("Heap:", format.FormatBytes(m.heapSys), colWidth),
		formatMetricCol("Goroutines:", fmt.Sprint(m.numGoroutine), colWidth),
	}
	left = append(left, formatMetricCol("Speed:", speed, colWidth))
	if m.resultBits > 0 {
		right = append(right, formatMetricCol("Result:", fmt.Sprintf("%s bits, %d limbs",
			format.FormatNumberString(fmt.Sprint(m.resultBits)), m.resultLimbs), colWidth))
	} else {
		right = append(right, formatMetricCol("Result:", "-", colWidth))
	}

	var rows strings.Builder
	rows.WriteString(titleStyle.Render(" Metrics"))
	for i := range left {
		rows.WriteString("\n")
		rows.WriteString(left[i])
		rows.WriteString(right[i])
	}

	return panelStyle.
		Width(max(m.width-2, 0)).
		Height(max(m.height-2, 0)).
		Render(rows.String())
}

func formatMetricCol(label, value string, colWidth int) string {
	cell := fmt.Sprintf(" %s %s",
		metricLabelStyle.Render(fmt.Sprintf("%-12s", label)),
		metricValueStyle.Render(value))
	if visible := lipgloss.Width(cell); visible < colWidth {
		cell += strings.Repeat(" ", colWidth-visible)
	}
	return cell
}
