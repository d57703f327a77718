package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/agbru/fibdrv/internal/format"
)

const (
	// sparklineWidth is the room taken by the label and value around a
	// sparkline, including the panel border.
	sparklineWidth = 17
	// minSparklineHeight is the panel height from which the host
	// sparklines are drawn.
	minSparklineHeight = 10
	// minBarWidth is the smallest panel width that fits a progress bar.
	minBarWidth = 20
)

// ChartModel shows overall progress with its ETA and the recent host CPU
// and memory load.
type ChartModel struct {
	averageProgress float64
	eta             time.Duration
	elapsed         time.Duration
	done            bool
	cpuHistory      *RingBuffer
	memHistory      *RingBuffer
	width           int
	height          int
}

// NewChartModel returns an empty chart.
func NewChartModel() ChartModel {
	return ChartModel{
		cpuHistory: NewRingBuffer(60),
		memHistory: NewRingBuffer(60),
	}
}

// SetSize updates the dimensions and resizes the sample buffers to the
// sparkline width.
func (c *ChartModel) SetSize(w, h int) {
	c.width = w
	c.height = h
	if n := w - sparklineWidth; n > 0 {
		c.cpuHistory.Resize(n)
		c.memHistory.Resize(n)
	}
}

// AddDataPoint records a progress update.
func (c *ChartModel) AddDataPoint(_ float64, average float64, eta time.Duration) {
	c.averageProgress = average
	c.eta = eta
}

// UpdateSysStats records a host sample.
func (c *ChartModel) UpdateSysStats(cpuPercent, memPercent float64) {
	c.cpuHistory.Push(cpuPercent)
	c.memHistory.Push(memPercent)
}

// SetDone freezes the chart at 100% with the total elapsed time.
func (c *ChartModel) SetDone(elapsed time.Duration) {
	c.done = true
	c.elapsed = elapsed
	c.averageProgress = 1
	c.eta = 0
}

// Reset clears progress and samples.
func (c *ChartModel) Reset() {
	c.averageProgress = 0
	c.eta = 0
	c.elapsed = 0
	c.done = false
	c.cpuHistory.Reset()
	c.memHistory.Reset()
}

func (c ChartModel) renderProgressBar() string {
	barWidth := c.width - 14
	if c.width < minBarWidth || barWidth <= 0 {
		return ""
	}
	p := min(max(c.averageProgress, 0), 1)
	filled := int(p * float64(barWidth))
	return chartBarStyle.Render(strings.Repeat("█", filled)) +
		chartEmptyStyle.Render(strings.Repeat("░", barWidth-filled)) +
		metricValueStyle.Render(fmt.Sprintf(" %5.1f%%", p*100))
}

func (c ChartModel) renderSparkline(label string, buf *RingBuffer, style func(...string) string) string {
	return fmt.Sprintf(" %s %s %s",
		metricLabelStyle.Render(label),
		style(RenderSparkline(buf.Slice())),
		metricValueStyle.Render(fmt.Sprintf("%5.1f%%", buf.Last())))
}

// View renders the chart panel.
func (c ChartModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(" Progress Chart"))
	if bar := c.renderProgressBar(); bar != "" {
		b.WriteString("\n ")
		b.WriteString(bar)
	}
	b.WriteString("\n ")
	if c.done {
		b.WriteString(metricLabelStyle.Render("Done in: "))
		b.WriteString(metricValueStyle.Render(format.FormatExecutionDuration(c.elapsed)))
	} else {
		b.WriteString(metricLabelStyle.Render("ETA: "))
		b.WriteString(metricValueStyle.Render(format.FormatETA(c.eta)))
	}

	if c.height >= minSparklineHeight {
		b.WriteString("\n\n")
		b.WriteString(c.renderSparkline("CPU", c.cpuHistory, cpuSparklineStyle.Render))
		b.WriteString("\n")
		b.WriteString(c.renderSparkline("MEM", c.memHistory, memSparklineStyle.Render))
	}

	return panelStyle.
		Width(max(c.width-2, 0)).
		Height(max(c.height-2, 0)).
		Render(b.String())
}
