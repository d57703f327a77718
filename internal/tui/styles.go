package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/fibdrv/internal/ui"
)

// Dashboard styles. initTUIStyles derives them from the active ui theme.
var (
	panelStyle, headerStyle, titleStyle, versionStyle, elapsedStyle lipgloss.Style

	logTimeStyle, logAlgoStyle, logProgressStyle, logSuccessStyle, logErrorStyle lipgloss.Style

	metricLabelStyle, metricValueStyle, chartBarStyle, chartEmptyStyle, cpuSparklineStyle, memSparklineStyle lipgloss.Style

	footerKeyStyle, footerDescStyle, statusRunningStyle, statusPausedStyle, statusDoneStyle, statusErrorStyle lipgloss.Style
)

func init() { initTUIStyles() }

// initTUIStyles is called again by Run since the theme can change after
// package initialization.
func initTUIStyles() {
	t := ui.GetCurrentTUITheme()
	fg := func(c lipgloss.TerminalColor) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	bold := func(c lipgloss.TerminalColor) lipgloss.Style { return fg(c).Bold(true) }

	panelStyle = fg(t.Text).
		Background(t.Bg).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border)
	headerStyle = bold(t.Accent).Background(t.Bg).Padding(0, 1)
	titleStyle = bold(t.Accent)
	versionStyle = fg(t.Dim)
	elapsedStyle = fg(t.Accent)

	logTimeStyle = fg(t.Dim)
	logAlgoStyle = fg(t.Info)
	logProgressStyle = fg(t.Accent)
	logSuccessStyle = fg(t.Success)
	logErrorStyle = fg(t.Error)

	metricLabelStyle = fg(t.Dim)
	metricValueStyle = bold(t.Accent)
	chartBarStyle = fg(t.Accent)
	chartEmptyStyle = fg(t.Dim)
	cpuSparklineStyle = fg(t.Accent)
	memSparklineStyle = fg(t.Warning)

	footerKeyStyle = bold(t.Accent)
	footerDescStyle = fg(t.Dim)
	statusRunningStyle = bold(t.Success)
	statusPausedStyle = bold(t.Warning)
	statusDoneStyle = bold(t.Accent)
	statusErrorStyle = bold(t.Error)
}
