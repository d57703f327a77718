package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/fibdrv/internal/config"
	"github.com/agbru/fibdrv/internal/format"
	"github.com/agbru/fibdrv/internal/orchestration"
)

// progressLogStep is the progress delta between two logged updates of the
// same generator.
const progressLogStep = 0.1

// LogsModel is the scrollable event log.
type LogsModel struct {
	algoNames    []string
	entries      []string
	lastLogged   []float64
	viewport     viewport.Model
	width        int
	height       int
	autoScroll   bool
	configHeader []string
}

// NewLogsModel returns an empty log for the named generators.
func NewLogsModel(algoNames []string) LogsModel {
	return LogsModel{
		algoNames:  algoNames,
		lastLogged: make([]float64, len(algoNames)),
		viewport:   viewport.New(0, 0),
		autoScroll: true,
	}
}

// SetSize updates the dimensions.
func (l *LogsModel) SetSize(w, h int) {
	l.width = w
	l.height = h
	l.viewport.Width = max(w-4, 0)
	l.viewport.Height = max(h-3, 0)
	l.refresh()
}

// AddExecutionConfig logs the run parameters. They survive Reset.
func (l *LogsModel) AddExecutionConfig(cfg config.AppConfig) {
	l.configHeader = []string{
		l.line(logAlgoStyle.Render("config"), fmt.Sprintf("F(%d), algorithms: %s, timeout %s",
			cfg.N, strings.Join(l.algoNames, ", "), cfg.Timeout)),
	}
	l.refresh()
}

// AddProgressEntry logs progress in steps of progressLogStep.
func (l *LogsModel) AddProgressEntry(msg ProgressMsg) {
	i := msg.CalculatorIndex
	if i < 0 || i >= len(l.algoNames) {
		return
	}
	if msg.Value < 1 && msg.Value-l.lastLogged[i] < progressLogStep {
		return
	}
	l.lastLogged[i] = msg.Value
	l.add(logAlgoStyle.Render(l.algoNames[i]), logProgressStyle.Render(fmt.Sprintf("%5.1f%%", msg.Value*100)))
}

// AddResults logs one line per generator.
func (l *LogsModel) AddResults(results []orchestration.CalculationResult) {
	for _, r := range results {
		if r.Err != nil {
			l.add(logAlgoStyle.Render(r.Name), logErrorStyle.Render("failed: "+r.Err.Error()))
			continue
		}
		l.add(logAlgoStyle.Render(r.Name), logSuccessStyle.Render("done in "+format.FormatExecutionDuration(r.Duration)))
	}
}

// AddFinalResult logs the size of the selected value and, when requested,
// the value itself.
func (l *LogsModel) AddFinalResult(msg FinalResultMsg) {
	res := msg.Result.Result
	if res == nil {
		return
	}
	l.add(logAlgoStyle.Render(msg.Result.Name), logSuccessStyle.Render(fmt.Sprintf("F(%d): %s bits",
		msg.Options.N, format.FormatNumberString(fmt.Sprint(res.BitLen())))))
	if msg.Options.ShowValue {
		value := res.String()
		if !msg.Options.Verbose && len(value) > 60 {
			value = value[:25] + "..." + value[len(value)-25:]
		}
		l.add(logAlgoStyle.Render("value"), value)
	}
}

// AddError logs a failed run.
func (l *LogsModel) AddError(msg ErrorMsg) {
	l.add(logErrorStyle.Render("error"), logErrorStyle.Render(fmt.Sprintf("%v (after %s)", msg.Err, format.FormatExecutionDuration(msg.Duration))))
}

// Reset drops all entries except the configuration header.
func (l *LogsModel) Reset() {
	l.entries = nil
	clear(l.lastLogged)
	l.autoScroll = true
	l.refresh()
}

// Update scrolls the log. Scrolling up stops following new entries until
// the bottom is reached again.
func (l *LogsModel) Update(msg tea.Msg) {
	l.viewport, _ = l.viewport.Update(msg)
	l.autoScroll = l.viewport.AtBottom()
}

func (l *LogsModel) line(tag, text string) string {
	return fmt.Sprintf("%s %s %s", logTimeStyle.Render(time.Now().Format("15:04:05")), tag, text)
}

func (l *LogsModel) add(tag, text string) {
	l.entries = append(l.entries, l.line(tag, text))
	l.refresh()
}

func (l *LogsModel) refresh() {
	lines := append(append([]string(nil), l.configHeader...), l.entries...)
	l.viewport.SetContent(strings.Join(lines, "\n"))
	if l.autoScroll {
		l.viewport.GotoBottom()
	}
}

// renderToHeight renders the panel with the given total height.
func (l LogsModel) renderToHeight(h int) string {
	l.viewport.Height = max(h-3, 0)
	return panelStyle.
		Width(max(l.width-2, 0)).
		Height(max(h-2, 0)).
		Render(titleStyle.Render(" Logs") + "\n" + l.viewport.View())
}

// View renders the panel at its own height.
func (l LogsModel) View() string {
	return l.renderToHeight(l.height)
}
