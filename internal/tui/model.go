package tui

import (
	"context"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/fibdrv/internal/config"
	apperrors "github.com/agbru/fibdrv/internal/errors"
	"github.com/agbru/fibdrv/internal/fibonacci"
	"github.com/agbru/fibdrv/internal/metrics"
	"github.com/agbru/fibdrv/internal/orchestration"
	"github.com/agbru/fibdrv/internal/sysmon"
)

// LogsPanelWidthPercent is the share of the width given to the log panel.
const LogsPanelWidthPercent = 60

// MetricsPanelHeight caps the metrics panel; the chart takes the rest.
const MetricsPanelHeight = 6

const (
	chromeRows     = 2 // header and footer
	minBodyRows    = 4
	sampleInterval = 500 * time.Millisecond
)

// panes is the size of every panel for one terminal size.
type panes struct {
	width, body            int
	logsWidth, sideWidth   int
	metricsRows, chartRows int
}

func splitPanes(width, height int) panes {
	p := panes{width: width, body: max(height-chromeRows, minBodyRows)}
	p.logsWidth = width * LogsPanelWidthPercent / 100
	p.sideWidth = width - p.logsWidth
	p.metricsRows = min(MetricsPanelHeight, p.body/2)
	p.chartRows = p.body - p.metricsRows
	return p
}

// run is one pass of the generators. A reset replaces it with the next
// generation; messages from older generations are dropped.
type run struct {
	ctx      context.Context
	cancel   context.CancelFunc
	gen      uint64
	done     bool
	exitCode int
}

func (r *run) stop() {
	if r.cancel != nil {
		r.cancel()
	}
}

// Model is the root bubbletea model of the dashboard.
type Model struct {
	header  HeaderModel
	logs    LogsModel
	metrics MetricsModel
	chart   ChartModel
	footer  FooterModel
	keymap  KeyMap

	run    run
	size   panes
	sized  bool
	paused bool

	parentCtx   context.Context
	calculators []fibonacci.Calculator
	config      config.AppConfig
	ref         *programRef
}

// NewModel creates the dashboard for calculators.
func NewModel(parentCtx context.Context, calculators []fibonacci.Calculator, cfg config.AppConfig, version string) Model {
	names := make([]string, 0, len(calculators))
	for _, c := range calculators {
		names = append(names, c.Name())
	}
	logs := NewLogsModel(names)
	logs.AddExecutionConfig(cfg)

	m := Model{
		header:      NewHeaderModel(version, cfg.N),
		logs:        logs,
		metrics:     NewMetricsModel(),
		chart:       NewChartModel(),
		footer:      NewFooterModel(),
		keymap:      DefaultKeyMap(),
		parentCtx:   parentCtx,
		calculators: calculators,
		config:      cfg,
		ref:         &programRef{},
	}
	m.run = m.newRun(0)
	return m
}

func (m Model) newRun(gen uint64) run {
	ctx, cancel := context.WithTimeout(m.parentCtx, m.config.Timeout)
	return run{ctx: ctx, cancel: cancel, gen: gen, exitCode: apperrors.ExitSuccess}
}

// startCmds launches the current run along with the sampler and the
// context watcher.
func (m Model) startCmds() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		startCalculationCmd(m.ref, m.run.ctx, m.calculators, m.config, m.run.gen),
		watchContextCmd(m.run.ctx, m.run.gen),
	)
}

// Init starts sampling and the first run.
func (m Model) Init() tea.Cmd { return m.startCmds() }

// Update routes a message to the panel that owns it.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd = m.onKey(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case ProgressMsg:
		if !m.paused {
			m.logs.AddProgressEntry(msg)
			m.chart.AddDataPoint(msg.Value, msg.AverageProgress, msg.ETA)
			m.metrics.UpdateProgress(msg.AverageProgress)
		}
	case ComparisonResultsMsg:
		m.logs.AddResults(msg.Results)
	case FinalResultMsg:
		m.logs.AddFinalResult(msg)
		if v := msg.Result.Result; v != nil {
			m.metrics.SetResult(v.BitLen(), v.Len())
		}
	case ErrorMsg:
		m.logs.AddError(msg)
		m.footer.SetError(true)
	case TickMsg:
		cmd = m.onTick()
	case MemStatsMsg:
		m.metrics.UpdateMemStats(msg)
	case SysStatsMsg:
		m.chart.UpdateSysStats(msg.CPUPercent, msg.MemPercent)
	case CalculationCompleteMsg:
		if msg.Generation == m.run.gen {
			m.finish(msg.ExitCode)
			m.chart.SetDone(m.header.Elapsed())
		}
	case ContextCancelledMsg:
		cmd = m.onContextDone(msg)
	}
	return m, cmd
}

func (m *Model) finish(code int) {
	m.run.done = true
	m.run.exitCode = code
	m.header.SetDone()
	m.footer.SetDone(true)
}

func (m *Model) onTick() tea.Cmd {
	switch {
	case m.run.done:
		return nil
	case m.paused:
		return tickCmd()
	}
	return tea.Batch(sampleMemStatsCmd(), sampleSysStatsCmd(), tickCmd())
}

// onContextDone quits only when the parent context was canceled. A run
// timeout surfaces through the orchestration result instead.
func (m *Model) onContextDone(msg ContextCancelledMsg) tea.Cmd {
	if msg.Generation != m.run.gen || m.run.done || m.parentCtx.Err() == nil {
		return nil
	}
	m.finish(apperrors.ExitErrorCanceled)
	return tea.Quit
}

func (m *Model) onKey(msg tea.KeyMsg) tea.Cmd {
	km := m.keymap
	switch {
	case key.Matches(msg, km.Quit):
		m.run.stop()
		if !m.run.done {
			m.run.exitCode = apperrors.ExitErrorCanceled
		}
		return tea.Quit
	case key.Matches(msg, km.Pause):
		m.paused = !m.paused
		m.footer.SetPaused(m.paused)
	case key.Matches(msg, km.Reset):
		return m.restart()
	case key.Matches(msg, km.Up, km.Down, km.PageUp, km.PageDown):
		m.logs.Update(msg)
	}
	return nil
}

// restart cancels the current run and starts the next generation with
// cleared panels.
func (m *Model) restart() tea.Cmd {
	m.run.stop()
	m.run = m.newRun(m.run.gen + 1)
	m.paused = false

	m.header.Reset()
	m.logs.Reset()
	m.chart.Reset()
	m.metrics = NewMetricsModel()
	m.metrics.SetSize(m.size.sideWidth, m.size.metricsRows)
	m.footer.SetDone(false)
	m.footer.SetError(false)
	m.footer.SetPaused(false)

	return m.startCmds()
}

func (m *Model) resize(width, height int) {
	m.size = splitPanes(width, height)
	m.sized = width > 0 && height > 0
	m.header.SetWidth(width)
	m.footer.SetWidth(width)
	m.logs.SetSize(m.size.logsWidth, m.size.body)
	m.metrics.SetSize(m.size.sideWidth, m.size.metricsRows)
	m.chart.SetSize(m.size.sideWidth, m.size.chartRows)
}

// View renders the dashboard: logs on the left, metrics over the chart on
// the right.
func (m Model) View() string {
	if !m.sized {
		return "Initializing..."
	}
	side := lipgloss.JoinVertical(lipgloss.Left, m.metrics.View(), m.chart.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.logs.renderToHeight(lipgloss.Height(side)), side)
	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), body, m.footer.View())
}

// Run starts the dashboard and blocks until the user quits. It returns the
// process exit code.
func Run(ctx context.Context, calculators []fibonacci.Calculator, cfg config.AppConfig, version string) int {
	initTUIStyles()

	model := NewModel(ctx, calculators, cfg, version)
	defer model.run.stop()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.ref.attach(p)

	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		fm.run.stop()
		if err == nil || fm.run.exitCode != apperrors.ExitSuccess {
			return fm.run.exitCode
		}
	}
	if err != nil {
		return apperrors.ExitCodeFor(err)
	}
	return apperrors.ExitSuccess
}

// startCalculationCmd runs the generators through the orchestration layer
// and reports completion tagged with gen.
func startCalculationCmd(ref *programRef, ctx context.Context, calculators []fibonacci.Calculator, cfg config.AppConfig, gen uint64) tea.Cmd {
	return func() tea.Msg {
		b := &runBridge{ref: ref}
		results := orchestration.ExecuteCalculations(ctx, calculators, cfg.N, cfg.ToCalculationOptions(), b, io.Discard)
		code := orchestration.AnalyzeComparisonResults(results, presentationOptions(cfg), b, b, io.Discard)
		return CalculationCompleteMsg{ExitCode: code, Generation: gen}
	}
}

// presentationOptions derives the result format; hex wins over limbs.
func presentationOptions(cfg config.AppConfig) orchestration.PresentationOptions {
	opts := orchestration.PresentationOptions{
		N:         cfg.N,
		Verbose:   cfg.Verbose,
		Details:   cfg.Details,
		ShowValue: cfg.ShowValue,
		Format:    orchestration.FormatDecimal,
	}
	if cfg.HexOutput {
		opts.Format = orchestration.FormatHex
	} else if cfg.LimbOutput {
		opts.Format = orchestration.FormatLimbs
	}
	return opts
}

func tickCmd() tea.Cmd {
	return tea.Tick(sampleInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

var memCollector = metrics.NewMemoryCollector()

func sampleMemStatsCmd() tea.Cmd {
	return func() tea.Msg {
		s := memCollector.Snapshot()
		return MemStatsMsg{
			Alloc:        s.HeapAlloc,
			HeapSys:      s.HeapSys,
			NumGC:        s.NumGC,
			PauseTotalNs: s.PauseTotalNs,
			NumGoroutine: runtime.NumGoroutine(),
		}
	}
}

func sampleSysStatsCmd() tea.Cmd {
	return func() tea.Msg {
		s := sysmon.Sample()
		return SysStatsMsg{CPUPercent: s.CPUPercent, MemPercent: s.MemPercent}
	}
}

// watchContextCmd reports the end of a run's context.
func watchContextCmd(ctx context.Context, gen uint64) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err(), Generation: gen}
	}
}
