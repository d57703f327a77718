package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/agbru/fibdrv/internal/bignum"
	"github.com/agbru/fibdrv/internal/fibonacci"
	"github.com/agbru/fibdrv/internal/fibonacci/memory"
	"github.com/agbru/fibdrv/internal/format"
	"github.com/agbru/fibdrv/internal/orchestration"
	"github.com/agbru/fibdrv/internal/ui"
)

// REPLConfig holds configuration for the REPL session.
type REPLConfig struct {
	// DefaultAlgo is the generator used by calc; "all" or empty selects the
	// first registered one.
	DefaultAlgo string
	// Timeout bounds each calculation. Zero means one minute.
	Timeout time.Duration
	Options fibonacci.Options
	Format  orchestration.OutputFormat
}

// REPL is an interactive Fibonacci session.
type REPL struct {
	cfg      REPLConfig
	calcs    map[string]fibonacci.Calculator
	names    []string
	selected string
	in       io.Reader
	out      io.Writer
	commands []replCommand
}

// replCommand is one entry of the prompt's command table. A handler
// returns false to end the session.
type replCommand struct {
	names []string
	usage string
	help  string
	run   func(r *REPL, args []string) bool
}

// NewREPL creates a REPL over the given generators.
func NewREPL(calcs map[string]fibonacci.Calculator, cfg REPLConfig) *REPL {
	names := make([]string, 0, len(calcs))
	for name := range calcs {
		names = append(names, name)
	}
	slices.Sort(names)

	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Minute
	}
	selected := cfg.DefaultAlgo
	if _, ok := calcs[selected]; !ok && len(names) > 0 {
		selected = names[0]
	}

	return &REPL{
		cfg:      cfg,
		calcs:    calcs,
		names:    names,
		selected: selected,
		in:       os.Stdin,
		out:      os.Stdout,
		commands: replCommands(),
	}
}

func replCommands() []replCommand {
	withIndex := func(name string, fn func(*REPL, uint64)) func(*REPL, []string) bool {
		return func(r *REPL, args []string) bool {
			if n, ok := r.index(name, args); ok {
				fn(r, n)
			}
			return true
		}
	}
	return []replCommand{
		{[]string{"calc", "c"}, "calc <n>", "Calculate F(n) with the current algorithm", withIndex("calc", (*REPL).calculate)},
		{[]string{"algo", "a"}, "algo <name>", "Change algorithm", (*REPL).selectAlgo},
		{[]string{"compare", "cmp"}, "compare <n>", "Compare all algorithms for F(n)", withIndex("compare", (*REPL).compare)},
		{[]string{"mem"}, "mem <n>", "Estimate the memory needed for F(n)", withIndex("mem", (*REPL).estimate)},
		{[]string{"format", "f"}, "format <f>", "Output format: dec, hex or limbs", (*REPL).setFormat},
		{[]string{"hex"}, "", "", func(r *REPL, _ []string) bool { return r.setFormat([]string{"hex"}) }},
		{[]string{"list", "ls"}, "list", "List available algorithms", (*REPL).list},
		{[]string{"status", "st"}, "status", "Display current configuration", (*REPL).status},
		{[]string{"help", "h", "?"}, "help", "Display this help", func(r *REPL, _ []string) bool { r.printHelp(); return true }},
		{[]string{"exit", "quit", "q"}, "exit / quit", "Exit interactive mode", func(r *REPL, _ []string) bool {
			fmt.Fprintf(r.out, "%sGoodbye!%s\n", ui.ColorGreen(), ui.ColorReset())
			return false
		}},
	}
}

// SetInput sets a custom input reader.
func (r *REPL) SetInput(in io.Reader) { r.in = in }

// SetOutput sets a custom output writer.
func (r *REPL) SetOutput(out io.Writer) { r.out = out }

// Start reads and runs commands until exit or EOF.
func (r *REPL) Start() {
	fmt.Fprintf(r.out, "\n%sFibonacci Calculator - Interactive Mode%s\n\n", ui.ColorBold(), ui.ColorReset())
	r.printHelp()
	fmt.Fprintln(r.out)

	br := bufio.NewReader(r.in)
	for {
		fmt.Fprint(r.out, ui.ColorGreen()+"fib> "+ui.ColorReset())
		line, err := br.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" && !r.processCommand(line) {
			return
		}
		if err == nil {
			continue
		}
		if !errors.Is(err, io.EOF) {
			fmt.Fprintf(r.out, "%sRead error: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		}
		fmt.Fprintln(r.out, "\nGoodbye!")
		return
	}
}

func (r *REPL) printHelp() {
	fmt.Fprintf(r.out, "%sAvailable commands:%s\n", ui.ColorBold(), ui.ColorReset())
	for _, c := range r.commands {
		if c.help == "" {
			continue
		}
		help := c.help
		if c.names[0] == "algo" {
			help += " (" + strings.Join(r.names, ", ") + ")"
		}
		fmt.Fprintf(r.out, "  %s%-13s%s - %s\n", ui.ColorYellow(), c.usage, ui.ColorReset(), help)
	}
}

// processCommand runs one line. A bare number is shorthand for calc. It
// returns false when the session should end.
func (r *REPL) processCommand(line string) bool {
	fields := strings.Fields(line)
	name := strings.ToLower(fields[0])
	for _, c := range r.commands {
		if slices.Contains(c.names, name) {
			return c.run(r, fields[1:])
		}
	}
	if n, err := strconv.ParseUint(name, 10, 64); err == nil {
		r.calculate(n)
		return true
	}
	fmt.Fprintf(r.out, "%sUnknown command: %s%s\n", ui.ColorRed(), name, ui.ColorReset())
	fmt.Fprintf(r.out, "Type %shelp%s to see available commands.\n", ui.ColorYellow(), ui.ColorReset())
	return true
}

func (r *REPL) index(cmd string, args []string) (uint64, bool) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: %s <n>%s\n", ui.ColorRed(), cmd, ui.ColorReset())
		return 0, false
	}
	n, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(r.out, "%sInvalid value: %s%s\n", ui.ColorRed(), args[0], ui.ColorReset())
		return 0, false
	}
	return n, true
}

// compute runs calc for F(n) under the session timeout, draining progress
// through the spinner when verbose is set.
func (r *REPL) compute(calc fibonacci.Calculator, n uint64, verbose bool) (*bignum.BigUint, time.Duration, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.cfg.Timeout)
	defer cancel()

	var reporter orchestration.ProgressReporter = orchestration.NullProgressReporter{}
	if verbose {
		reporter = orchestration.ProgressReporterFunc(DisplayProgress)
	}
	updates := make(chan fibonacci.ProgressUpdate, orchestration.ProgressBufferMultiplier)
	var wg sync.WaitGroup
	wg.Add(1)
	go reporter.DisplayProgress(&wg, updates, 1, r.out)

	start := time.Now()
	v, err := calc.Calculate(ctx, updates, 0, n, r.cfg.Options)
	elapsed := time.Since(start)
	close(updates)
	wg.Wait()
	return v, elapsed, err
}

func (r *REPL) calculate(n uint64) {
	calc, ok := r.calcs[r.selected]
	if !ok {
		fmt.Fprintf(r.out, "%sAlgorithm not found: %s%s\n", ui.ColorRed(), r.selected, ui.ColorReset())
		return
	}
	fmt.Fprintf(r.out, "Calculating F(%s%d%s) with %s%s%s...\n",
		ui.ColorMagenta(), n, ui.ColorReset(), ui.ColorCyan(), calc.Name(), ui.ColorReset())

	v, elapsed, err := r.compute(calc, n, true)
	if err != nil {
		fmt.Fprintf(r.out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}

	text := FormatValue(v, r.cfg.Format)
	if r.cfg.Format == orchestration.FormatDecimal && len(text) > TruncationLimit {
		text = fmt.Sprintf("%s...%s (truncated, %d digits)", text[:DisplayEdges], text[len(text)-DisplayEdges:], len(text))
	}
	fmt.Fprintf(r.out, "\n%sResult:%s\n", ui.ColorBold(), ui.ColorReset())
	for _, row := range [][2]string{
		{"Time", ui.ColorGreen() + format.FormatExecutionDuration(elapsed)},
		{"Bits", ui.ColorCyan() + strconv.Itoa(v.BitLen())},
		{"Limbs", ui.ColorCyan() + strconv.Itoa(v.Len())},
	} {
		fmt.Fprintf(r.out, "  %-6s %s%s\n", row[0]+":", row[1], ui.ColorReset())
	}
	fmt.Fprintf(r.out, "  F(%d) = %s%s%s\n\n", n, ui.ColorGreen(), text, ui.ColorReset())
}

func (r *REPL) selectAlgo(args []string) bool {
	var name string
	if len(args) > 0 {
		name = strings.ToLower(args[0])
	}
	calc, ok := r.calcs[name]
	switch {
	case name == "":
		fmt.Fprintf(r.out, "%sUsage: algo <name>%s\n", ui.ColorRed(), ui.ColorReset())
	case !ok:
		fmt.Fprintf(r.out, "%sUnknown algorithm: %s%s\n", ui.ColorRed(), name, ui.ColorReset())
	default:
		r.selected = name
		fmt.Fprintf(r.out, "Algorithm changed to: %s%s%s\n", ui.ColorGreen(), calc.Name(), ui.ColorReset())
		return true
	}
	fmt.Fprintf(r.out, "Available algorithms: %s\n", strings.Join(r.names, ", "))
	return true
}

// compare runs every generator in name order and flags any value that
// differs from the first successful one.
func (r *REPL) compare(n uint64) {
	fmt.Fprintf(r.out, "\n%sComparison for F(%d):%s\n", ui.ColorBold(), n, ui.ColorReset())

	var first *bignum.BigUint
	for _, name := range r.names {
		label := ui.ColorYellow() + fmt.Sprintf("%-10s", name) + ui.ColorReset()
		v, elapsed, err := r.compute(r.calcs[name], n, false)
		if err != nil {
			fmt.Fprintf(r.out, "  %s: %sError - %v%s\n", label, ui.ColorRed(), err, ui.ColorReset())
			continue
		}
		if first == nil {
			first = v
		}
		mark := ui.ColorGreen() + "✓"
		if bignum.Compare(v, first) != 0 {
			mark = ui.ColorRed() + "✗ INCONSISTENT"
		}
		fmt.Fprintf(r.out, "  %s: %s%12s%s %s%s\n", label,
			ui.ColorCyan(), format.FormatExecutionDuration(elapsed), ui.ColorReset(), mark, ui.ColorReset())
	}
	fmt.Fprintln(r.out)
}

func (r *REPL) estimate(n uint64) {
	est := memory.FormatMemoryEstimate(memory.EstimateMemoryUsage(n))
	fmt.Fprintf(r.out, "F(%d) needs about %s%s%s\n", n, ui.ColorCyan(), est, ui.ColorReset())
}

var formatNames = []struct {
	name string
	f    orchestration.OutputFormat
}{
	{"dec", orchestration.FormatDecimal},
	{"hex", orchestration.FormatHex},
	{"limbs", orchestration.FormatLimbs},
}

func formatName(f orchestration.OutputFormat) string {
	for _, fn := range formatNames {
		if fn.f == f {
			return fn.name
		}
	}
	return "dec"
}

func (r *REPL) setFormat(args []string) bool {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: format dec|hex|limbs%s\n", ui.ColorRed(), ui.ColorReset())
		return true
	}
	want := strings.ToLower(args[0])
	for _, fn := range formatNames {
		if fn.name == want {
			r.cfg.Format = fn.f
			fmt.Fprintf(r.out, "Output format: %s%s%s\n", ui.ColorGreen(), fn.name, ui.ColorReset())
			return true
		}
	}
	fmt.Fprintf(r.out, "%sUnknown format: %s%s\n", ui.ColorRed(), args[0], ui.ColorReset())
	return true
}

func (r *REPL) list(_ []string) bool {
	fmt.Fprintf(r.out, "\n%sAvailable algorithms:%s\n", ui.ColorBold(), ui.ColorReset())
	for _, name := range r.names {
		marker := "  "
		if name == r.selected {
			marker = ui.ColorGreen() + "► " + ui.ColorReset()
		}
		fmt.Fprintf(r.out, "%s%s%-10s%s - %s\n", marker, ui.ColorYellow(), name, ui.ColorReset(), r.calcs[name].Name())
	}
	fmt.Fprintln(r.out)
	return true
}

func (r *REPL) status(_ []string) bool {
	opts := r.cfg.Options
	nttMin := opts.NTTMinBytes
	if nttMin == 0 {
		nttMin = bignum.MinNTTBytes
	}
	limit := "none"
	if opts.MemoryLimit > 0 {
		limit = format.FormatBytes(opts.MemoryLimit)
	}
	fmt.Fprintf(r.out, "\n%sCurrent configuration:%s\n", ui.ColorBold(), ui.ColorReset())
	for _, row := range [][2]string{
		{"Algorithm", r.selected},
		{"Timeout", r.cfg.Timeout.String()},
		{"NTT from", fmt.Sprintf("%d bytes", nttMin)},
		{"Memory limit", limit},
		{"Format", formatName(r.cfg.Format)},
	} {
		fmt.Fprintf(r.out, "  %-15s %s%s%s\n", row[0]+":", ui.ColorCyan(), row[1], ui.ColorReset())
	}
	fmt.Fprintln(r.out)
	return true
}
