package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/agbru/fibdrv/internal/bignum"
	"github.com/agbru/fibdrv/internal/config"
	"github.com/agbru/fibdrv/internal/fibonacci"
	"github.com/agbru/fibdrv/internal/fibonacci/memory"
	"github.com/agbru/fibdrv/internal/sysmon"
	"github.com/agbru/fibdrv/internal/ui"
)

// PrintExecutionConfig displays the target index, timeout, host and
// multiplier settings before a run.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Calculating %sF(%d)%s with a timeout of %s%s%s.\n",
		ui.ColorMagenta(), cfg.N, ui.ColorReset(), ui.ColorYellow(), cfg.Timeout, ui.ColorReset())

	features := strings.Join(sysmon.CPUFeatures(), " ")
	if features == "" {
		features = "none detected"
	}
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s, CPU features: %s%s%s.\n",
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset(),
		ui.ColorCyan(), runtime.Version(), ui.ColorReset(),
		ui.ColorCyan(), features, ui.ColorReset())

	nttMin := cfg.NTTMinBytes
	if nttMin == 0 {
		nttMin = bignum.MinNTTBytes
	}
	fmt.Fprintf(out, "Multiplication: NTT from %s%d%s bytes per operand, GC mode %s%s%s.\n",
		ui.ColorCyan(), nttMin, ui.ColorReset(), ui.ColorCyan(), cfg.GCMode, ui.ColorReset())
	fmt.Fprintf(out, "Estimated memory: %s%s%s.\n",
		ui.ColorCyan(), memory.FormatMemoryEstimate(memory.EstimateMemoryUsage(cfg.N)), ui.ColorReset())
}

// PrintExecutionMode displays whether one generator runs or all of them
// are cross-checked.
func PrintExecutionMode(calculators []fibonacci.Calculator, out io.Writer) {
	var modeDesc string
	if len(calculators) > 1 {
		modeDesc = "Parallel comparison of all algorithms"
	} else {
		modeDesc = fmt.Sprintf("Single calculation with the %s%s%s algorithm",
			ui.ColorGreen(), calculators[0].Name(), ui.ColorReset())
	}
	fmt.Fprintf(out, "Execution mode: %s.\n", modeDesc)
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}
