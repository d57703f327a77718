package calibration

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/agbru/fibdrv/internal/format"
	"github.com/agbru/fibdrv/internal/ui"
)

// printCalibrationResults prints one row per candidate and marks the best.
func printCalibrationResults(out io.Writer, results []calibrationResult, best int) {
	fmt.Fprintf(out, "\n--- Calibration Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "  %sNTT cutover%s   │ %sExecution Time%s\n", ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset())
	fmt.Fprintf(tw, "  %s┼%s\n", strings.Repeat("─", 14), strings.Repeat("─", 25))
	for _, res := range results {
		label := fmt.Sprintf("%d bytes", res.Threshold)
		duration := fmt.Sprintf("%sN/A%s", ui.ColorRed(), ui.ColorReset())
		if res.Err == nil {
			duration = format.FormatExecutionDuration(res.Duration)
			if res.Duration == 0 {
				duration = "< 1µs"
			}
		}
		highlight := ""
		if res.Threshold == best && res.Err == nil {
			highlight = fmt.Sprintf(" %s(Optimal)%s", ui.ColorGreen(), ui.ColorReset())
		}
		fmt.Fprintf(tw, "  %s%-12s%s │ %s%s%s%s\n", ui.ColorCyan(), label, ui.ColorReset(), ui.ColorYellow(), duration, ui.ColorReset(), highlight)
	}
	tw.Flush()
}

// printCachedCalibration reports a profile applied at startup.
func printCachedCalibration(out io.Writer, p *CalibrationProfile) {
	fmt.Fprintf(out, "%sCalibration profile%s: NTT cutover=%s%d%s bytes (%s)\n",
		ui.ColorGreen(), ui.ColorReset(),
		ui.ColorYellow(), p.OptimalNTTMinBytes, ui.ColorReset(),
		p.CalibratedAt.Format("2006-01-02"))
}
