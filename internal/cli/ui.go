package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/fibdrv/internal/bignum"
	"github.com/agbru/fibdrv/internal/format"
	"github.com/agbru/fibdrv/internal/orchestration"
	"github.com/agbru/fibdrv/internal/progress"
	"github.com/agbru/fibdrv/internal/ui"
)

const (
	// TruncationLimit is the digit count from which a result is truncated
	// in standard output.
	TruncationLimit = 100
	// DisplayEdges is the number of digits shown at each end of a truncated
	// number.
	DisplayEdges = 25
	// ProgressRefreshRate defines the refresh frequency of the progress bar.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth defines the width in characters of the progress bar.
	ProgressBarWidth = 40
)

// Spinner abstracts a terminal spinner so that DisplayProgress can be
// tested without a terminal.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts spinner.Spinner to the Spinner interface.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }

func (rs *realSpinner) Stop() { rs.s.Stop() }

func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// DisplayProgress renders a spinner with an aggregated progress bar and
// ETA until progressChan is closed, then prints a final 100% line. It runs
// in its own goroutine and calls wg.Done on return.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numCalculators int, out io.Writer) {
	defer wg.Done()
	agg := orchestration.NewProgressAggregator(numCalculators)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}

	label := "Progress"
	if agg.Multi() {
		label = "Avg progress"
	}

	s := newSpinner(spinner.WithWriter(out))
	s.Start()
	stopped := false
	defer func() {
		if !stopped {
			s.Stop()
		}
	}()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				s.Stop()
				stopped = true
				fmt.Fprintf(out, "%s: %s\n", label, format.FormatProgressBarWithETA(1.0, time.Nanosecond, ProgressBarWidth))
				return
			}
			agg.Update(update)
		case <-ticker.C:
			avg, eta := agg.Current()
			s.UpdateSuffix(fmt.Sprintf(" %s: %s", label, format.FormatProgressBarWithETA(avg, eta, ProgressBarWidth)))
		}
	}
}

// DisplayResult prints the size of a result, optional details and, when
// opts.ShowValue is set, the value itself in the selected format. Long
// decimal values are truncated unless opts.Verbose is set.
func DisplayResult(result *bignum.BigUint, duration time.Duration, opts orchestration.PresentationOptions, out io.Writer) {
	fmt.Fprintf(out, "Result binary size: %s%s%s bits.\n", ui.ColorCyan(), format.FormatNumberString(fmt.Sprint(result.BitLen())), ui.ColorReset())

	var decimal string
	if opts.Details || (opts.ShowValue && opts.Format == orchestration.FormatDecimal) {
		decimal = result.String()
	}

	if opts.Details {
		fmt.Fprintf(out, "\n%s--- Detailed result analysis ---%s\n", ui.ColorBold(), ui.ColorReset())
		durationStr := format.FormatExecutionDuration(duration)
		if duration == 0 {
			durationStr = "< 1µs"
		}
		fmt.Fprintf(out, "Calculation time      : %s%s%s\n", ui.ColorGreen(), durationStr, ui.ColorReset())
		fmt.Fprintf(out, "Number of digits      : %s%s%s\n", ui.ColorCyan(), format.FormatNumberString(fmt.Sprint(len(decimal))), ui.ColorReset())
		fmt.Fprintf(out, "Limbs (64-bit)        : %s%d%s\n", ui.ColorCyan(), result.Len(), ui.ColorReset())
		fmt.Fprintf(out, "Minimal encoding      : %s%s%s\n", ui.ColorCyan(), format.FormatBytes(uint64(len(result.Bytes()))), ui.ColorReset())
		if len(decimal) > 6 {
			fmt.Fprintf(out, "Scientific notation   : %s%s%s\n", ui.ColorCyan(), scientific(decimal), ui.ColorReset())
		}
	}

	if !opts.ShowValue {
		return
	}

	fmt.Fprintf(out, "\n%s--- Calculated value ---%s\n", ui.ColorBold(), ui.ColorReset())
	if opts.Format != orchestration.FormatDecimal {
		fmt.Fprintf(out, "F(%s%d%s) = %s%s%s\n", ui.ColorMagenta(), opts.N, ui.ColorReset(), ui.ColorGreen(), FormatValue(result, opts.Format), ui.ColorReset())
		return
	}
	numDigits := len(decimal)
	switch {
	case opts.Verbose:
		fmt.Fprintf(out, "F(%s%d%s) =\n%s%s%s\n", ui.ColorMagenta(), opts.N, ui.ColorReset(), ui.ColorGreen(), format.FormatNumberString(decimal), ui.ColorReset())
	case numDigits > TruncationLimit:
		fmt.Fprintf(out, "F(%s%d%s) (truncated) = %s%s...%s%s\n",
			ui.ColorMagenta(), opts.N, ui.ColorReset(),
			ui.ColorGreen(), decimal[:DisplayEdges], decimal[numDigits-DisplayEdges:], ui.ColorReset())
		fmt.Fprintf(out, "(Tip: use the %s-v%s option to display the full value)\n", ui.ColorYellow(), ui.ColorReset())
	default:
		fmt.Fprintf(out, "F(%s%d%s) = %s%s%s\n", ui.ColorMagenta(), opts.N, ui.ColorReset(), ui.ColorGreen(), format.FormatNumberString(decimal), ui.ColorReset())
	}
}

// scientific renders a decimal string as d.dddddde+NN, truncating the
// mantissa.
func scientific(decimal string) string {
	end := min(len(decimal), 7)
	return fmt.Sprintf("%c.%se+%02d", decimal[0], decimal[1:end], len(decimal)-1)
}
