// Command fibbench measures the Fibonacci device: for every index up to -n
// it records the generator time and the caller-side time around a seek and
// read, repeats the pass -runs times and writes outlier-filtered means.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/agbru/fibdrv/internal/bench"
	"github.com/agbru/fibdrv/internal/device"
	apperrors "github.com/agbru/fibdrv/internal/errors"
	"github.com/agbru/fibdrv/internal/fibonacci"
	"github.com/agbru/fibdrv/internal/logging"
)

type options struct {
	maxN      int64
	runs      int
	threshold float64
	workers   int
	algo      string
	compare   bool
	output    string
	plotPath  string
	logLevel  string
}

func parseFlags(args []string, errW io.Writer) (options, error) {
	def := bench.DefaultConfig()
	var o options
	fs := flag.NewFlagSet("fibbench", flag.ContinueOnError)
	fs.SetOutput(errW)
	fs.Int64Var(&o.maxN, "n", def.MaxN, "Largest index measured.")
	fs.IntVar(&o.runs, "runs", def.Runs, "Number of passes over 0..n.")
	fs.Float64Var(&o.threshold, "threshold", def.Threshold, "z-score above which a sample is dropped.")
	fs.IntVar(&o.workers, "workers", 0, "Goroutines used to reduce the runs (0 for GOMAXPROCS).")
	fs.StringVar(&o.algo, "algo", fibonacci.AlgorithmDoubling, "Generator to measure.")
	fs.BoolVar(&o.compare, "compare", false, "Measure every registered generator.")
	fs.StringVar(&o.output, "o", "", "Text output file (default standard output).")
	fs.StringVar(&o.plotPath, "plot", "", "Write a chart to this file (.png, .svg or .pdf).")
	fs.StringVar(&o.logLevel, "log-level", "info", "Log level (debug, info, warn, error).")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.maxN < 0 || o.runs <= 0 || o.threshold <= 0 {
		return o, apperrors.NewConfigError("-n must be non-negative, -runs and -threshold positive")
	}
	return o, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		if err == flag.ErrHelp {
			return apperrors.ExitSuccess
		}
		fmt.Fprintln(stderr, err)
		return apperrors.ExitErrorConfig
	}
	if err := logging.Setup(o.logLevel, stderr, true); err != nil {
		fmt.Fprintln(stderr, err)
		return apperrors.ExitErrorConfig
	}
	logger := logging.NewLogger(stderr, "fibbench")

	names := []string{o.algo}
	if o.compare {
		names = fibonacci.GlobalFactory().List()
	}

	var series []bench.Series
	for _, name := range names {
		calc, err := fibonacci.GlobalFactory().Get(name)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return apperrors.ExitErrorConfig
		}
		dev := device.New(device.WithAlgorithm(name, calc), device.WithMaxLength(max(o.maxN, 1)), device.WithLogger(logger))
		runner := bench.NewRunner(dev, bench.Config{MaxN: o.maxN, Runs: o.runs, Threshold: o.threshold, Workers: o.workers},
			bench.WithLogger(logger),
			bench.WithProgress(func(r, total int) {
				fmt.Fprintf(stderr, "\r%s: run %d/%d", name, r, total)
				if r == total {
					fmt.Fprintln(stderr)
				}
			}),
		)
		report, err := runner.Run(ctx)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return apperrors.ExitCodeFor(err)
		}
		logger.Info("host",
			logging.String("cpu", report.Host.CPUModel),
			logging.Int("cores", report.Host.LogicalCores),
		)
		series = append(series, bench.Series{Name: name, Rows: report.Rows})
	}

	if err := writeRows(stdout, o.output, series); err != nil {
		fmt.Fprintln(stderr, err)
		return apperrors.ExitErrorGeneric
	}
	if o.plotPath != "" {
		if err := bench.Plot(o.plotPath, "Fibonacci device timing", series...); err != nil {
			fmt.Fprintln(stderr, err)
			return apperrors.ExitErrorGeneric
		}
	}
	return apperrors.ExitSuccess
}

// writeRows writes every series in text form, each preceded by a comment
// line naming the generator.
func writeRows(stdout io.Writer, path string, series []bench.Series) (err error) {
	w := stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		w = f
	}
	for _, s := range series {
		if _, err := fmt.Fprintf(w, "# %s: n kernel_ns user_ns diff_ns\n", s.Name); err != nil {
			return err
		}
		if err := bench.WriteText(w, s.Rows); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
