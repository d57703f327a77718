package app

import (
	"context"
	"fmt"
	"io"

	"github.com/agbru/fibdrv/internal/cli"
	"github.com/agbru/fibdrv/internal/config"
	apperrors "github.com/agbru/fibdrv/internal/errors"
	"github.com/agbru/fibdrv/internal/fibonacci/memory"
	"github.com/agbru/fibdrv/internal/orchestration"
	"github.com/agbru/fibdrv/internal/ui"
)

// presentation maps the output flags to presentation options. -hex wins
// over -limbs.
func (a *Application) presentation() orchestration.PresentationOptions {
	return presentationFor(a.Config)
}

func presentationFor(cfg config.AppConfig) orchestration.PresentationOptions {
	f := orchestration.FormatDecimal
	switch {
	case cfg.HexOutput:
		f = orchestration.FormatHex
	case cfg.LimbOutput:
		f = orchestration.FormatLimbs
	}
	return orchestration.PresentationOptions{
		N:         cfg.N,
		Verbose:   cfg.Verbose,
		Details:   cfg.Details,
		ShowValue: cfg.ShowValue,
		Format:    f,
	}
}

// runCalculate computes F(N) with the selected generators and presents
// the result.
func (a *Application) runCalculate(ctx context.Context, out io.Writer) int {
	if a.Config.MemoryLimit != "" && !a.Config.Quiet {
		a.printMemoryEstimate(out)
	}

	ctx, cancel := setupLifecycle(ctx, a.Config.Timeout)
	defer cancel()

	calculators := orchestration.GetCalculatorsToRun(a.Config.Algo, a.Factory)
	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, out)
		cli.PrintExecutionMode(calculators, out)
	}

	var reporter orchestration.ProgressReporter = cli.CLIProgressReporter{}
	progressOut := out
	if a.Config.Quiet {
		reporter = orchestration.NullProgressReporter{}
		progressOut = io.Discard
	}

	results := orchestration.ExecuteCalculations(ctx, calculators, a.Config.N, a.Config.ToCalculationOptions(), reporter, progressOut)

	outputCfg := cli.OutputConfig{
		OutputFile:   a.Config.OutputFile,
		Quiet:        a.Config.Quiet,
		Presentation: a.presentation(),
	}
	return a.analyzeResults(results, outputCfg, out)
}

func (a *Application) printMemoryEstimate(out io.Writer) {
	est := memory.EstimateMemoryUsage(a.Config.N)
	fmt.Fprintf(out, "Memory estimate: %s (limit: %s)\n", memory.FormatMemoryEstimate(est), a.Config.MemoryLimit)
}

func (a *Application) analyzeResults(results []orchestration.CalculationResult, outputCfg cli.OutputConfig, out io.Writer) int {
	best := findBestResult(results)

	if outputCfg.Quiet {
		if best == nil {
			err := firstError(results)
			if err == nil {
				return apperrors.ExitErrorGeneric
			}
			return cli.CLIResultPresenter{}.HandleError(err, 0, a.ErrWriter)
		}
		cli.DisplayQuietResult(out, best.Result, outputCfg.Presentation.Format)
		if err := a.saveResult(best, outputCfg); err != nil {
			return apperrors.ExitErrorGeneric
		}
		return apperrors.ExitSuccess
	}

	exitCode := orchestration.AnalyzeComparisonResults(results, outputCfg.Presentation, cli.CLIResultPresenter{}, cli.CLIResultPresenter{}, out)
	if best != nil && exitCode == apperrors.ExitSuccess && outputCfg.OutputFile != "" {
		if err := a.saveResult(best, outputCfg); err != nil {
			return apperrors.ExitErrorGeneric
		}
		fmt.Fprintf(out, "\n%sResult saved to: %s%s%s\n",
			ui.ColorGreen(), ui.ColorCyan(), outputCfg.OutputFile, ui.ColorReset())
	}
	return exitCode
}

func findBestResult(results []orchestration.CalculationResult) *orchestration.CalculationResult {
	var best *orchestration.CalculationResult
	for i := range results {
		if results[i].Err == nil && (best == nil || results[i].Duration < best.Duration) {
			best = &results[i]
		}
	}
	return best
}

func firstError(results []orchestration.CalculationResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}

func (a *Application) saveResult(res *orchestration.CalculationResult, cfg cli.OutputConfig) error {
	if cfg.OutputFile == "" {
		return nil
	}
	if err := cli.WriteResultToFile(res.Result, res.Duration, res.Name, cfg); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error saving result: %v\n", err)
		return err
	}
	return nil
}
