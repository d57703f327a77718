package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/agbru/fibdrv/internal/calibration"
	"github.com/agbru/fibdrv/internal/cli"
	"github.com/agbru/fibdrv/internal/config"
	"github.com/agbru/fibdrv/internal/device"
	apperrors "github.com/agbru/fibdrv/internal/errors"
	"github.com/agbru/fibdrv/internal/fibonacci"
	"github.com/agbru/fibdrv/internal/logging"
	"github.com/agbru/fibdrv/internal/orchestration"
	"github.com/agbru/fibdrv/internal/server"
	"github.com/agbru/fibdrv/internal/tui"
	"github.com/agbru/fibdrv/internal/ui"
)

// Application represents one fibdrv invocation.
type Application struct {
	Config    config.AppConfig
	Factory   fibonacci.CalculatorFactory
	ErrWriter io.Writer
	// In feeds the interactive prompt.
	In io.Reader
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithFactory sets the generator factory. The global factory is used
// otherwise.
func WithFactory(f fibonacci.CalculatorFactory) AppOption {
	return func(a *Application) { a.Factory = f }
}

// New parses args (program name first) into an Application. A cached
// calibration profile supplies the NTT cutover when none was given.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter, In: os.Stdin}
	for _, opt := range opts {
		opt(app)
	}
	if app.Factory == nil {
		app.Factory = fibonacci.GlobalFactory()
	}

	programName := "fibdrv"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, app.Factory.List())
	if err != nil {
		return nil, err
	}
	if !cfg.Calibrate {
		cfg, _ = calibration.LoadCachedCalibration(cfg, nil)
	}

	app.Config = cfg
	return app, nil
}

// Run executes the mode selected by the configuration and returns the
// process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.ShowVersion {
		PrintVersion(out)
		return apperrors.ExitSuccess
	}
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	if err := logging.Setup(a.Config.LogLevel, a.ErrWriter, true); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	ui.InitTheme(a.Config.NoColor)

	switch {
	case a.Config.ServerMode:
		return a.runServer(ctx)
	case a.Config.Interactive:
		return a.runREPL(out)
	case a.Config.Calibrate:
		return a.runCalibration(ctx, out)
	case a.Config.TUI:
		return a.runTUI(ctx)
	}
	return a.runCalculate(ctx, out)
}

func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion, a.Factory.List()); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// newDevice builds the device served in server mode. "all" has no meaning
// for a single-session device and selects the default generator.
func (a *Application) newDevice() (*device.Device, error) {
	opts := []device.Option{
		device.WithMaxLength(int64(a.Config.MaxIndex)),
		device.WithOptions(a.Config.ToCalculationOptions()),
	}
	if a.Config.Algo != "" && a.Config.Algo != "all" {
		calc, err := a.Factory.Get(a.Config.Algo)
		if err != nil {
			return nil, err
		}
		opts = append(opts, device.WithAlgorithm(a.Config.Algo, calc))
	}
	return device.New(opts...), nil
}

func (a *Application) runServer(ctx context.Context) int {
	dev, err := a.newDevice()
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	srv := server.NewServer(dev, a.Factory, a.Config)
	if err := srv.Start(ctx); err != nil {
		fmt.Fprintf(a.ErrWriter, "Server error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

func (a *Application) runREPL(out io.Writer) int {
	repl := cli.NewREPL(a.Factory.GetAll(), cli.REPLConfig{
		DefaultAlgo: a.Config.Algo,
		Timeout:     a.Config.Timeout,
		Options:     a.Config.ToCalculationOptions(),
		Format:      a.presentation().Format,
	})
	repl.SetInput(a.In)
	repl.SetOutput(out)
	repl.Start()
	return apperrors.ExitSuccess
}

// runCalibration measures the NTT cutover with the doubling generator,
// which is the only one that multiplies.
func (a *Application) runCalibration(ctx context.Context, out io.Writer) int {
	ctx, cancel := setupLifecycle(ctx, a.Config.Timeout)
	defer cancel()

	calc, _ := a.Factory.Get(fibonacci.AlgorithmDoubling)
	return calibration.RunCalibration(ctx, out, calc, calibration.Options{
		ProfilePath: a.Config.CalibrationProfile,
		SaveProfile: true,
	})
}

func (a *Application) runTUI(ctx context.Context) int {
	ctx, cancel := setupLifecycle(ctx, a.Config.Timeout)
	defer cancel()

	calculators := orchestration.GetCalculatorsToRun(a.Config.Algo, a.Factory)
	return tui.Run(ctx, calculators, a.Config, Version)
}

// IsHelpError reports whether err comes from -help.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
