// Package app wires configuration, the strategy factory and the
// presentation layers into the sumbench executable. New parses the
// command line into an AppConfig; Run dispatches on the configured mode
// and returns the process exit code.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/avezina/sumbench/internal/calibration"
	"github.com/avezina/sumbench/internal/cli"
	"github.com/avezina/sumbench/internal/config"
	apperrors "github.com/avezina/sumbench/internal/errors"
	"github.com/avezina/sumbench/internal/gauss"
	"github.com/avezina/sumbench/internal/history"
	"github.com/avezina/sumbench/internal/orchestration"
	"github.com/avezina/sumbench/internal/tui"
	"github.com/avezina/sumbench/internal/ui"
	"github.com/rs/zerolog"
)

// Application represents the sumbench application instance.
type Application struct {
	Config    config.AppConfig
	Factory   gauss.CalculatorFactory
	ErrWriter io.Writer
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithFactory sets a custom CalculatorFactory for the application.
func WithFactory(f gauss.CalculatorFactory) AppOption {
	return func(a *Application) { a.Factory = f }
}

// New creates a new Application instance by parsing command-line arguments.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}
	if app.Factory == nil {
		app.Factory = gauss.NewDefaultFactory()
	}

	programName := "sumbench"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, app.Factory.List())
	if err != nil {
		return nil, err
	}

	app.Config = cfg
	return app, nil
}

// Run executes the application based on the configured mode.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Version {
		PrintVersion(out)
		return apperrors.ExitSuccess
	}
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	a.configureLogging()
	ui.InitTheme(a.Config.Theme, a.Config.NoColor)

	if a.Config.Calibrate || a.Config.Recalibrate {
		return a.runCalibration(ctx, out)
	}
	if a.Config.Interactive {
		return a.runREPL(out)
	}
	if a.Config.HistoryTop > 0 {
		return a.runHistoryTop(ctx, out)
	}
	if a.Config.TUI {
		return a.runTUI(ctx)
	}
	if a.Config.N > 0 {
		return a.runDuel(ctx, out)
	}
	return a.runSweep(ctx, out)
}

// configureLogging maps the verbosity flags onto the global zerolog level.
func (a *Application) configureLogging() {
	switch {
	case a.Config.Verbose:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case a.Config.Quiet:
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// runLifetime bounds ctx with the configured timeout, when one is set,
// and cancels it on SIGINT or SIGTERM.
func (a *Application) runLifetime(ctx context.Context) (context.Context, context.CancelFunc) {
	cancelTimeout := func() {}
	if a.Config.Timeout > 0 {
		ctx, cancelTimeout = context.WithTimeout(ctx, a.Config.Timeout)
	}
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	return ctx, func() {
		stopSignals()
		cancelTimeout()
	}
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion, a.Factory.List()); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// runCalibration measures timer behavior on this host and caches the
// resulting profile. A valid cached profile short-circuits the
// measurement unless --recalibrate discards it.
func (a *Application) runCalibration(ctx context.Context, out io.Writer) int {
	ctx, stop := a.runLifetime(ctx)
	defer stop()

	if !a.Config.Recalibrate {
		if cached := calibration.LoadCachedCalibration(a.Config.CalibrationProfile); cached != nil {
			calibration.PrintProfileSummary(cached, out)
			fmt.Fprintln(out, "Profile is current; use --recalibrate to measure again.")
			return apperrors.ExitSuccess
		}
	}

	if _, err := calibration.RunCalibration(ctx, a.Factory, a.Config, out); err != nil {
		return apperrors.HandleCalculationError(err, 0, a.ErrWriter, cli.CLIColorProvider{})
	}
	return apperrors.ExitSuccess
}

// runREPL starts the interactive prompt.
func (a *Application) runREPL(out io.Writer) int {
	repl := cli.NewREPL(a.Factory, cli.REPLConfig{
		DefaultAlgo:   a.Config.Algo,
		Timeout:       a.Config.Timeout,
		Repeat:        a.Config.Repeat,
		CheckInterval: a.Config.CheckInterval,
	})
	repl.SetOutput(out)
	repl.Start()
	return apperrors.ExitSuccess
}

// runHistoryTop prints the fastest recorded runs for the relevant inputs
// and exits without timing anything.
func (a *Application) runHistoryTop(ctx context.Context, out io.Writer) int {
	store, err := history.Open(a.Config.HistoryPath)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error opening history: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	defer store.Close()

	inputs := a.Config.SweepInputs()
	if a.Config.N > 0 {
		inputs = []uint64{a.Config.N}
	}

	entries, err := store.Fastest(ctx, a.Config.HistoryTop, inputs)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error querying history: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	cli.PresentHistoryTop(entries, out)
	return apperrors.ExitSuccess
}

// runTUI launches the full-screen dashboard.
func (a *Application) runTUI(ctx context.Context) int {
	ctx, stop := a.runLifetime(ctx)
	defer stop()

	calculators := a.timedCalculators()
	return tui.Run(ctx, calculators, a.Config, Version)
}

// timedCalculators returns the strategies the current mode will time: the
// --algo selection for a duel, the fixed iterative-versus-formula pair
// for a sweep.
func (a *Application) timedCalculators() []gauss.Calculator {
	if a.Config.N > 0 {
		return orchestration.GetCalculatorsToRun(a.Config.Algo, a.Factory)
	}
	return orchestration.SweepPair(a.Factory)
}

// progressSinks picks the progress reporter and its writer for the
// current verbosity.
func (a *Application) progressSinks(out io.Writer) (orchestration.ProgressReporter, io.Writer) {
	if a.Config.Quiet {
		return orchestration.NullProgressReporter{}, io.Discard
	}
	return cli.CLIProgressReporter{}, out
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
