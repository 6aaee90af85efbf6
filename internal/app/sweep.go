package app

import (
	"context"
	"fmt"
	"io"

	"github.com/avezina/sumbench/internal/calibration"
	"github.com/avezina/sumbench/internal/cli"
	apperrors "github.com/avezina/sumbench/internal/errors"
	"github.com/avezina/sumbench/internal/history"
	"github.com/avezina/sumbench/internal/logging"
	"github.com/avezina/sumbench/internal/orchestration"
	"github.com/avezina/sumbench/internal/server"
	"github.com/avezina/sumbench/internal/ui"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// runSweep is the default mode: it times the iterative scan against the
// closed form over the input list, printing one comparison block per
// input as it completes. Mismatches are recorded, reported and counted
// but never stop the sweep; they only change the exit code under
// --strict.
func (a *Application) runSweep(ctx context.Context, out io.Writer) int {
	ctx, stop := a.runLifetime(ctx)
	defer stop()

	if a.Config.Boost {
		a.applyBoost()
	}

	calculators := orchestration.SweepPair(a.Factory)
	inputs := a.Config.SweepInputs()

	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, out)
		cli.PrintExecutionMode(calculators, out)
	}

	progressReporter, _ := a.progressSinks(out)

	metricsRun := a.startMetricsServer(ctx)
	defer metricsRun.Stop(a.ErrWriter)

	store := a.openHistory()
	if store != nil {
		defer store.Close()
	}

	var inner orchestration.ResultPresenter = cli.CLIResultPresenter{}
	if a.Config.Quiet {
		inner = plainSweepPresenter{}
	}
	presenter := &sweepRecorder{
		ResultPresenter: inner,
		recordCtx:       context.WithoutCancel(ctx),
		store:           store,
		metrics:         metricsRun.Metrics(),
		errW:            a.ErrWriter,
	}

	if m := metricsRun.Metrics(); m != nil {
		m.SweepStarted()
	}

	gc := a.newGCController(maxInput(inputs))
	gc.Begin()
	summary := orchestration.RunSweep(ctx, calculators, inputs, a.Config.Repeat,
		a.Config.ToCalculationOptions(), progressReporter, presenter, out)
	gc.End()

	if m := metricsRun.Metrics(); m != nil {
		m.SweepFinished()
	}

	if !a.Config.Quiet {
		printSweepSummary(summary, out)
		if hint := calibration.Annotation(a.Config); hint != "" {
			fmt.Fprintln(out, hint)
		}
	}

	if a.Config.OutputFile != "" {
		if code := a.saveSweepReport(summary, out); code != apperrors.ExitSuccess {
			return code
		}
	}

	switch {
	case ctx.Err() != nil:
		return apperrors.HandleCalculationError(ctx.Err(), 0, a.ErrWriter, cli.CLIColorProvider{})
	case summary.Mismatches > 0 && a.Config.Strict:
		return apperrors.ExitErrorMismatch
	default:
		return apperrors.ExitSuccess
	}
}

// printSweepSummary writes the closing consistency banner.
func printSweepSummary(summary orchestration.SweepSummary, out io.Writer) {
	verdict := "all consistent"
	if summary.Mismatches > 0 {
		verdict = fmt.Sprintf("%d mismatched", summary.Mismatches)
	}
	fmt.Fprintf(out, "\nSweep complete: %d inputs, %s.\n", len(summary.Comparisons), verdict)
}

// saveSweepReport writes the report file and confirms on stdout.
func (a *Application) saveSweepReport(summary orchestration.SweepSummary, out io.Writer) int {
	outputCfg := cli.OutputConfig{
		OutputFile: a.Config.OutputFile,
		Quiet:      a.Config.Quiet,
		Verbose:    a.Config.Verbose,
		ShowValue:  a.Config.ShowValue,
		AppVersion: Version,
	}
	if err := cli.WriteSweepReport(summary.Comparisons, outputCfg); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error saving report: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	if !a.Config.Quiet {
		fmt.Fprintf(out, "\n%s✓ Report saved to: %s%s%s\n",
			ui.ColorGreen(), ui.ColorCyan(), a.Config.OutputFile, ui.ColorReset())
	}
	return apperrors.ExitSuccess
}

// openHistory opens the history store when --history is set. When it
// cannot be opened the sweep proceeds without persistence.
func (a *Application) openHistory() *history.Store {
	if a.Config.HistoryPath == "" {
		return nil
	}
	store, err := history.Open(a.Config.HistoryPath)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Warning: history unavailable: %v\n", err)
		return nil
	}
	return store
}

// maxInput returns the largest value in the list, the size the GC fence
// decision keys on.
func maxInput(inputs []uint64) uint64 {
	var m uint64
	for _, n := range inputs {
		m = max(m, n)
	}
	return m
}

// sweepRecorder wraps the console presenter and mirrors every completed
// comparison into the opt-in sinks: the history store and the Prometheus
// registry. Sink failures warn on stderr and never affect the sweep.
type sweepRecorder struct {
	orchestration.ResultPresenter
	recordCtx context.Context
	store     *history.Store
	metrics   *server.Metrics
	errW      io.Writer
}

func (r *sweepRecorder) PresentComparison(cmp orchestration.Comparison, out io.Writer) {
	r.ResultPresenter.PresentComparison(cmp, out)

	if r.metrics != nil {
		r.metrics.CountInput(cmp.Consistent)
		for _, res := range cmp.Results {
			if res.Err == nil {
				r.metrics.ObserveStrategyDuration(res.Name, res.Duration)
			}
		}
	}
	if r.store != nil {
		if err := r.store.RecordComparison(r.recordCtx, cmp); err != nil {
			fmt.Fprintf(r.errW, "Warning: history write failed: %v\n", err)
		}
	}
}

// plainSweepPresenter renders comparison blocks without color escapes or
// decoration, the quiet-mode rendition of the sweep.
type plainSweepPresenter struct {
	cli.CLIResultPresenter
}

func (plainSweepPresenter) PresentComparison(cmp orchestration.Comparison, out io.Writer) {
	fmt.Fprintf(out, "\n%s", cli.FormatComparisonPlain(cmp))
}

// metricsLifecycle owns the opt-in Prometheus endpoint for the duration
// of a sweep. The nil receiver is the disabled state.
type metricsLifecycle struct {
	metrics *server.Metrics
	cancel  context.CancelFunc
	group   *errgroup.Group
}

// startMetricsServer launches the metrics endpoint when --metrics-addr
// is set, returning nil otherwise.
func (a *Application) startMetricsServer(ctx context.Context) *metricsLifecycle {
	if a.Config.MetricsAddr == "" {
		return nil
	}
	srv := server.New(a.Config.MetricsAddr, a.Factory,
		logging.NewConsoleLogger(a.ErrWriter, "server", zerolog.InfoLevel))

	srvCtx, cancel := context.WithCancel(ctx)
	g := new(errgroup.Group)
	g.Go(func() error { return srv.Run(srvCtx) })

	return &metricsLifecycle{metrics: srv.Metrics(), cancel: cancel, group: g}
}

// Metrics returns the registry hooks, nil when the server is disabled.
func (l *metricsLifecycle) Metrics() *server.Metrics {
	if l == nil {
		return nil
	}
	return l.metrics
}

// Stop shuts the endpoint down and waits for in-flight scrapes to drain.
func (l *metricsLifecycle) Stop(errW io.Writer) {
	if l == nil {
		return
	}
	l.cancel()
	if err := l.group.Wait(); err != nil {
		fmt.Fprintf(errW, "Warning: metrics server: %v\n", err)
	}
}
