package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/avezina/sumbench/internal/cli"
	apperrors "github.com/avezina/sumbench/internal/errors"
	"github.com/avezina/sumbench/internal/gauss"
	"github.com/avezina/sumbench/internal/gauss/memory"
	"github.com/avezina/sumbench/internal/history"
	"github.com/avezina/sumbench/internal/metrics"
	"github.com/avezina/sumbench/internal/orchestration"
	"github.com/avezina/sumbench/internal/ui"
	"github.com/rs/zerolog"
)

// runDuel times the selected strategies against the single input from
// --n and prints the comparison table. A value mismatch exits zero
// unless --strict promotes it.
func (a *Application) runDuel(ctx context.Context, out io.Writer) int {
	if a.Config.LastDigits > 0 {
		return a.runLastDigits(out)
	}

	ctx, stop := a.runLifetime(ctx)
	defer stop()

	if a.Config.Boost {
		a.applyBoost()
	}

	calculators := orchestration.GetCalculatorsToRun(a.Config.Algo, a.Factory)

	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, out)
		cli.PrintExecutionMode(calculators, out)
	}

	progressReporter, progressOut := a.progressSinks(out)

	gc := a.newGCController(a.Config.N)
	collector := metrics.NewMemoryCollector()
	before := collector.Snapshot()
	gc.Begin()
	results := orchestration.ExecuteStrategies(ctx, calculators, a.Config.N, a.Config.Repeat,
		a.Config.ToCalculationOptions(), progressReporter, progressOut)
	gc.End()
	after := collector.Snapshot()

	// Snapshot the comparison before analysis reorders the results.
	cmp := orchestration.BuildComparison(a.Config.N, results)

	code := a.analyzeDuelResults(results, out)

	if a.Config.Details && !a.Config.Quiet {
		delta := after.DeltaSince(before)
		cli.DisplayMemoryStats(after.HeapAlloc, delta.AllocatedBytes, delta.GCCycles, delta.GCPauseNs, out)
	}

	a.recordDuel(ctx, cmp)

	if code == apperrors.ExitErrorMismatch && !a.Config.Strict {
		code = apperrors.ExitSuccess
	}
	return code
}

// runLastDigits reports only the trailing K decimal digits of T(n)
// through the modular path. The closed form reduces mod 10^K, so this
// never materializes the full value.
func (a *Application) runLastDigits(out io.Writer) int {
	k := a.Config.LastDigits
	n := a.Config.N

	start := time.Now()
	value, err := gauss.SumLastDigits(n, k)
	elapsed := time.Since(start)

	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}

	if a.Config.Quiet {
		fmt.Fprintf(out, "%0*d\n", k, value)
		return apperrors.ExitSuccess
	}

	cli.DisplayLastDigits(out, n, k, value)
	fmt.Fprintf(out, "Computed in %s\n", elapsed)
	return apperrors.ExitSuccess
}

// newGCController builds the collector fence for a timed region. Fence
// events only surface in verbose mode; the default is a silent fence.
func (a *Application) newGCController(n uint64) *memory.GCController {
	gc := memory.NewGCController(a.Config.GCMode, n)
	if a.Config.Verbose {
		cw := zerolog.ConsoleWriter{Out: a.ErrWriter, TimeFormat: time.Kitchen}
		gc.SetLogger(zerolog.New(cw).With().Timestamp().Str("component", "gc").Logger())
	}
	return gc
}

func (a *Application) analyzeDuelResults(results []orchestration.StrategyResult, out io.Writer) int {
	outputCfg := cli.OutputConfig{
		OutputFile: a.Config.OutputFile,
		Quiet:      a.Config.Quiet,
		Verbose:    a.Config.Verbose,
		ShowValue:  a.Config.ShowValue,
		AppVersion: Version,
	}

	bestResult := findBestResult(results)

	if outputCfg.Quiet && bestResult != nil {
		cli.DisplayQuietResult(out, bestResult.Value, a.Config.N, bestResult.Duration)

		if err := a.saveResultIfNeeded(bestResult, outputCfg); err != nil {
			return apperrors.ExitErrorGeneric
		}
		return apperrors.ExitSuccess
	}

	presOpts := orchestration.PresentationOptions{
		N:         a.Config.N,
		Verbose:   a.Config.Verbose,
		Details:   a.Config.Details,
		ShowValue: a.Config.ShowValue,
	}
	exitCode := orchestration.AnalyzeComparisonResults(results, presOpts, cli.CLIResultPresenter{}, cli.CLIResultPresenter{}, out)

	if bestResult != nil && exitCode == apperrors.ExitSuccess {
		if err := a.saveResultIfNeeded(bestResult, outputCfg); err != nil {
			return apperrors.ExitErrorGeneric
		}
		if outputCfg.OutputFile != "" {
			fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n",
				ui.ColorGreen(), ui.ColorCyan(), outputCfg.OutputFile, ui.ColorReset())
		}
	}

	return exitCode
}

// recordDuel mirrors a duel outcome into the history store when one is
// configured. History failures warn and never change the exit code.
func (a *Application) recordDuel(ctx context.Context, cmp orchestration.Comparison) {
	if a.Config.HistoryPath == "" {
		return
	}
	store, err := history.Open(a.Config.HistoryPath)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Warning: history unavailable: %v\n", err)
		return
	}
	defer store.Close()

	if err := store.RecordComparison(context.WithoutCancel(ctx), cmp); err != nil {
		fmt.Fprintf(a.ErrWriter, "Warning: history write failed: %v\n", err)
	}
}

func findBestResult(results []orchestration.StrategyResult) *orchestration.StrategyResult {
	var bestResult *orchestration.StrategyResult
	for i := range results {
		if results[i].Err == nil {
			if bestResult == nil || results[i].Duration < bestResult.Duration {
				bestResult = &results[i]
			}
		}
	}
	return bestResult
}

func (a *Application) saveResultIfNeeded(res *orchestration.StrategyResult, cfg cli.OutputConfig) error {
	if cfg.OutputFile == "" {
		return nil
	}
	if err := cli.WriteResultToFile(res.Value, a.Config.N, res.Duration, res.Name, cfg); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error saving result: %v\n", err)
		return err
	}
	return nil
}
