package orchestration

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"sort"
	"strconv"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/avezina/sumbench/internal/errors"
	"github.com/avezina/sumbench/internal/gauss"
	"github.com/avezina/sumbench/internal/progress"
)

// Faster-method labels emitted by the comparison. The sign convention is
// iterative minus closed-form: a positive difference means the formula won.
const (
	LabelFormula   = "Formula"
	LabelIterative = "Iterative"
)

// ProgressBufferMultiplier defines the buffer size multiplier for the
// progress channel. A larger buffer reduces the likelihood of blocking a
// running strategy when the display is slow to consume updates.
const ProgressBufferMultiplier = 5

// tracer instruments the sweep loop. It is a no-op unless an embedding
// build installs an OpenTelemetry SDK.
var tracer = otel.Tracer("github.com/avezina/sumbench/internal/orchestration")

// Comparison is the per-input analysis of the timed strategy runs.
type Comparison struct {
	// N is the input the strategies were run against.
	N uint64
	// Results holds one entry per strategy in execution order. The first
	// entry is the iterative scan and the second the closed form; the sign
	// of Delta depends on that order.
	Results []StrategyResult
	// Delta is the signed difference iterative minus closed-form. It is
	// zero when either of the pair failed.
	Delta time.Duration
	// FasterLabel is LabelFormula when Delta is positive, LabelIterative
	// otherwise. Empty when either of the pair failed.
	FasterLabel string
	// Consistent reports whether every successful strategy returned the
	// same exact integer.
	Consistent bool
	// Mismatch describes the first divergent pair when Consistent is
	// false. It carries both raw values for display.
	Mismatch *apperrors.MismatchError
}

// SweepSummary aggregates the per-input comparisons of a full sweep.
type SweepSummary struct {
	// Comparisons holds one entry per completed input, in list order. A
	// canceled sweep holds fewer entries than the input list.
	Comparisons []Comparison
	// Mismatches counts the inputs whose strategies disagreed.
	Mismatches int
}

// ExecuteStrategies runs every strategy against n, one at a time, and
// collects the timed results.
//
// Runs are serialised: a timing taken while another strategy executes is
// not comparable. Concurrency is confined to the progress display, which
// consumes the buffered update channel until all runs finish.
//
// Parameters:
//   - ctx: The context for cancellation and deadlines, passed to each strategy.
//   - calculators: The strategies to execute, in timing order.
//   - n: The input value.
//   - repeat: Best-of-N measurement count; values below one mean a single run.
//   - opts: Strategy tuning options.
//   - progressReporter: The progress display (use NullProgressReporter for quiet mode).
//   - out: The io.Writer for progress output.
//
// Returns:
//   - []StrategyResult: One timed result per strategy, in input order.
func ExecuteStrategies(ctx context.Context, calculators []gauss.Calculator, n uint64, repeat int, opts gauss.Options, progressReporter ProgressReporter, out io.Writer) []StrategyResult {
	g, ctx := errgroup.WithContext(ctx)
	// SetLimit(1): timings are only comparable when runs do not overlap.
	g.SetLimit(1)

	results := make([]StrategyResult, len(calculators))
	progressChan := make(chan progress.ProgressUpdate, len(calculators)*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go progressReporter.DisplayProgress(&displayWg, progressChan, len(calculators), out)

	for i, calc := range calculators {
		idx, calculator := i, calc
		g.Go(func() error {
			duration, value, err := MeasureBest(repeat, func() (*big.Int, error) {
				return calculator.Calculate(ctx, progressChan, idx, n, opts)
			})
			results[idx] = StrategyResult{
				Name: calculator.Name(), Value: value, Duration: duration, Err: err,
			}
			return nil
		})
	}

	g.Wait()
	close(progressChan)
	displayWg.Wait()

	return results
}

// BuildComparison derives the per-input analysis from the timed results.
// The first two results must be the iterative scan and the closed form, in
// that order; with fewer than two successful runs the delta and label stay
// zero-valued and only the consistency check applies.
func BuildComparison(n uint64, results []StrategyResult) Comparison {
	cmp := Comparison{N: n, Results: results, Consistent: true}

	if len(results) >= 2 && results[0].Err == nil && results[1].Err == nil {
		cmp.Delta = results[0].Duration - results[1].Duration
		if cmp.Delta > 0 {
			cmp.FasterLabel = LabelFormula
		} else {
			cmp.FasterLabel = LabelIterative
		}
	}

	var reference *StrategyResult
	for i := range results {
		if results[i].Err != nil {
			continue
		}
		if reference == nil {
			reference = &results[i]
			continue
		}
		if results[i].Value.Cmp(reference.Value) != 0 {
			cmp.Consistent = false
			cmp.Mismatch = &apperrors.MismatchError{
				N:        n,
				RefName:  reference.Name,
				RefValue: reference.Value.String(),
				Name:     results[i].Name,
				Value:    results[i].Value.String(),
			}
			break
		}
	}

	return cmp
}

// RunSweep times every strategy against each input in list order, each
// input completing before the next begins, and hands every comparison to
// the presenter as it is produced.
//
// A mismatch is recorded in the summary but never stops the sweep; exit
// policy belongs to the caller. Context cancellation or timeout ends the
// sweep early, leaving the summary with the comparisons completed so far.
//
// Parameters:
//   - ctx: The context bounding the whole sweep.
//   - calculators: The strategies to time, iterative scan first.
//   - inputs: The ordered input list.
//   - repeat: Best-of-N measurement count per strategy.
//   - opts: Strategy tuning options.
//   - progressReporter: The progress display for long scans.
//   - presenter: The destination for each per-input comparison block.
//   - out: The io.Writer for presentation output.
//
// Returns:
//   - SweepSummary: All completed comparisons and the mismatch count.
func RunSweep(ctx context.Context, calculators []gauss.Calculator, inputs []uint64, repeat int, opts gauss.Options, progressReporter ProgressReporter, presenter ResultPresenter, out io.Writer) SweepSummary {
	summary := SweepSummary{Comparisons: make([]Comparison, 0, len(inputs))}

	for _, n := range inputs {
		if ctx.Err() != nil {
			break
		}

		inputCtx, span := tracer.Start(ctx, "sweep.input")
		span.SetAttributes(
			attribute.String("n", strconv.FormatUint(n, 10)),
			attribute.Int("strategies", len(calculators)),
		)

		results := ExecuteStrategies(inputCtx, calculators, n, repeat, opts, progressReporter, out)
		cmp := BuildComparison(n, results)
		presenter.PresentComparison(cmp, out)

		if !cmp.Consistent {
			summary.Mismatches++
		}
		summary.Comparisons = append(summary.Comparisons, cmp)
		span.End()
	}

	return summary
}

// AnalyzeComparisonResults processes the results of a multi-strategy duel
// and generates a summary report.
//
// It sorts the results by execution time, validates consistency across
// successful runs, and displays a comparative table. It handles the logic
// for determining global success or failure based on the individual
// outcomes.
//
// Parameters:
//   - results: The timed results to analyze.
//   - opts: Presentation options (input value, verbosity).
//   - presenter: The result presenter for display formatting.
//   - errHandler: Maps a total failure to its exit code.
//   - out: The io.Writer for the summary report.
//
// Returns:
//   - int: An exit code indicating success (0) or the type of failure.
func AnalyzeComparisonResults(results []StrategyResult, opts PresentationOptions, presenter ResultPresenter, errHandler ErrorHandler, out io.Writer) int {
	sort.Slice(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})

	var firstValidResult *StrategyResult
	var firstError error
	successCount := 0

	for i := range results {
		if results[i].Err != nil {
			if firstError == nil {
				firstError = results[i].Err
			}
		} else {
			successCount++
			if firstValidResult == nil {
				firstValidResult = &results[i]
			}
		}
	}

	// Present the comparison table
	presenter.PresentComparisonTable(results, out)

	if successCount == 0 {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No strategy could complete the run.\n")
		return errHandler.HandleError(firstError, 0, out)
	}

	for _, res := range results {
		if res.Err == nil && res.Value.Cmp(firstValidResult.Value) != 0 {
			mismatch := &apperrors.MismatchError{
				N:        opts.N,
				RefName:  firstValidResult.Name,
				RefValue: firstValidResult.Value.String(),
				Name:     res.Name,
				Value:    res.Value.String(),
			}
			fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! %v\n", mismatch)
			return apperrors.ExitErrorMismatch
		}
	}

	fmt.Fprintf(out, "\nGlobal Status: Success. All valid results are consistent.\n")
	presenter.PresentResult(*firstValidResult, opts.N, opts.Verbose, opts.Details, opts.ShowValue, out)
	return apperrors.ExitSuccess
}
