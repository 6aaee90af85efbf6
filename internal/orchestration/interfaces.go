package orchestration

import (
	"io"
	"math/big"
	"sync"
	"time"

	"github.com/avezina/sumbench/internal/progress"
)

// StrategyResult encapsulates the outcome of a single timed strategy run.
// It serves as the shared domain type between orchestration and presentation layers.
type StrategyResult struct {
	// Name is the identifier of the strategy used (e.g., "Iterative Scan").
	Name string
	// Value is the computed sum. It is nil if an error occurred.
	Value *big.Int
	// Duration is the wall-clock time the run took.
	Duration time.Duration
	// Err contains any error that occurred during the run.
	Err error
}

// PresentationOptions configures how results are presented to the user.
type PresentationOptions struct {
	N         uint64
	Verbose   bool
	Details   bool
	ShowValue bool
}

// ProgressReporter defines the interface for displaying run progress.
// This interface decouples the orchestration layer from the presentation
// layer; the orchestration code coordinates the runs while implementations
// handle the visual representation (spinners, progress bars, TUI gauges).
type ProgressReporter interface {
	// DisplayProgress starts displaying progress updates from the channel.
	// It should be called in a separate goroutine and will run until the
	// progressChan is closed.
	//
	// Parameters:
	//   - wg: A WaitGroup to signal when display is complete.
	//   - progressChan: Channel receiving progress updates from strategies.
	//   - numStrategies: The number of strategies being tracked.
	//   - out: The writer for progress output.
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numStrategies int, out io.Writer)
}

// ProgressReporterFunc is a function adapter that implements ProgressReporter.
// This allows passing a function directly where a ProgressReporter is expected.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numStrategies int, out io.Writer)

// DisplayProgress calls the underlying function.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numStrategies int, out io.Writer) {
	f(wg, progressChan, numStrategies, out)
}

// NullProgressReporter is a no-op implementation of ProgressReporter.
// It drains the progress channel without displaying anything.
// Useful for quiet mode or testing.
type NullProgressReporter struct{}

// DisplayProgress drains the channel without output.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	for range progressChan {
		// Drain channel silently
	}
}

// ResultPresenter defines the interface for presenting run results.
// This interface decouples orchestration from presentation concerns,
// allowing different output formats (CLI text, report file, TUI) without
// modifying the orchestration logic.
type ResultPresenter interface {
	// PresentComparison displays one per-input comparison block: both
	// durations, the signed difference, the faster-method label and the
	// consistency verdict.
	PresentComparison(cmp Comparison, out io.Writer)

	// PresentComparisonTable displays the multi-strategy summary table.
	PresentComparisonTable(results []StrategyResult, out io.Writer)

	// PresentResult displays the final value of the winning run.
	PresentResult(result StrategyResult, n uint64, verbose, details, showValue bool, out io.Writer)
}

// DurationFormatter formats durations for display.
type DurationFormatter interface {
	FormatDuration(d time.Duration) string
}

// ErrorHandler handles run errors and returns exit codes.
type ErrorHandler interface {
	HandleError(err error, duration time.Duration, out io.Writer) int
}
