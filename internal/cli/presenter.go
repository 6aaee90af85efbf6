package cli

import (
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	apperrors "github.com/avezina/sumbench/internal/errors"
	"github.com/avezina/sumbench/internal/format"
	"github.com/avezina/sumbench/internal/history"
	"github.com/avezina/sumbench/internal/orchestration"
	"github.com/avezina/sumbench/internal/progress"
	"github.com/avezina/sumbench/internal/ui"
)

// CLIProgressReporter implements orchestration.ProgressReporter for CLI output.
// It wraps the DisplayProgress function to provide a spinner and progress bar
// display during long scans.
type CLIProgressReporter struct{}

// Verify that CLIProgressReporter implements orchestration.ProgressReporter.
var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress displays a spinner and progress bar for ongoing runs.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numStrategies int, out io.Writer) {
	DisplayProgress(wg, progressChan, numStrategies, out)
}

// CLIResultPresenter implements orchestration.ResultPresenter for CLI output.
// It provides formatted, colorized output for benchmark results in the
// command-line interface.
type CLIResultPresenter struct{}

// Verify interface compliance.
var (
	_ orchestration.ResultPresenter   = CLIResultPresenter{}
	_ orchestration.DurationFormatter = CLIResultPresenter{}
	_ orchestration.ErrorHandler      = CLIResultPresenter{}
)

// PresentComparison writes one sweep block: the input under test, each
// strategy's duration, the signed time difference with the faster-method
// label, and the consistency verdict. A mismatch verdict includes both raw
// values so divergent strategies can be told apart from the report alone.
func (CLIResultPresenter) PresentComparison(cmp orchestration.Comparison, out io.Writer) {
	fmt.Fprintf(out, "\n--- n = %s%s%s ---\n",
		ui.ColorMagenta(), format.FormatNumberString(strconv.FormatUint(cmp.N, 10)), ui.ColorReset())

	maxNameLen := 0
	for _, res := range cmp.Results {
		if len(res.Name) > maxNameLen {
			maxNameLen = len(res.Name)
		}
	}

	successes := 0
	for _, res := range cmp.Results {
		if res.Err != nil {
			fmt.Fprintf(out, "  %s%s%s%s   %s❌ %v%s\n",
				ui.ColorBlue(), res.Name, ui.ColorReset(), padRight("", maxNameLen-len(res.Name)),
				ui.ColorRed(), res.Err, ui.ColorReset())
			continue
		}
		successes++
		fmt.Fprintf(out, "  %s%s%s%s   %s%s%s\n",
			ui.ColorBlue(), res.Name, ui.ColorReset(), padRight("", maxNameLen-len(res.Name)),
			ui.ColorYellow(), displayDuration(res.Duration), ui.ColorReset())
	}

	if cmp.FasterLabel != "" {
		fmt.Fprintf(out, "  Time difference: %s%s%s (%s%s%s faster)\n",
			ui.ColorYellow(), format.FormatSignedSeconds(cmp.Delta), ui.ColorReset(),
			ui.ColorGreen(), cmp.FasterLabel, ui.ColorReset())
	}

	switch {
	case cmp.Mismatch != nil:
		fmt.Fprintf(out, "  Consistency: %s❌ mismatched%s (%v)\n",
			ui.ColorRed(), ui.ColorReset(), cmp.Mismatch)
	case successes >= 2:
		fmt.Fprintf(out, "  Consistency: %s✅ consistent%s\n",
			ui.ColorGreen(), ui.ColorReset())
	}
}

// PresentComparisonTable displays the duel summary table with strategy
// names, durations, and status in a formatted tabular layout.
// Uses manual padding to correctly handle ANSI color codes.
func (CLIResultPresenter) PresentComparisonTable(results []orchestration.StrategyResult, out io.Writer) {
	fmt.Fprintf(out, "\n--- Comparison Summary ---\n")

	// Find the maximum strategy name width for proper alignment
	maxNameLen := 8     // "Strategy" header length
	maxDurationLen := 8 // "Duration" header length
	for _, res := range results {
		if len(res.Name) > maxNameLen {
			maxNameLen = len(res.Name)
		}
		duration := displayDuration(res.Duration)
		if len(duration) > maxDurationLen {
			maxDurationLen = len(duration)
		}
	}

	// Print header with proper padding
	fmt.Fprintf(out, "%sStrategy%s%s   %sDuration%s%s   %sStatus%s\n",
		ui.ColorUnderline(), ui.ColorReset(), padRight("", maxNameLen-8),
		ui.ColorUnderline(), ui.ColorReset(), padRight("", maxDurationLen-8),
		ui.ColorUnderline(), ui.ColorReset())

	// Print each result row
	for _, res := range results {
		var status string
		if res.Err != nil {
			status = fmt.Sprintf("%s❌ Failure (%v)%s", ui.ColorRed(), res.Err, ui.ColorReset())
		} else {
			status = fmt.Sprintf("%s✅ Success%s", ui.ColorGreen(), ui.ColorReset())
		}
		duration := displayDuration(res.Duration)
		fmt.Fprintf(out, "%s%s%s%s   %s%s%s%s   %s\n",
			ui.ColorBlue(), res.Name, ui.ColorReset(), padRight("", maxNameLen-len(res.Name)),
			ui.ColorYellow(), duration, ui.ColorReset(), padRight("", maxDurationLen-len(duration)),
			status)
	}
}

// PresentHistoryTop lists the fastest recorded runs, fastest first.
// Uses manual padding to correctly handle ANSI color codes.
func PresentHistoryTop(entries []history.Entry, out io.Writer) {
	fmt.Fprintf(out, "\n--- Fastest Recorded Runs ---\n")
	if len(entries) == 0 {
		fmt.Fprintln(out, "No runs recorded for these inputs.")
		return
	}

	const timestampLayout = "2006-01-02 15:04:05"

	maxNLen := 1        // "n" header length
	maxNameLen := 8     // "Strategy" header length
	maxDurationLen := 8 // "Duration" header length
	maxRecordedLen := 8 // "Recorded" header length
	rows := make([][4]string, len(entries))
	for i, e := range entries {
		n := format.FormatNumberString(e.N)
		d := displayDuration(e.Duration)
		recorded := e.At.Format(timestampLayout)
		rows[i] = [4]string{n, e.Strategy, d, recorded}
		if len(n) > maxNLen {
			maxNLen = len(n)
		}
		if len(e.Strategy) > maxNameLen {
			maxNameLen = len(e.Strategy)
		}
		if len(d) > maxDurationLen {
			maxDurationLen = len(d)
		}
		if len(recorded) > maxRecordedLen {
			maxRecordedLen = len(recorded)
		}
	}

	fmt.Fprintf(out, "%sn%s%s   %sStrategy%s%s   %sDuration%s%s   %sRecorded%s%s   %sVerdict%s\n",
		ui.ColorUnderline(), ui.ColorReset(), padRight("", maxNLen-1),
		ui.ColorUnderline(), ui.ColorReset(), padRight("", maxNameLen-8),
		ui.ColorUnderline(), ui.ColorReset(), padRight("", maxDurationLen-8),
		ui.ColorUnderline(), ui.ColorReset(), padRight("", maxRecordedLen-8),
		ui.ColorUnderline(), ui.ColorReset())

	for i, e := range entries {
		verdict := fmt.Sprintf("%s✅ consistent%s", ui.ColorGreen(), ui.ColorReset())
		if !e.Consistent {
			verdict = fmt.Sprintf("%s❌ mismatched%s", ui.ColorRed(), ui.ColorReset())
		}
		fmt.Fprintf(out, "%s%s%s%s   %s%s%s%s   %s%s%s%s   %s%s   %s\n",
			ui.ColorMagenta(), rows[i][0], ui.ColorReset(), padRight("", maxNLen-len(rows[i][0])),
			ui.ColorBlue(), rows[i][1], ui.ColorReset(), padRight("", maxNameLen-len(rows[i][1])),
			ui.ColorYellow(), rows[i][2], ui.ColorReset(), padRight("", maxDurationLen-len(rows[i][2])),
			rows[i][3], padRight("", maxRecordedLen-len(rows[i][3])),
			verdict)
	}
}

// displayDuration renders a measured duration, substituting a floor marker
// for measurements below the clock's useful resolution.
func displayDuration(d time.Duration) string {
	if d == 0 {
		return "< 1µs"
	}
	return format.FormatExecutionDuration(d)
}

// padRight returns a string of spaces with the given length.
func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + fmt.Sprintf("%*s", length, "")
}

// PresentResult displays the final calculation result using the CLI's
// DisplayResult function.
func (CLIResultPresenter) PresentResult(result orchestration.StrategyResult, n uint64, verbose, details, showValue bool, out io.Writer) {
	DisplayResult(result.Value, n, result.Duration, verbose, details, showValue, out)
}

// FormatDuration formats a duration for display using the CLI's standard
// duration formatting.
func (CLIResultPresenter) FormatDuration(d time.Duration) string {
	return format.FormatExecutionDuration(d)
}

// HandleError handles run errors and returns an appropriate exit code.
func (CLIResultPresenter) HandleError(err error, duration time.Duration, out io.Writer) int {
	return apperrors.HandleCalculationError(err, duration, out, CLIColorProvider{})
}

// DisplayMemoryStats shows memory statistics after a run.
func DisplayMemoryStats(heapAlloc, totalAlloc uint64, numGC uint32, pauseTotalNs uint64, out io.Writer) {
	fmt.Fprintf(out, "\nMemory Stats:\n")
	fmt.Fprintf(out, "  Peak heap:       %s\n", format.FormatBytes(heapAlloc))
	fmt.Fprintf(out, "  Total allocated: %s\n", format.FormatBytes(totalAlloc))
	fmt.Fprintf(out, "  GC cycles:       %d\n", numGC)
	if pauseTotalNs > 0 {
		fmt.Fprintf(out, "  GC pause total:  %.2fms\n", float64(pauseTotalNs)/1e6)
	} else {
		fmt.Fprintf(out, "  GC pause total:  0ms (GC disabled)\n")
	}
}
