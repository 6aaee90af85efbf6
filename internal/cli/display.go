package cli

import (
	"fmt"
	"io"
	"math/big"
	"strconv"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/avezina/sumbench/internal/format"
	"github.com/avezina/sumbench/internal/metrics"
	"github.com/avezina/sumbench/internal/progress"
	"github.com/avezina/sumbench/internal/ui"
)

// DisplayProgress drives the spinner and progress-bar line for a set of
// running strategies. It consumes updates from progressChan until the channel
// closes, redrawing at ProgressRefreshRate, then signals wg. Passing zero
// strategies drains the channel without rendering anything.
//
// Parameters:
//   - wg: Signaled once the display loop has finished.
//   - progressChan: The stream of per-strategy progress updates.
//   - numStrategies: The number of strategy slots being aggregated.
//   - out: The writer the spinner draws on, normally stderr.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numStrategies int, out io.Writer) {
	defer wg.Done()

	if numStrategies <= 0 {
		for range progressChan {
		}
		return
	}

	sp := newSpinner(spinner.WithWriter(out))
	sp.Start()
	defer sp.Stop()

	tracker := format.NewProgressWithETA(numStrategies)
	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	render := func() {
		avg := tracker.CalculateAverage()
		sp.UpdateSuffix(" " + format.FormatProgressBarWithETA(avg, tracker.GetETA(), ProgressBarWidth))
	}
	render()

	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				return
			}
			tracker.UpdateWithETA(update.StrategyIndex, update.Value)
		case <-ticker.C:
			render()
		}
	}
}

// DisplayResult writes the human-readable block for a single summation run.
// The details flag adds timing and size analysis; showValue prints the value
// itself, truncated past TruncationLimit digits unless verbose is set.
//
// Parameters:
//   - result: The computed triangular number.
//   - n: The input the sum was taken over.
//   - duration: The measured execution time.
//   - verbose: Print the full value regardless of size.
//   - details: Print the analysis block.
//   - showValue: Print the value itself.
//   - out: The writer for the block.
func DisplayResult(result *big.Int, n uint64, duration time.Duration, verbose, details, showValue bool, out io.Writer) {
	if details {
		fmt.Fprintf(out, "\n--- Detailed result analysis ---\n")
		fmt.Fprintf(out, "Calculation time: %s%s%s\n",
			ui.ColorGreen(), format.FormatExecutionDuration(duration), ui.ColorReset())
		fmt.Fprintf(out, "Result binary size: %s%s bits%s\n",
			ui.ColorCyan(), format.FormatNumberString(strconv.Itoa(result.BitLen())), ui.ColorReset())
		fmt.Fprintf(out, "Number of digits: %s%s%s\n",
			ui.ColorCyan(), format.FormatNumberString(strconv.Itoa(len(result.String()))), ui.ColorReset())
		if ind := metrics.Compute(result, n, duration); ind != nil {
			fmt.Fprintf(out, "Throughput: %s%s digits/s%s\n",
				ui.ColorCyan(), metrics.FormatDigitsPerSecond(ind.DigitsPerSecond), ui.ColorReset())
		}
	}

	if !showValue {
		return
	}

	resultStr := result.String()
	numDigits := len(resultStr)

	fmt.Fprintf(out, "\n%sCalculated value:%s\n", ui.ColorBold(), ui.ColorReset())
	if verbose || numDigits <= TruncationLimit {
		fmt.Fprintf(out, "T(%d) = %s%s%s\n",
			n, ui.ColorGreen(), format.FormatNumberString(resultStr), ui.ColorReset())
		return
	}

	fmt.Fprintf(out, "T(%d) = %s%s...%s%s (truncated)\n",
		n, ui.ColorGreen(), resultStr[:DisplayEdges], resultStr[numDigits-DisplayEdges:], ui.ColorReset())
	fmt.Fprintf(out, "Tip: use %s-v%s to display all %s digits.\n",
		ui.ColorYellow(), ui.ColorReset(), format.FormatNumberString(strconv.Itoa(numDigits)))
}

// DisplayLastDigits writes the trailing digits of T(n) computed through the
// modular path, zero-padded to the requested width so the output always
// shows exactly the digits asked for.
//
// Parameters:
//   - out: The writer for the line.
//   - n: The input the sum was taken over.
//   - digits: The number of trailing digits requested.
//   - value: T(n) modulo 10^digits.
func DisplayLastDigits(out io.Writer, n uint64, digits int, value uint64) {
	fmt.Fprintf(out, "Last %d digits of T(%d): %s…%0*d%s\n",
		digits, n, ui.ColorGreen(), digits, value, ui.ColorReset())
}
