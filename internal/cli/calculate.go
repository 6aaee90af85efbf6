package cli

import (
	"fmt"
	"io"
	"runtime"
	"strconv"
	"strings"

	"github.com/avezina/sumbench/internal/config"
	"github.com/avezina/sumbench/internal/format"
	"github.com/avezina/sumbench/internal/gauss"
	"github.com/avezina/sumbench/internal/ui"
)

// PrintExecutionConfig displays the current execution configuration to the
// user. It shows the inputs under test, the measurement settings, and the
// environment details.
//
// Parameters:
//   - cfg: The application configuration.
//   - out: The writer for standard output.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	if cfg.N > 0 {
		fmt.Fprintf(out, "Timing %sT(%s)%s", ui.ColorMagenta(), format.FormatNumberString(strconv.FormatUint(cfg.N, 10)), ui.ColorReset())
	} else {
		fmt.Fprintf(out, "Sweeping %s%d%s inputs: %s%s%s", ui.ColorMagenta(), len(cfg.SweepInputs()), ui.ColorReset(),
			ui.ColorCyan(), formatInputList(cfg.SweepInputs()), ui.ColorReset())
	}
	if cfg.Timeout > 0 {
		fmt.Fprintf(out, " with a timeout of %s%s%s.\n", ui.ColorYellow(), cfg.Timeout, ui.ColorReset())
	} else {
		fmt.Fprintf(out, " with no timeout.\n")
	}
	fmt.Fprintf(out, "Measurement: best of %s%d%s, GC policy %s%s%s.\n",
		ui.ColorCyan(), cfg.Repeat, ui.ColorReset(), ui.ColorCyan(), cfg.GCMode, ui.ColorReset())
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s.\n",
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset(), ui.ColorCyan(), runtime.Version(), ui.ColorReset())
}

// formatInputList renders the sweep inputs as a comma-separated list with
// thousands separators.
func formatInputList(inputs []uint64) string {
	parts := make([]string, len(inputs))
	for i, n := range inputs {
		parts[i] = format.FormatNumberString(strconv.FormatUint(n, 10))
	}
	return strings.Join(parts, ", ")
}

// PrintExecutionMode displays the execution mode (single strategy vs comparison).
//
// Parameters:
//   - calculators: The slice of calculators that will be executed.
//   - out: The writer for standard output.
func PrintExecutionMode(calculators []gauss.Calculator, out io.Writer) {
	var modeDesc string
	if len(calculators) > 1 {
		modeDesc = "Timed comparison of all strategies"
	} else {
		modeDesc = fmt.Sprintf("Single run with the %s%s%s strategy",
			ui.ColorGreen(), calculators[0].Name(), ui.ColorReset())
	}
	fmt.Fprintf(out, "Execution mode: %s.\n", modeDesc)
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}
