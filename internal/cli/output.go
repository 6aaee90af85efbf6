// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     They handle presentation logic and colorization.
//     Examples: [DisplayResult], [DisplayQuietResult], [DisplayProgress].
//
//   - Format* functions return a formatted string without performing I/O.
//     They are pure functions suitable for composition.
//     Examples: [FormatQuietResult], [FormatComparisonPlain].
//
//   - Write* functions write data to files on the filesystem.
//     They handle file creation, directory setup, and error handling.
//     Examples: [WriteResultToFile], [WriteSweepReport].

package cli

import (
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/avezina/sumbench/internal/format"
	"github.com/avezina/sumbench/internal/orchestration"
	"github.com/avezina/sumbench/internal/ui"
)

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	// OutputFile is the path to save the result (empty for no file output).
	OutputFile string
	// Quiet mode suppresses verbose output.
	Quiet bool
	// Verbose shows the full result value.
	Verbose bool
	// ShowValue enables the calculated value display when true (disabled by default).
	ShowValue bool
	// AppVersion is stamped into file headers.
	AppVersion string
}

// fileHeader writes the shared '#' comment header: tool version, generation
// timestamp, and host fingerprint. Report files stay self-describing when
// they move between machines.
func fileHeader(w io.Writer, title, version string) {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	fmt.Fprintf(w, "# %s\n", title)
	fmt.Fprintf(w, "# Version: %s\n", version)
	fmt.Fprintf(w, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(w, "# Host: %s (%d logical CPUs, %s)\n", hostname, runtime.NumCPU(), runtime.Version())
}

// WriteResultToFile writes a single run result to a file.
//
// Parameters:
//   - result: The calculated triangular number.
//   - n: The input value.
//   - duration: The measured duration.
//   - algo: The strategy name used.
//   - config: Output configuration.
//
// Returns:
//   - error: An error if the file cannot be written.
func WriteResultToFile(result *big.Int, n uint64, duration time.Duration, algo string, config OutputConfig) error {
	if config.OutputFile == "" {
		return nil
	}

	// Ensure directory exists
	dir := filepath.Dir(config.OutputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(config.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	fileHeader(file, "Triangular Sum Benchmark Result", config.AppVersion)
	fmt.Fprintf(file, "# Strategy: %s\n", algo)
	fmt.Fprintf(file, "# Duration: %s\n", duration)
	fmt.Fprintf(file, "# N: %d\n", n)
	fmt.Fprintf(file, "# Bits: %d\n", result.BitLen())
	fmt.Fprintf(file, "# Digits: %d\n", len(result.String()))
	fmt.Fprintf(file, "\n")

	fmt.Fprintf(file, "T(%d) =\n%s\n", n, result.String())

	return nil
}

// WriteSweepReport writes the full sweep report to a file, one block per
// input, without color escapes.
//
// Parameters:
//   - comparisons: The per-input comparison results, in input order.
//   - config: Output configuration.
//
// Returns:
//   - error: An error if the file cannot be written.
func WriteSweepReport(comparisons []orchestration.Comparison, config OutputConfig) error {
	if config.OutputFile == "" {
		return nil
	}

	dir := filepath.Dir(config.OutputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(config.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	fileHeader(file, "Triangular Sum Benchmark Report", config.AppVersion)
	fmt.Fprintf(file, "# Inputs: %d\n", len(comparisons))

	for _, cmp := range comparisons {
		fmt.Fprintf(file, "\n%s", FormatComparisonPlain(cmp))
	}

	return nil
}

// FormatComparisonPlain renders one sweep block without color escapes,
// mirroring the console layout.
//
// Parameters:
//   - cmp: The comparison to render.
//
// Returns:
//   - string: The formatted block, newline-terminated.
func FormatComparisonPlain(cmp orchestration.Comparison) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "n = %s\n", format.FormatNumberString(strconv.FormatUint(cmp.N, 10)))

	maxNameLen := 0
	for _, res := range cmp.Results {
		if len(res.Name) > maxNameLen {
			maxNameLen = len(res.Name)
		}
	}

	successes := 0
	for _, res := range cmp.Results {
		if res.Err != nil {
			fmt.Fprintf(&sb, "  %s%s   failed: %v\n", res.Name, padRight("", maxNameLen-len(res.Name)), res.Err)
			continue
		}
		successes++
		fmt.Fprintf(&sb, "  %s%s   %s\n", res.Name, padRight("", maxNameLen-len(res.Name)), displayDuration(res.Duration))
	}

	if cmp.FasterLabel != "" {
		fmt.Fprintf(&sb, "  Time difference: %s (%s faster)\n", format.FormatSignedSeconds(cmp.Delta), cmp.FasterLabel)
	}
	switch {
	case cmp.Mismatch != nil:
		fmt.Fprintf(&sb, "  Consistency: mismatched (%v)\n", cmp.Mismatch)
	case successes >= 2:
		fmt.Fprintf(&sb, "  Consistency: consistent\n")
	}

	return sb.String()
}

// FormatQuietResult formats a result for quiet mode output.
// Returns a single-line result suitable for scripting.
//
// Parameters:
//   - result: The calculated triangular number.
//   - n: The input value.
//   - duration: The measured duration.
//
// Returns:
//   - string: The formatted result string.
func FormatQuietResult(result *big.Int, n uint64, duration time.Duration) string {
	return result.String()
}

// DisplayQuietResult outputs a result in quiet mode (minimal output).
//
// Parameters:
//   - out: The output writer.
//   - result: The calculated triangular number.
//   - n: The input value.
//   - duration: The measured duration.
func DisplayQuietResult(out io.Writer, result *big.Int, n uint64, duration time.Duration) {
	fmt.Fprintln(out, FormatQuietResult(result, n, duration))
}

// DisplayResultWithConfig displays a result with the given output configuration.
// This is a unified function that handles all output modes.
//
// Parameters:
//   - out: The output writer.
//   - result: The calculated triangular number.
//   - n: The input value.
//   - duration: The measured duration.
//   - algo: The strategy name.
//   - config: Output configuration.
//
// Returns:
//   - error: An error if file output fails.
func DisplayResultWithConfig(out io.Writer, result *big.Int, n uint64, duration time.Duration, algo string, config OutputConfig) error {
	// Handle quiet mode
	if config.Quiet {
		DisplayQuietResult(out, result, n, duration)
	} else {
		// Use standard display
		DisplayResult(result, n, duration, config.Verbose, true, config.ShowValue, out)
	}

	// Save to file if requested
	if config.OutputFile != "" {
		if err := WriteResultToFile(result, n, duration, algo, config); err != nil {
			return err
		}
		if !config.Quiet {
			fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n",
				ui.ColorGreen(), ui.ColorCyan(), config.OutputFile, ui.ColorReset())
		}
	}

	return nil
}
