package calibration

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/avezina/sumbench/internal/format"
	"github.com/avezina/sumbench/internal/ui"
)

// printCalibrationResults formats and prints the probe results table.
func printCalibrationResults(out io.Writer, results []calibrationResult, recommended int) {
	fmt.Fprintf(out, "\n--- Calibration Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "  %sRepeat%s    │ %sBest Time%s    │ %sSpread%s\n",
		ui.ColorUnderline(), ui.ColorReset(),
		ui.ColorUnderline(), ui.ColorReset(),
		ui.ColorUnderline(), ui.ColorReset())
	fmt.Fprintf(tw, "  %s┼%s┼%s\n",
		strings.Repeat("─", 12), strings.Repeat("─", 15), strings.Repeat("─", 14))
	for _, res := range results {
		repeatLabel := fmt.Sprintf("best of %d", res.Repeat)
		durationStr := fmt.Sprintf("%sN/A%s", ui.ColorRed(), ui.ColorReset())
		spreadStr := "-"
		if res.Err == nil {
			durationStr = fmt.Sprintf("%s%s%s", ui.ColorYellow(), probeDurationLabel(res.Best), ui.ColorReset())
			spreadStr = fmt.Sprintf("±%.1f%%", res.Spread*100)
		}
		highlight := ""
		if res.Repeat == recommended && res.Err == nil {
			highlight = fmt.Sprintf(" %s(Optimal)%s", ui.ColorGreen(), ui.ColorReset())
		}
		fmt.Fprintf(tw, "  %s%-10s%s │ %s │ %s%s\n",
			ui.ColorCyan(), repeatLabel, ui.ColorReset(), durationStr, spreadStr, highlight)
	}
	tw.Flush()
}

// PrintProfileSummary prints the cached profile line shown when a run
// is annotated from an earlier calibration.
//
// Parameters:
//   - profile: The cached calibration profile.
//   - out: The writer for output.
func PrintProfileSummary(profile *CalibrationProfile, out io.Writer) {
	if profile == nil {
		return
	}
	fmt.Fprintf(out, "%sCalibration%s: timer overhead %s%.0fns%s, min measurable %s%.0fns%s, recommended repeat %s%d%s\n",
		ui.ColorGreen(), ui.ColorReset(),
		ui.ColorYellow(), profile.TimerOverheadNs, ui.ColorReset(),
		ui.ColorYellow(), profile.MinMeasurableNs, ui.ColorReset(),
		ui.ColorYellow(), profile.RecommendedRepeat, ui.ColorReset())
}

// probeDurationLabel renders probe durations, which live at nanosecond
// scale where the millisecond-oriented formatting would flatten
// everything to zero.
func probeDurationLabel(d time.Duration) string {
	switch {
	case d <= 0:
		return "< 1ns"
	case d < time.Microsecond:
		return d.String()
	default:
		return format.FormatExecutionDuration(d)
	}
}
