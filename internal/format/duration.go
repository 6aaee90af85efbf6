package format

import (
	"fmt"
	"time"
)

// FormatExecutionDuration formats a time.Duration for display.
// It shows microseconds for durations less than a millisecond, milliseconds for
// durations less than a second, and the default string representation otherwise.
// This approach provides a more human-readable output for short durations.
//
// Parameters:
//   - d: The duration to format.
//
// Returns:
//   - string: A formatted string representing the duration.
func FormatExecutionDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	} else if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}

// FormatSignedSeconds renders a duration delta as signed seconds with six
// decimal places, the resolution the timing comparison is reported at.
// The sign is always printed so a reader can tell which side of the
// comparison won at a glance.
//
// Parameters:
//   - d: The signed duration delta to format.
//
// Returns:
//   - string: For example "+0.412346s" or "-0.000002s".
func FormatSignedSeconds(d time.Duration) string {
	return fmt.Sprintf("%+.6fs", d.Seconds())
}

// FormatBytes renders a byte count using binary units (KiB, MiB, ...).
//
// Parameters:
//   - b: The byte count.
//
// Returns:
//   - string: A human-readable size such as "1.5 MiB".
func FormatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
