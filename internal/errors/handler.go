package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ColorProvider supplies ANSI escape codes for error display so this package
// stays free of presentation dependencies. A nil provider renders plain text.
type ColorProvider interface {
	// Red returns the escape code for error text.
	Red() string
	// Yellow returns the escape code for emphasized values.
	Yellow() string
	// Reset returns the escape code that clears formatting.
	Reset() string
}

// HandleCalculationError reports a failed run on out and converts the error
// into a process exit code. The duration is how long the run went before
// failing, included in the diagnostic.
//
// The mapping:
//   - context.DeadlineExceeded or TimeoutError: ExitErrorTimeout
//   - context.Canceled: ExitErrorCanceled
//   - MismatchError: ExitErrorMismatch
//   - anything else: ExitErrorGeneric
//
// Both out and colors may be nil.
//
// Parameters:
//   - err: The error to report. nil returns ExitSuccess without output.
//   - duration: The elapsed time before the failure.
//   - out: The writer for the diagnostic message.
//   - colors: The color scheme for the message.
//
// Returns:
//   - int: The process exit code for this error.
func HandleCalculationError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}
	if out == nil {
		out = io.Discard
	}
	var red, yellow, reset string
	if colors != nil {
		red, yellow, reset = colors.Red(), colors.Yellow(), colors.Reset()
	}

	var timeoutErr TimeoutError
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.As(err, &timeoutErr):
		fmt.Fprintf(out, "%sRun timed out after %s%s%s.%s\n", red, yellow, duration, red, reset)
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(out, "%sRun canceled after %s.%s\n", yellow, duration, reset)
		return ExitErrorCanceled
	}

	var mismatchErr MismatchError
	if errors.As(err, &mismatchErr) {
		fmt.Fprintf(out, "%s%v%s\n", red, err, reset)
		return ExitErrorMismatch
	}

	fmt.Fprintf(out, "%sRun failed after %s: %v%s\n", red, duration, err, reset)
	return ExitErrorGeneric
}
