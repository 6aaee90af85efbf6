// Package ui provides theme and color support for the application's output.
// It defines color schemes and ANSI escape code accessors for consistent
// styling across the CLI report, the REPL and the TUI dashboard.
//
// This package is designed to be a shared dependency for packages that need
// color output, reducing coupling between business logic and presentation.
package ui
