package app

import (
	"fmt"
	"io"
	"runtime"
)

// Version is the application version string, overridden at build time:
//
//	go build -ldflags "-X github.com/avezina/sumbench/internal/app.Version=v1.2.0"
var Version = "dev"

// HasVersionFlag reports whether args request the version banner. It runs
// before flag parsing so the banner prints even when the rest of the
// command line would fail validation.
func HasVersionFlag(args []string) bool {
	for _, arg := range args {
		switch arg {
		case "--version", "-version", "-V":
			return true
		}
	}
	return false
}

// PrintVersion writes the version banner to out.
func PrintVersion(out io.Writer) {
	fmt.Fprintf(out, "sumbench %s (%s, %s/%s)\n",
		Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
