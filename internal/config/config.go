// Package config parses command-line flags and SUMBENCH_* environment
// overrides into the application configuration. Priority is CLI flags >
// environment variables > built-in defaults; no config files are read.
package config

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/avezina/sumbench/internal/errors"
	"github.com/avezina/sumbench/internal/gauss"
)

// EnvPrefix is prepended to every environment override key.
const EnvPrefix = "SUMBENCH_"

// AppConfig holds the full application configuration after flag parsing,
// environment overrides and validation.
type AppConfig struct {
	// N selects duel mode when non-zero: a single-input run of the chosen
	// strategies instead of the default sweep.
	N uint64
	// Algo is the duel strategy selection: a factory key or "all".
	Algo string
	// ListSpec is the raw comma-separated input list; empty means the
	// built-in default list. Parsed into Inputs.
	ListSpec string
	// Inputs is the ordered sweep input list.
	Inputs []uint64
	// Repeat is the best-of-N measurement count per strategy.
	Repeat int
	// LastDigits requests only the trailing K digits in duel mode.
	LastDigits int
	// CheckInterval overrides the iterative scan's cancellation check
	// interval. Zero keeps the built-in default.
	CheckInterval uint64
	// Timeout bounds the whole run. Zero means no bound.
	Timeout time.Duration

	Quiet     bool
	Verbose   bool
	Details   bool
	ShowValue bool
	// Strict makes a result mismatch fatal (exit code 3).
	Strict bool

	OutputFile  string
	HistoryPath string
	HistoryTop  int
	MetricsAddr string

	TUI         bool
	Interactive bool
	Completion  string

	Calibrate          bool
	Recalibrate        bool
	CalibrationProfile string

	Boost   bool
	GCMode  string
	Theme   string
	NoColor bool
	Version bool
}

// ToCalculationOptions maps the configuration onto strategy tuning options.
func (c AppConfig) ToCalculationOptions() gauss.Options {
	return gauss.Options{CheckInterval: c.CheckInterval}
}

// SweepInputs returns the effective input list: the parsed --list values,
// or the built-in defaults when none were given.
func (c AppConfig) SweepInputs() []uint64 {
	if len(c.Inputs) > 0 {
		return c.Inputs
	}
	return DefaultInputs()
}

// ParseConfig parses command-line arguments and environment overrides into
// a validated AppConfig.
//
// Parameters:
//   - programName: The name used in usage output.
//   - args: The command-line arguments, without the program name.
//   - errWriter: The destination for flag parse and usage messages.
//   - availableAlgos: The valid strategy keys for --algo validation.
//
// Returns:
//   - AppConfig: The parsed configuration.
//   - error: flag.ErrHelp when help was requested, a ConfigError for
//     invalid values, or the flag package's own parse error.
func ParseConfig(programName string, args []string, errWriter io.Writer, availableAlgos []string) (AppConfig, error) {
	cfg := DefaultConfig()

	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)
	registerFlags(fs, &cfg)
	fs.Usage = func() {
		fmt.Fprintf(errWriter, "Usage: %s [flags]\n\n", programName)
		fmt.Fprintf(errWriter, "Times an iterative summation against the closed form n(n+1)/2 for a\n")
		fmt.Fprintf(errWriter, "list of inputs and cross-checks the results. Without flags, runs the\n")
		fmt.Fprintf(errWriter, "default input sweep.\n\nFlags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(errWriter, "\nEnvironment overrides (when the flag is not given): %sN, %sALGO,\n", EnvPrefix, EnvPrefix)
		fmt.Fprintf(errWriter, "%sLIST, %sREPEAT, %sTIMEOUT, %sQUIET, and friends; see the README.\n", EnvPrefix, EnvPrefix, EnvPrefix, EnvPrefix)
	}

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if err := applyEnvOverrides(&cfg, fs); err != nil {
		return cfg, err
	}

	inputs, err := ParseInputList(cfg.ListSpec)
	if err != nil {
		return cfg, err
	}
	cfg.Inputs = inputs

	if err := cfg.validate(availableAlgos); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// registerFlags declares every flag against the configuration struct.
// Boolean convenience flags get a single-letter alias bound to the same
// field, mirroring common usage.
func registerFlags(fs *flag.FlagSet, cfg *AppConfig) {
	fs.Uint64Var(&cfg.N, "n", cfg.N, "single input value (duel mode); 0 runs the default sweep")
	fs.StringVar(&cfg.Algo, "algo", cfg.Algo, "duel strategy key or \"all\"")
	fs.StringVar(&cfg.ListSpec, "list", cfg.ListSpec, "comma-separated sweep inputs (default: built-in list)")
	fs.IntVar(&cfg.Repeat, "repeat", cfg.Repeat, "best-of-N measurement count per strategy")
	fs.IntVar(&cfg.LastDigits, "last-digits", cfg.LastDigits, "show only the trailing K digits of the result (duel mode)")
	fs.Uint64Var(&cfg.CheckInterval, "check-interval", cfg.CheckInterval, "iterations between cancellation checks in the scan (0 = default)")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "bound the whole run (e.g. 90s, 5m); 0 disables")

	fs.BoolVar(&cfg.Quiet, "quiet", cfg.Quiet, "suppress progress and decoration, results only")
	fs.BoolVar(&cfg.Quiet, "q", cfg.Quiet, "shorthand for --quiet")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "verbose output and debug logging")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "shorthand for --verbose")
	fs.BoolVar(&cfg.Details, "details", cfg.Details, "per-strategy detail lines in duel output")
	fs.BoolVar(&cfg.Details, "d", cfg.Details, "shorthand for --details")
	fs.BoolVar(&cfg.ShowValue, "value", cfg.ShowValue, "print the full result value")
	fs.BoolVar(&cfg.ShowValue, "c", cfg.ShowValue, "shorthand for --value")
	fs.BoolVar(&cfg.Strict, "strict", cfg.Strict, "treat a result mismatch as fatal (exit code 3)")

	fs.StringVar(&cfg.OutputFile, "output", cfg.OutputFile, "also write the report to this file")
	fs.StringVar(&cfg.OutputFile, "o", cfg.OutputFile, "shorthand for --output")
	fs.StringVar(&cfg.HistoryPath, "history", cfg.HistoryPath, "record results in this SQLite database")
	fs.IntVar(&cfg.HistoryTop, "history-top", cfg.HistoryTop, "print the N fastest recorded runs and exit (requires --history)")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "serve Prometheus metrics on this address (e.g. :9090)")

	fs.BoolVar(&cfg.TUI, "tui", cfg.TUI, "live dashboard instead of line output")
	fs.BoolVar(&cfg.Interactive, "interactive", cfg.Interactive, "interactive prompt driving duel runs")
	fs.BoolVar(&cfg.Interactive, "i", cfg.Interactive, "shorthand for --interactive")
	fs.StringVar(&cfg.Completion, "completion", cfg.Completion, "print a completion script (bash, zsh, fish, powershell)")

	fs.BoolVar(&cfg.Calibrate, "calibrate", cfg.Calibrate, "measure timer overhead and recommend --repeat, then exit")
	fs.BoolVar(&cfg.Recalibrate, "recalibrate", cfg.Recalibrate, "discard the cached calibration profile and measure afresh")
	fs.StringVar(&cfg.CalibrationProfile, "calibration-profile", cfg.CalibrationProfile, "calibration cache path (default ~/.sumbench_calibration.json)")

	fs.BoolVar(&cfg.Boost, "boost", cfg.Boost, "raise scheduling priority for steadier timings (needs privileges)")
	fs.StringVar(&cfg.GCMode, "gc-mode", cfg.GCMode, "collector policy around timed runs: auto, aggressive, disabled")
	fs.StringVar(&cfg.Theme, "theme", cfg.Theme, "console color theme: dark, light, solar, none")
	fs.BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "disable colored output")
	fs.BoolVar(&cfg.Version, "version", cfg.Version, "print version and exit")
	fs.BoolVar(&cfg.Version, "V", cfg.Version, "shorthand for --version")
}

// ParseInputList parses a comma-separated list of uint64 inputs. An empty
// spec returns nil, which callers resolve to the default list. Duplicates
// and any ordering are preserved as given.
func ParseInputList(spec string) ([]uint64, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, nil
	}
	parts := strings.Split(spec, ",")
	inputs := make([]uint64, 0, len(parts))
	for _, part := range parts {
		s := strings.TrimSpace(part)
		if s == "" {
			return nil, apperrors.NewConfigError("empty element in input list %q", spec)
		}
		// Underscore grouping (1_000_000) is accepted for readability.
		v, err := strconv.ParseUint(strings.ReplaceAll(s, "_", ""), 10, 64)
		if err != nil {
			return nil, apperrors.NewConfigError("invalid input %q in list: must be an unsigned integer", s)
		}
		inputs = append(inputs, v)
	}
	return inputs, nil
}

// validate checks cross-field constraints, returning a ConfigError
// describing the first violation.
func (c AppConfig) validate(availableAlgos []string) error {
	if c.Algo != "all" && !contains(availableAlgos, c.Algo) {
		return apperrors.NewConfigError("unknown strategy %q (valid: all, %s)", c.Algo, strings.Join(availableAlgos, ", "))
	}
	if c.Repeat < 1 {
		return apperrors.NewConfigError("repeat must be at least 1, got %d", c.Repeat)
	}
	if c.LastDigits < 0 || c.LastDigits > gauss.MaxLastDigits {
		return apperrors.NewConfigError("last-digits must be between 0 (disabled) and %d, got %d", gauss.MaxLastDigits, c.LastDigits)
	}
	if c.Timeout < 0 {
		return apperrors.NewConfigError("timeout must not be negative, got %s", c.Timeout)
	}
	switch c.GCMode {
	case "auto", "aggressive", "disabled":
	default:
		return apperrors.NewConfigError("unknown gc-mode %q (valid: auto, aggressive, disabled)", c.GCMode)
	}
	if c.HistoryTop < 0 {
		return apperrors.NewConfigError("history-top must not be negative, got %d", c.HistoryTop)
	}
	if c.HistoryTop > 0 && c.HistoryPath == "" {
		return apperrors.NewConfigError("history-top requires --history")
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
