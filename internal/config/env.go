// This file contains environment variable utilities for configuration override.

package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/avezina/sumbench/internal/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Environment Variable Utilities
// ─────────────────────────────────────────────────────────────────────────────

// isFlagSet checks if a flag was explicitly set on the command line.
// This is used to determine whether to apply environment variable overrides.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// isFlagSetAny checks if any of the specified flags were explicitly set.
// This is useful for aliased flags where either the short or long form may be used.
func isFlagSetAny(fs *flag.FlagSet, names ...string) bool {
	for _, name := range names {
		if isFlagSet(fs, name) {
			return true
		}
	}
	return false
}

// envOverride declares a single environment variable override.
// Each entry maps an env key (without the SUMBENCH_ prefix) to the CLI flag
// name(s) it corresponds to and a function that applies the env value. The
// apply function reports malformed values instead of ignoring them.
type envOverride struct {
	envKey string
	flags  []string
	apply  func(*AppConfig, string) error
}

// envOverrides is the declarative table of all environment variable overrides,
// grouped by value kind (numeric, duration, string, bool).
var envOverrides = []envOverride{
	// Numeric overrides
	{"N", []string{"n"}, func(c *AppConfig, v string) error {
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return err
		}
		c.N = parsed
		return nil
	}},
	{"REPEAT", []string{"repeat"}, func(c *AppConfig, v string) error {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		c.Repeat = parsed
		return nil
	}},
	{"LAST_DIGITS", []string{"last-digits"}, func(c *AppConfig, v string) error {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		c.LastDigits = parsed
		return nil
	}},
	{"CHECK_INTERVAL", []string{"check-interval"}, func(c *AppConfig, v string) error {
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return err
		}
		c.CheckInterval = parsed
		return nil
	}},
	{"HISTORY_TOP", []string{"history-top"}, func(c *AppConfig, v string) error {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		c.HistoryTop = parsed
		return nil
	}},

	// Duration overrides
	{"TIMEOUT", []string{"timeout"}, func(c *AppConfig, v string) error {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		c.Timeout = parsed
		return nil
	}},

	// String overrides
	{"ALGO", []string{"algo"}, func(c *AppConfig, v string) error {
		c.Algo = v
		return nil
	}},
	{"LIST", []string{"list"}, func(c *AppConfig, v string) error {
		c.ListSpec = v
		return nil
	}},
	{"OUTPUT", []string{"output", "o"}, func(c *AppConfig, v string) error {
		c.OutputFile = v
		return nil
	}},
	{"HISTORY", []string{"history"}, func(c *AppConfig, v string) error {
		c.HistoryPath = v
		return nil
	}},
	{"METRICS_ADDR", []string{"metrics-addr"}, func(c *AppConfig, v string) error {
		c.MetricsAddr = v
		return nil
	}},
	{"GC_MODE", []string{"gc-mode"}, func(c *AppConfig, v string) error {
		c.GCMode = v
		return nil
	}},
	{"THEME", []string{"theme"}, func(c *AppConfig, v string) error {
		c.Theme = v
		return nil
	}},
	{"CALIBRATION_PROFILE", []string{"calibration-profile"}, func(c *AppConfig, v string) error {
		c.CalibrationProfile = v
		return nil
	}},

	// Boolean overrides
	{"VERBOSE", []string{"v", "verbose"}, func(c *AppConfig, v string) error {
		return applyBoolEnv(v, &c.Verbose)
	}},
	{"DETAILS", []string{"d", "details"}, func(c *AppConfig, v string) error {
		return applyBoolEnv(v, &c.Details)
	}},
	{"QUIET", []string{"quiet", "q"}, func(c *AppConfig, v string) error {
		return applyBoolEnv(v, &c.Quiet)
	}},
	{"STRICT", []string{"strict"}, func(c *AppConfig, v string) error {
		return applyBoolEnv(v, &c.Strict)
	}},
	{"VALUE", []string{"value", "c"}, func(c *AppConfig, v string) error {
		return applyBoolEnv(v, &c.ShowValue)
	}},
	{"TUI", []string{"tui"}, func(c *AppConfig, v string) error {
		return applyBoolEnv(v, &c.TUI)
	}},
	{"BOOST", []string{"boost"}, func(c *AppConfig, v string) error {
		return applyBoolEnv(v, &c.Boost)
	}},
}

// applyBoolEnv parses a boolean environment variable value into dst.
// Accepts "true", "1", "yes" as true; "false", "0", "no" as false
// (case-insensitive). Unrecognized values are reported as errors.
func applyBoolEnv(val string, dst *bool) error {
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		*dst = true
	case "false", "0", "no":
		*dst = false
	default:
		return strconv.ErrSyntax
	}
	return nil
}

// applyEnvOverrides applies environment variable values to the configuration
// for any flags that were not explicitly set on the command line.
// This implements the priority: CLI flags > Environment variables > Defaults.
// A malformed value is a ConfigError naming the variable.
//
// Supported environment variables (all prefixed with SUMBENCH_):
//   - N, ALGO, LIST, REPEAT, LAST_DIGITS, CHECK_INTERVAL, TIMEOUT,
//     OUTPUT, HISTORY, HISTORY_TOP, METRICS_ADDR, GC_MODE, THEME,
//     CALIBRATION_PROFILE, VERBOSE, DETAILS, QUIET, STRICT, VALUE,
//     TUI, BOOST
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) error {
	for _, o := range envOverrides {
		if isFlagSetAny(fs, o.flags...) {
			continue
		}
		val := os.Getenv(EnvPrefix + o.envKey)
		if val == "" {
			continue
		}
		if err := o.apply(config, val); err != nil {
			return apperrors.NewConfigError("invalid %s%s value %q", EnvPrefix, o.envKey, val)
		}
	}
	return nil
}
