package config

// Built-in defaults. Each is overridable by environment and flags; the
// resolution order is CLI flag > SUMBENCH_* environment > these values.
const (
	// DefaultAlgo runs every registered strategy in duel mode.
	DefaultAlgo = "all"
	// DefaultRepeat keeps the single-execution measurement contract.
	DefaultRepeat = 1
	// DefaultGCMode lets the controller decide from the input size.
	DefaultGCMode = "auto"
	// DefaultTheme suits dark terminal backgrounds.
	DefaultTheme = "dark"
)

// DefaultInputs returns the built-in sweep input list. The list is ordered
// by magnitude so each block takes visibly longer than the one before; the
// largest value keeps the linear scan in the seconds range. A fresh slice
// is returned so callers can never mutate the defaults.
func DefaultInputs() []uint64 {
	return []uint64{
		1_000,
		100_000,
		10_000_000,
		1_000_000_000,
		10_000_000_000,
	}
}

// DefaultConfig returns the configuration used when no flag or environment
// override applies.
func DefaultConfig() AppConfig {
	return AppConfig{
		Algo:   DefaultAlgo,
		Repeat: DefaultRepeat,
		GCMode: DefaultGCMode,
		Theme:  DefaultTheme,
	}
}
