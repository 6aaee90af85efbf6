package gauss

// ─────────────────────────────────────────────────────────────────────────────
// Performance Tuning Constants
// ─────────────────────────────────────────────────────────────────────────────
//
// These constants control the behavior of the strategies and are based on
// empirical benchmarks across various hardware configurations.

const (
	// DefaultCheckInterval is the number of additions the iterative scan
	// performs between context and progress checks.
	//
	// A tight scan loop runs at roughly one addition per nanosecond on
	// modern hardware. Checking every 2^20 iterations bounds cancellation
	// latency around a millisecond while keeping the check overhead well
	// under 0.1% of the loop cost.
	DefaultCheckInterval = 1 << 20

	// FormulaFastPathMax is the largest n for which n*(n+1) fits in a
	// uint64, letting the closed form avoid big.Int allocation entirely.
	// At n = 2^32 - 1 the product is 2^64 - 2^32; one step higher it
	// overflows.
	FormulaFastPathMax = 1<<32 - 1

	// MaxLastDigits bounds the modular last-digits path. The reduction
	// works modulo 2*10^k, and 2*10^18 is the largest doubled power of ten
	// that fits a uint64.
	MaxLastDigits = 18

	// CalibrationN is the standard input used for timing calibration runs.
	// Large enough that the linear scan dominates timer overhead by several
	// orders of magnitude, small enough to finish in tens of milliseconds.
	CalibrationN = 50_000_000
)
