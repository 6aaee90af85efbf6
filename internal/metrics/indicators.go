package metrics

import (
	"fmt"
	"math"
	"math/big"
	"time"
)

// Indicators summarizes the throughput of a summation run. Exact values
// come from Compute once a result exists; ComputeLive projects them from
// mid-run progress and marks the result Estimated.
type Indicators struct {
	Terms           uint64 // terms folded into the accumulator, n for a full scan
	TermsPerSecond  float64
	BitsPerSecond   float64
	DigitsPerSecond float64
	Bits            int
	Digits          int
	IsEven          bool // parity of T(n), even exactly when n mod 4 is 0 or 3
	Estimated       bool
}

// Compute derives post-run indicators from a finished summation.
// Returns nil when there is nothing meaningful to report.
func Compute(result *big.Int, n uint64, duration time.Duration) *Indicators {
	if result == nil || duration <= 0 {
		return nil
	}
	secs := duration.Seconds()
	bits := result.BitLen()
	digits := len(result.Text(10))
	return &Indicators{
		Terms:           n,
		TermsPerSecond:  float64(n) / secs,
		BitsPerSecond:   float64(bits) / secs,
		DigitsPerSecond: float64(digits) / secs,
		Bits:            bits,
		Digits:          digits,
		IsEven:          result.Bit(0) == 0,
	}
}

// ComputeLive projects indicators from mid-run progress, before the
// value of T(n) exists. Sizes are log-estimates of the final result.
func ComputeLive(n uint64, progress float64, elapsed time.Duration) *Indicators {
	if n == 0 || progress <= 0 || elapsed <= 0 {
		return nil
	}
	if progress > 1 {
		progress = 1
	}
	secs := elapsed.Seconds()
	bits := EstimateBits(n)
	digits := EstimateDigits(n)
	termsDone := progress * float64(n)
	return &Indicators{
		Terms:           uint64(termsDone),
		TermsPerSecond:  termsDone / secs,
		BitsPerSecond:   progress * float64(bits) / secs,
		DigitsPerSecond: progress * float64(digits) / secs,
		Bits:            bits,
		Digits:          digits,
		IsEven:          n%4 == 0 || n%4 == 3,
		Estimated:       true,
	}
}

// EstimateBits bounds the bit length of T(n) without computing it,
// using log2(n(n+1)/2) = log2(n) + log2(n+1) - 1. T(n) is a power of
// two only for n = 1, so the ceiling is exact everywhere else.
func EstimateBits(n uint64) int {
	if n <= 1 {
		return 1
	}
	b := math.Log2(float64(n)) + math.Log2(float64(n)+1) - 1
	return int(math.Ceil(b))
}

// EstimateDigits bounds the decimal length of T(n) without computing it.
func EstimateDigits(n uint64) int {
	d := int(math.Ceil(float64(EstimateBits(n)) * math.Log10(2)))
	if d < 1 {
		return 1
	}
	return d
}

// FormatBitsPerSecond renders a bit rate for display next to a
// "Bits/s" label, so the unit itself is omitted.
func FormatBitsPerSecond(v float64) string {
	return formatRate(v)
}

// FormatDigitsPerSecond renders a digit rate for display next to a
// "Digits/s" label.
func FormatDigitsPerSecond(v float64) string {
	return formatRate(v)
}

// FormatTermsPerSecond renders the accumulator throughput.
func FormatTermsPerSecond(v float64) string {
	return formatRate(v)
}

func formatRate(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("%.2f G", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.2f M", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.2f k", v/1e3)
	case v >= 1:
		return fmt.Sprintf("%.1f", v)
	default:
		return fmt.Sprintf("%.3f", v)
	}
}
