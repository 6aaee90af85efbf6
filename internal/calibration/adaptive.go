// This file derives the calibration probe plan from the host's timer
// characteristics.

package calibration

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Repeat Candidate Generation
// ─────────────────────────────────────────────────────────────────────────────

// GenerateRepeatCandidates returns the repeat counts calibration
// probes, in ascending order so the smallest stable count wins.
//
// The rationale:
// - Fine timers (sub-100ns ticks): a short ladder suffices, single
//   runs are already close to measurable
// - Coarser ticks: add higher repeats, since best-of-R needs more
//   samples before the minimum stops moving
// - Very coarse timers (microsecond ticks): the closed form finishes
//   well under one tick, so only large repeats produce signal
func GenerateRepeatCandidates(minMeasurable time.Duration) []int {
	base := []int{1, 3, 5, 10}

	switch {
	case minMeasurable >= time.Microsecond:
		return append(base, 20, 50)
	case minMeasurable >= 100*time.Nanosecond:
		return append(base, 20)
	default:
		return base
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Repeat Estimation (without benchmarking)
// ─────────────────────────────────────────────────────────────────────────────

// EstimateRecommendedRepeat guesses a repeat count from timer overhead
// alone, for hosts that have never run --calibrate. The guess keeps
// the timed region roughly two orders of magnitude above sampling
// cost.
func EstimateRecommendedRepeat(timerOverhead time.Duration) int {
	switch {
	case timerOverhead >= time.Microsecond:
		return 20
	case timerOverhead >= 100*time.Nanosecond:
		return 10
	case timerOverhead >= 20*time.Nanosecond:
		return 5
	default:
		return 3
	}
}
