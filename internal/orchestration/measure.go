package orchestration

import (
	"math/big"
	"time"
)

// Measure executes compute exactly once and returns the wall-clock duration
// of the call together with the computation's own return values. The
// duration comes from the monotonic clock, so wall-clock adjustments during
// the run do not skew it.
//
// Any error from the computation is returned unchanged; the duration of the
// failed attempt is still reported. Measure never retries and has no side
// effects beyond the wrapped computation's own.
func Measure(compute func() (*big.Int, error)) (time.Duration, *big.Int, error) {
	start := time.Now()
	value, err := compute()
	elapsed := time.Since(start)
	if err != nil {
		return elapsed, nil, err
	}
	return elapsed, value, nil
}

// MeasureBest executes compute repeat times and returns the minimum
// duration observed together with the value of the last execution.
//
// repeat values below one degrade to a single execution, which is the
// plain Measure contract. The first error aborts the remaining repeats
// and is returned unchanged.
func MeasureBest(repeat int, compute func() (*big.Int, error)) (time.Duration, *big.Int, error) {
	if repeat < 1 {
		repeat = 1
	}

	var best time.Duration
	var value *big.Int
	for i := 0; i < repeat; i++ {
		elapsed, v, err := Measure(compute)
		if err != nil {
			return elapsed, nil, err
		}
		if i == 0 || elapsed < best {
			best = elapsed
		}
		value = v
	}
	return best, value, nil
}
