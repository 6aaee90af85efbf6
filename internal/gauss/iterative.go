package gauss

import (
	"context"
	"math/big"
	"math/bits"

	"github.com/avezina/sumbench/internal/progress"
)

// IterativeScan computes T(n) by accumulating every integer in [1, n].
// This is the deliberately linear contestant of the benchmark.
//
// The running total lives in a 128-bit (hi, lo) pair built with
// bits.Add64: T(MaxUint64) needs 127 bits, so the scan is exact across the
// whole input domain without touching big.Int until the final conversion.
type IterativeScan struct{}

// Name implements coreCalculator.
func (s *IterativeScan) Name() string {
	return "Iterative Scan (O(n), 128-bit accumulator)"
}

// CalculateCore implements coreCalculator. Context cancellation and progress
// are checked once per Options.CheckInterval additions, so cancellation
// latency stays around a millisecond without measurable loop overhead.
func (s *IterativeScan) CalculateCore(ctx context.Context, report progress.ProgressCallback, n uint64, opts Options) (*big.Int, error) {
	if n == 0 {
		return big.NewInt(0), nil
	}

	interval := opts.checkInterval()
	next := interval

	var hi, lo, carry uint64
	// The loop exits on i == n rather than i <= n: the latter never
	// terminates when n is MaxUint64.
	for i := uint64(1); ; i++ {
		lo, carry = bits.Add64(lo, i, 0)
		hi += carry
		if i == n {
			break
		}
		if i == next {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if report != nil {
				report(float64(i) / float64(n))
			}
			next += interval
		}
	}

	if hi == 0 {
		return new(big.Int).SetUint64(lo), nil
	}
	sum := new(big.Int).SetUint64(hi)
	sum.Lsh(sum, 64)
	return sum.Or(sum, new(big.Int).SetUint64(lo)), nil
}
