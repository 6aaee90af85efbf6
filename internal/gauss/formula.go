package gauss

import (
	"context"
	"math/big"

	"github.com/avezina/sumbench/internal/progress"
)

// ClosedForm computes T(n) = n(n+1)/2 directly. Constant-time in n apart
// from the cost of the single wide multiplication above the fast path.
type ClosedForm struct{}

// Name implements coreCalculator.
func (s *ClosedForm) Name() string {
	return "Gauss Formula (O(1), math/big)"
}

// CalculateCore implements coreCalculator.
func (s *ClosedForm) CalculateCore(ctx context.Context, report progress.ProgressCallback, n uint64, opts Options) (*big.Int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if n <= FormulaFastPathMax {
		// n*(n+1) stays below 2^64 here, and the product of two
		// consecutive integers is even, so the halving is exact.
		return new(big.Int).SetUint64(n * (n + 1) / 2), nil
	}

	// Above the fast path the increment must happen in big.Int space:
	// n+1 wraps in uint64 arithmetic when n is MaxUint64.
	x := new(big.Int).SetUint64(n)
	product := new(big.Int).Add(x, big.NewInt(1))
	product.Mul(product, x)
	// Exact: n(n+1) is always even.
	return product.Rsh(product, 1), nil
}
