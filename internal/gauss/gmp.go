package gauss

import (
	"context"
	"fmt"
	"math/big"
	"strconv"

	"github.com/ncw/gmp"

	"github.com/avezina/sumbench/internal/progress"
)

// GMPClosedForm evaluates the closed form n(n+1)/2 through the GNU MP
// bindings. Functionally identical to ClosedForm; it exists so the
// cross-check exercises a second, independently implemented big-integer
// backend, and so the duel mode can compare cgo-backed arithmetic against
// math/big.
type GMPClosedForm struct{}

// Name implements coreCalculator.
func (s *GMPClosedForm) Name() string {
	return "Gauss Formula (O(1), GMP)"
}

// CalculateCore implements coreCalculator. The result crosses back into
// math/big via its decimal form so callers see one numeric type regardless
// of strategy.
func (s *GMPClosedForm) CalculateCore(ctx context.Context, report progress.ProgressCallback, n uint64, opts Options) (*big.Int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	x, ok := new(gmp.Int).SetString(strconv.FormatUint(n, 10), 10)
	if !ok {
		return nil, fmt.Errorf("gmp rejected input %d", n)
	}
	product := new(gmp.Int).Add(x, gmp.NewInt(1))
	product.Mul(product, x)
	// n(n+1) is even, so this division is exact.
	half := new(gmp.Int).Div(product, gmp.NewInt(2))

	result, ok := new(big.Int).SetString(half.String(), 10)
	if !ok {
		return nil, fmt.Errorf("gmp produced unparseable value %q", half.String())
	}
	return result, nil
}
