package gauss

import (
	"fmt"
	"math"
	"math/bits"
)

// SumMod computes T(n) mod m in O(1) using only machine words, making it
// suitable for extracting trailing digits of T(n) for arbitrarily large n
// without materialising the full value.
//
// Uses the identity:
//
//	T(n) mod m = (n*(n+1) mod 2m) / 2
//
// which holds because n*(n+1) is always even and so is 2m, forcing the
// residue to be even as well. The doubled modulus must fit a uint64, so m
// is limited to MaxUint64/2.
func SumMod(n, m uint64) (uint64, error) {
	if m == 0 {
		return 0, fmt.Errorf("modulus must be positive")
	}
	if m > math.MaxUint64/2 {
		return 0, fmt.Errorf("modulus %d exceeds %d", m, uint64(math.MaxUint64/2))
	}

	m2 := 2 * m
	a := n % m2
	b := (a + 1) % m2 // (n+1) mod 2m, computed without wrapping at n = MaxUint64

	// 128-bit product of the residues, reduced mod 2m. bits.Div64 requires
	// hi < divisor, which holds: a, b <= 2m-1 gives a high word of at most
	// (2m-1)^2 / 2^64 < 2m.
	hi, lo := bits.Mul64(a, b)
	_, rem := bits.Div64(hi, lo, m2)

	return rem / 2, nil
}

// SumLastDigits computes the trailing k decimal digits of T(n), i.e.
// T(n) mod 10^k, for 1 <= k <= MaxLastDigits. The caller is responsible for
// zero-padding when rendering, since the true value may have leading zeros
// in its final digits.
func SumLastDigits(n uint64, k int) (uint64, error) {
	if k < 1 || k > MaxLastDigits {
		return 0, fmt.Errorf("digit count must be between 1 and %d, got %d", MaxLastDigits, k)
	}
	return SumMod(n, pow10(k))
}

// pow10 returns 10^k for 0 <= k <= MaxLastDigits.
func pow10(k int) uint64 {
	p := uint64(1)
	for i := 0; i < k; i++ {
		p *= 10
	}
	return p
}
