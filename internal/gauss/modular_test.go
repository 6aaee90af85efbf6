package gauss

import (
	"context"
	"fmt"
	"math"
	"math/big"
	"testing"
)

func TestSumMod_KnownValues(t *testing.T) {
	t.Parallel()

	cases := []struct {
		n    uint64
		mod  uint64
		want uint64
	}{
		{0, 1000, 0},
		{1, 1000, 1},
		{10, 1000, 55},
		{100, 10000, 5050},
		{12345, 97, 60},
		{1_000_000_000, 1_000_000, 0}, // T(10^9) = 500000000500000000 ends in six zeros
		{math.MaxUint64, 1_000_000_000_000_000_000, 463931679029329920},
		{math.MaxUint64, math.MaxUint64 / 2, 1}, // largest permitted modulus
	}

	for _, tc := range cases {
		tc := tc
		t.Run(fmt.Sprintf("N=%d_mod_%d", tc.n, tc.mod), func(t *testing.T) {
			t.Parallel()
			result, err := SumMod(tc.n, tc.mod)
			if err != nil {
				t.Fatalf("SumMod error: %v", err)
			}
			if result != tc.want {
				t.Errorf("SumMod(%d, %d) = %d, want %d",
					tc.n, tc.mod, result, tc.want)
			}
		})
	}
}

func TestSumMod_ConsistentWithFull(t *testing.T) {
	t.Parallel()

	// Compute T(10^7) fully, then verify the residue matches.
	calc := NewCalculator(&ClosedForm{})
	ctx := context.Background()
	full, err := calc.Calculate(ctx, nil, 0, 10_000_000, Options{})
	if err != nil {
		t.Fatalf("full Calculate error: %v", err)
	}

	const mod = 999_999_937 // large prime modulus
	expected := new(big.Int).Mod(full, big.NewInt(mod))

	result, err := SumMod(10_000_000, mod)
	if err != nil {
		t.Fatalf("SumMod error: %v", err)
	}

	if result != expected.Uint64() {
		t.Errorf("modular result doesn't match full: got %d, want %s",
			result, expected.String())
	}
}

func TestSumMod_InvalidModulus(t *testing.T) {
	t.Parallel()

	_, err := SumMod(10, 0)
	if err == nil {
		t.Error("expected error for zero modulus")
	}

	_, err = SumMod(10, math.MaxUint64/2+1)
	if err == nil {
		t.Error("expected error for modulus whose double overflows")
	}
}

func TestSumLastDigits(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		n    uint64
		k    int
		want uint64
	}{
		{"single digit", 10, 1, 5},
		{"value shorter than window", 10, 4, 55},
		{"trailing zeros collapse", 1_000_000_000, 6, 0},
		{"full window", math.MaxUint64, 18, 463931679029329920},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := SumLastDigits(tc.n, tc.k)
			if err != nil {
				t.Fatalf("SumLastDigits error: %v", err)
			}
			if got != tc.want {
				t.Errorf("SumLastDigits(%d, %d) = %d, want %d", tc.n, tc.k, got, tc.want)
			}
		})
	}
}

func TestSumLastDigits_InvalidDigitCount(t *testing.T) {
	t.Parallel()

	for _, k := range []int{-1, 0, MaxLastDigits + 1} {
		if _, err := SumLastDigits(10, k); err == nil {
			t.Errorf("expected error for k=%d", k)
		}
	}
}
