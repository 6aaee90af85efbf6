// Package gauss implements strategies for computing triangular numbers,
// the sums T(n) = 1 + 2 + ... + n. Two production strategies cover the
// contrast the benchmark exists to measure: a linear accumulation scan and
// the constant-time closed form n(n+1)/2, with a GMP-backed variant of the
// latter as a third contestant. All strategies return exact *big.Int values
// for the full uint64 input domain.
//
// Strategies are obtained through the factory by key ("iter", "formula",
// "gmp") and executed through the Calculator interface, which adds progress
// observation on top of the raw computation.
package gauss
