// Command generate-golden regenerates the oracle values used to
// cross-check the summation strategies. The oracle deliberately avoids
// the closed form: it accumulates 1+2+...+n with big.Int addition, so an
// algebra bug shared by the strategies cannot leak into the
// expectations.
package main

import (
	"flag"
	"fmt"
	"math/big"
	"os"
)

// goldenInputs stays small enough for the O(n) oracle to finish in
// seconds.
var goldenInputs = []uint64{0, 1, 2, 3, 10, 100, 1000, 65535, 1_000_000}

// sumBig computes T(n) by literal term-by-term accumulation.
func sumBig(n uint64) *big.Int {
	sum := new(big.Int)
	term := new(big.Int)
	for i := uint64(1); i <= n; i++ {
		sum.Add(sum, term.SetUint64(i))
	}
	return sum
}

func main() {
	out := flag.String("out", "", "write to this file instead of stdout")
	flag.Parse()

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			fmt.Fprintf(os.Stderr, "generate-golden: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}

	fmt.Fprintln(w, "# n T(n), regenerate with: go run ./cmd/generate-golden")
	for _, n := range goldenInputs {
		fmt.Fprintf(w, "%d %s\n", n, sumBig(n))
	}
}
