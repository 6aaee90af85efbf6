package gauss

import (
	"context"
	"fmt"

	"github.com/avezina/sumbench/internal/progress"
)

// ExampleNewCalculator demonstrates creating a Calculator with
// different strategy implementations.
func ExampleNewCalculator() {
	// Create calculators for each strategy.
	iter := NewCalculator(&IterativeScan{})
	formula := NewCalculator(&ClosedForm{})
	gmp := NewCalculator(&GMPClosedForm{})

	fmt.Println(iter.Name())
	fmt.Println(formula.Name())
	fmt.Println(gmp.Name())
	// Output:
	// Iterative Scan (O(n), 128-bit accumulator)
	// Gauss Formula (O(1), math/big)
	// Gauss Formula (O(1), GMP)
}

// ExampleNewDefaultFactory demonstrates using the factory to obtain
// pre-registered strategies by key.
func ExampleNewDefaultFactory() {
	factory := NewDefaultFactory()

	// List available strategies.
	fmt.Println(factory.List())

	// Get a strategy by key.
	calc, err := factory.Get("formula")
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	result, err := calc.Calculate(context.Background(), nil, 0, 10, Options{})
	if err != nil {
		fmt.Printf("Calculation error: %v\n", err)
		return
	}

	fmt.Println(result)
	// Output:
	// [formula gmp iter]
	// 55
}

// ExampleSumCalculator_CalculateWithObservers demonstrates observer-based
// progress tracking during a run.
func ExampleSumCalculator_CalculateWithObservers() {
	calc := NewCalculator(&IterativeScan{}).(*SumCalculator)

	// Create a subject with a channel observer.
	subject := progress.NewProgressSubject()
	progressChan := make(chan progress.ProgressUpdate, 100)
	subject.Register(progress.NewChannelObserver(progressChan))

	result, err := calc.CalculateWithObservers(
		context.Background(), subject, 0, 50, Options{},
	)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	// Drain the progress channel.
	close(progressChan)
	var lastProgress float64
	for update := range progressChan {
		lastProgress = update.Value
	}

	fmt.Println(result)
	fmt.Println(lastProgress)
	// Output:
	// 1275
	// 1
}

// Example_smallValues shows a few sums across both accumulator paths,
// including the largest input whose product still fits a uint64.
func Example_smallValues() {
	calc := NewCalculator(&ClosedForm{})

	for _, n := range []uint64{0, 1, 2, 10, 100, 4294967295} {
		result, _ := calc.Calculate(context.Background(), nil, 0, n, Options{})
		fmt.Printf("T(%d) = %s\n", n, result)
	}
	// Output:
	// T(0) = 0
	// T(1) = 1
	// T(2) = 3
	// T(10) = 55
	// T(100) = 5050
	// T(4294967295) = 9223372034707292160
}
