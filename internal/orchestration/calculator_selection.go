package orchestration

import (
	"github.com/avezina/sumbench/internal/gauss"
)

// GetCalculatorsToRun determines which strategies should be executed for a
// duel based on the algo selection. Returns strategies in alphabetically
// sorted key order for consistent, reproducible behavior.
//
// Parameters:
//   - algo: A strategy key, or "all" for every registered strategy.
//   - factory: The strategy factory to retrieve implementations from.
//
// Returns:
//   - []gauss.Calculator: A slice of strategies to execute.
func GetCalculatorsToRun(algo string, factory gauss.CalculatorFactory) []gauss.Calculator {
	if algo == "all" {
		keys := factory.List() // List() returns sorted keys
		calculators := make([]gauss.Calculator, 0, len(keys))
		for _, k := range keys {
			if calc, err := factory.Get(k); err == nil {
				calculators = append(calculators, calc)
			}
		}
		return calculators
	}
	if calc, err := factory.Get(algo); err == nil {
		return []gauss.Calculator{calc}
	}
	return nil
}

// SweepPair returns the two sweep contestants in timing order: the
// iterative scan first, the closed form second. The sign of
// Comparison.Delta depends on this order.
func SweepPair(factory gauss.CalculatorFactory) []gauss.Calculator {
	return []gauss.Calculator{
		factory.MustGet(gauss.KeyIterative),
		factory.MustGet(gauss.KeyFormula),
	}
}
