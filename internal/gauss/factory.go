package gauss

import (
	"fmt"
	"sort"
	"strings"

	apperrors "github.com/avezina/sumbench/internal/errors"
)

// Strategy keys recognised by the factory.
const (
	KeyIterative = "iter"
	KeyFormula   = "formula"
	KeyGMP       = "gmp"
)

// CalculatorFactory provides named access to the registered strategies.
type CalculatorFactory interface {
	// Get returns the strategy registered under key, or a ValidationError
	// naming the valid keys.
	Get(key string) (Calculator, error)
	// MustGet is Get panicking on unknown keys; reserved for statically
	// known keys.
	MustGet(key string) Calculator
	// List returns the registered keys in sorted order.
	List() []string
	// GetAll returns all strategies in List() order.
	GetAll() []Calculator
}

type calculatorFactory struct {
	builders map[string]func() Calculator
}

// NewDefaultFactory creates a factory with the production strategies
// registered. Construction of individual calculators is cheap and
// side-effect free, so a fresh instance is returned on every Get.
func NewDefaultFactory() CalculatorFactory {
	return &calculatorFactory{
		builders: map[string]func() Calculator{
			KeyIterative: func() Calculator { return NewCalculator(&IterativeScan{}) },
			KeyFormula:   func() Calculator { return NewCalculator(&ClosedForm{}) },
			KeyGMP:       func() Calculator { return NewCalculator(&GMPClosedForm{}) },
		},
	}
}

// Get implements CalculatorFactory.
func (f *calculatorFactory) Get(key string) (Calculator, error) {
	builder, ok := f.builders[key]
	if !ok {
		return nil, apperrors.ValidationError{
			Field:   "algo",
			Message: fmt.Sprintf("unknown strategy %q (valid: %s)", key, strings.Join(f.List(), ", ")),
		}
	}
	return builder(), nil
}

// MustGet implements CalculatorFactory.
func (f *calculatorFactory) MustGet(key string) Calculator {
	calc, err := f.Get(key)
	if err != nil {
		panic(err)
	}
	return calc
}

// List implements CalculatorFactory.
func (f *calculatorFactory) List() []string {
	keys := make([]string, 0, len(f.builders))
	for k := range f.builders {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetAll implements CalculatorFactory.
func (f *calculatorFactory) GetAll() []Calculator {
	all := make([]Calculator, 0, len(f.builders))
	for _, k := range f.List() {
		all = append(all, f.MustGet(k))
	}
	return all
}

// GlobalFactory is the shared factory used by the application entry points.
var GlobalFactory = NewDefaultFactory()

// Get returns a strategy from the global factory.
func Get(key string) (Calculator, error) { return GlobalFactory.Get(key) }

// MustGet returns a strategy from the global factory, panicking on unknown
// keys.
func MustGet(key string) Calculator { return GlobalFactory.MustGet(key) }

// List returns the strategy keys registered in the global factory.
func List() []string { return GlobalFactory.List() }
