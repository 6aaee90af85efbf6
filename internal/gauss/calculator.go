package gauss

import (
	"context"
	"math/big"

	"github.com/avezina/sumbench/internal/progress"
)

// Options tunes strategy execution. The zero value selects the package
// defaults.
type Options struct {
	// CheckInterval overrides DefaultCheckInterval for the iterative scan.
	// Zero keeps the default. Smaller values tighten cancellation latency
	// at the cost of per-iteration overhead; tests use small intervals to
	// exercise the cancellation path quickly.
	CheckInterval uint64
}

// checkInterval resolves the effective interval.
func (o Options) checkInterval() uint64 {
	if o.CheckInterval == 0 {
		return DefaultCheckInterval
	}
	return o.CheckInterval
}

// coreCalculator is the internal computation contract implemented by each
// strategy. It computes T(n), reporting fractional progress through the
// callback, and honors context cancellation on long scans.
type coreCalculator interface {
	// Name returns the human-readable strategy description.
	Name() string
	// CalculateCore computes T(n). The report callback may be nil.
	CalculateCore(ctx context.Context, report progress.ProgressCallback, n uint64, opts Options) (*big.Int, error)
}

// Calculator is the public execution contract consumed by the orchestration
// layer. Progress flows out through a channel so display code never touches
// strategy internals.
type Calculator interface {
	// Name returns the human-readable strategy description.
	Name() string
	// Calculate computes T(n), publishing progress updates tagged with
	// index to progressChan. A nil channel runs silently.
	Calculate(ctx context.Context, progressChan chan<- progress.ProgressUpdate, index int, n uint64, opts Options) (*big.Int, error)
}

// SumCalculator adapts a coreCalculator to the Calculator interface, wiring
// observer-based progress reporting around the raw computation.
type SumCalculator struct {
	core coreCalculator
}

// NewCalculator wraps a core strategy implementation.
func NewCalculator(core coreCalculator) Calculator {
	return &SumCalculator{core: core}
}

// Name returns the wrapped strategy's description.
func (c *SumCalculator) Name() string { return c.core.Name() }

// Calculate implements Calculator.
func (c *SumCalculator) Calculate(ctx context.Context, progressChan chan<- progress.ProgressUpdate, index int, n uint64, opts Options) (*big.Int, error) {
	subject := progress.NewProgressSubject()
	if progressChan != nil {
		subject.Register(progress.NewChannelObserver(progressChan))
	}
	return c.CalculateWithObservers(ctx, subject, index, n, opts)
}

// CalculateWithObservers computes T(n), notifying the subject's registered
// observers of progress. The observer set is frozen for the duration of the
// run; a final 1.0 update is always published on success.
func (c *SumCalculator) CalculateWithObservers(ctx context.Context, subject *progress.ProgressSubject, index int, n uint64, opts Options) (*big.Int, error) {
	report := subject.Freeze(index)
	result, err := c.core.CalculateCore(ctx, report, n, opts)
	if err != nil {
		return nil, err
	}
	report(1.0)
	return result, nil
}
