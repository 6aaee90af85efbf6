package orchestration

import (
	"time"

	"github.com/avezina/sumbench/internal/format"
	"github.com/avezina/sumbench/internal/progress"
)

// ProgressAggregator manages multi-strategy progress aggregation.
// It wraps format.ProgressWithETA and provides a higher-level API
// for consuming progress updates from a channel. Both CLI and TUI
// use this to avoid duplicating the aggregation setup and update logic.
type ProgressAggregator struct {
	state         *format.ProgressWithETA
	numStrategies int
}

// NewProgressAggregator creates a new aggregator for the given number
// of strategies. Returns nil if numStrategies <= 0.
func NewProgressAggregator(numStrategies int) *ProgressAggregator {
	if numStrategies <= 0 {
		return nil
	}
	return &ProgressAggregator{
		state:         format.NewProgressWithETA(numStrategies),
		numStrategies: numStrategies,
	}
}

// AggregatedProgress holds the result of processing a single progress update.
type AggregatedProgress struct {
	// StrategyIndex is the index of the strategy that sent the update.
	StrategyIndex int
	// Value is the raw progress value from the update (0.0 to 1.0).
	Value float64
	// AverageProgress is the aggregated average across all strategies.
	AverageProgress float64
	// ETA is the estimated time remaining based on smoothed progress rate.
	ETA time.Duration
}

// Update processes a single progress update and returns the aggregated result.
func (a *ProgressAggregator) Update(update progress.ProgressUpdate) AggregatedProgress {
	avgProgress, eta := a.state.UpdateWithETA(update.StrategyIndex, update.Value)
	return AggregatedProgress{
		StrategyIndex:   update.StrategyIndex,
		Value:           update.Value,
		AverageProgress: avgProgress,
		ETA:             eta,
	}
}

// CalculateAverage returns the current average progress without updating.
// Useful for periodic refresh between updates (e.g., CLI ticker).
func (a *ProgressAggregator) CalculateAverage() float64 {
	return a.state.CalculateAverage()
}

// GetETA returns the current ETA estimate without updating.
// Useful for periodic refresh between updates (e.g., CLI ticker).
func (a *ProgressAggregator) GetETA() time.Duration {
	return a.state.GetETA()
}

// NumStrategies returns the number of strategies being tracked.
func (a *ProgressAggregator) NumStrategies() int {
	return a.numStrategies
}

// IsMultiStrategy returns true if tracking more than one strategy.
func (a *ProgressAggregator) IsMultiStrategy() bool {
	return a.numStrategies > 1
}

// DrainChannel reads all updates from the channel without processing.
// Use this when numStrategies <= 0 and updates should be discarded.
func DrainChannel(progressChan <-chan progress.ProgressUpdate) {
	for range progressChan {
	}
}
