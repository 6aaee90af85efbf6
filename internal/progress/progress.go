// Package progress implements observer-based progress reporting shared by
// the summation strategies and the presentation layers. Strategies publish
// fractional progress through a frozen callback; observers fan the updates
// out to channels, logs or displays.
package progress

import (
	"sync"

	"github.com/avezina/sumbench/internal/logging"
)

// ProgressUpdate is a single progress sample from one strategy execution.
type ProgressUpdate struct {
	// StrategyIndex identifies which strategy slot produced the update.
	StrategyIndex int
	// Value is the fractional progress, 0.0 to 1.0.
	Value float64
}

// ProgressCallback receives fractional progress from a running strategy.
type ProgressCallback func(progress float64)

// ProgressObserver is notified of progress updates for a strategy slot.
type ProgressObserver interface {
	Update(strategyIndex int, progress float64)
}

// ProgressSubject maintains a set of observers and produces frozen callbacks
// for strategy executions. Freeze snapshots the observer set so a running
// strategy never races with late registrations.
type ProgressSubject struct {
	mu        sync.RWMutex
	observers []ProgressObserver
}

// NewProgressSubject creates an empty subject.
func NewProgressSubject() *ProgressSubject {
	return &ProgressSubject{}
}

// Register adds an observer. Safe for concurrent use with Freeze.
func (s *ProgressSubject) Register(o ProgressObserver) {
	if o == nil {
		return
	}
	s.mu.Lock()
	s.observers = append(s.observers, o)
	s.mu.Unlock()
}

// Freeze returns a callback bound to the given strategy index and to the
// observers registered at the time of the call. Observers added afterwards
// do not receive updates from this callback.
func (s *ProgressSubject) Freeze(strategyIndex int) ProgressCallback {
	s.mu.RLock()
	snapshot := make([]ProgressObserver, len(s.observers))
	copy(snapshot, s.observers)
	s.mu.RUnlock()

	return func(progress float64) {
		for _, o := range snapshot {
			o.Update(strategyIndex, progress)
		}
	}
}

// ChannelObserver forwards updates to a channel without blocking. When the
// channel is full the update is dropped; progress is advisory and a fresher
// sample always follows.
type ChannelObserver struct {
	ch chan<- ProgressUpdate
}

// NewChannelObserver creates an observer forwarding to ch.
func NewChannelObserver(ch chan<- ProgressUpdate) *ChannelObserver {
	return &ChannelObserver{ch: ch}
}

// Update implements ProgressObserver.
func (o *ChannelObserver) Update(strategyIndex int, progress float64) {
	select {
	case o.ch <- ProgressUpdate{StrategyIndex: strategyIndex, Value: progress}:
	default:
	}
}

// LoggingObserver writes progress updates to a structured logger at debug
// level. Intended for verbose diagnostics, not interactive display.
type LoggingObserver struct {
	logger logging.Logger
}

// NewLoggingObserver creates an observer logging through logger.
func NewLoggingObserver(logger logging.Logger) *LoggingObserver {
	return &LoggingObserver{logger: logger}
}

// Update implements ProgressObserver.
func (o *LoggingObserver) Update(strategyIndex int, progress float64) {
	o.logger.Debug("progress",
		logging.Int("strategy", strategyIndex),
		logging.Float64("value", progress),
	)
}

// NoOpObserver ignores all updates.
type NoOpObserver struct{}

// NewNoOpObserver creates an observer that discards updates.
func NewNoOpObserver() *NoOpObserver { return &NoOpObserver{} }

// Update implements ProgressObserver.
func (*NoOpObserver) Update(int, float64) {}
