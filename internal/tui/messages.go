package tui

import (
	"time"

	"github.com/avezina/sumbench/internal/metrics"
	"github.com/avezina/sumbench/internal/orchestration"
)

// ProgressMsg carries one aggregated progress update from a running strategy.
type ProgressMsg struct {
	StrategyIndex   int
	Value           float64
	AverageProgress float64
	ETA             time.Duration
}

// ProgressDoneMsg signals that the progress channel has been drained.
type ProgressDoneMsg struct{}

// ComparisonMsg carries one completed per-input comparison of the sweep.
type ComparisonMsg struct {
	Comparison orchestration.Comparison
}

// ComparisonResultsMsg carries the sorted duel summary table.
type ComparisonResultsMsg struct {
	Results []orchestration.StrategyResult
}

// FinalResultMsg carries the winning result of a duel.
type FinalResultMsg struct {
	Result    orchestration.StrategyResult
	N         uint64
	Verbose   bool
	Details   bool
	ShowValue bool
}

// IndicatorsMsg carries post-run throughput indicators.
type IndicatorsMsg struct {
	Indicators *metrics.Indicators
}

// ErrorMsg reports a failed run.
type ErrorMsg struct {
	Err      error
	Duration time.Duration
}

// TickMsg drives periodic sampling and the elapsed clock.
type TickMsg time.Time

// MemStatsMsg carries a runtime memory sample.
type MemStatsMsg struct {
	Alloc        uint64
	HeapSys      uint64
	NumGC        uint32
	PauseTotalNs uint64
	NumGoroutine int
}

// SysStatsMsg carries a host and process resource sample.
type SysStatsMsg struct {
	CPUPercent float64
	MemPercent float64
	ProcRSS    uint64
}

// CalculationCompleteMsg signals the end of the whole run with its exit code.
type CalculationCompleteMsg struct {
	ExitCode   int
	Generation uint64
}

// ContextCancelledMsg signals that the run context was cancelled.
type ContextCancelledMsg struct {
	Err        error
	Generation uint64
}
