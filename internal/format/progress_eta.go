package format

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

const (
	// etaSmoothing is the EMA weight given to the most recent rate sample.
	etaSmoothing = 0.3
	// maxETA caps runaway estimates produced by near-zero progress rates.
	maxETA = 24 * time.Hour

	barFilled = '█' // █
	barEmpty  = '░' // ░
)

// ProgressState tracks fractional progress (0.0 to 1.0) for a fixed number
// of strategy slots and aggregates them into a single average. Safe for
// concurrent use.
type ProgressState struct {
	mu            sync.Mutex
	numStrategies int
	progresses    []float64
}

// NewProgressState creates a ProgressState with n strategy slots.
func NewProgressState(n int) *ProgressState {
	return &ProgressState{
		numStrategies: n,
		progresses:    make([]float64, n),
	}
}

// Update records progress for one strategy slot. Out-of-range indexes are
// ignored and values are clamped to [0, 1].
func (ps *ProgressState) Update(idx int, progress float64) {
	if idx < 0 || idx >= ps.numStrategies {
		return
	}
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	ps.mu.Lock()
	ps.progresses[idx] = progress
	ps.mu.Unlock()
}

// CalculateAverage returns the mean progress across all slots, 0 when there
// are no slots.
func (ps *ProgressState) CalculateAverage() float64 {
	if ps.numStrategies == 0 {
		return 0
	}
	ps.mu.Lock()
	defer ps.mu.Unlock()
	var sum float64
	for _, p := range ps.progresses {
		sum += p
	}
	return sum / float64(ps.numStrategies)
}

// ProgressWithETA extends ProgressState with a smoothed progress rate from
// which a time-to-completion estimate is derived. The rate is an exponential
// moving average so a slow strategy joining late does not whipsaw the ETA.
type ProgressWithETA struct {
	*ProgressState
	numStrategies int
	progressRate  float64 // average progress units per second
	startTime     time.Time
}

// NewProgressWithETA creates an ETA-capable progress tracker for n strategy
// slots.
func NewProgressWithETA(n int) *ProgressWithETA {
	return &ProgressWithETA{
		ProgressState: NewProgressState(n),
		numStrategies: n,
		startTime:     time.Now(),
	}
}

// UpdateWithETA records progress for one slot and returns the new aggregate
// progress together with the current ETA.
func (p *ProgressWithETA) UpdateWithETA(idx int, progress float64) (float64, time.Duration) {
	p.Update(idx, progress)
	avg := p.CalculateAverage()

	elapsed := time.Since(p.startTime).Seconds()
	if elapsed > 0 && avg > 0 {
		instant := avg / elapsed
		if p.progressRate == 0 {
			p.progressRate = instant
		} else {
			p.progressRate = etaSmoothing*instant + (1-etaSmoothing)*p.progressRate
		}
	}
	return avg, p.GetETA()
}

// GetETA estimates the remaining time from the smoothed progress rate.
// Returns 0 when no rate has been established yet.
func (p *ProgressWithETA) GetETA() time.Duration {
	if p.progressRate <= 0 {
		return 0
	}
	remaining := 1.0 - p.CalculateAverage()
	if remaining <= 0 {
		return 0
	}
	eta := time.Duration(remaining / p.progressRate * float64(time.Second))
	if eta > maxETA {
		eta = maxETA
	}
	return eta
}

// FormatETA renders an ETA for display: "calculating..." until an estimate
// exists, then compact h/m/s forms ("< 1s", "45s", "2m30s", "1h15m").
func FormatETA(eta time.Duration) string {
	if eta <= 0 {
		return "calculating..."
	}
	if eta < time.Second {
		return "< 1s"
	}
	eta = eta.Round(time.Second)
	h := int(eta.Hours())
	m := int(eta.Minutes()) % 60
	s := int(eta.Seconds()) % 60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh%dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	case m > 0 && s > 0:
		return fmt.Sprintf("%dm%ds", m, s)
	case m > 0:
		return fmt.Sprintf("%dm", m)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// ProgressBar renders a fixed-width bar of filled and empty block glyphs.
// Progress outside [0, 1] is clamped.
func ProgressBar(progress float64, length int) string {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	filled := int(progress * float64(length))
	var b strings.Builder
	for i := 0; i < length; i++ {
		if i < filled {
			b.WriteRune(barFilled)
		} else {
			b.WriteRune(barEmpty)
		}
	}
	return b.String()
}

// FormatProgressBarWithETA combines a progress bar, a percentage and an ETA
// into one status line.
func FormatProgressBarWithETA(progress float64, eta time.Duration, width int) string {
	pct := progress
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}
	return fmt.Sprintf("[%s] %5.1f%% ETA: %s", ProgressBar(progress, width), pct*100, FormatETA(eta))
}

// FormatNumberString inserts thousand separators into a decimal string.
// The input is expected to be a valid integer representation; a leading
// minus sign is preserved.
func FormatNumberString(s string) string {
	if s == "" {
		return ""
	}
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	n := len(s)
	if n <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}
	var b strings.Builder
	pre := n % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}
	for i := pre; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	out := b.String()
	if neg {
		return "-" + out
	}
	return out
}
