package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/avezina/sumbench/internal/metrics"
)

// MetricsModel displays runtime memory and throughput metrics.
type MetricsModel struct {
	alloc        uint64
	heapSys      uint64
	numGC        uint32
	pauseTotalNs uint64
	numGoroutine int
	procRSS      uint64
	speed        float64 // average progress per second, smoothed
	lastProgress float64
	lastUpdate   time.Time
	indicators   *metrics.Indicators
	width        int
	height       int
}

// NewMetricsModel creates a new metrics panel.
func NewMetricsModel() MetricsModel {
	return MetricsModel{
		lastUpdate: time.Now(),
	}
}

// SetSize updates dimensions.
func (m *MetricsModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// UpdateMemStats updates the runtime memory statistics.
func (m *MetricsModel) UpdateMemStats(msg MemStatsMsg) {
	m.alloc = msg.Alloc
	m.heapSys = msg.HeapSys
	m.numGC = msg.NumGC
	m.pauseTotalNs = msg.PauseTotalNs
	m.numGoroutine = msg.NumGoroutine
}

// UpdateRSS updates this process's resident set size.
func (m *MetricsModel) UpdateRSS(rss uint64) {
	m.procRSS = rss
}

// UpdateProgress updates the speed metric from the aggregate progress.
// Instant rates are blended 70/30 with the previous estimate to smooth
// out bursts; updates closer than 50ms apart are ignored.
func (m *MetricsModel) UpdateProgress(progress float64) {
	now := time.Now()
	dt := now.Sub(m.lastUpdate).Seconds()
	if dt > 0.05 {
		dp := progress - m.lastProgress
		if dp > 0 {
			instantSpeed := dp / dt
			if m.speed > 0 {
				m.speed = 0.7*m.speed + 0.3*instantSpeed
			} else {
				m.speed = instantSpeed
			}
		}
		m.lastProgress = progress
		m.lastUpdate = now
	}
}

// UpdateIndicators stores the throughput indicators.
func (m *MetricsModel) UpdateIndicators(ind *metrics.Indicators) {
	m.indicators = ind
}

// View renders the metrics panel.
func (m MetricsModel) View() string {
	var rows strings.Builder

	rows.WriteString(" " + metricValueStyle.Render("Metrics"))
	rows.WriteString("\n")

	// Compact top line: Heap: X / Y | GC: N (Xms)
	heapStr := metricValueStyle.Render(formatBytes(m.alloc) + " / " + formatBytes(m.heapSys))
	gcPauseStr := metricValueStyle.Render(fmt.Sprintf("%d (%.1fms)", m.numGC, float64(m.pauseTotalNs)/1e6))
	pipe := metricLabelStyle.Render(" | ")
	rows.WriteString(fmt.Sprintf("  %s %s%s%s %s",
		metricLabelStyle.Render("Heap:"), heapStr,
		pipe,
		metricLabelStyle.Render("GC:"), gcPauseStr))

	colWidth := (m.width - 6) / 2

	leftCol := []string{
		formatMetricCol("Speed:", fmt.Sprintf("%.1f %%/s", m.speed*100), colWidth),
	}
	rightCol := []string{
		formatMetricCol("Goroutines:", fmt.Sprintf("%d", m.numGoroutine), colWidth),
	}

	if m.procRSS > 0 {
		leftCol = append(leftCol, formatMetricCol("RSS:", formatBytes(m.procRSS), colWidth))
		rightCol = append(rightCol, "")
	}

	if m.indicators != nil {
		parity := "odd"
		if m.indicators.IsEven {
			parity = "even"
		}
		terms := fmt.Sprintf("%d (%s/s)",
			m.indicators.Terms, metrics.FormatTermsPerSecond(m.indicators.TermsPerSecond))
		leftCol = append(leftCol,
			formatMetricCol("Terms:", terms, colWidth),
			formatMetricCol("Bits/s:", metrics.FormatBitsPerSecond(m.indicators.BitsPerSecond), colWidth),
		)
		rightCol = append(rightCol,
			formatMetricCol("Digits/s:", metrics.FormatDigitsPerSecond(m.indicators.DigitsPerSecond), colWidth),
			formatMetricCol("Parity:", parity, colWidth),
		)
	}

	for i := range leftCol {
		rows.WriteString("\n")
		rows.WriteString(leftCol[i])
		rows.WriteString(rightCol[i])
	}

	return panelStyle.
		Width(m.width - 2).
		Height(m.height - 2).
		Render(rows.String())
}

func formatMetricCol(label, value string, colWidth int) string {
	cell := fmt.Sprintf(" %s %s",
		metricLabelStyle.Render(fmt.Sprintf("%-12s", label)),
		metricValueStyle.Render(value))
	// Pad to fixed column width using lipgloss-aware width
	visible := lipgloss.Width(cell)
	if visible < colWidth {
		cell += strings.Repeat(" ", colWidth-visible)
	}
	return cell
}

func formatBytes(b uint64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
