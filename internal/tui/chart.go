package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/avezina/sumbench/internal/format"
)

// Widths reserved beside the plot areas: sparkline labels with their
// percentage column, and the gauge's percentage column.
const (
	sparklineLabelWidth = 17
	gaugeReserved       = 14
)

// ChartModel is the lower-right panel: the aggregate progress gauge
// with its ETA, a braille history of the gauge, and CPU/MEM sparklines
// fed by the host sampler.
type ChartModel struct {
	averageProgress float64
	eta             time.Duration
	done            bool
	total           time.Duration
	progressHistory *RingBuffer
	cpuHistory      *RingBuffer
	memHistory      *RingBuffer
	width           int
	height          int
}

// NewChartModel creates a new chart panel.
func NewChartModel() ChartModel {
	return ChartModel{
		progressHistory: NewRingBuffer(1),
		cpuHistory:      NewRingBuffer(1),
		memHistory:      NewRingBuffer(1),
	}
}

// SetSize updates dimensions and resizes the sample buffers to the
// visible plot width. The braille history keeps two samples per
// character cell.
func (c *ChartModel) SetSize(w, h int) {
	c.width = w
	c.height = h
	c.cpuHistory.Resize(w - sparklineLabelWidth)
	c.memHistory.Resize(w - sparklineLabelWidth)
	c.progressHistory.Resize((w - sparklineLabelWidth) * 2)
}

// AddDataPoint records a progress update. The gauge tracks the
// aggregate average; the braille history plots the raw update stream.
func (c *ChartModel) AddDataPoint(value, averageProgress float64, eta time.Duration) {
	c.averageProgress = averageProgress
	c.eta = eta
	c.progressHistory.Push(value * 100)
}

// UpdateSysStats records a host CPU and memory sample.
func (c *ChartModel) UpdateSysStats(cpuPercent, memPercent float64) {
	c.cpuHistory.Push(cpuPercent)
	c.memHistory.Push(memPercent)
}

// SetDone freezes the panel with the total run duration.
func (c *ChartModel) SetDone(total time.Duration) {
	c.done = true
	c.total = total
}

// Reset clears all samples.
func (c *ChartModel) Reset() {
	c.averageProgress = 0
	c.eta = 0
	c.done = false
	c.total = 0
	c.progressHistory.Reset()
	c.cpuHistory.Reset()
	c.memHistory.Reset()
}

// renderProgressBar renders the aggregate gauge, empty when the panel
// is too narrow for a meaningful bar.
func (c ChartModel) renderProgressBar() string {
	barWidth := c.width - gaugeReserved
	if barWidth < 5 {
		return ""
	}

	p := c.averageProgress
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	filled := int(p * float64(barWidth))
	if filled > barWidth {
		filled = barWidth
	}

	bar := gaugeFilledStyle.Render(strings.Repeat("█", filled)) +
		gaugeEmptyStyle.Render(strings.Repeat("░", barWidth-filled))
	return fmt.Sprintf(" %s %s", bar, metricValueStyle.Render(fmt.Sprintf("%5.1f%%", p*100)))
}

// View renders the chart panel.
func (c ChartModel) View() string {
	var b strings.Builder

	b.WriteString(" " + metricValueStyle.Render("Progress Chart"))
	b.WriteString("\n")

	if bar := c.renderProgressBar(); bar != "" {
		b.WriteString(bar)
		b.WriteString("\n")
	}

	if c.done {
		b.WriteString(" " + metricLabelStyle.Render("Done in:") + " " +
			metricValueStyle.Render(format.FormatExecutionDuration(c.total)))
	} else {
		b.WriteString(" " + metricLabelStyle.Render("ETA:") + " " +
			metricValueStyle.Render(format.FormatETA(c.eta)))
	}

	if c.height >= 12 && c.progressHistory.Len() > 1 {
		plotWidth := c.width - sparklineLabelWidth
		for _, row := range RenderBrailleChart(c.progressHistory.Slice(), plotWidth, 2) {
			b.WriteString("\n ")
			b.WriteString(gaugeFilledStyle.Render(row))
		}
	}

	if c.height >= 10 {
		b.WriteString("\n")
		b.WriteString(renderSparklineRow("CPU", c.cpuHistory, cpuSparklineStyle))
		b.WriteString("\n")
		b.WriteString(renderSparklineRow("MEM", c.memHistory, memSparklineStyle))
	}

	return panelStyle.
		Width(c.width - 2).
		Height(c.height - 2).
		Render(b.String())
}

func renderSparklineRow(label string, buf *RingBuffer, style lipgloss.Style) string {
	return fmt.Sprintf(" %s %s %s",
		metricLabelStyle.Render(fmt.Sprintf("%-4s", label)),
		metricValueStyle.Render(fmt.Sprintf("%5.1f%%", buf.Last())),
		style.Render(RenderSparkline(buf.Slice())))
}
