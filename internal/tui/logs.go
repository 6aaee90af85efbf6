package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/avezina/sumbench/internal/config"
	"github.com/avezina/sumbench/internal/format"
	"github.com/avezina/sumbench/internal/orchestration"
)

// logLine is one timestamped entry of the event pane.
type logLine struct {
	at   time.Time
	text string
}

// LogsModel is the scrolling event pane on the left of the dashboard.
// It records the run configuration, live per-strategy progress, every
// per-input comparison block and the final verdict.
type LogsModel struct {
	strategyNames []string
	lines         []logLine
	// progressLine maps a strategy index to its in-place entry so a
	// running scan updates one line instead of flooding the pane.
	progressLine map[int]int
	offset       int // lines scrolled back from the tail
	width        int
	height       int
	keymap       KeyMap
}

// NewLogsModel creates the event pane for the given strategies.
func NewLogsModel(strategyNames []string) LogsModel {
	return LogsModel{
		strategyNames: strategyNames,
		progressLine:  make(map[int]int),
		keymap:        DefaultKeyMap(),
	}
}

func (l *LogsModel) addLine(text string) {
	l.lines = append(l.lines, logLine{at: time.Now(), text: text})
}

// AddExecutionConfig records the run parameters at the top of the pane.
func (l *LogsModel) AddExecutionConfig(cfg config.AppConfig) {
	if cfg.N > 0 {
		l.addLine("Mode: duel n = " + format.FormatNumberString(strconv.FormatUint(cfg.N, 10)))
	} else {
		l.addLine(fmt.Sprintf("Mode: sweep over %d inputs", len(cfg.SweepInputs())))
	}
	l.addLine("Strategies: " + strings.Join(l.strategyNames, ", "))
	if cfg.Repeat > 1 {
		l.addLine(fmt.Sprintf("Timing: best of %d", cfg.Repeat))
	}
	if cfg.Timeout > 0 {
		l.addLine("Timeout: " + cfg.Timeout.String())
	}
}

// AddNotice records a plain informational line.
func (l *LogsModel) AddNotice(text string) {
	l.addLine(logTimeStyle.Render(text))
}

// AddProgressEntry updates the running strategy's progress line.
func (l *LogsModel) AddProgressEntry(msg ProgressMsg) {
	name := fmt.Sprintf("strategy %d", msg.StrategyIndex)
	if msg.StrategyIndex >= 0 && msg.StrategyIndex < len(l.strategyNames) {
		name = l.strategyNames[msg.StrategyIndex]
	}
	text := fmt.Sprintf("%s %s",
		logStrategyStyle.Render(name),
		logProgressStyle.Render(fmt.Sprintf("%5.1f%%", msg.Value*100)))

	if idx, ok := l.progressLine[msg.StrategyIndex]; ok && idx < len(l.lines) {
		l.lines[idx] = logLine{at: time.Now(), text: text}
		return
	}
	l.addLine(text)
	l.progressLine[msg.StrategyIndex] = len(l.lines) - 1
}

// AddComparison records one per-input comparison block of the sweep:
// both durations, the signed difference with the faster label, and the
// consistency verdict.
func (l *LogsModel) AddComparison(cmp orchestration.Comparison) {
	// The next input starts fresh progress lines.
	l.progressLine = make(map[int]int)

	l.addLine(logInputStyle.Render("n = " + format.FormatNumberString(strconv.FormatUint(cmp.N, 10))))

	successes := 0
	for _, res := range cmp.Results {
		if res.Err != nil {
			l.addLine(fmt.Sprintf("  %s %s",
				logStrategyStyle.Render(res.Name),
				logErrorStyle.Render(res.Err.Error())))
			continue
		}
		successes++
		l.addLine(fmt.Sprintf("  %s %s",
			logStrategyStyle.Render(res.Name),
			format.FormatExecutionDuration(res.Duration)))
	}

	if cmp.FasterLabel != "" {
		l.addLine(fmt.Sprintf("  Δ %s (%s faster)",
			format.FormatSignedSeconds(cmp.Delta), cmp.FasterLabel))
	}

	switch {
	case cmp.Mismatch != nil:
		l.addLine("  " + logErrorStyle.Render(fmt.Sprintf("✗ mismatched (%v)", cmp.Mismatch)))
	case successes >= 2:
		l.addLine("  " + logSuccessStyle.Render("✓ consistent"))
	}
}

// AddResults records the sorted duel summary, fastest first.
func (l *LogsModel) AddResults(results []orchestration.StrategyResult) {
	l.addLine(logInputStyle.Render("Summary"))
	for i, res := range results {
		if res.Err != nil {
			l.addLine(fmt.Sprintf("  %d. %s %s", i+1,
				logStrategyStyle.Render(res.Name),
				logErrorStyle.Render("failed: "+res.Err.Error())))
			continue
		}
		l.addLine(fmt.Sprintf("  %d. %s %s", i+1,
			logStrategyStyle.Render(res.Name),
			format.FormatExecutionDuration(res.Duration)))
	}
}

// AddFinalResult records the winning value of a duel.
func (l *LogsModel) AddFinalResult(msg FinalResultMsg) {
	if msg.Result.Value == nil {
		return
	}
	value := msg.Result.Value.Text(10)
	if !msg.ShowValue && len(value) > 40 {
		value = value[:20] + "..." + value[len(value)-17:]
	}
	l.addLine(logSuccessStyle.Render(fmt.Sprintf("T(%d) = %s", msg.N, value)))
}

// AddSweepSummary records the final consistency banner.
func (l *LogsModel) AddSweepSummary(inputs, mismatches int) {
	if mismatches > 0 {
		l.addLine(logErrorStyle.Render(
			fmt.Sprintf("Sweep complete: %d inputs, %d mismatched", inputs, mismatches)))
		return
	}
	l.addLine(logSuccessStyle.Render(
		fmt.Sprintf("Sweep complete: %d inputs, all consistent", inputs)))
}

// AddError records a failed run.
func (l *LogsModel) AddError(msg ErrorMsg) {
	l.addLine(logErrorStyle.Render(
		fmt.Sprintf("✗ %v after %s", msg.Err, format.FormatExecutionDuration(msg.Duration))))
}

// Reset clears all entries.
func (l *LogsModel) Reset() {
	l.lines = nil
	l.progressLine = make(map[int]int)
	l.offset = 0
}

// SetSize updates dimensions.
func (l *LogsModel) SetSize(w, h int) {
	l.width = w
	l.height = h
}

// Update handles scroll keys.
func (l *LogsModel) Update(msg tea.KeyMsg) {
	page := l.height - 2
	if page < 1 {
		page = 1
	}
	switch {
	case key.Matches(msg, l.keymap.Up):
		l.scrollBy(1)
	case key.Matches(msg, l.keymap.Down):
		l.scrollBy(-1)
	case key.Matches(msg, l.keymap.PageUp):
		l.scrollBy(page)
	case key.Matches(msg, l.keymap.PageDown):
		l.scrollBy(-page)
	}
}

// scrollBy moves the view delta lines back from the tail, clamped to
// the available history. Offset zero follows new entries.
func (l *LogsModel) scrollBy(delta int) {
	l.offset += delta
	if limit := len(l.lines) - 1; l.offset > limit {
		l.offset = limit
	}
	if l.offset < 0 {
		l.offset = 0
	}
}

// View renders the pane at its configured height.
func (l LogsModel) View() string {
	return l.renderToHeight(l.height)
}

// renderToHeight renders the pane to exactly the given outer height,
// so the left column lines up with the right column's panels.
func (l LogsModel) renderToHeight(height int) string {
	innerHeight := height - 2
	if innerHeight < 1 {
		innerHeight = 1
	}
	innerWidth := l.width - 4
	if innerWidth < 10 {
		innerWidth = 10
	}

	end := len(l.lines) - l.offset
	if end < 0 {
		end = 0
	}
	start := end - innerHeight
	if start < 0 {
		start = 0
	}

	clip := lipgloss.NewStyle().MaxWidth(innerWidth)

	var b strings.Builder
	for i := start; i < end; i++ {
		if i > start {
			b.WriteString("\n")
		}
		stamp := logTimeStyle.Render(l.lines[i].at.Format("15:04:05"))
		b.WriteString(clip.Render(" " + stamp + " " + l.lines[i].text))
	}

	return panelStyle.Width(l.width - 2).Height(innerHeight).Render(b.String())
}
