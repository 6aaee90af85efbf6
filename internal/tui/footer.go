package tui

import "strings"

// FooterModel renders the bottom bar: run status and key hints.
type FooterModel struct {
	width   int
	paused  bool
	done    bool
	isError bool
}

// NewFooterModel creates a new footer.
func NewFooterModel() FooterModel {
	return FooterModel{}
}

// SetWidth updates the available width.
func (f *FooterModel) SetWidth(w int) {
	f.width = w
}

// SetPaused toggles the paused badge.
func (f *FooterModel) SetPaused(p bool) {
	f.paused = p
}

// SetDone toggles the done badge.
func (f *FooterModel) SetDone(d bool) {
	f.done = d
}

// SetError marks the run as failed.
func (f *FooterModel) SetError(e bool) {
	f.isError = e
}

// View renders the footer.
func (f FooterModel) View() string {
	var status string
	switch {
	case f.isError:
		status = statusErrorStyle.Render(" ERROR ")
	case f.done:
		status = statusDoneStyle.Render(" DONE ")
	case f.paused:
		status = statusPausedStyle.Render(" PAUSED ")
	default:
		status = statusRunningStyle.Render(" RUNNING ")
	}

	hints := []string{
		footerKeyStyle.Render("q") + footerDescStyle.Render(" quit"),
		footerKeyStyle.Render("p") + footerDescStyle.Render(" pause"),
		footerKeyStyle.Render("r") + footerDescStyle.Render(" restart"),
		footerKeyStyle.Render("t") + footerDescStyle.Render(" theme"),
		footerKeyStyle.Render("↑/↓") + footerDescStyle.Render(" scroll"),
	}

	return " " + status + "  " + strings.Join(hints, "  ")
}
