package cli

import "github.com/avezina/sumbench/internal/ui"

// CLIColorProvider adapts the active UI theme to the error handler's
// ColorProvider interface.
type CLIColorProvider struct{}

func (CLIColorProvider) Red() string    { return ui.ColorRed() }
func (CLIColorProvider) Yellow() string { return ui.ColorYellow() }
func (CLIColorProvider) Reset() string  { return ui.ColorReset() }
