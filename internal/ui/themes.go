package ui

import (
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines a color scheme for console output.
// Each field contains an ANSI escape code for the corresponding color role.
type Theme struct {
	// Name is the identifier of the theme.
	Name string
	// Primary is the main accent color for headline elements.
	Primary string
	// Secondary is used for de-emphasized elements.
	Secondary string
	// Highlight marks the input value a report block is about.
	Highlight string
	// Success indicates positive outcomes, such as a consistent comparison.
	Success string
	// Warning is used for caution messages or non-critical issues.
	Warning string
	// Error indicates failures or a result mismatch.
	Error string
	// Info is used for informational messages.
	Info string
	// Bold is the escape code for bold text.
	Bold string
	// Underline is the escape code for underlined text.
	Underline string
	// Reset clears all formatting.
	Reset string
}

var (
	// DarkTheme is optimized for dark terminal backgrounds.
	// Uses bright, vibrant colors for good contrast.
	DarkTheme = Theme{
		Name:      "dark",
		Primary:   "\033[38;5;45m",  // Turquoise
		Secondary: "\033[38;5;245m", // Grey
		Highlight: "\033[38;5;213m", // Orchid
		Success:   "\033[38;5;82m",  // Bright green
		Warning:   "\033[38;5;220m", // Yellow
		Error:     "\033[38;5;196m", // Red
		Info:      "\033[38;5;75m",  // Steel blue
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
	}

	// LightTheme is optimized for light terminal backgrounds.
	// Uses darker colors for better readability.
	LightTheme = Theme{
		Name:      "light",
		Primary:   "\033[38;5;31m",  // Deep cyan
		Secondary: "\033[38;5;240m", // Dark grey
		Highlight: "\033[38;5;127m", // Dark magenta
		Success:   "\033[38;5;28m",  // Dark green
		Warning:   "\033[38;5;130m", // Orange
		Error:     "\033[38;5;124m", // Dark red
		Info:      "\033[38;5;25m",  // Deep blue
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
	}

	// SolarTheme uses Solarized accent colors on a warm base.
	// Works on both dark and light Solarized backgrounds.
	SolarTheme = Theme{
		Name:      "solar",
		Primary:   "\033[38;5;136m", // Solarized yellow
		Secondary: "\033[38;5;244m", // Solarized base grey
		Highlight: "\033[38;5;125m", // Solarized magenta
		Success:   "\033[38;5;64m",  // Solarized green
		Warning:   "\033[38;5;166m", // Solarized orange
		Error:     "\033[38;5;160m", // Solarized red
		Info:      "\033[38;5;33m",  // Solarized blue
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
	}

	// NoColorTheme disables all color output.
	// Used when NO_COLOR is set or --no-color flag is provided.
	NoColorTheme = Theme{
		Name:      "none",
		Primary:   "",
		Secondary: "",
		Highlight: "",
		Success:   "",
		Warning:   "",
		Error:     "",
		Info:      "",
		Bold:      "",
		Underline: "",
		Reset:     "",
	}

	// currentTheme is the active theme used throughout the application.
	// Defaults to DarkTheme but can be changed via SetTheme or InitTheme.
	currentTheme = DarkTheme
	themeMutex   sync.RWMutex
)

// TUITheme defines lipgloss-compatible colors for the TUI dashboard.
// Each field is a lipgloss.TerminalColor suitable for use with
// lipgloss.Style.Foreground() and Background().
type TUITheme struct {
	Bg      lipgloss.TerminalColor
	Text    lipgloss.TerminalColor
	Border  lipgloss.TerminalColor
	Accent  lipgloss.TerminalColor
	Success lipgloss.TerminalColor
	Warning lipgloss.TerminalColor
	Error   lipgloss.TerminalColor
	Dim     lipgloss.TerminalColor
	Info    lipgloss.TerminalColor
}

var (
	// DarkTUITheme is the cyan-dominant dashboard palette.
	DarkTUITheme = TUITheme{
		Bg:      lipgloss.Color("#000000"),
		Text:    lipgloss.Color("#E0E0E0"),
		Border:  lipgloss.Color("#00B5CC"),
		Accent:  lipgloss.Color("#33D5EE"),
		Success: lipgloss.Color("#9ECE6A"),
		Warning: lipgloss.Color("#E0AF68"),
		Error:   lipgloss.Color("#F7768E"),
		Dim:     lipgloss.Color("#666666"),
		Info:    lipgloss.Color("#7AA2F7"),
	}

	// NoColorTUITheme disables all TUI colors.
	// lipgloss.NoColor{} renders text with the terminal's default colors.
	NoColorTUITheme = TUITheme{
		Bg:      lipgloss.NoColor{},
		Text:    lipgloss.NoColor{},
		Border:  lipgloss.NoColor{},
		Accent:  lipgloss.NoColor{},
		Success: lipgloss.NoColor{},
		Warning: lipgloss.NoColor{},
		Error:   lipgloss.NoColor{},
		Dim:     lipgloss.NoColor{},
		Info:    lipgloss.NoColor{},
	}
)

// GetCurrentTUITheme returns the TUI theme matching the currently active theme.
// When NoColorTheme is active, returns NoColorTUITheme; otherwise DarkTUITheme.
func GetCurrentTUITheme() TUITheme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()

	if currentTheme.Name == "none" {
		return NoColorTUITheme
	}
	return DarkTUITheme
}

// GetCurrentTheme returns the currently active theme in a thread-safe manner.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// SetCurrentTheme sets the currently active theme in a thread-safe manner.
// This is primarily used for testing purposes to restore state.
func SetCurrentTheme(t Theme) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	currentTheme = t
}

// SetTheme changes the active theme by name.
// Valid names are: "dark", "light", "solar", "none".
// Unknown names default to dark theme.
//
// Parameters:
//   - name: The name of the theme to activate.
func SetTheme(name string) {
	themeMutex.Lock()
	defer themeMutex.Unlock()

	switch name {
	case "dark":
		currentTheme = DarkTheme
	case "light":
		currentTheme = LightTheme
	case "solar":
		currentTheme = SolarTheme
	case "none":
		currentTheme = NoColorTheme
	default:
		currentTheme = DarkTheme
	}
}

// CycleTheme advances the active theme through the fixed rotation
// dark, light, solar, none and returns the new theme's name. The TUI
// binds this to a key so the palette can be switched at runtime.
func CycleTheme() string {
	themeMutex.Lock()
	defer themeMutex.Unlock()

	switch currentTheme.Name {
	case "dark":
		currentTheme = LightTheme
	case "light":
		currentTheme = SolarTheme
	case "solar":
		currentTheme = NoColorTheme
	default:
		currentTheme = DarkTheme
	}
	return currentTheme.Name
}

// InitTheme initializes the theme from the requested name, the noColor flag
// and the environment. It respects the NO_COLOR environment variable
// (https://no-color.org/) for accessibility: if noColor is true or NO_COLOR
// is set, colors are disabled regardless of the requested theme.
//
// Parameters:
//   - name: The requested theme name (see SetTheme).
//   - noColor: If true, disables all color output regardless of environment.
func InitTheme(name string, noColor bool) {
	// Check --no-color flag first
	if noColor {
		SetCurrentTheme(NoColorTheme)
		return
	}

	// Check NO_COLOR environment variable
	// Any non-empty value disables colors (per no-color.org spec)
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		SetCurrentTheme(NoColorTheme)
		return
	}

	SetTheme(name)
}
