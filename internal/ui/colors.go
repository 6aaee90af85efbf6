package ui

// Color accessor functions resolve against the active theme on every call,
// so output written after SetTheme or InitTheme picks up the new scheme.
// All of them return the empty string under the "none" theme.

// ColorReset returns the escape code that clears all formatting.
func ColorReset() string { return GetCurrentTheme().Reset }

// ColorBold returns the escape code for bold text.
func ColorBold() string { return GetCurrentTheme().Bold }

// ColorUnderline returns the escape code for underlined text.
func ColorUnderline() string { return GetCurrentTheme().Underline }

// ColorGreen returns the success color of the active theme.
func ColorGreen() string { return GetCurrentTheme().Success }

// ColorRed returns the error color of the active theme.
func ColorRed() string { return GetCurrentTheme().Error }

// ColorYellow returns the warning color of the active theme.
func ColorYellow() string { return GetCurrentTheme().Warning }

// ColorCyan returns the primary accent color of the active theme.
func ColorCyan() string { return GetCurrentTheme().Primary }

// ColorBlue returns the informational color of the active theme.
func ColorBlue() string { return GetCurrentTheme().Info }

// ColorMagenta returns the highlight color of the active theme, used for
// the input value a report block is about.
func ColorMagenta() string { return GetCurrentTheme().Highlight }

// ColorGrey returns the secondary color of the active theme.
func ColorGrey() string { return GetCurrentTheme().Secondary }
