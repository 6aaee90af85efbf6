package ui

import "testing"

// Tests in this file mutate the package-level theme, so none of them run in
// parallel. Each restores the previous theme on cleanup.

func saveTheme(t *testing.T) {
	t.Helper()
	prev := GetCurrentTheme()
	t.Cleanup(func() { SetCurrentTheme(prev) })
}

func TestSetTheme(t *testing.T) {
	saveTheme(t)

	cases := []struct {
		name string
		want string
	}{
		{"dark", "dark"},
		{"light", "light"},
		{"solar", "solar"},
		{"none", "none"},
		{"mystery", "dark"},
	}

	for _, tc := range cases {
		SetTheme(tc.name)
		if got := GetCurrentTheme().Name; got != tc.want {
			t.Errorf("SetTheme(%q): active theme = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestInitTheme_NoColorFlagWins(t *testing.T) {
	saveTheme(t)

	InitTheme("solar", true)
	if got := GetCurrentTheme().Name; got != "none" {
		t.Errorf("active theme = %q, want none when the flag disables color", got)
	}
}

func TestInitTheme_NoColorEnv(t *testing.T) {
	saveTheme(t)
	t.Setenv("NO_COLOR", "1")

	InitTheme("dark", false)
	if got := GetCurrentTheme().Name; got != "none" {
		t.Errorf("active theme = %q, want none when NO_COLOR is set", got)
	}
}

func TestColorAccessors_FollowActiveTheme(t *testing.T) {
	saveTheme(t)

	SetTheme("dark")
	if ColorGreen() != DarkTheme.Success {
		t.Errorf("ColorGreen() = %q, want dark success color", ColorGreen())
	}
	if ColorCyan() != DarkTheme.Primary {
		t.Errorf("ColorCyan() = %q, want dark primary color", ColorCyan())
	}

	SetTheme("none")
	accessors := map[string]func() string{
		"ColorReset":     ColorReset,
		"ColorBold":      ColorBold,
		"ColorUnderline": ColorUnderline,
		"ColorGreen":     ColorGreen,
		"ColorRed":       ColorRed,
		"ColorYellow":    ColorYellow,
		"ColorCyan":      ColorCyan,
		"ColorBlue":      ColorBlue,
		"ColorMagenta":   ColorMagenta,
		"ColorGrey":      ColorGrey,
	}
	for name, fn := range accessors {
		if got := fn(); got != "" {
			t.Errorf("%s() = %q under none theme, want empty", name, got)
		}
	}
}

func TestGetCurrentTUITheme(t *testing.T) {
	saveTheme(t)

	SetTheme("dark")
	if got := GetCurrentTUITheme(); got != DarkTUITheme {
		t.Error("dark theme should map to the dark TUI palette")
	}
	SetTheme("none")
	if got := GetCurrentTUITheme(); got != NoColorTUITheme {
		t.Error("none theme should disable the TUI palette")
	}
}

func TestCycleTheme_Rotation(t *testing.T) {
	saveTheme(t)

	SetTheme("dark")
	for _, want := range []string{"light", "solar", "none", "dark"} {
		if got := CycleTheme(); got != want {
			t.Fatalf("CycleTheme() = %q, want %q", got, want)
		}
	}
}
