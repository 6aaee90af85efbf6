package cli

import (
	"bytes"
	"strings"
	"testing"
)

var completionStrategies = []string{"formula", "gmp", "iter"}

func TestGenerateCompletion_SupportedShells(t *testing.T) {
	t.Parallel()

	shells := []string{"bash", "zsh", "fish", "powershell", "ps"}
	for _, shell := range shells {
		shell := shell
		t.Run(shell, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			if err := GenerateCompletion(&buf, shell, completionStrategies); err != nil {
				t.Fatalf("GenerateCompletion(%s): %v", shell, err)
			}
			if buf.Len() == 0 {
				t.Fatalf("GenerateCompletion(%s) produced no output", shell)
			}
			if !strings.Contains(buf.String(), "sumbench") {
				t.Errorf("script should reference the binary name, got:\n%s", buf.String())
			}
		})
	}
}

func TestGenerateCompletion_UnsupportedShell(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	err := GenerateCompletion(&buf, "tcsh", completionStrategies)
	if err == nil {
		t.Fatal("expected an error for an unsupported shell")
	}
	if !strings.Contains(err.Error(), "unsupported shell: tcsh") {
		t.Errorf("error should name the shell, got: %v", err)
	}
}

func TestGenerateBashCompletion(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := GenerateCompletion(&buf, "bash", completionStrategies); err != nil {
		t.Fatal(err)
	}
	script := buf.String()

	for _, want := range []string{
		"_sumbench_completions",
		"complete -F _sumbench_completions sumbench",
		`strategies="formula gmp iter all"`,
		"--algo",
		"--gc-mode",
		"--theme)",
		"--repeat|--history-top)",
	} {
		if !strings.Contains(script, want) {
			t.Errorf("bash script should contain %q", want)
		}
	}
}

func TestGenerateZshCompletion(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := GenerateCompletion(&buf, "zsh", completionStrategies); err != nil {
		t.Fatal(err)
	}
	script := buf.String()

	for _, want := range []string{
		"#compdef sumbench",
		"strategies=(formula gmp iter all)",
		"'--theme[Console color theme]:theme:(dark light solar none)'",
		"{-q,--quiet}",
	} {
		if !strings.Contains(script, want) {
			t.Errorf("zsh script should contain %q", want)
		}
	}
}

func TestGenerateFishCompletion(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := GenerateCompletion(&buf, "fish", completionStrategies); err != nil {
		t.Fatal(err)
	}
	script := buf.String()

	for _, want := range []string{
		"complete -c sumbench -f",
		"-l algo",
		"-xa 'formula gmp iter all'",
		"-l calibration-profile",
		"-rF",
	} {
		if !strings.Contains(script, want) {
			t.Errorf("fish script should contain %q", want)
		}
	}
}

func TestGeneratePowerShellCompletion(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := GenerateCompletion(&buf, "powershell", completionStrategies); err != nil {
		t.Fatal(err)
	}
	script := buf.String()

	for _, want := range []string{
		"Register-ArgumentCompleter -CommandName 'sumbench'",
		"$sumbenchStrategies = @('formula', 'gmp', 'iter', 'all')",
		"'--completion'",
	} {
		if !strings.Contains(script, want) {
			t.Errorf("powershell script should contain %q", want)
		}
	}
}
