package app

import (
	"bytes"
	"context"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/avezina/sumbench/internal/calibration"
	"github.com/avezina/sumbench/internal/config"
	apperrors "github.com/avezina/sumbench/internal/errors"
	"github.com/avezina/sumbench/internal/gauss"
	"github.com/avezina/sumbench/internal/progress"
)

// runApp constructs an Application from args and runs it, capturing
// stdout and stderr.
func runApp(t *testing.T, opts []AppOption, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	application, err := New(append([]string{"sumbench"}, args...), &errOut, opts...)
	if err != nil {
		t.Fatalf("New(%v) failed: %v\nstderr: %s", args, err, errOut.String())
	}
	code := application.Run(context.Background(), &out)
	return code, out.String(), errOut.String()
}

func TestHasVersionFlag(t *testing.T) {
	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"--version"}, true},
		{[]string{"-version"}, true},
		{[]string{"-V"}, true},
		{[]string{"-n", "10", "--version"}, true},
		{[]string{"-n", "10"}, false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := HasVersionFlag(tt.args); got != tt.want {
			t.Errorf("HasVersionFlag(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}

func TestPrintVersion(t *testing.T) {
	var buf bytes.Buffer
	PrintVersion(&buf)
	got := buf.String()
	if !strings.Contains(got, "sumbench") || !strings.Contains(got, Version) {
		t.Errorf("version banner missing name or version: %q", got)
	}
}

func TestNew_ParsesArgs(t *testing.T) {
	application, err := New([]string{"sumbench", "-n", "42", "--quiet"}, io.Discard)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if application.Config.N != 42 {
		t.Errorf("N = %d, want 42", application.Config.N)
	}
	if !application.Config.Quiet {
		t.Error("Quiet not set")
	}
	if application.Factory == nil {
		t.Error("Factory not defaulted")
	}
}

func TestNew_EmptyArgs(t *testing.T) {
	application, err := New(nil, io.Discard)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if application.Config.N != 0 {
		t.Errorf("N = %d, want 0 (sweep mode)", application.Config.N)
	}
}

func TestNew_UnknownStrategy(t *testing.T) {
	_, err := New([]string{"sumbench", "--algo", "bogus"}, io.Discard)
	if err == nil {
		t.Fatal("expected an error for an unknown strategy")
	}
	if IsHelpError(err) {
		t.Error("config error misreported as help")
	}
}

func TestNew_HelpFlag(t *testing.T) {
	_, err := New([]string{"sumbench", "--help"}, io.Discard)
	if err == nil {
		t.Fatal("expected flag.ErrHelp")
	}
	if !IsHelpError(err) {
		t.Errorf("IsHelpError(%v) = false, want true", err)
	}
}

func TestRun_VersionFlag(t *testing.T) {
	code, out, _ := runApp(t, nil, "--version")
	if code != apperrors.ExitSuccess {
		t.Errorf("exit code = %d, want 0", code)
	}
	if !strings.Contains(out, "sumbench") {
		t.Errorf("version output missing name: %q", out)
	}
}

func TestRun_Completion(t *testing.T) {
	code, out, _ := runApp(t, nil, "--completion", "bash")
	if code != apperrors.ExitSuccess {
		t.Errorf("exit code = %d, want 0", code)
	}
	if !strings.Contains(out, "complete -F _sumbench_completions sumbench") {
		t.Errorf("bash completion script missing registration:\n%s", out)
	}
}

func TestRun_DuelShowsValue(t *testing.T) {
	code, out, _ := runApp(t, nil, "-n", "10", "-c", "--no-color")
	if code != apperrors.ExitSuccess {
		t.Errorf("exit code = %d, want 0", code)
	}
	if !strings.Contains(out, "T(10) = 55") {
		t.Errorf("duel output missing value:\n%s", out)
	}
	if !strings.Contains(out, "Global Status: Success") {
		t.Errorf("duel output missing status line:\n%s", out)
	}
}

func TestRun_DuelQuiet(t *testing.T) {
	code, out, _ := runApp(t, nil, "-n", "10", "--quiet", "-c")
	if code != apperrors.ExitSuccess {
		t.Errorf("exit code = %d, want 0", code)
	}
	if got := strings.TrimSpace(out); got != "55" {
		t.Errorf("quiet duel output = %q, want \"55\"", got)
	}
}

func TestRun_LastDigitsQuiet(t *testing.T) {
	code, out, _ := runApp(t, nil, "-n", "100", "--last-digits", "2", "--quiet")
	if code != apperrors.ExitSuccess {
		t.Errorf("exit code = %d, want 0", code)
	}
	// T(100) = 5050, so the trailing two digits print zero-padded.
	if got := strings.TrimSpace(out); got != "50" {
		t.Errorf("quiet last-digits output = %q, want \"50\"", got)
	}
}

func TestRun_SweepQuiet(t *testing.T) {
	code, out, _ := runApp(t, nil, "--list", "10,100", "--quiet")
	if code != apperrors.ExitSuccess {
		t.Errorf("exit code = %d, want 0", code)
	}
	for _, want := range []string{"n = 10", "n = 100", "Consistency: consistent"} {
		if !strings.Contains(out, want) {
			t.Errorf("quiet sweep output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Sweep complete") {
		t.Errorf("quiet sweep should not print the closing banner:\n%s", out)
	}
}

func TestRun_SweepSummaryBanner(t *testing.T) {
	code, out, _ := runApp(t, nil, "--list", "10,100,1000", "--no-color")
	if code != apperrors.ExitSuccess {
		t.Errorf("exit code = %d, want 0", code)
	}
	if !strings.Contains(out, "Sweep complete: 3 inputs, all consistent.") {
		t.Errorf("sweep banner missing:\n%s", out)
	}
}

func TestRun_DuelTimeout(t *testing.T) {
	code, _, _ := runApp(t, nil,
		"-n", "10000000000", "--algo", "iter", "--timeout", "50ms", "--quiet")
	if code != apperrors.ExitErrorTimeout {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorTimeout)
	}
}

func TestRun_DuelOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.txt")
	code, _, _ := runApp(t, nil, "-n", "10", "-c", "--output", path, "--no-color")
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d, want 0", code)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("result file missing: %v", err)
	}
	text := string(data)
	for _, want := range []string{"Triangular Sum Benchmark Result", "T(10) =", "55"} {
		if !strings.Contains(text, want) {
			t.Errorf("result file missing %q:\n%s", want, text)
		}
	}
}

func TestRun_SweepReportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	code, out, _ := runApp(t, nil, "--list", "10,100", "--output", path, "--no-color")
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if !strings.Contains(out, "Report saved to") {
		t.Errorf("confirmation line missing:\n%s", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("report file missing: %v", err)
	}
	text := string(data)
	for _, want := range []string{"Triangular Sum Benchmark Report", "n = 10", "n = 100"} {
		if !strings.Contains(text, want) {
			t.Errorf("report missing %q:\n%s", want, text)
		}
	}
}

func TestRun_HistoryRoundTrip(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.db")

	code, _, errOut := runApp(t, nil, "--list", "10", "--quiet", "--history", db)
	if code != apperrors.ExitSuccess {
		t.Fatalf("recording sweep failed: code %d, stderr %s", code, errOut)
	}
	if _, err := os.Stat(db); err != nil {
		t.Fatalf("history database not created: %v", err)
	}

	code, out, _ := runApp(t, nil, "--list", "10", "--history", db, "--history-top", "5")
	if code != apperrors.ExitSuccess {
		t.Fatalf("history-top failed: code %d", code)
	}
	if !strings.Contains(out, "Fastest Recorded Runs") {
		t.Errorf("history-top output missing header:\n%s", out)
	}
	if !strings.Contains(out, "10") {
		t.Errorf("history-top output missing recorded input:\n%s", out)
	}
}

func TestRun_CalibrationUsesFreshCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	profile := calibration.NewProfile()
	profile.TimerOverheadNs = 25
	profile.MinMeasurableNs = 120
	profile.RecommendedRepeat = 3
	if err := profile.SaveProfile(path); err != nil {
		t.Fatalf("seeding profile failed: %v", err)
	}

	code, out, _ := runApp(t, nil, "--calibrate", "--calibration-profile", path, "--no-color")
	if code != apperrors.ExitSuccess {
		t.Errorf("exit code = %d, want 0", code)
	}
	if !strings.Contains(out, "Profile is current") {
		t.Errorf("cached calibration not short-circuited:\n%s", out)
	}
	if strings.Contains(out, "Starting Calibration") {
		t.Errorf("calibration measured despite a fresh cache:\n%s", out)
	}
}

func TestRun_BoostedSweepStillSucceeds(t *testing.T) {
	code, _, _ := runApp(t, nil, "--list", "10", "--quiet", "--boost")
	if code != apperrors.ExitSuccess {
		t.Errorf("exit code = %d, want 0", code)
	}
}

func TestRun_MetricsAddrSweep(t *testing.T) {
	code, _, errOut := runApp(t, nil, "--list", "10", "--quiet", "--metrics-addr", "127.0.0.1:0")
	if code != apperrors.ExitSuccess {
		t.Errorf("exit code = %d, want 0\nstderr: %s", code, errOut)
	}
}

// brokenFormula returns an off-by-one value so consistency checking has
// something to catch.
type brokenFormula struct{}

func (brokenFormula) Name() string { return "Closed formula (broken)" }

func (brokenFormula) Calculate(_ context.Context, _ chan<- progress.ProgressUpdate, _ int, n uint64, _ gauss.Options) (*big.Int, error) {
	correct := new(big.Int).Mul(new(big.Int).SetUint64(n), new(big.Int).SetUint64(n+1))
	correct.Rsh(correct, 1)
	return correct.Add(correct, big.NewInt(1)), nil
}

// mismatchFactory serves the real iterative scan alongside the broken
// closed form.
type mismatchFactory struct {
	gauss.CalculatorFactory
}

func (f mismatchFactory) Get(key string) (gauss.Calculator, error) {
	if key == gauss.KeyFormula {
		return brokenFormula{}, nil
	}
	return f.CalculatorFactory.Get(key)
}

func (f mismatchFactory) MustGet(key string) gauss.Calculator {
	c, err := f.Get(key)
	if err != nil {
		panic(err)
	}
	return c
}

func TestRun_SweepMismatchIsNonFatal(t *testing.T) {
	opts := []AppOption{WithFactory(mismatchFactory{gauss.NewDefaultFactory()})}

	code, out, _ := runApp(t, opts, "--list", "10", "--quiet")
	if code != apperrors.ExitSuccess {
		t.Errorf("exit code = %d, want 0 (mismatch is an outcome, not a failure)", code)
	}
	if !strings.Contains(out, "mismatched") {
		t.Errorf("mismatch verdict missing:\n%s", out)
	}
}

func TestRun_SweepMismatchStrict(t *testing.T) {
	opts := []AppOption{WithFactory(mismatchFactory{gauss.NewDefaultFactory()})}

	code, _, _ := runApp(t, opts, "--list", "10", "--quiet", "--strict")
	if code != apperrors.ExitErrorMismatch {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorMismatch)
	}
}

func TestTimedCalculators(t *testing.T) {
	a := &Application{Factory: gauss.NewDefaultFactory()}

	a.Config = config.AppConfig{N: 10, Algo: gauss.KeyIterative}
	if got := a.timedCalculators(); len(got) != 1 {
		t.Errorf("duel with one strategy: got %d calculators, want 1", len(got))
	}

	a.Config = config.AppConfig{N: 0}
	pair := a.timedCalculators()
	if len(pair) != 2 {
		t.Fatalf("sweep: got %d calculators, want 2", len(pair))
	}
	if pair[0].Name() == pair[1].Name() {
		t.Errorf("sweep pair is not two distinct strategies: %q", pair[0].Name())
	}
}

func TestRunLifetime(t *testing.T) {
	a := &Application{Config: config.AppConfig{Timeout: time.Minute}}
	ctx, stop := a.runLifetime(context.Background())
	if _, ok := ctx.Deadline(); !ok {
		t.Error("timeout configured but context has no deadline")
	}
	stop()

	a.Config.Timeout = 0
	ctx, stop = a.runLifetime(context.Background())
	if _, ok := ctx.Deadline(); ok {
		t.Error("no timeout configured but context has a deadline")
	}
	stop()
}

func TestMaxInput(t *testing.T) {
	if got := maxInput(nil); got != 0 {
		t.Errorf("maxInput(nil) = %d, want 0", got)
	}
	if got := maxInput([]uint64{3, 99, 7}); got != 99 {
		t.Errorf("maxInput = %d, want 99", got)
	}
}
