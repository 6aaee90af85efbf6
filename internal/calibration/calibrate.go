// Package calibration measures how precisely this host can time a
// sub-microsecond computation and recommends a --repeat count that
// makes best-of-R timings stable. Results are cached as a JSON profile
// fingerprinted to the hardware.
package calibration

import (
	"context"
	"fmt"
	"io"
	"math"
	"math/big"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/avezina/sumbench/internal/config"
	"github.com/avezina/sumbench/internal/format"
	"github.com/avezina/sumbench/internal/gauss"
	"github.com/avezina/sumbench/internal/orchestration"
	"github.com/avezina/sumbench/internal/ui"
)

// tracer instruments calibration runs. No-op unless an embedding build
// installs an SDK.
var tracer = otel.Tracer("github.com/avezina/sumbench/internal/calibration")

const (
	timerOverheadSamples = 4096
	minMeasurableSamples = 64
	probeTrials          = 8
	spreadTarget         = 0.20

	// DefaultCalibrationN is the closed-form probe input. The strategy
	// is O(1), so the value only pins down operand width.
	DefaultCalibrationN uint64 = 10_000_000_000
)

// calibrationResult is one row of the probe table: how stable best-of-R
// timings were across trials for a candidate repeat count.
type calibrationResult struct {
	Repeat int
	Best   time.Duration
	Spread float64 // (worst-best)/best across trials, 0.1 = ±10%
	Err    error
}

// measureTimerOverhead returns the average cost of one monotonic clock
// read, the fixed tax every timed region pays twice.
func measureTimerOverhead(samples int) time.Duration {
	if samples < 1 {
		samples = 1
	}
	start := time.Now()
	for i := 0; i < samples; i++ {
		_ = time.Now()
	}
	return time.Since(start) / time.Duration(samples)
}

// measureMinMeasurable returns the smallest nonzero duration the clock
// can report, found by spinning until it ticks.
func measureMinMeasurable(samples int) time.Duration {
	if samples < 1 {
		samples = 1
	}
	minTick := time.Duration(math.MaxInt64)
	for i := 0; i < samples; i++ {
		start := time.Now()
		var elapsed time.Duration
		for elapsed == 0 {
			elapsed = time.Since(start)
		}
		if elapsed < minTick {
			minTick = elapsed
		}
	}
	return minTick
}

// probeRepeatStability times best-of-repeat runs of calc over several
// trials and reports the spread between the fastest and slowest trial.
func probeRepeatStability(ctx context.Context, calc gauss.Calculator, n uint64, repeat, trials int) calibrationResult {
	res := calibrationResult{Repeat: repeat}
	var best, worst time.Duration
	for trial := 0; trial < trials; trial++ {
		if err := ctx.Err(); err != nil {
			res.Err = err
			return res
		}
		elapsed, _, err := orchestration.MeasureBest(repeat, func() (*big.Int, error) {
			return calc.Calculate(ctx, nil, 0, n, gauss.Options{})
		})
		if err != nil {
			res.Err = err
			return res
		}
		if trial == 0 || elapsed < best {
			best = elapsed
		}
		if elapsed > worst {
			worst = elapsed
		}
	}
	res.Best = best
	if best > 0 {
		res.Spread = float64(worst-best) / float64(best)
	} else {
		res.Spread = math.Inf(1)
	}
	return res
}

// chooseRepeat picks the smallest candidate whose spread met the
// target, falling back to the steadiest candidate observed.
func chooseRepeat(results []calibrationResult, target float64) int {
	chosen := 0
	bestSpread := math.Inf(1)
	for _, res := range results {
		if res.Err != nil {
			continue
		}
		if res.Spread <= target {
			return res.Repeat
		}
		if res.Spread < bestSpread {
			bestSpread = res.Spread
			chosen = res.Repeat
		}
	}
	if chosen == 0 {
		return 1
	}
	return chosen
}

// RunCalibration probes the timer and repeat stability, prints the
// summary table, and caches the resulting profile. The returned
// profile is the one that was saved.
func RunCalibration(ctx context.Context, factory gauss.CalculatorFactory, cfg config.AppConfig, out io.Writer) (*CalibrationProfile, error) {
	started := time.Now()

	ctx, span := tracer.Start(ctx, "calibration.run")
	defer span.End()

	fmt.Fprintf(out, "\n--- Starting Calibration ---\n")

	overhead := measureTimerOverhead(timerOverheadSamples)
	minMeasurable := measureMinMeasurable(minMeasurableSamples)
	fmt.Fprintf(out, "Timer: overhead %s%s%s per sample, minimum measurable %s%s%s.\n",
		ui.ColorCyan(), probeDurationLabel(overhead), ui.ColorReset(),
		ui.ColorCyan(), probeDurationLabel(minMeasurable), ui.ColorReset())

	calc, err := factory.Get(gauss.KeyFormula)
	if err != nil {
		return nil, err
	}

	n := cfg.N
	if n == 0 {
		n = DefaultCalibrationN
	}
	fmt.Fprintf(out, "Probing repeat stability with %s%s%s at n = %s%s%s...\n",
		ui.ColorGreen(), calc.Name(), ui.ColorReset(),
		ui.ColorMagenta(), format.FormatNumberString(strconv.FormatUint(n, 10)), ui.ColorReset())

	candidates := GenerateRepeatCandidates(minMeasurable)
	results := make([]calibrationResult, 0, len(candidates))
	for _, repeat := range candidates {
		results = append(results, probeRepeatStability(ctx, calc, n, repeat, probeTrials))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	recommended := chooseRepeat(results, spreadTarget)
	span.SetAttributes(
		attribute.String("n", strconv.FormatUint(n, 10)),
		attribute.Int("recommended_repeat", recommended),
	)
	printCalibrationResults(out, results, recommended)

	profile := NewProfile()
	profile.TimerOverheadNs = float64(overhead.Nanoseconds())
	profile.MinMeasurableNs = float64(minMeasurable.Nanoseconds())
	profile.RecommendedRepeat = recommended
	profile.CalibrationN = n
	profile.CalibrationTime = time.Since(started).Round(time.Millisecond).String()

	path := ProfilePath(cfg.CalibrationProfile)
	if err := profile.SaveProfile(path); err != nil {
		return nil, err
	}

	fmt.Fprintf(out, "Recommended repeat: %s%d%s\n", ui.ColorGreen(), recommended, ui.ColorReset())
	fmt.Fprintf(out, "%s✓ Profile saved to: %s%s%s\n",
		ui.ColorGreen(), ui.ColorCyan(), path, ui.ColorReset())
	return profile, nil
}

// ProfilePath resolves the cache location from the flag value.
func ProfilePath(override string) string {
	if override != "" {
		return override
	}
	return GetDefaultProfilePath()
}

// LoadCachedCalibration returns the cached profile when it is valid
// for this host and not stale, nil otherwise.
func LoadCachedCalibration(override string) *CalibrationProfile {
	p, err := loadProfile(ProfilePath(override))
	if err != nil || !p.IsValid() || p.IsStale(ProfileMaxAge) {
		return nil
	}
	return p
}

// Annotation returns a hint line for run output when the cached
// profile recommends more repeats than the run is using, or "" when
// there is nothing to say. The cache never changes measurement
// behavior on its own.
func Annotation(cfg config.AppConfig) string {
	if cfg.Recalibrate {
		return ""
	}
	p := LoadCachedCalibration(cfg.CalibrationProfile)
	if p == nil || cfg.Repeat >= p.RecommendedRepeat {
		return ""
	}
	return fmt.Sprintf("Calibration hint: this host prefers --repeat %d for stable sub-microsecond timings.",
		p.RecommendedRepeat)
}
