package calibration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	apperrors "github.com/avezina/sumbench/internal/errors"
)

const (
	// CurrentProfileVersion invalidates cached profiles whenever the
	// calibration method or the profile layout changes.
	CurrentProfileVersion = 1

	// DefaultProfileFileName is the cache file placed in the home
	// directory unless --calibration-profile overrides it.
	DefaultProfileFileName = ".sumbench_calibration.json"

	// ProfileMaxAge is how long a cached profile is trusted before a
	// fresh --calibrate run is suggested.
	ProfileMaxAge = 30 * 24 * time.Hour
)

// CalibrationProfile captures what calibration learned about this
// host's timer, fingerprinted so a cache copied to different hardware
// is rejected instead of trusted.
type CalibrationProfile struct {
	ProfileVersion int       `json:"profile_version"`
	CalibratedAt   time.Time `json:"calibrated_at"`

	NumCPU    int    `json:"num_cpu"`
	GOARCH    string `json:"goarch"`
	GOOS      string `json:"goos"`
	GoVersion string `json:"go_version"`
	WordSize  int    `json:"word_size"`

	TimerOverheadNs   float64 `json:"timer_overhead_ns"`
	MinMeasurableNs   float64 `json:"min_measurable_ns"`
	RecommendedRepeat int     `json:"recommended_repeat"`
	CalibrationN      uint64  `json:"calibration_n"`
	CalibrationTime   string  `json:"calibration_time"`
}

// NewProfile creates a profile fingerprinting the current host, with
// the measurement fields left for calibration to fill in.
func NewProfile() *CalibrationProfile {
	return &CalibrationProfile{
		ProfileVersion: CurrentProfileVersion,
		CalibratedAt:   time.Now(),
		NumCPU:         runtime.NumCPU(),
		GOARCH:         runtime.GOARCH,
		GOOS:           runtime.GOOS,
		GoVersion:      runtime.Version(),
		WordSize:       32 << (^uint(0) >> 63),
	}
}

// SaveProfile writes the profile as indented JSON, creating parent
// directories as needed.
func (p *CalibrationProfile) SaveProfile(path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return apperrors.WrapError(err, "marshaling calibration profile")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return apperrors.WrapError(err, "creating calibration profile directory")
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return apperrors.WrapError(err, "writing calibration profile")
	}
	return nil
}

// loadProfile reads a profile without judging validity or staleness.
func loadProfile(path string) (*CalibrationProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.WrapError(err, "reading calibration profile")
	}
	var p CalibrationProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, apperrors.WrapError(err, "parsing calibration profile")
	}
	return &p, nil
}

// LoadOrCreateProfile loads the profile at path, or returns a fresh
// fingerprint when the file is missing or unusable. The boolean
// reports whether an existing profile was loaded.
func LoadOrCreateProfile(path string) (*CalibrationProfile, bool) {
	p, err := loadProfile(path)
	if err != nil || !p.IsValid() {
		return NewProfile(), false
	}
	return p, true
}

// IsValid reports whether the profile was produced by this calibration
// version on hardware matching the current host.
func (p *CalibrationProfile) IsValid() bool {
	if p == nil {
		return false
	}
	return p.ProfileVersion == CurrentProfileVersion &&
		p.NumCPU == runtime.NumCPU() &&
		p.GOARCH == runtime.GOARCH &&
		p.GOOS == runtime.GOOS &&
		p.WordSize == 32<<(^uint(0)>>63)
}

// IsStale reports whether the profile is older than maxAge.
func (p *CalibrationProfile) IsStale(maxAge time.Duration) bool {
	if p == nil {
		return true
	}
	return time.Since(p.CalibratedAt) > maxAge
}

// String renders a one-line summary for logs and the REPL status view.
func (p *CalibrationProfile) String() string {
	if p == nil {
		return "<no calibration profile>"
	}
	return fmt.Sprintf(
		"calibration v%d: %d CPUs, %s/%s, %d-bit words, timer overhead %.0fns, min measurable %.0fns, recommended repeat %d (calibrated %s)",
		p.ProfileVersion, p.NumCPU, p.GOOS, p.GOARCH, p.WordSize,
		p.TimerOverheadNs, p.MinMeasurableNs, p.RecommendedRepeat,
		p.CalibratedAt.Format(time.RFC3339))
}

// GetDefaultProfilePath returns the cache location in the home
// directory, falling back to the working directory when the home
// directory cannot be resolved.
func GetDefaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultProfileFileName
	}
	return filepath.Join(home, DefaultProfileFileName)
}
