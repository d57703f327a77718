// Package calibration measures the operand size from which the transform
// multiplier beats schoolbook multiplication on the current host, and
// persists the result as a profile.
package calibration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/agbru/fibdrv/internal/sysmon"
)

// CalibrationProfile stores the result of a calibration together with the
// hardware it was measured on, so stale results can be detected.
type CalibrationProfile struct {
	// Hardware identification
	CPUModel  string `json:"cpu_model"`
	NumCPU    int    `json:"num_cpu"`
	GOARCH    string `json:"goarch"`
	GOOS      string `json:"goos"`
	GoVersion string `json:"go_version"`
	WordSize  int    `json:"word_size"`

	// OptimalNTTMinBytes is the measured cutover.
	OptimalNTTMinBytes int `json:"optimal_ntt_min_bytes"`

	CalibratedAt    time.Time `json:"calibrated_at"`
	CalibrationN    uint64    `json:"calibration_n"`
	CalibrationTime string    `json:"calibration_time"`

	ProfileVersion int `json:"profile_version"`
}

const (
	// CurrentProfileVersion is bumped on incompatible format changes.
	CurrentProfileVersion = 1

	// DefaultProfileFileName is the profile file name in the home directory.
	DefaultProfileFileName = ".fibdrv_calibration.json"
)

const wordSize = 32 << (^uint(0) >> 63)

// GetDefaultProfilePath returns the profile path in the user's home
// directory, or the bare file name when the home directory is unknown.
func GetDefaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultProfileFileName
	}
	return filepath.Join(home, DefaultProfileFileName)
}

// NewProfile creates a profile describing the current host.
func NewProfile() *CalibrationProfile {
	host := sysmon.Host()
	model := host.CPUModel
	if model == "" {
		model = fmt.Sprintf("%s-%d-cores", runtime.GOARCH, runtime.NumCPU())
	}
	return &CalibrationProfile{
		CPUModel:       model,
		NumCPU:         runtime.NumCPU(),
		GOARCH:         runtime.GOARCH,
		GOOS:           runtime.GOOS,
		GoVersion:      runtime.Version(),
		WordSize:       wordSize,
		CalibratedAt:   time.Now(),
		ProfileVersion: CurrentProfileVersion,
	}
}

func resolvePath(path string) string {
	if path == "" {
		return GetDefaultProfilePath()
	}
	return path
}

func loadProfile(path string) (*CalibrationProfile, error) {
	data, err := os.ReadFile(resolvePath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	var profile CalibrationProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	return &profile, nil
}

// SaveProfile writes the profile as indented JSON. An empty path selects
// GetDefaultProfilePath.
func (p *CalibrationProfile) SaveProfile(path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	if err := os.WriteFile(resolvePath(path), data, 0o600); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	return nil
}

// IsValid reports whether the profile was produced by this profile version
// on a host with the same core count, architecture and word size.
func (p *CalibrationProfile) IsValid() bool {
	if p == nil {
		return false
	}
	return p.ProfileVersion == CurrentProfileVersion &&
		p.NumCPU == runtime.NumCPU() &&
		p.GOARCH == runtime.GOARCH &&
		p.WordSize == wordSize &&
		p.OptimalNTTMinBytes >= 0
}

// IsStale reports whether the profile is older than maxAge.
func (p *CalibrationProfile) IsStale(maxAge time.Duration) bool {
	if p == nil {
		return true
	}
	return time.Since(p.CalibratedAt) > maxAge
}

func (p *CalibrationProfile) String() string {
	if p == nil {
		return "<nil profile>"
	}
	return fmt.Sprintf("CalibrationProfile{CPU: %s, NTT: %d bytes, N: %d, Calibrated: %s}",
		p.CPUModel, p.OptimalNTTMinBytes, p.CalibrationN, p.CalibratedAt.Format(time.RFC3339))
}

// LoadOrCreateProfile loads the profile at path. When it is missing,
// unreadable or was measured on different hardware, a fresh profile is
// returned with loaded set to false.
func LoadOrCreateProfile(path string) (profile *CalibrationProfile, loaded bool) {
	p, err := loadProfile(path)
	if err != nil || !p.IsValid() {
		return NewProfile(), false
	}
	return p, true
}
