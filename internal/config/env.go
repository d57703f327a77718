package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		return val
	}
	return defaultVal
}

// isFlagSet reports whether name was given on the command line, as opposed
// to holding its default.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) { set = set || f.Name == name })
	return set
}

// isFlagSetAny is isFlagSet over the aliases of one option.
func isFlagSetAny(fs *flag.FlagSet, names ...string) bool {
	for _, name := range names {
		if isFlagSet(fs, name) {
			return true
		}
	}
	return false
}

// parseBoolEnv accepts true/1/yes and false/0/no in any case; anything
// else yields defaultVal.
func parseBoolEnv(val string, defaultVal bool) bool {
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultVal
}

// envOverride binds FIBDRV_<envKey> to a config field. flags are the
// command-line spellings that take precedence over it.
type envOverride struct {
	envKey string
	flags  []string
	apply  func(*AppConfig, string)
}

// Setters for the envOverrides table. Unparsable values leave the field
// unchanged.

func uintField(field func(*AppConfig) *uint64) func(*AppConfig, string) {
	return func(c *AppConfig, v string) {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			*field(c) = n
		}
	}
}

func intField(field func(*AppConfig) *int) func(*AppConfig, string) {
	return func(c *AppConfig, v string) {
		if n, err := strconv.Atoi(v); err == nil {
			*field(c) = n
		}
	}
}

func durationField(field func(*AppConfig) *time.Duration) func(*AppConfig, string) {
	return func(c *AppConfig, v string) {
		if d, err := time.ParseDuration(v); err == nil {
			*field(c) = d
		}
	}
}

func stringField(field func(*AppConfig) *string) func(*AppConfig, string) {
	return func(c *AppConfig, v string) { *field(c) = v }
}

func boolField(field func(*AppConfig) *bool) func(*AppConfig, string) {
	return func(c *AppConfig, v string) {
		p := field(c)
		*p = parseBoolEnv(v, *p)
	}
}

var envOverrides = []envOverride{
	{"N", []string{"n"}, uintField(func(c *AppConfig) *uint64 { return &c.N })},
	{"MAX_INDEX", []string{"max-index"}, uintField(func(c *AppConfig) *uint64 { return &c.MaxIndex })},
	{"NTT_MIN_BYTES", []string{"ntt-min-bytes"}, intField(func(c *AppConfig) *int { return &c.NTTMinBytes })},
	{"TIMEOUT", []string{"timeout"}, durationField(func(c *AppConfig) *time.Duration { return &c.Timeout })},
	{"REQUEST_TIMEOUT", []string{"request-timeout"}, durationField(func(c *AppConfig) *time.Duration { return &c.RequestTimeout })},

	{"ALGO", []string{"algo"}, stringField(func(c *AppConfig) *string { return &c.Algo })},
	{"OUTPUT", []string{"output", "o"}, stringField(func(c *AppConfig) *string { return &c.OutputFile })},
	{"MEMORY_LIMIT", []string{"memory-limit"}, stringField(func(c *AppConfig) *string { return &c.MemoryLimit })},
	{"GC_MODE", []string{"gc-mode"}, stringField(func(c *AppConfig) *string { return &c.GCMode })},
	{"LOG_LEVEL", []string{"log-level"}, stringField(func(c *AppConfig) *string { return &c.LogLevel })},
	{"PORT", []string{"port"}, stringField(func(c *AppConfig) *string { return &c.Port })},
	{"CALIBRATION_PROFILE", []string{"calibration-profile"}, stringField(func(c *AppConfig) *string { return &c.CalibrationProfile })},

	{"VERBOSE", []string{"v"}, boolField(func(c *AppConfig) *bool { return &c.Verbose })},
	{"DETAILS", []string{"d", "details"}, boolField(func(c *AppConfig) *bool { return &c.Details })},
	{"QUIET", []string{"quiet", "q"}, boolField(func(c *AppConfig) *bool { return &c.Quiet })},
	{"CALCULATE", []string{"calculate", "c"}, boolField(func(c *AppConfig) *bool { return &c.ShowValue })},
	{"HEX", []string{"hex"}, boolField(func(c *AppConfig) *bool { return &c.HexOutput })},
	{"LIMBS", []string{"limbs"}, boolField(func(c *AppConfig) *bool { return &c.LimbOutput })},
	{"SERVER", []string{"server"}, boolField(func(c *AppConfig) *bool { return &c.ServerMode })},
	{"INTERACTIVE", []string{"interactive", "i"}, boolField(func(c *AppConfig) *bool { return &c.Interactive })},
	{"TUI", []string{"tui"}, boolField(func(c *AppConfig) *bool { return &c.TUI })},
	{"NO_COLOR", []string{"no-color"}, boolField(func(c *AppConfig) *bool { return &c.NoColor })},
}

// applyEnvOverrides runs after the YAML file is merged and skips options
// given as flags, so flags beat the environment, which beats the file.
// FIBDRV_CONFIG itself is read by ParseConfig.
func applyEnvOverrides(cfg *AppConfig, fs *flag.FlagSet) {
	for _, o := range envOverrides {
		if isFlagSetAny(fs, o.flags...) {
			continue
		}
		if val := os.Getenv(EnvPrefix + o.envKey); val != "" {
			o.apply(cfg, val)
		}
	}
}
