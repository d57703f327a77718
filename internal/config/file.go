// This file loads the optional YAML configuration file.

package config

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FileConfig mirrors AppConfig for the YAML file. Pointer fields distinguish
// an absent key from a zero value so that only present keys override the
// defaults.
type FileConfig struct {
	N              *uint64        `yaml:"n"`
	Algo           *string        `yaml:"algo"`
	Timeout        *time.Duration `yaml:"timeout"`
	Verbose        *bool          `yaml:"verbose"`
	Details        *bool          `yaml:"details"`
	ShowValue      *bool          `yaml:"calculate"`
	Quiet          *bool          `yaml:"quiet"`
	OutputFile     *string        `yaml:"output"`
	HexOutput      *bool          `yaml:"hex"`
	LimbOutput     *bool          `yaml:"limbs"`
	MemoryLimit    *string        `yaml:"memory_limit"`
	NTTMinBytes    *int           `yaml:"ntt_min_bytes"`
	GCMode         *string        `yaml:"gc_mode"`
	LogLevel       *string        `yaml:"log_level"`
	ServerMode     *bool          `yaml:"server"`
	Port           *string        `yaml:"port"`
	MaxIndex       *uint64        `yaml:"max_index"`
	RequestTimeout *time.Duration `yaml:"request_timeout"`
	TUI            *bool          `yaml:"tui"`
	Interactive    *bool          `yaml:"interactive"`
	NoColor        *bool          `yaml:"no_color"`

	CalibrationProfile *string `yaml:"calibration_profile"`
}

// LoadFile reads and decodes a YAML configuration file. Unknown keys are
// rejected so that typos do not go unnoticed.
func LoadFile(path string) (FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, fmt.Errorf("reading config file: %w", err)
	}
	return DecodeFile(bytes.NewReader(data))
}

// DecodeFile decodes a YAML configuration document from r. An empty
// document yields an empty FileConfig.
func DecodeFile(r io.Reader) (FileConfig, error) {
	var fc FileConfig
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return FileConfig{}, fmt.Errorf("parsing config file: %w", err)
	}
	return fc, nil
}

// fileOverride binds one FileConfig key to the flags that take precedence
// over it.
type fileOverride struct {
	flags []string
	apply func(*AppConfig, FileConfig)
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

var fileOverrides = []fileOverride{
	{[]string{"n"}, func(c *AppConfig, f FileConfig) { setIf(&c.N, f.N) }},
	{[]string{"algo"}, func(c *AppConfig, f FileConfig) { setIf(&c.Algo, f.Algo) }},
	{[]string{"timeout"}, func(c *AppConfig, f FileConfig) { setIf(&c.Timeout, f.Timeout) }},
	{[]string{"v"}, func(c *AppConfig, f FileConfig) { setIf(&c.Verbose, f.Verbose) }},
	{[]string{"d", "details"}, func(c *AppConfig, f FileConfig) { setIf(&c.Details, f.Details) }},
	{[]string{"calculate", "c"}, func(c *AppConfig, f FileConfig) { setIf(&c.ShowValue, f.ShowValue) }},
	{[]string{"quiet", "q"}, func(c *AppConfig, f FileConfig) { setIf(&c.Quiet, f.Quiet) }},
	{[]string{"output", "o"}, func(c *AppConfig, f FileConfig) { setIf(&c.OutputFile, f.OutputFile) }},
	{[]string{"hex"}, func(c *AppConfig, f FileConfig) { setIf(&c.HexOutput, f.HexOutput) }},
	{[]string{"limbs"}, func(c *AppConfig, f FileConfig) { setIf(&c.LimbOutput, f.LimbOutput) }},
	{[]string{"memory-limit"}, func(c *AppConfig, f FileConfig) { setIf(&c.MemoryLimit, f.MemoryLimit) }},
	{[]string{"ntt-min-bytes"}, func(c *AppConfig, f FileConfig) { setIf(&c.NTTMinBytes, f.NTTMinBytes) }},
	{[]string{"gc-mode"}, func(c *AppConfig, f FileConfig) { setIf(&c.GCMode, f.GCMode) }},
	{[]string{"log-level"}, func(c *AppConfig, f FileConfig) { setIf(&c.LogLevel, f.LogLevel) }},
	{[]string{"server"}, func(c *AppConfig, f FileConfig) { setIf(&c.ServerMode, f.ServerMode) }},
	{[]string{"port"}, func(c *AppConfig, f FileConfig) { setIf(&c.Port, f.Port) }},
	{[]string{"max-index"}, func(c *AppConfig, f FileConfig) { setIf(&c.MaxIndex, f.MaxIndex) }},
	{[]string{"request-timeout"}, func(c *AppConfig, f FileConfig) { setIf(&c.RequestTimeout, f.RequestTimeout) }},
	{[]string{"tui"}, func(c *AppConfig, f FileConfig) { setIf(&c.TUI, f.TUI) }},
	{[]string{"interactive", "i"}, func(c *AppConfig, f FileConfig) { setIf(&c.Interactive, f.Interactive) }},
	{[]string{"no-color"}, func(c *AppConfig, f FileConfig) { setIf(&c.NoColor, f.NoColor) }},
	{[]string{"calibration-profile"}, func(c *AppConfig, f FileConfig) { setIf(&c.CalibrationProfile, f.CalibrationProfile) }},
}

// applyFileOverrides copies the keys present in fc into config, skipping
// any value whose flag was set on the command line.
func applyFileOverrides(config *AppConfig, fc FileConfig, fs *flag.FlagSet) {
	for _, o := range fileOverrides {
		if isFlagSetAny(fs, o.flags...) {
			continue
		}
		o.apply(config, fc)
	}
}
