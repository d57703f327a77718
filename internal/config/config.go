// Package config provides the configuration management for the fibdrv
// application. It defines the configuration structure, parses command-line
// flags and merges them with environment variables and an optional YAML
// file, then validates the result.
package config

import (
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	apperrors "github.com/agbru/fibdrv/internal/errors"
	"github.com/agbru/fibdrv/internal/fibonacci"
	"github.com/agbru/fibdrv/internal/fibonacci/memory"
)

const (
	// EnvPrefix is the prefix for all environment variables used by fibdrv.
	EnvPrefix = "FIBDRV_"
)

// Default configuration values.
const (
	// DefaultN is the default Fibonacci index to calculate.
	DefaultN uint64 = 100_000
	// DefaultTimeout is the default calculation timeout.
	DefaultTimeout = 5 * time.Minute
	// DefaultPort is the default server port.
	DefaultPort = "8080"
	// DefaultAlgo runs every registered generator and cross-checks them.
	DefaultAlgo = "all"
	// DefaultMaxIndex is the largest index served by the device and the
	// HTTP server.
	DefaultMaxIndex = 10_000
	// DefaultRequestTimeout bounds one HTTP request.
	DefaultRequestTimeout = 10 * time.Second
)

// AppConfig aggregates the application's configuration parameters.
type AppConfig struct {
	// N is the index of the Fibonacci number to be calculated.
	N uint64 `yaml:"n"`
	// Algo selects the generator ("all", "doubling" or "naive").
	Algo string `yaml:"algo"`
	// Timeout sets the maximum duration for the calculation.
	Timeout time.Duration `yaml:"timeout"`
	// Verbose, if true, displays the full calculated number.
	Verbose bool `yaml:"verbose"`
	// Details, if true, adds performance details and result metadata.
	Details bool `yaml:"details"`
	// ShowValue, if true, displays the calculated value section.
	ShowValue bool `yaml:"calculate"`
	// Quiet mode prints only the result, for scripts.
	Quiet bool `yaml:"quiet"`
	// OutputFile, if set, receives the result.
	OutputFile string `yaml:"output"`
	// HexOutput renders the result in hexadecimal.
	HexOutput bool `yaml:"hex"`
	// LimbOutput renders the result as its little-endian limb array.
	LimbOutput bool `yaml:"limbs"`
	// MemoryLimit is a human-readable budget such as "512M"; empty means none.
	MemoryLimit string `yaml:"memory_limit"`
	// NTTMinBytes is the operand size from which the transform multiplier is
	// used; 0 selects the default.
	NTTMinBytes int `yaml:"ntt_min_bytes"`
	// GCMode is "auto", "aggressive" or "disabled".
	GCMode string `yaml:"gc_mode"`
	// LogLevel is the zerolog level for library diagnostics.
	LogLevel string `yaml:"log_level"`

	// ServerMode, if true, starts the HTTP server.
	ServerMode bool `yaml:"server"`
	// Port specifies the port to listen on in server mode.
	Port string `yaml:"port"`
	// MaxIndex is the largest index the device and the server accept.
	MaxIndex uint64 `yaml:"max_index"`
	// RequestTimeout bounds the computation of one HTTP request.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// TUI starts the interactive dashboard instead of the plain CLI output.
	TUI bool `yaml:"tui"`
	// Interactive starts the read-eval-print loop.
	Interactive bool `yaml:"interactive"`
	// NoColor disables all color output. NO_COLOR is honored as well.
	NoColor bool `yaml:"no_color"`

	// Calibrate measures the NTT cutover on this host and saves a profile.
	Calibrate bool `yaml:"-"`
	// CalibrationProfile is the profile file read at startup and written by
	// Calibrate; empty selects the file in the home directory.
	CalibrationProfile string `yaml:"calibration_profile"`

	// ConfigFile is the YAML file the other values were merged from.
	ConfigFile string `yaml:"-"`
	// ShowVersion prints version information and exits.
	ShowVersion bool `yaml:"-"`
	// Completion names a shell whose completion script is printed.
	Completion string `yaml:"-"`
}

// ToCalculationOptions converts the configuration into fibonacci.Options.
// It assumes Validate succeeded.
func (c AppConfig) ToCalculationOptions() fibonacci.Options {
	limit, _ := memory.ParseMemoryLimit(c.MemoryLimit)
	mode, _ := memory.ParseGCMode(c.GCMode)
	return fibonacci.Options{
		NTTMinBytes: c.NTTMinBytes,
		MemoryLimit: limit,
		GCMode:      mode,
	}
}

// Validate checks the semantic consistency of the configuration parameters.
//
// Parameters:
//   - availableAlgos: The registered generator names.
//
// Returns:
//   - error: A ConfigError if the configuration is invalid, nil otherwise.
func (c AppConfig) Validate(availableAlgos []string) error {
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout value must be strictly positive")
	}
	if c.NTTMinBytes < 0 {
		return apperrors.NewConfigError("ntt-min-bytes cannot be negative: %d", c.NTTMinBytes)
	}
	if _, err := memory.ParseMemoryLimit(c.MemoryLimit); err != nil {
		return apperrors.NewConfigError("invalid memory-limit: %v", err)
	}
	if _, err := memory.ParseGCMode(c.GCMode); err != nil {
		return apperrors.NewConfigError("%v", err)
	}
	if c.HexOutput && c.LimbOutput {
		return apperrors.NewConfigError("-hex and -limbs are mutually exclusive")
	}
	if c.Algo != DefaultAlgo && !slices.Contains(availableAlgos, c.Algo) {
		return apperrors.NewConfigError("unrecognized algorithm: '%s'. Valid algorithms are: 'all' or [%s]", c.Algo, strings.Join(availableAlgos, ", "))
	}
	if c.ServerMode {
		if c.Port == "" {
			return apperrors.NewConfigError("port cannot be empty in server mode")
		}
		if c.RequestTimeout <= 0 {
			return apperrors.NewConfigError("request-timeout must be strictly positive")
		}
	}
	if c.MaxIndex == 0 {
		return apperrors.NewConfigError("max-index must be at least 1")
	}
	return nil
}

// ParseConfig parses the command-line arguments and merges them with the
// FIBDRV_ environment variables and the optional YAML file, in that order
// of priority, over the defaults.
//
// Parameters:
//   - programName: The name of the program, used in the usage message.
//   - args: The command-line arguments (typically os.Args[1:]).
//   - errorWriter: Where parsing errors and usage information are printed.
//   - availableAlgos: The valid generator names for validation.
//
// Returns:
//   - AppConfig: The populated configuration struct.
//   - error: flag.ErrHelp, a parse error, or a ConfigError.
func ParseConfig(programName string, args []string, errorWriter io.Writer, availableAlgos []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	algoHelp := fmt.Sprintf("Algorithm to use: 'all' (default) or one of [%s].", strings.Join(availableAlgos, ", "))

	config := AppConfig{}
	fs.Uint64Var(&config.N, "n", DefaultN, "Index n of the Fibonacci number to calculate.")
	fs.StringVar(&config.Algo, "algo", DefaultAlgo, algoHelp)
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum execution time for the calculation.")
	fs.BoolVar(&config.Verbose, "v", false, "Display the full value of the result (can be very long).")
	fs.BoolVar(&config.Details, "d", false, "Display performance details and result metadata.")
	fs.BoolVar(&config.Details, "details", false, "Alias for -d.")
	fs.BoolVar(&config.ShowValue, "calculate", false, "Display the calculated value.")
	fs.BoolVar(&config.ShowValue, "c", false, "Display the calculated value (shorthand).")
	fs.BoolVar(&config.Quiet, "quiet", false, "Quiet mode - print only the result.")
	fs.BoolVar(&config.Quiet, "q", false, "Quiet mode (shorthand).")
	fs.StringVar(&config.OutputFile, "output", "", "Output file path for the result.")
	fs.StringVar(&config.OutputFile, "o", "", "Output file path (shorthand).")
	fs.BoolVar(&config.HexOutput, "hex", false, "Display the result in hexadecimal.")
	fs.BoolVar(&config.LimbOutput, "limbs", false, "Display the result as little-endian 64-bit limbs.")
	fs.StringVar(&config.MemoryLimit, "memory-limit", "", "Memory budget such as 512M or 8G; larger calculations are refused.")
	fs.IntVar(&config.NTTMinBytes, "ntt-min-bytes", 0, "Operand size in bytes from which the NTT multiplier is used (0 for the default).")
	fs.StringVar(&config.GCMode, "gc-mode", string(memory.GCModeAuto), "Garbage collector control: auto, aggressive or disabled.")
	fs.StringVar(&config.LogLevel, "log-level", "info", "Log level for diagnostics (debug, info, warn, error).")
	fs.BoolVar(&config.ServerMode, "server", false, "Start in HTTP server mode.")
	fs.StringVar(&config.Port, "port", DefaultPort, "Port to listen on in server mode.")
	fs.Uint64Var(&config.MaxIndex, "max-index", DefaultMaxIndex, "Largest index served by the device and the server.")
	fs.DurationVar(&config.RequestTimeout, "request-timeout", DefaultRequestTimeout, "Maximum computation time of one HTTP request.")
	fs.BoolVar(&config.TUI, "tui", false, "Start the interactive dashboard.")
	fs.BoolVar(&config.Interactive, "interactive", false, "Start the interactive prompt.")
	fs.BoolVar(&config.Interactive, "i", false, "Interactive prompt (shorthand).")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output (also respects NO_COLOR env var).")
	fs.BoolVar(&config.Calibrate, "calibrate", false, "Measure the NTT cutover on this machine and save a profile.")
	fs.StringVar(&config.CalibrationProfile, "calibration-profile", "", "Calibration profile path (default ~/.fibdrv_calibration.json).")
	fs.StringVar(&config.ConfigFile, "config", "", "YAML configuration file.")
	fs.BoolVar(&config.ShowVersion, "version", false, "Print version information and exit.")
	fs.StringVar(&config.Completion, "completion", "", "Print a completion script for bash, zsh or fish.")

	setCustomUsage(fs)

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	if config.ConfigFile == "" {
		config.ConfigFile = getEnvString("CONFIG", "")
	}
	if config.ConfigFile != "" {
		fc, err := LoadFile(config.ConfigFile)
		if err != nil {
			return AppConfig{}, apperrors.NewConfigError("%v", err)
		}
		applyFileOverrides(&config, fc, fs)
	}
	applyEnvOverrides(&config, fs)

	config.Algo = strings.ToLower(config.Algo)
	if err := config.Validate(availableAlgos); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		fs.Usage()
		return AppConfig{}, err
	}
	return config, nil
}
