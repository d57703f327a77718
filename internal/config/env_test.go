package config

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestEnvOverrides(t *testing.T) {
	env := map[string]string{
		"FIBDRV_N":               "200",
		"FIBDRV_ALGO":            "naive",
		"FIBDRV_SERVER":          "true",
		"FIBDRV_PORT":            "3000",
		"FIBDRV_TIMEOUT":         "2m",
		"FIBDRV_REQUEST_TIMEOUT": "3s",
		"FIBDRV_NTT_MIN_BYTES":   "1024",
		"FIBDRV_MAX_INDEX":       "777",
		"FIBDRV_MEMORY_LIMIT":    "64M",
		"FIBDRV_GC_MODE":         "aggressive",
		"FIBDRV_LOG_LEVEL":       "debug",
		"FIBDRV_VERBOSE":         "yes",
		"FIBDRV_DETAILS":         "1",
		"FIBDRV_QUIET":           "TRUE",
		"FIBDRV_HEX":             "true",
		"FIBDRV_TUI":             "true",
		"FIBDRV_INTERACTIVE":     "yes",
		"FIBDRV_NO_COLOR":        "true",
		"FIBDRV_OUTPUT":          "out.txt",
	}
	for k, v := range env {
		t.Setenv(k, v)
	}

	cfg, err := ParseConfig("fibdrv", nil, io.Discard, testAlgos)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.N != 200 {
		t.Errorf("Expected N 200, got %d", cfg.N)
	}
	if cfg.Algo != "naive" {
		t.Errorf("Expected Algo naive, got %s", cfg.Algo)
	}
	if !cfg.ServerMode || cfg.Port != "3000" {
		t.Errorf("Expected server on 3000, got %v %s", cfg.ServerMode, cfg.Port)
	}
	if cfg.Timeout != 2*time.Minute || cfg.RequestTimeout != 3*time.Second {
		t.Errorf("Unexpected timeouts %v %v", cfg.Timeout, cfg.RequestTimeout)
	}
	if cfg.NTTMinBytes != 1024 || cfg.MaxIndex != 777 {
		t.Errorf("Unexpected numeric values %d %d", cfg.NTTMinBytes, cfg.MaxIndex)
	}
	if cfg.MemoryLimit != "64M" || cfg.GCMode != "aggressive" || cfg.LogLevel != "debug" {
		t.Errorf("Unexpected string values %+v", cfg)
	}
	if !cfg.Verbose || !cfg.Details || !cfg.Quiet || !cfg.HexOutput || !cfg.TUI || !cfg.Interactive || !cfg.NoColor {
		t.Errorf("Expected boolean overrides to apply: %+v", cfg)
	}
	if cfg.OutputFile != "out.txt" {
		t.Errorf("Expected OutputFile out.txt, got %s", cfg.OutputFile)
	}
}

func TestEnvDoesNotOverrideFlags(t *testing.T) {
	t.Setenv("FIBDRV_N", "200")
	t.Setenv("FIBDRV_QUIET", "true")

	cfg, err := ParseConfig("fibdrv", []string{"-n", "50", "-q=false"}, io.Discard, testAlgos)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.N != 50 {
		t.Errorf("CLI flag should win over env: got N=%d", cfg.N)
	}
	if cfg.Quiet {
		t.Error("CLI -q=false should win over FIBDRV_QUIET")
	}
}

func TestEnvInvalidValuesIgnored(t *testing.T) {
	t.Setenv("FIBDRV_N", "many")
	t.Setenv("FIBDRV_TIMEOUT", "soon")
	t.Setenv("FIBDRV_VERBOSE", "perhaps")

	cfg, err := ParseConfig("fibdrv", nil, io.Discard, testAlgos)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.N != DefaultN || cfg.Timeout != DefaultTimeout || cfg.Verbose {
		t.Errorf("invalid env values should keep defaults: %+v", cfg)
	}
}

func TestEnvConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fibdrv.yaml")
	if err := os.WriteFile(path, []byte("n: 321\nalgo: doubling\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FIBDRV_CONFIG", path)

	cfg, err := ParseConfig("fibdrv", nil, io.Discard, testAlgos)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.N != 321 || cfg.Algo != "doubling" || cfg.ConfigFile != path {
		t.Errorf("config file from env not applied: %+v", cfg)
	}
}

func TestParseBoolEnv(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		def  bool
		want bool
	}{
		{"true", false, true},
		{"YES", false, true},
		{"1", false, true},
		{"false", true, false},
		{"No", true, false},
		{"0", true, false},
		{"maybe", true, true},
		{"", false, false},
	}
	for _, tt := range tests {
		if got := parseBoolEnv(tt.in, tt.def); got != tt.want {
			t.Errorf("parseBoolEnv(%q, %v) = %v, want %v", tt.in, tt.def, got, tt.want)
		}
	}
}

func TestIsFlagSetAny(t *testing.T) {
	t.Parallel()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.Bool("q", false, "")
	fs.Bool("quiet", false, "")
	if err := fs.Parse([]string{"-q"}); err != nil {
		t.Fatal(err)
	}
	if !isFlagSetAny(fs, "quiet", "q") {
		t.Error("expected -q to be detected")
	}
	if isFlagSet(fs, "quiet") {
		t.Error("-quiet was not set")
	}
}
