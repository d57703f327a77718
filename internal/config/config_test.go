package config

import (
	"errors"
	"flag"
	"io"
	"strings"
	"testing"
	"time"

	apperrors "github.com/agbru/fibdrv/internal/errors"
	"github.com/agbru/fibdrv/internal/fibonacci"
	"github.com/agbru/fibdrv/internal/fibonacci/memory"
	"github.com/google/go-cmp/cmp"
)

var testAlgos = []string{"doubling", "naive"}

func TestParseConfig(t *testing.T) {
	t.Run("DefaultValues", func(t *testing.T) {
		t.Parallel()
		cfg, err := ParseConfig("fibdrv", nil, io.Discard, testAlgos)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if cfg.N != DefaultN {
			t.Errorf("Expected default N %d, got %d", DefaultN, cfg.N)
		}
		if cfg.Algo != "all" {
			t.Errorf("Expected default Algo 'all', got %s", cfg.Algo)
		}
		if cfg.Timeout != DefaultTimeout {
			t.Errorf("Expected default Timeout %v, got %v", DefaultTimeout, cfg.Timeout)
		}
		if cfg.MaxIndex != DefaultMaxIndex {
			t.Errorf("Expected default MaxIndex %d, got %d", DefaultMaxIndex, cfg.MaxIndex)
		}
		if cfg.GCMode != "auto" {
			t.Errorf("Expected default GCMode 'auto', got %s", cfg.GCMode)
		}
	})

	t.Run("ValidFlags", func(t *testing.T) {
		t.Parallel()
		args := []string{
			"-n", "100",
			"-algo", "Naive",
			"-v",
			"-timeout", "10s",
			"-ntt-min-bytes", "4096",
			"-memory-limit", "2G",
			"-gc-mode", "disabled",
			"-server",
			"-port", "9090",
			"-max-index", "50000",
			"-limbs",
		}
		cfg, err := ParseConfig("fibdrv", args, io.Discard, testAlgos)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		want := AppConfig{
			N:              100,
			Algo:           "naive",
			Timeout:        10 * time.Second,
			Verbose:        true,
			LimbOutput:     true,
			MemoryLimit:    "2G",
			NTTMinBytes:    4096,
			GCMode:         "disabled",
			LogLevel:       "info",
			ServerMode:     true,
			Port:           "9090",
			MaxIndex:       50000,
			RequestTimeout: DefaultRequestTimeout,
		}
		if diff := cmp.Diff(want, cfg); diff != "" {
			t.Errorf("ParseConfig mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("ShorthandAliases", func(t *testing.T) {
		t.Parallel()
		cfg, err := ParseConfig("fibdrv", []string{"-q", "-c", "-d", "-i", "-o", "out.txt"}, io.Discard, testAlgos)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !cfg.Quiet || !cfg.ShowValue || !cfg.Details || !cfg.Interactive || cfg.OutputFile != "out.txt" {
			t.Errorf("aliases not applied: %+v", cfg)
		}
	})

	t.Run("Completion", func(t *testing.T) {
		t.Parallel()
		cfg, err := ParseConfig("fibdrv", []string{"-completion", "zsh"}, io.Discard, testAlgos)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if cfg.Completion != "zsh" {
			t.Errorf("Expected Completion zsh, got %q", cfg.Completion)
		}
	})

	t.Run("InvalidAlgo", func(t *testing.T) {
		t.Parallel()
		var sb strings.Builder
		_, err := ParseConfig("fibdrv", []string{"-algo", "matrix"}, &sb, testAlgos)
		var cfgErr apperrors.ConfigError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("expected ConfigError, got %v", err)
		}
		if !strings.Contains(sb.String(), "Configuration error") {
			t.Errorf("expected usage output, got %q", sb.String())
		}
	})

	t.Run("UnknownFlag", func(t *testing.T) {
		t.Parallel()
		if _, err := ParseConfig("fibdrv", []string{"-threshold", "5"}, io.Discard, testAlgos); err == nil {
			t.Error("expected error for unknown flag")
		}
	})

	t.Run("Help", func(t *testing.T) {
		t.Parallel()
		var sb strings.Builder
		_, err := ParseConfig("fibdrv", []string{"-h"}, &sb, testAlgos)
		if !errors.Is(err, flag.ErrHelp) {
			t.Fatalf("expected flag.ErrHelp, got %v", err)
		}
		for _, want := range []string{"Usage:", "-ntt-min-bytes", "FIBDRV_"} {
			if !strings.Contains(sb.String(), want) {
				t.Errorf("usage output missing %q", want)
			}
		}
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()
	valid := AppConfig{
		Algo:           "all",
		Timeout:        time.Minute,
		Port:           "8080",
		MaxIndex:       DefaultMaxIndex,
		RequestTimeout: time.Second,
	}
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr bool
	}{
		{"valid", func(*AppConfig) {}, false},
		{"zero timeout", func(c *AppConfig) { c.Timeout = 0 }, true},
		{"negative ntt-min-bytes", func(c *AppConfig) { c.NTTMinBytes = -1 }, true},
		{"bad memory limit", func(c *AppConfig) { c.MemoryLimit = "lots" }, true},
		{"good memory limit", func(c *AppConfig) { c.MemoryLimit = "512M" }, false},
		{"bad gc mode", func(c *AppConfig) { c.GCMode = "sometimes" }, true},
		{"hex and limbs", func(c *AppConfig) { c.HexOutput, c.LimbOutput = true, true }, true},
		{"known algo", func(c *AppConfig) { c.Algo = "doubling" }, false},
		{"unknown algo", func(c *AppConfig) { c.Algo = "matrix" }, true},
		{"server without port", func(c *AppConfig) { c.ServerMode, c.Port = true, "" }, true},
		{"server without request timeout", func(c *AppConfig) { c.ServerMode, c.RequestTimeout = true, 0 }, true},
		{"port ignored outside server mode", func(c *AppConfig) { c.Port = "" }, false},
		{"zero max index", func(c *AppConfig) { c.MaxIndex = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate(testAlgos)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && apperrors.ExitCodeFor(err) != apperrors.ExitErrorConfig {
				t.Errorf("exit code = %d, want %d", apperrors.ExitCodeFor(err), apperrors.ExitErrorConfig)
			}
		})
	}
}

func TestToCalculationOptions(t *testing.T) {
	t.Parallel()
	cfg := AppConfig{NTTMinBytes: 2048, MemoryLimit: "1K", GCMode: "aggressive"}
	want := fibonacci.Options{NTTMinBytes: 2048, MemoryLimit: 1024, GCMode: memory.GCModeAggressive}
	if diff := cmp.Diff(want, cfg.ToCalculationOptions()); diff != "" {
		t.Errorf("ToCalculationOptions mismatch (-want +got):\n%s", diff)
	}

	empty := AppConfig{}.ToCalculationOptions()
	if empty.MemoryLimit != 0 || empty.GCMode != memory.GCModeAuto {
		t.Errorf("empty config options = %+v", empty)
	}
}
