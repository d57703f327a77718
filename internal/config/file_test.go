package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	apperrors "github.com/agbru/fibdrv/internal/errors"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fibdrv.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDecodeFile(t *testing.T) {
	t.Parallel()
	doc := `
n: 4096
algo: naive
timeout: 90s
request_timeout: 250ms
memory_limit: 1G
ntt_min_bytes: 512
gc_mode: disabled
limbs: true
server: true
port: "9000"
`
	fc, err := DecodeFile(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("DecodeFile: %v", err)
	}
	if fc.N == nil || *fc.N != 4096 {
		t.Errorf("n = %v, want 4096", fc.N)
	}
	if fc.Timeout == nil || *fc.Timeout != 90*time.Second {
		t.Errorf("timeout = %v, want 90s", fc.Timeout)
	}
	if fc.RequestTimeout == nil || *fc.RequestTimeout != 250*time.Millisecond {
		t.Errorf("request_timeout = %v, want 250ms", fc.RequestTimeout)
	}
	if fc.LimbOutput == nil || !*fc.LimbOutput {
		t.Error("limbs should be true")
	}
	if fc.Verbose != nil {
		t.Error("absent key should stay nil")
	}
}

func TestDecodeFileErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown key", "threshold: 4096\n"},
		{"wrong type", "n: lots\n"},
		{"bad duration", "timeout: forever\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := DecodeFile(strings.NewReader(tt.doc)); err == nil {
				t.Errorf("DecodeFile(%q) expected error", tt.doc)
			}
		})
	}
}

func TestDecodeEmptyFile(t *testing.T) {
	t.Parallel()
	fc, err := DecodeFile(strings.NewReader(""))
	if err != nil {
		t.Fatalf("empty document: %v", err)
	}
	if fc.N != nil || fc.Algo != nil {
		t.Errorf("empty document should decode to zero FileConfig, got %+v", fc)
	}
}

func TestLoadFileMissing(t *testing.T) {
	t.Parallel()
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestConfigFilePrecedence(t *testing.T) {
	path := writeConfigFile(t, "n: 1000\nalgo: naive\nport: \"7000\"\ngc_mode: disabled\n")
	t.Setenv("FIBDRV_ALGO", "doubling")

	cfg, err := ParseConfig("fibdrv", []string{"-config", path, "-port", "7100"}, io.Discard, testAlgos)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.N != 1000 {
		t.Errorf("file should override default n: got %d", cfg.N)
	}
	if cfg.Algo != "doubling" {
		t.Errorf("env should override file algo: got %s", cfg.Algo)
	}
	if cfg.Port != "7100" {
		t.Errorf("flag should override file port: got %s", cfg.Port)
	}
	if cfg.GCMode != "disabled" {
		t.Errorf("file gc_mode not applied: got %s", cfg.GCMode)
	}
}

func TestConfigFileInvalid(t *testing.T) {
	t.Parallel()
	path := writeConfigFile(t, "unknown_key: 1\n")
	_, err := ParseConfig("fibdrv", []string{"-config", path}, io.Discard, testAlgos)
	if apperrors.ExitCodeFor(err) != apperrors.ExitErrorConfig {
		t.Fatalf("expected config error, got %v", err)
	}
}
