package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	stdlog "log"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

func decode(t *testing.T, line []byte) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(line, &m); err != nil {
		t.Fatalf("not a JSON line: %q: %v", line, err)
	}
	delete(m, "time")
	return m
}

func TestZeroLoggerEvents(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	tests := []struct {
		name string
		log  func(Logger)
		want map[string]any
	}{
		{
			"info with every field kind",
			func(l Logger) {
				l.Info("read",
					String("algo", "doubling"), Int("runs", 3), Int64("k", 500), Uint64("n", 7),
					Bool("cached", true), Duration("elapsed", 1500*time.Microsecond), Field{"extra", []int{1}})
			},
			map[string]any{
				"level": "info", "message": "read", "component": "device",
				"algo": "doubling", "runs": 3.0, "k": 500.0, "n": 7.0,
				"cached": true, "elapsed": 1.5, "extra": []any{1.0},
			},
		},
		{
			"error",
			func(l Logger) { l.Error("seek failed", boom, Int64("offset", -1)) },
			map[string]any{"level": "error", "message": "seek failed", "component": "device", "error": "boom", "offset": -1.0},
		},
		{
			"error field",
			func(l Logger) { l.Debug("retry", Err(boom)) },
			map[string]any{"level": "debug", "message": "retry", "component": "device", "error": "boom"},
		},
		{
			"printf",
			func(l Logger) { l.Printf("listening on %s", ":8080") },
			map[string]any{"level": "info", "message": "listening on :8080", "component": "device"},
		},
		{
			"println",
			func(l Logger) { l.Println("a", 1) },
			map[string]any{"level": "info", "message": "a 1", "component": "device"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			tt.log(NewLogger(&buf, "device"))
			if diff := cmp.Diff(tt.want, decode(t, buf.Bytes())); diff != "" {
				t.Errorf("event (-want +got):\n%s", diff)
			}
		})
	}
}

func TestZeroLoggerWith(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	NewLogger(&buf, "bench").With(Int64("max_n", 92)).Info("start")
	got := decode(t, buf.Bytes())
	if got["max_n"] != 92.0 || got["component"] != "bench" {
		t.Errorf("event = %v", got)
	}
}

func TestStdLogger(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l := NewStdLogger(stdlog.New(&buf, "", 0))

	l.Info("started", String("addr", ":8080"))
	l.Error("failed", errors.New("boom"), Int("code", 2))
	l.Debug("tick")
	l.Printf("n=%d", 5)
	l.Println("done")

	want := "[INFO] started addr=:8080\n" +
		"[ERROR] failed: boom code=2\n" +
		"[DEBUG] tick\n" +
		"n=5\n" +
		"done\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("output (-want +got):\n%s", diff)
	}
}

// Not parallel: Setup replaces the global logger.
func TestSetup(t *testing.T) {
	prevLevel, prevLogger := zerolog.GlobalLevel(), zlog.Logger
	t.Cleanup(func() {
		debugConfigured.Store(false)
		zerolog.SetGlobalLevel(prevLevel)
		zlog.Logger = prevLogger
	})

	var buf bytes.Buffer
	if err := Setup("WARN", &buf, false); err != nil {
		t.Fatal(err)
	}
	if DebugEnabled() {
		t.Error("DebugEnabled after Setup(WARN)")
	}
	NewDefaultLogger().Info("hidden")
	zlog.Warn().Msg("shown")
	if out := buf.String(); strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("warn level output: %s", out)
	}

	buf.Reset()
	if err := Setup("", &buf, true); err != nil {
		t.Fatal(err)
	}
	zlog.Info().Msg("pretty")
	if out := buf.String(); strings.Contains(out, `"message"`) || !strings.Contains(out, "pretty") {
		t.Errorf("console output: %s", out)
	}

	if err := Setup("debug", &buf, false); err != nil {
		t.Fatal(err)
	}
	if !DebugEnabled() {
		t.Error("DebugEnabled false after Setup(debug)")
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if DebugEnabled() {
		t.Error("DebugEnabled ignores a raised global level")
	}

	if err := Setup("loud", &buf, false); err == nil {
		t.Error("Setup accepted an unknown level")
	}
}
