package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/agbru/fibdrv/internal/config"
	"github.com/agbru/fibdrv/internal/fibonacci"
	"github.com/agbru/fibdrv/internal/orchestration"
)

func TestPrintExecutionConfig(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	cfg := config.AppConfig{
		N:       1000,
		Timeout: time.Minute,
		GCMode:  "auto",
	}

	PrintExecutionConfig(cfg, &buf)

	output := buf.String()
	for _, want := range []string{"F(1000)", "1m0s", "logical processors", "NTT from", "bytes per operand", "Estimated memory"} {
		if !strings.Contains(output, want) {
			t.Errorf("PrintExecutionConfig output missing %q:\n%s", want, output)
		}
	}
}

func TestPrintExecutionMode(t *testing.T) {
	t.Parallel()
	factory := fibonacci.GlobalFactory()

	t.Run("Single calculator mode", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		PrintExecutionMode([]fibonacci.Calculator{factory.MustGet(fibonacci.AlgorithmDoubling)}, &buf)
		if !strings.Contains(buf.String(), "Single calculation") {
			t.Errorf("unexpected output: %s", buf.String())
		}
	})

	t.Run("Multiple calculators mode", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		PrintExecutionMode(orchestration.GetCalculatorsToRun(orchestration.AllAlgorithms, factory), &buf)
		if !strings.Contains(buf.String(), "Parallel comparison") {
			t.Errorf("unexpected output: %s", buf.String())
		}
	})
}
