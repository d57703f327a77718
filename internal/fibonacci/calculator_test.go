package fibonacci

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	apperrors "github.com/agbru/fibdrv/internal/errors"
	"github.com/agbru/fibdrv/internal/logging"
)

func TestNewCalculatorPanicsOnNil(t *testing.T) {
	t.Parallel()
	defer func() {
		if recover() == nil {
			t.Error("NewCalculator(nil) did not panic")
		}
	}()
	NewCalculator(nil)
}

func TestSmallIndicesReachCore(t *testing.T) {
	t.Parallel()
	for name, calc := range NewDefaultFactory().GetAll() {
		for n := uint64(0); n <= MaxFibUint64; n++ {
			got, err := calc.Calculate(context.Background(), nil, 0, n, Options{})
			if err != nil {
				t.Fatalf("%s: Calculate(%d): %v", name, n, err)
			}
			if toBig(got).Cmp(fibBig(n)) != 0 {
				t.Fatalf("%s: F(%d) = %s, want %s", name, n, got, fibBig(n))
			}
		}
	}

	// A core returning a wrong value must be visible even below one limb.
	got, err := NewCalculator(&constCalculator{v: 42}).Calculate(context.Background(), nil, 0, 10, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got.Uint64() != 42 {
		t.Errorf("small index bypassed the core: got %s", got)
	}
}

// Not parallel: swaps the global logger.
func TestProgressLoggedOnlyWhenConfigured(t *testing.T) {
	prevLevel, prevLogger := zerolog.GlobalLevel(), log.Logger
	t.Cleanup(func() {
		_ = logging.Setup("info", &bytes.Buffer{}, false)
		zerolog.SetGlobalLevel(prevLevel)
		log.Logger = prevLogger
	})
	calc := NewCalculator(&DoublingCalculator{})

	var buf bytes.Buffer
	if err := logging.Setup("info", &buf, false); err != nil {
		t.Fatal(err)
	}
	// zerolog defaults: every level passes, yet nothing was asked for.
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	log.Logger = zerolog.New(&buf)
	if _, err := calc.Calculate(context.Background(), nil, 0, 500, Options{}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "calculation progress") {
		t.Errorf("progress logged without debug setup: %s", buf.String())
	}

	buf.Reset()
	if err := logging.Setup("debug", &buf, false); err != nil {
		t.Fatal(err)
	}
	if _, err := calc.Calculate(context.Background(), nil, 0, 500, Options{}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "calculation progress") {
		t.Errorf("no progress logged at debug: %q", buf.String())
	}
}

func TestCalculateSendsFinalProgress(t *testing.T) {
	t.Parallel()
	for _, n := range []uint64{10, 500} {
		calc := NewCalculator(&DoublingCalculator{})
		ch := make(chan ProgressUpdate, 64)
		got, err := calc.Calculate(context.Background(), ch, 3, n, Options{})
		if err != nil {
			t.Fatalf("Calculate(%d): %v", n, err)
		}
		if toBig(got).Cmp(fibBig(n)) != 0 {
			t.Errorf("Calculate(%d) = %s", n, got)
		}
		close(ch)
		var last ProgressUpdate
		for u := range ch {
			if u.CalculatorIndex != 3 {
				t.Errorf("update for calculator %d, want 3", u.CalculatorIndex)
			}
			last = u
		}
		if last.Value != 1.0 {
			t.Errorf("n=%d: last progress = %v, want 1.0", n, last.Value)
		}
	}
}

func TestCalculateWithNilSubject(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(&NaiveCalculator{}).(*FibCalculator)
	got, err := calc.CalculateWithObservers(context.Background(), nil, 0, 200, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if toBig(got).Cmp(fibBig(200)) != 0 {
		t.Errorf("F(200) = %s", got)
	}
}

func TestCalculateMemoryBudget(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(&DoublingCalculator{})

	_, err := calc.Calculate(context.Background(), nil, 0, 1000, Options{MemoryLimit: 100})
	var memErr apperrors.MemoryError
	if !errors.As(err, &memErr) {
		t.Fatalf("error = %v, want MemoryError", err)
	}
	if memErr.Limit != 100 || memErr.Requested <= 100 {
		t.Errorf("MemoryError = %+v", memErr)
	}

	// Single-limb results never allocate enough to be checked.
	if _, err := calc.Calculate(context.Background(), nil, 0, 93, Options{MemoryLimit: 1}); err != nil {
		t.Errorf("small n with tiny budget: %v", err)
	}
	if _, err := calc.Calculate(context.Background(), nil, 0, 1000, Options{MemoryLimit: 1 << 30}); err != nil {
		t.Errorf("large budget: %v", err)
	}
}

func TestCalculateCanceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, core := range []coreCalculator{&DoublingCalculator{}, &NaiveCalculator{}} {
		_, err := NewCalculator(core).Calculate(ctx, nil, 0, 10_000, Options{})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("%s: error = %v, want context.Canceled", core.Name(), err)
		}
	}
}

func TestNormalizeOptions(t *testing.T) {
	t.Parallel()
	got := normalizeOptions(Options{})
	if got.NTTMinBytes != DefaultNTTMinBytes || got.GCMode == "" {
		t.Errorf("normalizeOptions(zero) = %+v", got)
	}
	custom := Options{NTTMinBytes: 64, MemoryLimit: 5, GCMode: "disabled"}
	if got := normalizeOptions(custom); got != custom {
		t.Errorf("normalizeOptions changed explicit values: %+v", got)
	}
}
