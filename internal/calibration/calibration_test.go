package calibration

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/agbru/fibdrv/internal/bignum"
	"github.com/agbru/fibdrv/internal/config"
	apperrors "github.com/agbru/fibdrv/internal/errors"
	"github.com/agbru/fibdrv/internal/fibonacci"
	"github.com/agbru/fibdrv/internal/fibonacci/mocks"
)

func TestGenerateNTTThresholds(t *testing.T) {
	t.Parallel()
	full := GenerateNTTThresholds()
	if full[0] != bignum.MinNTTBytes {
		t.Errorf("first candidate = %d, want %d", full[0], bignum.MinNTTBytes)
	}
	if !slices.IsSorted(full) {
		t.Errorf("candidates not ascending: %v", full)
	}
	for _, q := range GenerateQuickNTTThresholds() {
		if q < bignum.MinNTTBytes {
			t.Errorf("quick candidate %d below the multiplier minimum", q)
		}
	}
	if e := EstimateOptimalNTTMinBytes(); e < bignum.MinNTTBytes {
		t.Errorf("estimate = %d", e)
	}
}

func TestRunCalibrationSavesProfile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "profile.json")
	calc := fibonacci.GlobalFactory().MustGet(fibonacci.AlgorithmDoubling)

	var out bytes.Buffer
	code := RunCalibration(context.Background(), &out, calc, Options{
		N:           5000,
		Candidates:  []int{2, 1 << 20},
		ProfilePath: path,
		SaveProfile: true,
	})
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d, output:\n%s", code, out.String())
	}
	if !strings.Contains(out.String(), "Calibration Summary") {
		t.Errorf("summary missing:\n%s", out.String())
	}

	p, err := loadProfile(path)
	if err != nil {
		t.Fatalf("loadProfile: %v", err)
	}
	if p.OptimalNTTMinBytes != 2 && p.OptimalNTTMinBytes != 1<<20 {
		t.Errorf("OptimalNTTMinBytes = %d, not a candidate", p.OptimalNTTMinBytes)
	}
	if p.CalibrationN != 5000 || !p.IsValid() {
		t.Errorf("unexpected profile %s", p)
	}
}

func TestRunCalibrationFailures(t *testing.T) {
	t.Parallel()

	t.Run("no calculator", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		if code := RunCalibration(context.Background(), &out, nil, Options{}); code != apperrors.ExitErrorGeneric {
			t.Errorf("exit code = %d", code)
		}
	})

	t.Run("every candidate fails", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		calc := mocks.NewMockCalculator(ctrl)
		calc.EXPECT().Name().Return("mock").AnyTimes()
		calc.EXPECT().Calculate(gomock.Any(), gomock.Any(), 0, uint64(10), gomock.Any()).
			Return(nil, errors.New("boom")).Times(2)

		var out bytes.Buffer
		code := RunCalibration(context.Background(), &out, calc, Options{N: 10, Candidates: []int{2, 64}})
		if code != apperrors.ExitErrorGeneric {
			t.Errorf("exit code = %d", code)
		}
		if !strings.Contains(out.String(), "no valid results") {
			t.Errorf("output:\n%s", out.String())
		}
	})

	t.Run("canceled", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		var out bytes.Buffer
		calc := fibonacci.GlobalFactory().MustGet(fibonacci.AlgorithmDoubling)
		if code := RunCalibration(ctx, &out, calc, Options{N: 10}); code != apperrors.ExitErrorCanceled {
			t.Errorf("exit code = %d", code)
		}
	})
}

func TestLoadCachedCalibration(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "profile.json")
	p := NewProfile()
	p.OptimalNTTMinBytes = 512
	if err := p.SaveProfile(path); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	cfg, ok := LoadCachedCalibration(config.AppConfig{CalibrationProfile: path}, &out)
	if !ok || cfg.NTTMinBytes != 512 {
		t.Errorf("got (%d, %v), want (512, true)", cfg.NTTMinBytes, ok)
	}
	if !strings.Contains(out.String(), "512") {
		t.Errorf("output = %q", out.String())
	}

	// An explicit value wins over the profile.
	cfg, ok = LoadCachedCalibration(config.AppConfig{CalibrationProfile: path, NTTMinBytes: 64}, nil)
	if ok || cfg.NTTMinBytes != 64 {
		t.Errorf("explicit value overridden: (%d, %v)", cfg.NTTMinBytes, ok)
	}

	missing := filepath.Join(t.TempDir(), "missing.json")
	if _, ok := LoadCachedCalibration(config.AppConfig{CalibrationProfile: missing}, nil); ok {
		t.Error("a missing profile was applied")
	}
}
