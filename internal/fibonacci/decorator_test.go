package fibonacci_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/agbru/fibdrv/internal/bignum"
	"github.com/agbru/fibdrv/internal/fibonacci"
	"github.com/agbru/fibdrv/internal/fibonacci/mocks"
)

func TestFibCalculatorDelegatesLargeIndices(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	core := mocks.NewMockcoreCalculator(ctrl)

	want := bignum.FromLimbs([]uint64{1, 2, 3})
	core.EXPECT().Name().Return("mock").AnyTimes()
	core.EXPECT().
		CalculateCore(gomock.Any(), gomock.Any(), uint64(500), gomock.Any()).
		DoAndReturn(func(_ context.Context, report fibonacci.ProgressCallback, _ uint64, opts fibonacci.Options) (*bignum.BigUint, error) {
			if opts.NTTMinBytes != fibonacci.DefaultNTTMinBytes {
				t.Errorf("options were not normalized: %+v", opts)
			}
			report(0.5)
			return want, nil
		})

	calc := fibonacci.NewCalculator(core)
	ch := make(chan fibonacci.ProgressUpdate, 4)
	got, err := calc.Calculate(context.Background(), ch, 1, 500, fibonacci.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Error("decorator did not return the core result")
	}
	close(ch)
	var values []float64
	for u := range ch {
		values = append(values, u.Value)
	}
	if len(values) != 2 || values[0] != 0.5 || values[1] != 1.0 {
		t.Errorf("progress = %v, want [0.5 1]", values)
	}
}

func TestFibCalculatorSkipsCoreForSmallIndices(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	core := mocks.NewMockcoreCalculator(ctrl)
	core.EXPECT().Name().Return("mock").AnyTimes()

	got, err := fibonacci.NewCalculator(core).Calculate(context.Background(), nil, 0, 93, fibonacci.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got.String() != "12200160415121876738" {
		t.Errorf("F(93) = %s", got)
	}
}

func TestFibCalculatorPropagatesCoreError(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	core := mocks.NewMockcoreCalculator(ctrl)
	boom := errors.New("boom")
	core.EXPECT().Name().Return("mock").AnyTimes()
	core.EXPECT().CalculateCore(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, boom)

	ch := make(chan fibonacci.ProgressUpdate, 4)
	_, err := fibonacci.NewCalculator(core).Calculate(context.Background(), ch, 0, 1000, fibonacci.Options{})
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want boom", err)
	}
	if len(ch) != 0 {
		t.Errorf("failed calculation reported %d progress updates", len(ch))
	}
}
