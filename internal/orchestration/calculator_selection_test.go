package orchestration

import (
	"testing"

	"github.com/agbru/fibdrv/internal/fibonacci"
)

func TestGetCalculatorsToRun(t *testing.T) {
	t.Parallel()
	factory := fibonacci.GlobalFactory()

	tests := []struct {
		name    string
		algo    string
		wantLen int
	}{
		{"single doubling", fibonacci.AlgorithmDoubling, 1},
		{"single naive", fibonacci.AlgorithmNaive, 1},
		{"all", AllAlgorithms, 2},
		{"unknown", "matrix", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			calculators := GetCalculatorsToRun(tt.algo, factory)
			if len(calculators) != tt.wantLen {
				t.Fatalf("GetCalculatorsToRun(%q) returned %d calculators, want %d", tt.algo, len(calculators), tt.wantLen)
			}
			for _, c := range calculators {
				if c.Name() == "" {
					t.Error("Calculator name should not be empty")
				}
			}
		})
	}
}

func TestGetCalculatorsToRunSortedOrder(t *testing.T) {
	t.Parallel()
	factory := fibonacci.NewDefaultFactory()
	calculators := GetCalculatorsToRun(AllAlgorithms, factory)
	if len(calculators) != 2 {
		t.Fatalf("expected 2 calculators, got %d", len(calculators))
	}
	doubling, _ := factory.Get(fibonacci.AlgorithmDoubling)
	if calculators[0].Name() != doubling.Name() {
		t.Errorf("first calculator = %q, want %q", calculators[0].Name(), doubling.Name())
	}
}
