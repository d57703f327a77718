package orchestration

import (
	"github.com/agbru/fibdrv/internal/fibonacci"
)

// AllAlgorithms selects every registered generator.
const AllAlgorithms = "all"

// GetCalculatorsToRun returns the generators selected by algo, in the
// factory's sorted order. "all" selects every registered generator; an
// unknown name selects none.
func GetCalculatorsToRun(algo string, factory fibonacci.CalculatorFactory) []fibonacci.Calculator {
	if algo == AllAlgorithms {
		keys := factory.List()
		calculators := make([]fibonacci.Calculator, 0, len(keys))
		for _, k := range keys {
			if calc, err := factory.Get(k); err == nil {
				calculators = append(calculators, calc)
			}
		}
		return calculators
	}
	if calc, err := factory.Get(algo); err == nil {
		return []fibonacci.Calculator{calc}
	}
	return nil
}
