package progress

import "math"

// ReportThreshold is the minimum progress increase between two reports of
// ReportStepProgress, except for the first and last steps.
const ReportThreshold = 0.01

// ProgressUpdate is one progress event for one calculator.
type ProgressUpdate struct {
	// CalculatorIndex identifies the calculator among those running
	// concurrently.
	CalculatorIndex int
	// Value is the normalized progress, from 0.0 to 1.0.
	Value float64
}

// ProgressCallback receives normalized progress values (0.0 to 1.0) from a
// generator.
type ProgressCallback func(progress float64)

// Nop is a ProgressCallback that discards every report.
func Nop(float64) {}

// CalcTotalWork returns the total work units of a doubling run over numBits
// bits of the index. Operand sizes double at every step and multiplication
// cost is modeled as quadratic, so the work of step i is 4^i and the total is
// the geometric sum (4^numBits - 1) / 3.
func CalcTotalWork(numBits int) float64 {
	if numBits <= 0 {
		return 0
	}
	return (math.Pow(4, float64(numBits)) - 1) / 3
}

// powersOf4 caches 4^i for every bit position of a uint64 index.
var powersOf4 [64]float64

func init() {
	powersOf4[0] = 1
	for i := 1; i < len(powersOf4); i++ {
		powersOf4[i] = powersOf4[i-1] * 4
	}
}

// PrecomputePowers4 returns 4^0 .. 4^(numBits-1). For numBits <= 64 the
// returned slice aliases a shared table and must not be modified.
func PrecomputePowers4(numBits int) []float64 {
	if numBits <= 0 {
		return nil
	}
	if numBits <= len(powersOf4) {
		return powersOf4[:numBits]
	}
	powers := make([]float64, numBits)
	copy(powers, powersOf4[:])
	for i := len(powersOf4); i < numBits; i++ {
		powers[i] = powers[i-1] * 4
	}
	return powers
}

// ReportStepProgress accounts for the doubling step that processes bit i
// (counting down from numBits-1 to 0) and calls report when progress moved by
// at least ReportThreshold, or on the first or last step. It returns the
// cumulative work done including this step.
//
// lastReported holds the last value passed to report and is updated in
// place.
func ReportStepProgress(report ProgressCallback, lastReported *float64, totalWork, workDone float64, i, numBits int, powers []float64) float64 {
	done := workDone + powers[numBits-1-i]
	if totalWork <= 0 {
		return done
	}
	current := done / totalWork
	if current-*lastReported >= ReportThreshold || i == 0 || i == numBits-1 {
		report(current)
		*lastReported = current
	}
	return done
}
