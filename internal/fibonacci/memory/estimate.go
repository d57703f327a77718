package memory

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agbru/fibdrv/internal/bignum"
	"github.com/agbru/fibdrv/internal/format"
	"github.com/agbru/fibdrv/internal/ntt"
)

// decimalDigitsPerIndex is log10(phi), the growth of F(n) in decimal digits.
const decimalDigitsPerIndex = 0.20898764

// MemoryEstimate breaks down the peak memory a calculation of F(n) needs.
type MemoryEstimate struct {
	// ResultLimbs is the estimated size of F(n) in limbs.
	ResultLimbs int
	// RegisterBytes covers the doubling registers held in the arena.
	RegisterBytes uint64
	// TransformBytes covers the digit and coefficient buffers of the largest
	// transform multiplication, or 0 when the operands are too large for the
	// transform and the schoolbook multiplier is used.
	TransformBytes uint64
	// OutputBytes covers the decimal rendering of the result.
	OutputBytes uint64
	// TotalBytes is the sum of the above.
	TotalBytes uint64
}

// EstimateMemoryUsage returns the peak memory needed to compute and print
// F(n) with the doubling generator.
func EstimateMemoryUsage(n uint64) MemoryEstimate {
	limbs := bignum.EstimateFibLimbs(n)
	est := MemoryEstimate{
		ResultLimbs:   limbs,
		RegisterBytes: uint64(limbs+1) * 8 * arenaTemporaries,
		OutputBytes:   uint64(float64(n)*decimalDigitsPerIndex) + 1,
	}

	// The last doubling step multiplies two operands of about half the
	// result. The transform keeps two digit vectors, two coefficient vectors
	// and the output coefficients alive at once.
	operandBytes := (limbs*8 + 1) / 2
	if operandBytes <= ntt.Default.MaxDigitTerms() {
		size := ntt.NextPow2(2 * operandBytes)
		est.TransformBytes = uint64(size) * 8 * 5
	}

	est.TotalBytes = est.RegisterBytes + est.TransformBytes + est.OutputBytes
	return est
}

// ParseMemoryLimit parses a human-readable memory size such as "512M",
// "8G", "1024K" or a plain byte count. An empty string means no limit and
// yields 0.
func ParseMemoryLimit(s string) (uint64, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	if s == "" {
		return 0, nil
	}
	s = strings.TrimSuffix(s, "B")

	multiplier := uint64(1)
	switch {
	case strings.HasSuffix(s, "K"):
		multiplier = 1 << 10
	case strings.HasSuffix(s, "M"):
		multiplier = 1 << 20
	case strings.HasSuffix(s, "G"):
		multiplier = 1 << 30
	case strings.HasSuffix(s, "T"):
		multiplier = 1 << 40
	}
	if multiplier != 1 {
		s = s[:len(s)-1]
	}

	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid memory size %q", s)
	}
	if v > ^uint64(0)/multiplier {
		return 0, fmt.Errorf("memory size %q overflows", s)
	}
	return v * multiplier, nil
}

// FormatMemoryEstimate renders an estimate as a short human-readable string.
func FormatMemoryEstimate(est MemoryEstimate) string {
	return fmt.Sprintf("%s (registers %s, transform %s, output %s)",
		format.FormatBytes(est.TotalBytes),
		format.FormatBytes(est.RegisterBytes),
		format.FormatBytes(est.TransformBytes),
		format.FormatBytes(est.OutputBytes))
}
