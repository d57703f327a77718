// This file generates the NTT cutover candidates measured by a calibration.

package calibration

import (
	"github.com/agbru/fibdrv/internal/bignum"
	"github.com/agbru/fibdrv/internal/sysmon"
)

// GenerateNTTThresholds returns the operand sizes, in bytes, tried by a
// full calibration. The list starts at the smallest size the transform
// multiplier accepts and grows geometrically.
func GenerateNTTThresholds() []int {
	thresholds := []int{bignum.MinNTTBytes}
	for t := 16; t <= 16384; t *= 4 {
		thresholds = append(thresholds, t)
	}
	return thresholds
}

// GenerateQuickNTTThresholds returns a reduced candidate set.
func GenerateQuickNTTThresholds() []int {
	return []int{bignum.MinNTTBytes, 256, 4096}
}

// EstimateOptimalNTTMinBytes returns a cutover without benchmarking. Hosts
// without wide vector units pay more per transform, so the estimate is
// raised there.
func EstimateOptimalNTTMinBytes() int {
	host := sysmon.Host()
	if host.GOARCH == "amd64" || host.GOARCH == "arm64" {
		return bignum.MinNTTBytes
	}
	return 256
}
