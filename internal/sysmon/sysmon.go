// Package sysmon provides system-wide CPU and memory usage sampling and a
// description of the host for reports.
package sysmon

import (
	"runtime"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	xcpu "golang.org/x/sys/cpu"
)

// Stats holds a single snapshot of system-wide resource usage.
type Stats struct {
	CPUPercent float64 // 0.0 .. 100.0
	MemPercent float64 // 0.0 .. 100.0
}

// Sample collects a single system-wide CPU and memory snapshot.
// CPU uses interval=0 (delta since last call). Returns zero values on error.
func Sample() Stats {
	var s Stats
	cpuPcts, err := cpu.Percent(0, false)
	if err == nil && len(cpuPcts) > 0 {
		s.CPUPercent = cpuPcts[0]
	}
	vmem, err := mem.VirtualMemory()
	if err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
	}
	return s
}

// HostInfo describes the machine a calculation or benchmark ran on.
type HostInfo struct {
	CPUModel      string   `json:"cpu_model"`
	LogicalCores  int      `json:"logical_cores"`
	PhysicalCores int      `json:"physical_cores"`
	TotalMemory   uint64   `json:"total_memory"`
	GOARCH        string   `json:"goarch"`
	Features      []string `json:"features,omitempty"`
}

// Host gathers a HostInfo. Fields that cannot be read are left empty.
func Host() HostInfo {
	h := HostInfo{
		LogicalCores: runtime.NumCPU(),
		GOARCH:       runtime.GOARCH,
		Features:     CPUFeatures(),
	}
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		h.CPUModel = infos[0].ModelName
	}
	if n, err := cpu.Counts(false); err == nil {
		h.PhysicalCores = n
	}
	if vmem, err := mem.VirtualMemory(); err == nil && vmem != nil {
		h.TotalMemory = vmem.Total
	}
	return h
}

// CPUFeatures lists the instruction set extensions relevant to limb
// arithmetic that the current CPU supports.
func CPUFeatures() []string {
	var fs []string
	add := func(ok bool, name string) {
		if ok {
			fs = append(fs, name)
		}
	}
	switch runtime.GOARCH {
	case "amd64":
		add(xcpu.X86.HasBMI2, "bmi2")
		add(xcpu.X86.HasADX, "adx")
		add(xcpu.X86.HasAVX2, "avx2")
		add(xcpu.X86.HasAVX512F, "avx512f")
	case "arm64":
		add(xcpu.ARM64.HasASIMD, "asimd")
		add(xcpu.ARM64.HasSVE, "sve")
	}
	return fs
}
