package system

import (
	"fmt"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/process"
)

// Stats is a snapshot of the current process
type Stats struct {
	RSS        uint64  // resident set size in bytes
	CPUPercent float64 // CPU usage since process start, may exceed 100 on multicore
	Goroutines int
	HeapAlloc  uint64
}

// ReadStats samples resource usage of the running process
func ReadStats() (Stats, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return Stats{}, fmt.Errorf("failed to inspect process: %w", err)
	}

	mem, err := p.MemoryInfo()
	if err != nil {
		return Stats{}, fmt.Errorf("failed to read memory info: %w", err)
	}
	cpu, err := p.CPUPercent()
	if err != nil {
		return Stats{}, fmt.Errorf("failed to read cpu usage: %w", err)
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	return Stats{
		RSS:        mem.RSS,
		CPUPercent: cpu,
		Goroutines: runtime.NumGoroutine(),
		HeapAlloc:  ms.HeapAlloc,
	}, nil
}

// String formats the snapshot for the CLI report
func (s Stats) String() string {
	return fmt.Sprintf("RSS %.1f MiB, heap %.1f MiB, CPU %.1f%%, goroutines %d",
		float64(s.RSS)/(1<<20), float64(s.HeapAlloc)/(1<<20), s.CPUPercent, s.Goroutines)
}
