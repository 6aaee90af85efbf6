// Package sysmon provides system-wide and per-process resource
// sampling for the dashboard header.
package sysmon

import (
	"os"
	"sync"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
)

// Stats holds a single snapshot of resource usage. The process fields
// are populated only when sampling through a Monitor.
type Stats struct {
	CPUPercent     float64 // system-wide, 0.0 .. 100.0
	MemPercent     float64 // system-wide, 0.0 .. 100.0
	ProcRSS        uint64  // resident set of this process, bytes
	ProcCPUPercent float64 // this process, may exceed 100 on multicore
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

// Monitor samples like Sample and adds this process's RSS and CPU
// share. The process handle is resolved once and reused, so repeated
// calls stay cheap on a refresh ticker.
type Monitor struct {
	once sync.Once
	proc *process.Process
}

// Sample collects a system snapshot enriched with process stats.
// Process fields stay zero when the handle cannot be resolved.
func (m *Monitor) Sample() Stats {
	s := Sample()
	m.once.Do(func() {
		if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
			m.proc = p
		}
	})
	if m.proc == nil {
		return s
	}
	if mi, err := m.proc.MemoryInfo(); err == nil && mi != nil {
		s.ProcRSS = mi.RSS
	}
	if pct, err := m.proc.CPUPercent(); err == nil {
		s.ProcCPUPercent = pct
	}
	return s
}
