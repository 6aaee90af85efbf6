package metrics

import "runtime"

// MemorySnapshot holds a point-in-time view of the Go runtime.
type MemorySnapshot struct {
	HeapAlloc    uint64 // bytes in use by live objects
	HeapSys      uint64 // bytes obtained from the OS for the heap
	Sys          uint64 // total bytes obtained from the OS
	TotalAlloc   uint64 // cumulative bytes allocated since process start
	NumGC        uint32 // completed GC cycles
	PauseTotalNs uint64 // cumulative GC pause time
	HeapObjects  uint64 // live heap objects
	Goroutines   int    // goroutines at snapshot time
}

// MemoryDelta is the allocation and GC activity between two snapshots
// taken in the same process. Only the cumulative counters are diffed;
// gauges such as HeapAlloc are meaningless as differences.
type MemoryDelta struct {
	AllocatedBytes uint64
	GCCycles       uint32
	GCPauseNs      uint64
}

// MemoryCollector reads runtime memory statistics.
type MemoryCollector struct{}

// NewMemoryCollector creates a new memory collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{}
}

// Snapshot reads current memory statistics.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAlloc:    m.HeapAlloc,
		HeapSys:      m.HeapSys,
		Sys:          m.Sys,
		TotalAlloc:   m.TotalAlloc,
		NumGC:        m.NumGC,
		PauseTotalNs: m.PauseTotalNs,
		HeapObjects:  m.HeapObjects,
		Goroutines:   runtime.NumGoroutine(),
	}
}

// DeltaSince reports what a bracketed code region cost, typically the
// timed portion of a run. The receiver must be the later snapshot.
func (s MemorySnapshot) DeltaSince(earlier MemorySnapshot) MemoryDelta {
	return MemoryDelta{
		AllocatedBytes: s.TotalAlloc - earlier.TotalAlloc,
		GCCycles:       s.NumGC - earlier.NumGC,
		GCPauseNs:      s.PauseTotalNs - earlier.PauseTotalNs,
	}
}
