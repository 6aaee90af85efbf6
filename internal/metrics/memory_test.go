package metrics

import "testing"

// allocSink keeps test allocations reachable so TotalAlloc must grow.
var allocSink []byte

func TestMemoryCollector_Snapshot(t *testing.T) {
	t.Parallel()

	mc := NewMemoryCollector()
	snap := mc.Snapshot()

	if snap.HeapAlloc == 0 {
		t.Error("HeapAlloc should be > 0")
	}
	if snap.Sys == 0 {
		t.Error("Sys should be > 0")
	}
	if snap.TotalAlloc == 0 {
		t.Error("TotalAlloc should be > 0")
	}
	if snap.Goroutines == 0 {
		t.Error("Goroutines should be > 0")
	}
}

func TestMemorySnapshot_DeltaSince(t *testing.T) {
	t.Parallel()

	mc := NewMemoryCollector()
	before := mc.Snapshot()

	allocSink = make([]byte, 1<<20)
	allocSink[0] = 1

	after := mc.Snapshot()
	delta := after.DeltaSince(before)

	if delta.AllocatedBytes < 1<<20 {
		t.Errorf("AllocatedBytes = %d, want at least %d", delta.AllocatedBytes, 1<<20)
	}
	// Sys is monotonic within a process
	if after.Sys < before.Sys {
		t.Error("Sys should not decrease between snapshots")
	}
}

func TestMemorySnapshot_DeltaSince_Self(t *testing.T) {
	t.Parallel()

	snap := NewMemoryCollector().Snapshot()
	delta := snap.DeltaSince(snap)

	if delta != (MemoryDelta{}) {
		t.Errorf("delta of a snapshot with itself = %+v, want zero", delta)
	}
}
