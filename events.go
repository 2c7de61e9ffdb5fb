package loopprof

import (
	"acln.ro/perf"
)

// Indices of the counters inside the group, in the order they are opened and
// read. The whole group is always read at once so the indices are stable.
const (
	counterInstructions = iota
	counterReadMisses
	counterWriteMisses
	numCounters
)

// cacheMissEvent configures an L1 data cache miss counter for a single cache
// operation (read or write).
type cacheMissEvent struct {
	op    perf.CacheOp
	label string
}

func (e cacheMissEvent) Configure(attr *perf.Attr) error {
	attr.Type = perf.HardwareCacheEvent
	attr.Config = uint64(perf.L1D) | uint64(e.op<<8) | uint64(perf.Miss<<16)
	attr.Label = e.label
	return nil
}

// groupEvents returns the three counters measured around every loop, in group
// order: retired instructions, L1D read misses, L1D write misses.
func groupEvents() []perf.Configurator {
	return []perf.Configurator{
		perf.Instructions,
		cacheMissEvent{op: perf.Read, label: "l1d-read-misses"},
		cacheMissEvent{op: perf.Write, label: "l1d-write-misses"},
	}
}
