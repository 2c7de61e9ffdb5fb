package loopprof

import (
	"fmt"
	"sort"
)

// A Tracker is the counter-tracking engine: it accounts counter deltas to
// call-sites as entry/exit hooks fire and builds the final profile. The
// tracker performs no locking; the instrumented program must be
// single-threaded, and the hooks must run on the thread the counter group
// was opened on.
type Tracker struct {
	counters Sampler
	sites    registry
	reloc    uint64
}

func NewTracker(counters Sampler, reloc uint64) *Tracker {
	return &Tracker{
		counters: counters,
		sites:    make(registry),
		reloc:    reloc,
	}
}

// Enter records a loop entry for the given call-site: the current counter
// values are pushed as the pending snapshot of this invocation. Recursive
// entries of the same call-site stack.
func (t *Tracker) Enter(key CallSite) error {
	st := t.sites.resolveOrCreate(key)
	snap, err := t.counters.Sample()
	if err != nil {
		return fmt.Errorf("loop entry at %#x: %w", uintptr(key), err)
	}
	st.push(snap)
	return nil
}

// Exit records the matching loop exit: the most recently pushed snapshot for
// this call-site is popped and the counter deltas since then are folded into
// the call-site's aggregate. The deltas include any nested instrumented
// loops that ran in between. An exit with no pending entry is a protocol
// violation by the instrumentation tool.
func (t *Tracker) Exit(key CallSite) error {
	cur, err := t.counters.Sample()
	if err != nil {
		return fmt.Errorf("loop exit at %#x: %w", uintptr(key), err)
	}
	st, ok := t.sites[key]
	if !ok {
		return fmt.Errorf("loop exit at %#x without a matching entry", uintptr(key))
	}
	prev, ok := st.pop()
	if !ok {
		return fmt.Errorf("loop exit at %#x: invocation stack is empty", uintptr(key))
	}
	st.fold(deltaMPKI(prev, cur))
	return nil
}

// Finish verifies that every invocation stack has drained and builds the
// final profile. Call-sites that never completed an invocation are omitted.
// Records are emitted in ascending address order so the output is
// deterministic.
func (t *Tracker) Finish() (*Profile, error) {
	for key, st := range t.sites {
		if len(st.stack) != 0 {
			return nil, fmt.Errorf("loop at %#x has %d unmatched entries", uintptr(key), len(st.stack))
		}
	}

	prof := &Profile{Reloc: t.reloc}
	for key, st := range t.sites {
		if st.agg == nil {
			continue
		}
		prof.Records = append(prof.Records, Record{
			Addr:      uint64(key),
			ReadMPKI:  st.agg.ReadMPKI,
			WriteMPKI: st.agg.WriteMPKI,
		})
	}
	sort.Slice(prof.Records, func(i, j int) bool {
		return prof.Records[i].Addr < prof.Records[j].Addr
	})
	return prof, nil
}
