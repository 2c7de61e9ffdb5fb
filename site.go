package loopprof

// A CallSite identifies one static loop by the PC of the call into the entry
// hook. It is an opaque key: stable for the life of the process, compared
// only for equality.
type CallSite uintptr

// siteState is the per-call-site bookkeeping: one pending snapshot per active
// (possibly recursive) invocation, plus the running aggregate over all
// completed invocations. The aggregate is nil until the first invocation
// completes.
type siteState struct {
	stack []Snapshot
	agg   *Sample
}

func (s *siteState) push(snap Snapshot) {
	s.stack = append(s.stack, snap)
}

// pop removes and returns the most recent pending snapshot. The second return
// is false on underflow, which indicates an exit hook with no matching entry.
func (s *siteState) pop() (Snapshot, bool) {
	if len(s.stack) == 0 {
		return Snapshot{}, false
	}
	snap := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	return snap, true
}

// fold records one completed invocation.
func (s *siteState) fold(sample Sample) {
	if s.agg == nil {
		s.agg = &sample
		return
	}
	c := combine(*s.agg, sample)
	s.agg = &c
}

// registry maps call-sites to their state. States are created lazily on first
// encounter and never removed; the registry is the sole owner.
type registry map[CallSite]*siteState

func (r registry) resolveOrCreate(key CallSite) *siteState {
	if st, ok := r[key]; ok {
		return st
	}
	st := &siteState{}
	r[key] = st
	return st
}
