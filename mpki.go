package loopprof

// A Snapshot holds the raw values of the counter group at a single point in
// time. The three counters are read together as one group, so the values are
// mutually consistent.
type Snapshot struct {
	Instructions uint64
	ReadMisses   uint64
	WriteMisses  uint64
}

// A Sample is the cache miss rate of one completed loop invocation, in misses
// per thousand instructions.
type Sample struct {
	ReadMPKI  float64
	WriteMPKI float64
}

// deltaMPKI converts the counter deltas between two snapshots into an MPKI
// sample. If no instructions were retired between the snapshots the division
// follows IEEE semantics: +Inf when misses were observed, NaN otherwise. The
// degenerate values flow through aggregation and serialization unchanged.
func deltaMPKI(prev, cur Snapshot) Sample {
	kilo := float64(cur.Instructions-prev.Instructions) / 1000.0
	return Sample{
		ReadMPKI:  float64(cur.ReadMisses-prev.ReadMisses) / kilo,
		WriteMPKI: float64(cur.WriteMisses-prev.WriteMisses) / kilo,
	}
}

// combine blends a new sample 50/50 with the running aggregate, so recent
// invocations weigh more than earlier ones. This is not a running mean.
// Downstream analysis tooling expects exactly this rule; do not change it to
// a cumulative average.
func combine(agg, next Sample) Sample {
	return Sample{
		ReadMPKI:  (agg.ReadMPKI + next.ReadMPKI) / 2,
		WriteMPKI: (agg.WriteMPKI + next.WriteMPKI) / 2,
	}
}
