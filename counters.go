package loopprof

import (
	"fmt"
	"time"

	"acln.ro/perf"
)

// A Sampler provides grouped counter snapshots to the tracker. CounterGroup
// is the hardware implementation; tests substitute scripted samplers.
type Sampler interface {
	Enable() error
	Disable() error
	Close() error
	Sample() (Snapshot, error)
}

// A CounterGroup owns the perf event group measuring the calling thread:
// retired instructions plus L1D read and write misses, counted together so
// one read yields mutually consistent values. Kernel and hypervisor events
// are excluded. The group is opened disabled; Enable and Disable are each
// called once, at Init and Fini.
type CounterGroup struct {
	hw *perf.Event
}

// OpenCounterGroup opens the group on the calling thread. The caller must be
// locked to its OS thread for the counts to mean anything.
func OpenCounterGroup() (*CounterGroup, error) {
	var g perf.Group
	for i, ev := range groupEvents() {
		attr := &perf.Attr{
			CountFormat: perf.CountFormat{
				Enabled: true,
				Running: true,
			},
			Options: perf.Options{
				Disabled:          i == 0,
				ExcludeKernel:     true,
				ExcludeHypervisor: true,
			},
		}
		if err := ev.Configure(attr); err != nil {
			return nil, err
		}
		g.Add(attr)
	}

	hw, err := g.Open(perf.CallingThread, perf.AnyCPU)
	if err != nil {
		return nil, err
	}
	return &CounterGroup{hw: hw}, nil
}

func (g *CounterGroup) Enable() error {
	return g.hw.Enable()
}

func (g *CounterGroup) Disable() error {
	return g.hw.Disable()
}

func (g *CounterGroup) Close() error {
	return g.hw.Close()
}

// Sample reads the current grouped values without pausing counting. This is
// the hot path: one read(2) of fixed-size data. A short or failed read is
// reported rather than turned into a skewed statistic.
func (g *CounterGroup) Sample() (Snapshot, error) {
	gc, err := g.hw.ReadGroupCount()
	if err != nil {
		return Snapshot{}, err
	}
	if len(gc.Values) != numCounters {
		return Snapshot{}, fmt.Errorf("short group read: %d of %d counters", len(gc.Values), numCounters)
	}
	logMultiplex(gc.Enabled, gc.Running)
	return Snapshot{
		Instructions: gc.Values[counterInstructions].Value,
		ReadMisses:   gc.Values[counterReadMisses].Value,
		WriteMisses:  gc.Values[counterWriteMisses].Value,
	}, nil
}

// logMultiplex reports through the Logger when the kernel descheduled the
// group. Multiplexed counts distort the MPKI deltas, so a verbose run should
// surface it.
func logMultiplex(enabled, running time.Duration) {
	if enabled != running {
		Logger.Printf("group: multiplexing occured (enabled: %s, running %s)\n", enabled, running)
	}
}

// GroupAvailable reports whether the counter group can be opened on this
// system. Opening commonly fails due to the perf_event_paranoid setting or
// missing hardware counters (e.g. in VMs).
func GroupAvailable() bool {
	g, err := OpenCounterGroup()
	if err != nil {
		return false
	}
	g.Close()
	return true
}
