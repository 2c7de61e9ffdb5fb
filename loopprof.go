// Package loopprof measures per-loop cache miss rates (misses per thousand
// instructions) using hardware performance counters. It is linked into an
// instrumented program whose loop bodies have been augmented with calls to
// Enter and Exit; Init and Fini bracket the program's own lifetime. When the
// program ends, a binary profile with one aggregate per loop call-site is
// written to $PROFILE_OUTPUT, or <program-name>.prof if unset.
//
// The instrumented program must be single-threaded: the package keeps one
// global tracker with no synchronization, and the counter group measures the
// thread Init ran on.
//
// Failures are never recovered: unopenable counters, short counter reads and
// mismatched entry/exit pairs all terminate the process with a one-line
// diagnostic on stderr, since continuing would silently produce wrong
// numbers.
package loopprof

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

var tracker *Tracker

func fatal(a ...interface{}) {
	fmt.Fprintln(os.Stderr, a...)
	os.Exit(1)
}

// Init opens and enables the counter group, captures the relocation offset
// and constructs the empty call-site registry. It must run before any
// instrumented loop executes, which in practice means at the very top of the
// program's entry point. Init locks the calling goroutine to its OS thread;
// all hooks must run on that thread.
func Init() {
	if tracker != nil {
		fatal("loopprof: Init called twice")
	}
	runtime.LockOSThread()

	reloc, err := Relocation()
	if err != nil {
		fatal("loopprof: relocation:", err)
	}

	counters, err := OpenCounterGroup()
	if err != nil {
		fatal("loopprof: opening counters:", err)
	}
	if err := counters.Enable(); err != nil {
		fatal("loopprof: enabling counters:", err)
	}

	tracker = NewTracker(counters, reloc)
}

// Enter is the loop entry hook. It identifies the call-site by the caller's
// PC and returns it as the token to pass to Exit when the loop completes.
// The noinline directive keeps the caller's frame distinct so the PC always
// identifies the instrumented loop itself.
//
//go:noinline
func Enter() CallSite {
	if tracker == nil {
		fatal("loopprof: Enter before Init")
	}
	var pcs [1]uintptr
	if runtime.Callers(2, pcs[:]) == 0 {
		fatal("loopprof: cannot resolve call-site")
	}
	site := CallSite(pcs[0])
	if err := tracker.Enter(site); err != nil {
		fatal("loopprof:", err)
	}
	return site
}

// Exit is the loop exit hook, taking the token returned by the matching
// Enter.
func Exit(site CallSite) {
	if tracker == nil {
		fatal("loopprof: Exit before Init")
	}
	if err := tracker.Exit(site); err != nil {
		fatal("loopprof:", err)
	}
}

// Fini disables the counters, checks that every entry had a matching exit
// and writes the profile. It must run exactly once, after the last
// instrumented loop; it is not run on abnormal termination.
func Fini() {
	if tracker == nil {
		fatal("loopprof: Fini without a matching Init")
	}

	if err := tracker.counters.Disable(); err != nil {
		fatal("loopprof: disabling counters:", err)
	}
	if err := tracker.counters.Close(); err != nil {
		fatal("loopprof: closing counters:", err)
	}

	prof, err := tracker.Finish()
	if err != nil {
		fatal("loopprof:", err)
	}

	path := OutputPath()
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		fatal("loopprof: opening output file:", err)
	}
	if err := prof.EncodeTo(f); err != nil {
		fatal("loopprof: writing", path+":", err)
	}
	if err := f.Close(); err != nil {
		fatal("loopprof: closing", path+":", err)
	}

	tracker = nil
}

// OutputPath returns the profile destination: $PROFILE_OUTPUT if set,
// otherwise the program's own name with a .prof suffix, in the working
// directory. An empty PROFILE_OUTPUT counts as unset rather than as an empty
// file name.
func OutputPath() string {
	if path := os.Getenv("PROFILE_OUTPUT"); path != "" {
		return path
	}
	return filepath.Base(os.Args[0]) + ".prof"
}
