package main

import (
	"fmt"
	"io/ioutil"
	"strconv"
	"strings"

	"github.com/blang/semver"
	"github.com/maxxing/loopprof"
	"golang.org/x/sys/unix"
)

// perf_event_open appeared in 2.6.31.
var minKernel = semver.MustParse("2.6.31")

const paranoidFile = "/proc/sys/kernel/perf_event_paranoid"

// checkSystem verifies that an instrumented binary would be able to profile
// on this machine: a recent enough kernel, a usable perf_event_paranoid
// setting and an openable counter group.
func checkSystem() error {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return fmt.Errorf("uname: %w", err)
	}
	release := unix.ByteSliceToString(uts.Release[:])
	// strip distro decorations like "-91-generic"
	if i := strings.IndexByte(release, '-'); i >= 0 {
		release = release[:i]
	}
	kernel, err := semver.ParseTolerant(release)
	if err != nil {
		return fmt.Errorf("cannot parse kernel release %q: %w", release, err)
	}
	if kernel.LT(minKernel) {
		return fmt.Errorf("kernel %s has no perf_event support (need >= %s)", kernel, minKernel)
	}
	fmt.Printf("kernel %s: ok\n", kernel)

	if data, err := ioutil.ReadFile(paranoidFile); err == nil {
		level, err := strconv.Atoi(strings.TrimSpace(string(data)))
		if err == nil && level > 2 {
			return fmt.Errorf("perf_event_paranoid is %d; try `sudo sh -c 'echo 2 >%s'`", level, paranoidFile)
		}
		fmt.Printf("perf_event_paranoid %d: ok\n", level)
	}

	if !loopprof.GroupAvailable() {
		return fmt.Errorf("cannot open the instructions + L1D miss counter group (missing hardware counters?)")
	}
	fmt.Println("counter group: ok")
	return nil
}
