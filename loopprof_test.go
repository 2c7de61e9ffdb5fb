package loopprof

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOutputPath(t *testing.T) {
	old, hadOld := os.LookupEnv("PROFILE_OUTPUT")
	defer func() {
		if hadOld {
			os.Setenv("PROFILE_OUTPUT", old)
		} else {
			os.Unsetenv("PROFILE_OUTPUT")
		}
	}()

	os.Setenv("PROFILE_OUTPUT", "/tmp/run1.prof")
	if got := OutputPath(); got != "/tmp/run1.prof" {
		t.Errorf("got %q, want /tmp/run1.prof", got)
	}

	// empty counts as unset
	deflt := filepath.Base(os.Args[0]) + ".prof"
	os.Setenv("PROFILE_OUTPUT", "")
	if got := OutputPath(); got != deflt {
		t.Errorf("empty PROFILE_OUTPUT: got %q, want %q", got, deflt)
	}

	os.Unsetenv("PROFILE_OUTPUT")
	if got := OutputPath(); got != deflt {
		t.Errorf("unset PROFILE_OUTPUT: got %q, want %q", got, deflt)
	}
}
