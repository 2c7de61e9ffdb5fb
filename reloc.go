package loopprof

import (
	"os"

	"github.com/maxxing/loopprof/bininfo"
)

// Relocation returns the load bias of the current process's executable: the
// difference between runtime and link-time addresses. For position-dependent
// executables it is zero. The profile records runtime PCs, so the offset is
// captured once at Init and stored in the profile header for the symbolizer.
func Relocation() (uint64, error) {
	f, err := os.Open("/proc/self/exe")
	if err != nil {
		return 0, err
	}
	defer f.Close()

	bin, err := bininfo.Read(f)
	if err != nil {
		return 0, err
	}
	return bin.PieOffset(os.Getpid())
}
