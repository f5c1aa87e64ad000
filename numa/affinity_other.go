//go:build !linux

package numa

import (
	"errors"
	"runtime"
)

func numCPU() int { return runtime.NumCPU() }

// Pin is a no-op outside Linux: CPU affinity pinning uses
// unix.SchedSetaffinity, which only exists on Linux. NumaExecutor still
// runs, just without a locality guarantee.
func Pin(cpus []int) error { return nil }

// CurrentAffinity is unavailable outside Linux.
func CurrentAffinity() ([]int, error) {
	return nil, errors.New("numa: CurrentAffinity requires linux")
}
