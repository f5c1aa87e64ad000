//go:build linux

package numa

import (
	"runtime"

	"golang.org/x/sys/unix"
)

func numCPU() int { return runtime.NumCPU() }

// Pin confines the calling goroutine's current OS thread to the given CPU
// IDs for its remaining lifetime. Callers must have already called
// runtime.LockOSThread, since Go may otherwise migrate the goroutine to an
// unpinned thread between Pin and the work it guards.
func Pin(cpus []int) error {
	var set unix.CPUSet
	set.Zero()
	for _, c := range cpus {
		set.Set(c)
	}
	return unix.SchedSetaffinity(0, &set)
}

// CurrentAffinity reports the CPU set the calling thread is currently
// restricted to, for diagnostics.
func CurrentAffinity() ([]int, error) {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err != nil {
		return nil, err
	}
	var cpus []int
	for c := 0; c < 1024; c++ {
		if set.IsSet(c) {
			cpus = append(cpus, c)
		}
	}
	return cpus, nil
}
