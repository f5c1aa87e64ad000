// Package pipeline orchestrates the three barrier-synchronized phases of
// the Bleichenbacher fake-prime search (spec component [PIPELINE]): build
// per-node Bloom filters over half the residue set's subset products,
// merge them, probe with the other half, then recompute and confirm hits
// against a CandidateMap. It owns R, M, the filters, and the candidate
// map, and emits confirmed (mask1, mask2) pairs to a verifier.Verifier.
package pipeline

import (
	"fmt"

	"github.com/msprime/fakeprime64/modmul"
	"github.com/msprime/fakeprime64/numa"
	"github.com/msprime/fakeprime64/verifier"
)

// RunConfig holds every input the pipeline needs: the modulus, the
// residue set (spec.md §6 "Inputs"), Bloom sizing, and the external
// verifier. Worker and node counts default to the discovered topology if
// left zero, which is how production runs use it; tests set them
// explicitly to keep runs small and deterministic.
type RunConfig struct {
	M    uint64
	R    []uint64 // length must be even; split in half as R1 || R2
	Verifier verifier.Verifier

	BloomL     uint64 // bit length, must be a power of two
	BloomK     uint   // hash function count
	BloomSeed0 uint64
	BloomSeed1 uint64

	// Workers is the total worker goroutine count. 0 means use
	// topology.TotalCPU().
	Workers int
	// Topology overrides NUMA discovery, primarily for tests that want a
	// specific node/CPU shape without depending on the host's real one.
	Topology *numa.Topology
}

// Validate checks M is odd, R has even nonzero length, and every element
// of R is coprime to M, per spec.md §6 inputs and RunConfig's own
// contract. Production callers always pass len(R) == 64; the -demo path
// passes a smaller R, which Validate accepts since nothing here is
// specific to 64.
func (c RunConfig) Validate() error {
	if len(c.R) == 0 || len(c.R)%2 != 0 {
		return fmt.Errorf("pipeline: R must have even, nonzero length, got %d", len(c.R))
	}
	if c.M%2 == 0 {
		return fmt.Errorf("pipeline: M must be odd, got %d", c.M)
	}
	if c.BloomL == 0 || c.BloomL&(c.BloomL-1) != 0 {
		return fmt.Errorf("pipeline: BloomL must be a nonzero power of two, got %d", c.BloomL)
	}
	if c.Verifier == nil {
		return fmt.Errorf("pipeline: Verifier must not be nil")
	}
	for i, r := range c.R {
		if _, ok := modmul.Inverse(r, c.M); !ok {
			return fmt.Errorf("pipeline: R[%d] = %d is not coprime to M = %d", i, r, c.M)
		}
	}
	return nil
}

// resolve validates the configuration and returns the split halves and the
// effective topology/worker count.
func (c RunConfig) resolve() (r1, r2 []uint64, topo *numa.Topology, workers int, err error) {
	if err := c.Validate(); err != nil {
		return nil, nil, nil, 0, err
	}

	topo = c.Topology
	if topo == nil {
		topo, err = numa.Discover()
		if err != nil {
			return nil, nil, nil, 0, err
		}
	}

	workers = c.Workers
	if workers == 0 {
		workers = topo.TotalCPU()
	}
	if workers == 0 {
		workers = 1
	}

	half := len(c.R) / 2
	return c.R[:half], c.R[half:], topo, workers, nil
}
