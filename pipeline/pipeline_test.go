package pipeline

import (
	"sort"
	"testing"

	"github.com/msprime/fakeprime64/modmul"
	"github.com/msprime/fakeprime64/numa"
	"github.com/msprime/fakeprime64/verifier"
	"github.com/stretchr/testify/require"
)

// bruteForce computes every non-trivial (mask1, mask2) pair satisfying the
// collision condition by exhaustive search, independent of the pipeline,
// for comparison against Run's output (spec.md §8 scenario 1).
func bruteForce(r1, r2 []uint64, m uint64) map[[2]uint32]bool {
	r2Inv := modmul.InverseTable(r2, m)
	want := make(map[[2]uint32]bool)
	for mask1 := uint32(0); mask1 < 1<<len(r1); mask1++ {
		p1 := uint64(1) % m
		for i := 0; i < len(r1); i++ {
			if mask1&(1<<uint(i)) != 0 {
				p1 = modmul.Mul(p1, r1[i], m)
			}
		}
		for mask2 := uint32(0); mask2 < 1<<len(r2); mask2++ {
			if mask1 == 0 && mask2 == 0 {
				continue
			}
			p2 := uint64(1) % m
			for i := 0; i < len(r2); i++ {
				if mask2&(1<<uint(i)) != 0 {
					p2 = modmul.Mul(p2, r2Inv[i], m)
				}
			}
			if modmul.Mul(p1, p2, m) == 1%m {
				want[[2]uint32{mask1, mask2}] = true
			}
		}
	}
	return want
}

func testConfig() RunConfig {
	return RunConfig{
		M:          97,
		R:          []uint64{2, 3, 5, 7, 11, 13, 17, 19},
		Verifier:   verifier.NewMillerRabin(),
		BloomL:     1 << 16,
		BloomK:     5,
		BloomSeed0: 0x9E3779B97F4A7C15,
		BloomSeed1: 0xBF58476D1CE4E5B9,
		Workers:    4,
		Topology:   &numa.Topology{Nodes: []numa.Node{{ID: 0, CPU: []int{0, 1}}, {ID: 1, CPU: []int{2, 3}}}},
	}
}

// TestEndToEndScaledScenario is spec.md §8 scenario 1 / P6: the pipeline's
// accepted hits must be exactly the brute-force-computed true collisions.
func TestEndToEndScaledScenario(t *testing.T) {
	cfg := testConfig()
	result, err := Run(cfg)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	want := bruteForce(cfg.R[:4], cfg.R[4:], cfg.M)
	got := make(map[[2]uint32]bool)
	for _, h := range result.Hits {
		got[[2]uint32{h.Mask1, h.Mask2}] = true
	}

	if len(got) != len(want) {
		t.Fatalf("Run found %d hits, brute force found %d", len(got), len(want))
	}
	for pair := range want {
		if !got[pair] {
			t.Fatalf("brute force pair %v missing from Run's accepted hits", pair)
		}
	}
	for pair := range got {
		if !want[pair] {
			t.Fatalf("Run accepted pair %v not found by brute force", pair)
		}
	}
}

// TestDeterminism is P7: two runs with identical inputs must produce
// identical sets of emitted pairs.
func TestDeterminism(t *testing.T) {
	cfg := testConfig()
	r1, err := Run(cfg)
	if err != nil {
		t.Fatalf("first Run returned error: %v", err)
	}
	r2, err := Run(cfg)
	if err != nil {
		t.Fatalf("second Run returned error: %v", err)
	}

	norm := func(hits []Hit) []Hit {
		out := append([]Hit(nil), hits...)
		sort.Slice(out, func(i, j int) bool {
			if out[i].Mask1 != out[j].Mask1 {
				return out[i].Mask1 < out[j].Mask1
			}
			return out[i].Mask2 < out[j].Mask2
		})
		return out
	}

	a, b := norm(r1.Hits), norm(r2.Hits)
	if len(a) != len(b) {
		t.Fatalf("run 1 found %d hits, run 2 found %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("run 1 hit %d = %+v, run 2 hit %d = %+v", i, a[i], i, b[i])
		}
	}
}

func TestRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.M = 98 // even
	_, err := Run(cfg)
	require.Error(t, err)

	cfg2 := testConfig()
	cfg2.BloomL = 100 // not a power of two
	_, err = Run(cfg2)
	require.Error(t, err)
}
