package ssp

import (
	"math/rand"
	"testing"

	"github.com/msprime/fakeprime64/modmul"
)

func naiveSSP(h []uint64, mask uint32, m uint64) uint64 {
	p := uint64(1) % m
	for i := range h {
		if mask&(1<<uint(i)) != 0 {
			p = modmul.Mul(p, h[i], m)
		}
	}
	return p
}

func TestStreamMatchesNaiveProduct(t *testing.T) {
	const m uint64 = 97
	h := []uint64{2, 3, 5, 7, 11, 13, 17, 19}
	hInv := modmul.InverseTable(h, m)

	s := New(h, hInv, m)
	seen := make(map[uint32]bool)
	for {
		sample, ok := s.Next()
		if !ok {
			break
		}
		want := naiveSSP(h, sample.Mask, m)
		if sample.Product != want {
			t.Fatalf("mask %08b: product = %d, want %d", sample.Mask, sample.Product, want)
		}
		seen[sample.Mask] = true
	}
	if len(seen) != 1<<len(h) {
		t.Fatalf("visited %d masks, want %d", len(seen), 1<<len(h))
	}
}

func TestEmptyMaskIsIdentity(t *testing.T) {
	const m uint64 = 97
	h := []uint64{2, 3, 5, 7}
	hInv := modmul.InverseTable(h, m)
	s := New(h, hInv, m)
	sample, ok := s.Next()
	if !ok || sample.Mask != 0 || sample.Product != 1 {
		t.Fatalf("first sample = %+v, ok=%v, want mask=0 product=1", sample, ok)
	}
}

func TestRangeResumeMatchesFullRun(t *testing.T) {
	const m uint64 = 18446744073709551557
	rng := rand.New(rand.NewSource(3))
	h := make([]uint64, 12)
	for i := range h {
		h[i] = rng.Uint64()%(m-2) + 2
	}
	hInv := modmul.InverseTable(h, m)

	full := New(h, hInv, m)
	var fullSamples []Sample
	for {
		sample, ok := full.Next()
		if !ok {
			break
		}
		fullSamples = append(fullSamples, sample)
	}

	for _, start := range []uint64{0, 1, 100, 2000, uint64(len(fullSamples)) - 1} {
		r := NewRange(h, hInv, m, start)
		for i := start; i < uint64(len(fullSamples)); i++ {
			sample, ok := r.Next()
			if !ok {
				t.Fatalf("resumed stream exhausted early at %d", i)
			}
			if sample != fullSamples[i] {
				t.Fatalf("resume(%d) step %d = %+v, want %+v", start, i, sample, fullSamples[i])
			}
		}
	}
}

// TestRecomputationEquality exercises P7/scenario 6: phase 1 and phase 3
// both walk R1's masks independently; their product sequences over
// identical ranges must be bit-for-bit equal.
func TestRecomputationEquality(t *testing.T) {
	const m uint64 = 97
	r1 := []uint64{2, 3, 5, 7}
	r1Inv := modmul.InverseTable(r1, m)

	phase1 := New(r1, r1Inv, m)
	phase3 := New(r1, r1Inv, m)
	for {
		a, okA := phase1.Next()
		b, okB := phase3.Next()
		if okA != okB {
			t.Fatal("phase1/phase3 streams disagree on length")
		}
		if !okA {
			break
		}
		if a != b {
			t.Fatalf("phase1 %+v != phase3 %+v", a, b)
		}
	}
}
