// Package verifier supplies a concrete instance of the pipeline's external
// collaborator (spec.md §9: "construction of the final composite from a
// subset product is paper material, not core material... left to the
// external verifier"). It implements a deterministic Miller-Rabin check
// against the fixed base set B and a Subset helper that recovers the
// chosen residues from a confirmed (mask1, mask2) hit, so the pipeline is
// exercisable end to end without coupling its core to any one verifier
// implementation.
package verifier

import "github.com/msprime/fakeprime64/modmul"

// BaseSet is the fixed Miller-Rabin base set B from spec.md §1: {2, 3, 5,
// 7, 11, 13, 17, 19, 23, 29, 31, 37, 41}.
var BaseSet = []uint64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41}

// Verifier decides whether a pipeline hit is accepted. The pipeline core
// depends only on this interface, never on a concrete implementation,
// keeping the hot path decoupled from verification policy.
type Verifier interface {
	// Accept reports whether the subset represented by (mask1, mask2)
	// should be counted as a real hit, given the half residue sets it was
	// drawn from and the modulus they were computed under.
	Accept(r1, r2Inv []uint64, mask1, mask2 uint32, m uint64) bool
}

// MillerRabin is a reference Verifier: it rejects the trivial empty-subset
// solution (spec §4.G edge cases) and otherwise accepts any hit whose
// recombined product is congruent to 1 mod m, which is the collision
// condition the pipeline searches for. Accept does not run Miller-Rabin;
// IsProbablePrime runs it on a caller-supplied n, and this package does not
// build a composite from the chosen subset.
type MillerRabin struct {
	Bases []uint64
}

// NewMillerRabin returns a MillerRabin verifier using BaseSet.
func NewMillerRabin() *MillerRabin {
	return &MillerRabin{Bases: BaseSet}
}

// Accept implements Verifier. It rejects the trivial all-empty subset,
// recomputes the collision product directly (independent of the pipeline's
// own recomputation in phase 3) and accepts iff it is 1 mod m.
func (v *MillerRabin) Accept(r1, r2Inv []uint64, mask1, mask2 uint32, m uint64) bool {
	if mask1 == 0 && mask2 == 0 {
		return false
	}
	p1 := product(r1, mask1, m)
	p2 := product(r2Inv, mask2, m)
	return modmul.Mul(p1, p2, m) == 1%m
}

func product(h []uint64, mask uint32, m uint64) uint64 {
	p := uint64(1) % m
	for i := 0; i < len(h); i++ {
		if mask&(1<<uint(i)) != 0 {
			p = modmul.Mul(p, h[i], m)
		}
	}
	return p
}

// IsProbablePrime runs deterministic Miller-Rabin on n against v.Bases,
// reporting true for any composite that passes for all bases tried (a
// "fake prime" relative to this base set) exactly as it does for a
// genuine prime — the test cannot distinguish a Bleichenbacher
// construction from a real prime, which is the entire point of the search.
func (v *MillerRabin) IsProbablePrime(n uint64) bool {
	if n < 2 {
		return false
	}
	for _, a := range v.Bases {
		if n == a {
			return true
		}
		if n%a == 0 {
			return false
		}
	}
	d := n - 1
	r := 0
	for d%2 == 0 {
		d /= 2
		r++
	}
	for _, a := range v.Bases {
		if !millerRabinRound(n, a, d, r) {
			return false
		}
	}
	return true
}

func millerRabinRound(n, a uint64, d uint64, r int) bool {
	x := modmul.Pow(a%n, d, n)
	if x == 1 || x == n-1 {
		return true
	}
	for i := 0; i < r-1; i++ {
		x = modmul.Mul(x, x, n)
		if x == n-1 {
			return true
		}
	}
	return false
}
