package verifier

import "testing"

func TestAcceptRejectsEmptySubset(t *testing.T) {
	v := NewMillerRabin()
	r1 := []uint64{2, 3, 5, 7}
	r2Inv := []uint64{11, 13, 17, 19}
	if v.Accept(r1, r2Inv, 0, 0, 97) {
		t.Fatal("Accept must reject the trivial empty-mask solution")
	}
}

// TestAcceptMatchesKnownCollision reproduces spec.md §8 scenario 1's
// M=97, R split 4+4 case: find one (mask1, mask2) pair whose recombined
// product is 1 mod 97 and check Accept agrees.
func TestAcceptMatchesKnownCollision(t *testing.T) {
	const m = 97
	r1 := []uint64{2, 3, 5, 7}
	r2 := []uint64{11, 13, 17, 19}
	r2Inv := make([]uint64, len(r2))
	for i, r := range r2 {
		inv := uint64(1)
		for e := uint64(0); e < m-2; e++ {
			inv = (inv * r) % m
		}
		r2Inv[i] = inv
	}

	v := NewMillerRabin()
	found := false
	for mask1 := uint32(0); mask1 < 16; mask1++ {
		for mask2 := uint32(0); mask2 < 16; mask2++ {
			if mask1 == 0 && mask2 == 0 {
				continue
			}
			if v.Accept(r1, r2Inv, mask1, mask2, m) {
				found = true
				subset := Subset(r1, r2, mask1, mask2)
				if len(subset) == 0 {
					t.Fatal("accepted hit has empty subset")
				}
			}
		}
	}
	if !found {
		t.Fatal("expected at least one non-trivial collision for this R, M")
	}
}

func TestIsProbablePrimeKnownValues(t *testing.T) {
	v := NewMillerRabin()
	primes := []uint64{2, 3, 5, 7, 97, 7919, 104729}
	for _, p := range primes {
		if !v.IsProbablePrime(p) {
			t.Errorf("IsProbablePrime(%d) = false, want true", p)
		}
	}
	composites := []uint64{4, 6, 8, 9, 100, 9999, 1000000}
	for _, c := range composites {
		if v.IsProbablePrime(c) {
			t.Errorf("IsProbablePrime(%d) = true, want false", c)
		}
	}
}

func TestSubsetRecoversResidues(t *testing.T) {
	r1 := []uint64{2, 3, 5, 7}
	r2 := []uint64{11, 13, 17, 19}
	// mask1 = 0b0101 selects r1[0], r1[2] = {2, 5}
	// mask2 = 0b0110 excludes (bit clear selects) r2[0], r2[3] = {11, 19}
	got := Subset(r1, r2, 0b0101, 0b0110)
	want := []uint64{2, 5, 11, 19}
	if len(got) != len(want) {
		t.Fatalf("Subset = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Subset = %v, want %v", got, want)
		}
	}
}
