// Package bloom implements the fixed-size, concurrently-writable Bloom
// filter the pipeline uses to hold the ~2^32 subset products of one half of
// the residue set (spec component [BLOOM]). Insert is a wait-free,
// per-bit atomic OR; Contains is a lock-free read; Merge ORs two filters of
// identical shape together, which is how per-NUMA-node filters are
// combined after the parallel build phase.
package bloom

import (
	"math/bits"
	"sync/atomic"
)

const wordBits = 64

// Filter is a fixed-size bit array addressed by k independent hash
// positions per key. Seed0 and Seed1 are process-wide constants: every
// Filter that will be merged together must share them, or merging mixes
// memberships from unrelated hash spaces (spec §4.G "Edge cases").
type Filter struct {
	words []uint64 // backing store, len(words)*64 == L bits
	l     uint64   // L, total bits; must be a power of two
	k     uint     // number of hash positions per key
	seed0 uint64
	seed1 uint64
}

// New allocates a Filter with L bits (rounded up to a whole number of
// 64-bit words; L should already be a power of two, per spec §4.D sizing)
// and k hash functions, using seed0/seed1 to derive hash positions.
func New(l uint64, k uint, seed0, seed1 uint64) *Filter {
	words := make([]uint64, (l+wordBits-1)/wordBits)
	return WithBacking(words, l, k, seed0, seed1)
}

// WithBacking constructs a Filter over caller-provided, already-allocated
// storage, such as a slice from numa.AllocWords, rather than allocating its
// own. numa.AllocWords does not pin the pages to a node.
func WithBacking(words []uint64, l uint64, k uint, seed0, seed1 uint64) *Filter {
	if uint64(len(words))*wordBits < l {
		panic("bloom: backing store too small for L bits")
	}
	return &Filter{words: words, l: l, k: k, seed0: seed0, seed1: seed1}
}

// Len returns the filter's bit length L.
func (f *Filter) Len() uint64 { return f.l }

// NumHash returns k, the number of hash positions probed per key.
func (f *Filter) NumHash() uint { return f.k }

// positions mixes key into two 64-bit hashes and derives the k bit
// positions via Kirsch-Mitzenmacher double hashing: pos_i = (h1 + i*h2) mod
// L. L is a power of two, so the mod is a mask.
func (f *Filter) positions(key uint64, yield func(pos uint64)) {
	h1, h2 := mix(key, f.seed0, f.seed1)
	mask := f.l - 1
	for i := uint64(0); i < uint64(f.k); i++ {
		yield((h1 + i*h2) & mask)
	}
}

// mix derives two independent 64-bit hashes of key from a single 128-bit
// multiplication against the two seeds, then splits the product into its
// high and low halves (spec §4.D: "a single 128-bit mixing... extracted by
// splitting and masking").
func mix(key, seed0, seed1 uint64) (h1, h2 uint64) {
	x := key ^ seed0
	y := (key*0x9E3779B97F4A7C15 + seed1) // splitmix64-style odd constant
	hi, lo := bits.Mul64(x, y)
	h1 = lo ^ (hi >> 32)
	h2 = hi ^ (lo >> 32)
	if h2 == 0 {
		// A zero step would alias every probe onto the same bit; force a
		// nonzero multiplier without losing the 128-bit mixing above.
		h2 = seed1 | 1
	}
	return h1, h2
}

// Insert sets the k bit positions for key. Safe for concurrent use by many
// goroutines: each bit is set with an atomic OR on the containing word, so
// concurrent inserts to the same or different words never lose a bit.
func (f *Filter) Insert(key uint64) {
	f.positions(key, func(pos uint64) {
		atomicOr(&f.words[pos/wordBits], uint64(1)<<(pos%wordBits))
	})
}

// Contains reports whether key's k bit positions are all set. False means
// key was definitely never inserted. True means key was probably inserted,
// subject to the filter's false-positive rate. Only safe to call once
// concurrent Insert calls on this filter have stopped (spec: "single-thread
// contains").
func (f *Filter) Contains(key uint64) bool {
	all := true
	f.positions(key, func(pos uint64) {
		if f.words[pos/wordBits]&(uint64(1)<<(pos%wordBits)) == 0 {
			all = false
		}
	})
	return all
}

// Merge ORs other's bits into f in place. f and other must share identical
// (L, k, seeds); Merge panics otherwise, since a merge across differently
// seeded filters silently produces garbage membership (spec §4.G).
func (f *Filter) Merge(other *Filter) {
	if f.l != other.l || f.k != other.k || f.seed0 != other.seed0 || f.seed1 != other.seed1 {
		panic("bloom: cannot merge filters with different shape or seeds")
	}
	for i := range f.words {
		atomicOr(&f.words[i], atomic.LoadUint64(&other.words[i]))
	}
}

// MergeInto is the spec's merge_into(self, other) phrasing: it ORs src's
// bits into dst in place and returns dst.
func MergeInto(dst, src *Filter) *Filter {
	dst.Merge(src)
	return dst
}

// atomicOr sets the bits in mask on *addr using a compare-and-swap loop,
// giving a wait-free-in-the-uncontended-case atomic OR without requiring a
// newer-than-1.22 standard library bitwise atomic.
func atomicOr(addr *uint64, mask uint64) {
	for {
		old := atomic.LoadUint64(addr)
		if old&mask == mask {
			return
		}
		if atomic.CompareAndSwapUint64(addr, old, old|mask) {
			return
		}
	}
}

// PopCount returns the number of set bits, an approximation of how full the
// filter is; used for the fill-rate diagnostic the pipeline logs after
// phase 1.
func (f *Filter) PopCount() uint64 {
	var n uint64
	for _, w := range f.words {
		n += uint64(bits.OnesCount64(w))
	}
	return n
}
