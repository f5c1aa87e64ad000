// Package ssp implements SubsetProductStream (spec component [SSP]), which
// composes modmul and gray to produce the sequence of subset products
// SSP(H, mask) = product of H[i] for every bit i set in mask, mod M, for
// every mask in a half's Gray-code order. Each step costs exactly one
// modular multiplication regardless of popcount(mask), which is the whole
// point of walking the masks in Gray-code rather than natural order.
package ssp

import (
	"github.com/msprime/fakeprime64/gray"
	"github.com/msprime/fakeprime64/modmul"
)

// Sample is one (mask, product) pair yielded by a Stream.
type Sample struct {
	Mask    uint32
	Product uint64
}

// Stream lazily yields subset products over one half H of the residue set,
// for a given modulus M. HInv must hold H[i]^-1 mod M for every i; it is
// precomputed once per half by modmul.InverseTable and shared across every
// worker's Stream over that half.
type Stream struct {
	h    []uint64
	hInv []uint64
	m    uint64
	gen  *gray.Enumerator
	prod uint64
}

// New starts a Stream over the full 2^len(h) mask range.
func New(h, hInv []uint64, m uint64) *Stream {
	return NewRange(h, hInv, m, 0)
}

// NewRange starts a Stream at Gray-sequence step start, with the product
// for that step computed directly (O(popcount(mask)) multiplications)
// rather than by replaying every prior step. This is how the orchestrator
// hands each worker a disjoint, contiguous slice of the 2^k mask space:
// it calls NewRange once per worker with that worker's starting index.
func NewRange(h, hInv []uint64, m uint64, start uint64) *Stream {
	if len(h) != len(hInv) {
		panic("ssp: H and H^-1 tables have different lengths")
	}
	k := uint8(len(h))
	gen := gray.Resume(k, start)

	var mask uint32
	if start > 0 {
		mask = uint32(start-1) ^ uint32((start-1)>>1)
	}

	return &Stream{
		h:    h,
		hInv: hInv,
		m:    m,
		gen:  gen,
		prod: naiveProduct(h, mask, m),
	}
}

// naiveProduct computes SSP(H, mask) directly, one multiplication per set
// bit. Used only to seed a resumed Stream's starting product.
func naiveProduct(h []uint64, mask uint32, m uint64) uint64 {
	p := uint64(1) % m
	for i := 0; i < len(h); i++ {
		if mask&(1<<uint(i)) != 0 {
			p = modmul.Mul(p, h[i], m)
		}
	}
	return p
}

// Next advances the stream and returns the next (mask, product) sample. ok
// is false once every mask in this stream's range has been visited.
func (s *Stream) Next() (Sample, bool) {
	ev, ok := s.gen.Next()
	if !ok {
		return Sample{}, false
	}

	if ev.Mask == 0 {
		// The Gray enumerator's very first event reaches mask 0 without a
		// real flip (see trailingZeros32 in package gray); SSP(H, 0) = 1 by
		// definition.
		s.prod = uint64(1) % s.m
		return Sample{Mask: ev.Mask, Product: s.prod}, true
	}

	if ev.Include {
		s.prod = modmul.Mul(s.prod, s.h[ev.Bit], s.m)
	} else {
		s.prod = modmul.Mul(s.prod, s.hInv[ev.Bit], s.m)
	}

	return Sample{Mask: ev.Mask, Product: s.prod}, true
}

// Len returns the total number of samples a fresh Stream over this half
// would yield, 2^len(H).
func (s *Stream) Len() uint64 {
	return s.gen.Len()
}
