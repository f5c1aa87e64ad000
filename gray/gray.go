// Package gray implements a binary-reflected Gray code enumerator over the
// 2^k subsets of a k-element sequence (spec component [GRAY]). Consecutive
// masks differ by exactly one bit, which lets SubsetProductStream amortize
// each subset's product to a single multiplication.
package gray

// Event is one step of the enumeration: the mask reached after the step,
// the index of the bit that flipped to reach it, and whether that bit was
// set (Include) or cleared (Exclude).
type Event struct {
	Mask    uint32
	Bit     uint8
	Include bool
}

// Enumerator walks the binary-reflected Gray code over k bits, k <= 32.
// The zero value is not usable; construct with New or Resume.
type Enumerator struct {
	k     uint8
	i     uint64 // next step index in [0, 2^k]
	limit uint64 // 2^k
	mask  uint32 // mask after step i-1 (current mask)
}

// New returns an Enumerator that starts at mask 0 and visits all 2^k masks.
func New(k uint8) *Enumerator {
	return Resume(k, 0)
}

// Resume returns an Enumerator that continues the same Gray sequence New(k)
// would produce, but starting from step index i (0 <= i <= 2^k). The
// caller is responsible for knowing the mask at step i-1 matches
// standard Gray-code order; Resume recomputes it directly rather than
// replaying every prior step, since mask(i) = i ^ (i >> 1).
func Resume(k uint8, i uint64) *Enumerator {
	if k > 32 {
		panic("gray: k must be <= 32")
	}
	limit := uint64(1) << k
	var mask uint32
	if i > 0 {
		mask = grayCode(i - 1)
	}
	return &Enumerator{k: k, i: i, limit: limit, mask: mask}
}

// grayCode returns the binary-reflected Gray code of i.
func grayCode(i uint64) uint32 {
	return uint32(i ^ (i >> 1))
}

// Len returns 2^k, the total number of masks this Enumerator will produce
// from a fresh New/Resume(k, 0).
func (e *Enumerator) Len() uint64 {
	return e.limit
}

// Next advances the enumerator and reports the next event. ok is false once
// every mask in [0, 2^k) has been visited.
func (e *Enumerator) Next() (ev Event, ok bool) {
	if e.i >= e.limit {
		return Event{}, false
	}

	next := grayCode(e.i)
	diff := next ^ e.mask
	bit := uint8(trailingZeros32(diff))

	ev = Event{
		Mask:    next,
		Bit:     bit,
		Include: next&(1<<bit) != 0,
	}

	e.mask = next
	e.i++
	return ev, true
}

func trailingZeros32(x uint32) int {
	if x == 0 {
		// Only reachable on the very first call (e.i == 0), where
		// diff = grayCode(0) ^ 0 = 0; the resulting Event{Mask:0, Bit:0,
		// Include:false} is the vacuous first step ssp.Stream special-cases.
		return 0
	}
	n := 0
	for x&1 == 0 {
		x >>= 1
		n++
	}
	return n
}
