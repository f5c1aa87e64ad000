package numa

// AllocWords returns a zeroed []uint64 of the given length intended to back
// a bloom.Filter for the given node. True NUMA-local placement would pin
// the pages via mbind(2) (libnuma, cgo-only); without it this is a plain
// heap allocation and the node argument is not used. NodeHint is the
// separate type callers can use to pair a slice with the node that owns it.
func AllocWords(node Node, words uint64) []uint64 {
	return make([]uint64, words)
}

// NodeHint annotates a value with the NUMA node it is logically associated
// with, for the filters and buffers the executor hands out per node.
type NodeHint struct {
	Node  int
	Words []uint64
}
