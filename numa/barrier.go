package numa

import "sync"

// Barrier is a cyclic rendezvous point for a fixed number of workers: every
// worker's call to Wait blocks until all n have called it, then all are
// released together. Unlike sync.WaitGroup, a Barrier can be reused for the
// next phase immediately after release (spec §4.G: phase transitions are
// barrier-synchronous and no phase is ever re-entered, but the same workers
// carry on into the next one).
type Barrier struct {
	mu      sync.Mutex
	cond    *sync.Cond
	n       int
	waiting int
	gen     uint64
}

// NewBarrier returns a Barrier for exactly n participants.
func NewBarrier(n int) *Barrier {
	b := &Barrier{n: n}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Wait blocks until all n participants have called Wait for the current
// generation, then returns for all of them at once.
func (b *Barrier) Wait() {
	b.mu.Lock()
	defer b.mu.Unlock()

	gen := b.gen
	b.waiting++
	if b.waiting == b.n {
		b.waiting = 0
		b.gen++
		b.cond.Broadcast()
		return
	}
	for gen == b.gen {
		b.cond.Wait()
	}
}
