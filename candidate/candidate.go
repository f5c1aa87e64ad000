// Package candidate implements CandidateMap (spec component [CANDIDATE]):
// a concurrent-safe map from a 64-bit subset product to the 32-bit R2 mask
// that produced it, populated during phase 2 and drained read-only during
// phase 3. The expected population is small (the target false-positive
// count), so the map is sharded by key hash into lock-striped buckets
// rather than optimized for raw throughput.
package candidate

import "sync"

const shardCount = 256

// Map is a sharded key->mask map safe for concurrent Insert calls from many
// workers during phase 2, and safe for concurrent Get calls (with no
// concurrent Insert) during phase 3.
type Map struct {
	shards [shardCount]shard
}

type shard struct {
	mu sync.Mutex
	m  map[uint64]uint32
}

// New returns an empty Map.
func New() *Map {
	c := &Map{}
	for i := range c.shards {
		c.shards[i].m = make(map[uint64]uint32)
	}
	return c
}

func (c *Map) shardFor(key uint64) *shard {
	return &c.shards[key%shardCount]
}

// InsertIfAbsent records mask for key, replacing any mask already recorded
// for it. Overwrite policy: the spec leaves the choice between
// retain-existing and overwrite open when two distinct masks collide on the
// same product; this implementation overwrites, so the last mask2 inserted
// for a product is the only one phase 3 pairs with each matching mask1
// (spec §4.E, §4.G edge cases).
func (c *Map) InsertIfAbsent(key uint64, mask uint32) {
	s := c.shardFor(key)
	s.mu.Lock()
	s.m[key] = mask
	s.mu.Unlock()
}

// Get returns the mask recorded for key, and whether one was found.
func (c *Map) Get(key uint64) (uint32, bool) {
	s := c.shardFor(key)
	s.mu.Lock()
	mask, ok := s.m[key]
	s.mu.Unlock()
	return mask, ok
}

// Len returns the total number of entries across all shards. Intended for
// diagnostics between phase 2 and phase 3, not for the critical path.
func (c *Map) Len() int {
	n := 0
	for i := range c.shards {
		c.shards[i].mu.Lock()
		n += len(c.shards[i].m)
		c.shards[i].mu.Unlock()
	}
	return n
}
