package pipeline

import "sync/atomic"

// Stats accumulates the non-fatal, counted events of a run: phase-2 probes
// and Bloom hits, phase-3 lookups and candidate-map hits, phase-3 hits the
// verifier rejects, and the final accepted count. Bloom false positives
// that never reappear in phase 3 have no counter of their own. All fields are updated
// with atomics since phase 2 and phase 3 run many workers concurrently.
type Stats struct {
	Phase2Probes   uint64
	Phase2Hits     uint64
	Phase3Lookups  uint64
	Phase3Hits     uint64
	VerifierReject uint64
	Accepted       uint64
}

func (s *Stats) addPhase2Probe()   { atomic.AddUint64(&s.Phase2Probes, 1) }
func (s *Stats) addPhase2Hit()     { atomic.AddUint64(&s.Phase2Hits, 1) }
func (s *Stats) addPhase3Lookup()  { atomic.AddUint64(&s.Phase3Lookups, 1) }
func (s *Stats) addPhase3Hit()     { atomic.AddUint64(&s.Phase3Hits, 1) }
func (s *Stats) addVerifierReject() { atomic.AddUint64(&s.VerifierReject, 1) }
func (s *Stats) addAccepted()      { atomic.AddUint64(&s.Accepted, 1) }

// Snapshot returns a copy of the current counters, safe to read while the
// pipeline is still running.
func (s *Stats) Snapshot() Stats {
	return Stats{
		Phase2Probes:   atomic.LoadUint64(&s.Phase2Probes),
		Phase2Hits:     atomic.LoadUint64(&s.Phase2Hits),
		Phase3Lookups:  atomic.LoadUint64(&s.Phase3Lookups),
		Phase3Hits:     atomic.LoadUint64(&s.Phase3Hits),
		VerifierReject: atomic.LoadUint64(&s.VerifierReject),
		Accepted:       atomic.LoadUint64(&s.Accepted),
	}
}
