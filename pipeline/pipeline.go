package pipeline

import (
	"log"
	"sync"

	"github.com/msprime/fakeprime64/bloom"
	"github.com/msprime/fakeprime64/candidate"
	"github.com/msprime/fakeprime64/modmul"
	"github.com/msprime/fakeprime64/numa"
	"github.com/msprime/fakeprime64/ssp"
)

// Phase names the pipeline's state machine steps, spec.md §4.G:
//
//	INIT -> PHASE1_BUILD -> PHASE1_MERGE -> PHASE2_PROBE -> PHASE3_CONFIRM -> DONE
type Phase int

const (
	Init Phase = iota
	Phase1Build
	Phase1Merge
	Phase2Probe
	Phase3Confirm
	Done
)

func (p Phase) String() string {
	switch p {
	case Init:
		return "INIT"
	case Phase1Build:
		return "PHASE1_BUILD"
	case Phase1Merge:
		return "PHASE1_MERGE"
	case Phase2Probe:
		return "PHASE2_PROBE"
	case Phase3Confirm:
		return "PHASE3_CONFIRM"
	case Done:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

// Hit is a confirmed (mask1, mask2) pair the verifier accepted.
type Hit struct {
	Mask1 uint32
	Mask2 uint32
}

// Result is what Run returns once the pipeline reaches DONE: every
// accepted hit and the run's counted statistics.
type Result struct {
	Hits  []Hit
	Stats Stats
}

type rawHit struct{ mask1, mask2 uint32 }

// Run executes the full INIT..DONE state machine against cfg and returns
// every hit the verifier accepted. Workers are spawned once and carried
// through every phase; the only synchronization between phases is a
// barrier, matching the "tight CPU loop, suspend only at a phase boundary"
// model of spec.md §5. No phase is ever re-entered.
func Run(cfg RunConfig) (Result, error) {
	r1, r2, topo, workers, err := cfg.resolve()
	if err != nil {
		return Result{}, err
	}

	log.Printf("[INIT] M=%d |R1|=%d |R2|=%d workers=%d nodes=%d", cfg.M, len(r1), len(r2), workers, topo.NodeCount())

	r2Inv := modmul.InverseTable(r2, cfg.M)
	r1Inv := modmul.InverseTable(r1, cfg.M)

	k1 := uint64(len(r1))
	k2 := uint64(len(r2))
	total1 := uint64(1) << k1
	total2 := uint64(1) << k2

	nodeCount := topo.NodeCount()
	if nodeCount > workers {
		nodeCount = workers
	}
	nodeFilters := make([]*bloom.Filter, nodeCount)
	for i := range nodeFilters {
		nodeFilters[i] = bloom.New(cfg.BloomL, cfg.BloomK, cfg.BloomSeed0, cfg.BloomSeed1)
	}
	workerNode := make([]int, workers)
	for w := 0; w < workers; w++ {
		workerNode[w] = w % nodeCount
	}

	// Fixed, deterministic range per worker, reused unchanged in both phase
	// 1 and phase 3 so recomputation is bit-for-bit identical (I3).
	ranges1 := numa.Partition(total1, workers)
	queue2 := numa.NewWorkQueue(total2)

	stats := &Stats{}
	cmap := candidate.New()
	barrier := numa.NewBarrier(workers)

	var hitsMu sync.Mutex
	var hits []rawHit

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		w := w
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.Fatalf("[worker %d] panic: %v", w, r)
				}
			}()

			// PHASE1_BUILD: walk this worker's static subrange of R1's Gray
			// sequence, inserting products into its node's local filter.
			filter := nodeFilters[workerNode[w]]
			start, end := ranges1[w].Start, ranges1[w].End
			if start != end {
				stream := ssp.NewRange(r1, r1Inv, cfg.M, start)
				for i := start; i < end; i++ {
					sample, ok := stream.Next()
					if !ok {
						break
					}
					filter.Insert(sample.Product)
				}
			}
			barrier.Wait()

			// PHASE1_MERGE: one worker performs the OR-merge while the rest
			// wait at the barrier; a single process shares memory, so
			// "replicated per node" degenerates to one shared merged filter.
			if w == 0 {
				for i := 1; i < nodeCount; i++ {
					nodeFilters[0].Merge(nodeFilters[i])
				}
				log.Printf("[phase1] merged filter popcount=%d of %d bits", nodeFilters[0].PopCount(), cfg.BloomL)
			}
			barrier.Wait()
			merged := nodeFilters[0]

			// PHASE2_PROBE: claim dynamically-sized chunks of R2's Gray
			// sequence (R2^-1 is the stream's inverse table for exclude
			// steps); no later phase recomputes this one, so static
			// per-worker partitioning isn't required here.
			for {
				cstart, cend, ok := queue2.Claim()
				if !ok {
					break
				}
				stream := ssp.NewRange(r2, r2Inv, cfg.M, cstart)
				for i := cstart; i < cend; i++ {
					sample, ok := stream.Next()
					if !ok {
						break
					}
					stats.addPhase2Probe()
					if merged.Contains(sample.Product) {
						stats.addPhase2Hit()
						cmap.InsertIfAbsent(sample.Product, sample.Mask)
					}
				}
			}
			barrier.Wait()

			// PHASE3_CONFIRM: re-walk the exact same R1 subrange as phase 1
			// and look up each product in the candidate map built by phase 2.
			if start != end {
				stream := ssp.NewRange(r1, r1Inv, cfg.M, start)
				var local []rawHit
				for i := start; i < end; i++ {
					sample, ok := stream.Next()
					if !ok {
						break
					}
					stats.addPhase3Lookup()
					if mask2, found := cmap.Get(sample.Product); found {
						stats.addPhase3Hit()
						local = append(local, rawHit{mask1: sample.Mask, mask2: mask2})
					}
				}
				if len(local) > 0 {
					hitsMu.Lock()
					hits = append(hits, local...)
					hitsMu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	log.Printf("[phase2] candidate map has %d entries", cmap.Len())
	log.Printf("[phase3] %d raw hits before verification", len(hits))

	var accepted []Hit
	for _, h := range hits {
		if cfg.Verifier.Accept(r1, r2Inv, h.mask1, h.mask2, cfg.M) {
			stats.addAccepted()
			accepted = append(accepted, Hit{Mask1: h.mask1, Mask2: h.mask2})
		} else {
			stats.addVerifierReject()
		}
	}

	log.Printf("[DONE] %d accepted, %d verifier rejections", len(accepted), stats.VerifierReject)
	return Result{Hits: accepted, Stats: stats.Snapshot()}, nil
}
