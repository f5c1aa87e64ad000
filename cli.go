package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/msprime/fakeprime64/pipeline"
	"github.com/msprime/fakeprime64/verifier"
	"github.com/xyproto/env/v2"
)

// demoR is the 8-element residue set from spec.md §8 scenario 1, split
// 4+4 under M=97, reproduced here so `-demo` is runnable without any flags.
var demoR = []uint64{2, 3, 5, 7, 11, 13, 17, 19}

const demoM uint64 = 97

func main() {
	demo := flag.Bool("demo", false, "run the spec.md scenario 1 scaled reproduction (M=97, |R|=8) instead of the full search")
	workers := flag.Int("workers", env.Int("FAKEPRIME_WORKERS", 0), "worker goroutine count (0 = use NUMA topology CPU count)")
	bloomBits := flag.Uint64("bloom-bits", uint64(env.Int64("FAKEPRIME_BLOOM_BITS", 1<<20)), "Bloom filter size in bits, must be a power of two")
	bloomK := flag.Uint("bloom-k", uint(env.Int("FAKEPRIME_BLOOM_K", 5)), "number of Bloom hash functions")
	flag.Parse()

	cfg := pipeline.RunConfig{
		M:          demoM,
		R:          demoR,
		Verifier:   verifier.NewMillerRabin(),
		BloomL:     *bloomBits,
		BloomK:     *bloomK,
		BloomSeed0: 0x9E3779B97F4A7C15,
		BloomSeed1: 0xBF58476D1CE4E5B9,
		Workers:    *workers,
	}

	if !*demo {
		log.Println("the full 64-element, 2^64-mask search requires a 64-element R and a ~128 GiB NUMA host;")
		log.Println("pass -demo to run the spec.md scenario 1 reproduction on this machine instead")
		os.Exit(1)
	}

	result, err := pipeline.Run(cfg)
	if err != nil {
		log.Fatalf("pipeline run failed: %v", err)
	}

	fmt.Printf("accepted %d hit(s), %d verifier rejection(s)\n", len(result.Hits), result.Stats.VerifierReject)
	for _, h := range result.Hits {
		fmt.Printf("  mask1=%04b mask2=%04b\n", h.Mask1, h.Mask2)
	}
}
