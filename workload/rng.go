// Package workload turns per-request-type specifications into Poisson
// arrival streams: requests with drawn arrival times, ready to hand to
// the kernel through Schedule.
package workload

import (
	"hash/fnv"
	"math/rand"
)

// SubsystemWorkload is the PartitionedRNG subsystem name reserved for
// arrival generation. Its stream derives directly from the master seed
// rather than a hashed one, so a seed alone pins the arrival sequence.
const SubsystemWorkload = "workload"

// PartitionedRNG provides deterministic, isolated RNG instances per
// subsystem so that adding a new randomised subsystem later never
// perturbs the arrival stream's draws.
type PartitionedRNG struct {
	seed       int64
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a master seed.
func NewPartitionedRNG(seed int64) *PartitionedRNG {
	return &PartitionedRNG{seed: seed, subsystems: make(map[string]*rand.Rand)}
}

// ForSubsystem returns a deterministically-seeded RNG for name. The
// same name always returns the same cached *rand.Rand.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	var derived int64
	if name == SubsystemWorkload {
		derived = p.seed
	} else {
		derived = p.seed ^ fnv1a64(name)
	}
	rng := rand.New(rand.NewSource(derived))
	p.subsystems[name] = rng
	return rng
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
