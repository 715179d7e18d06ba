package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// SimulationKey uniquely identifies a reproducible simulation run. Two runs
// with the same SimulationKey and identical configuration produce identical
// results, since the simulator is single-threaded and has no other source of
// nondeterminism.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a config seed.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// Subsystem name prefixes for per-core RNG isolation.
const (
	subsystemDispatcher = "dispatcher"
	subsystemTaskSize   = "tasksize"
)

// SubsystemCore returns the RNG subsystem name for core id.
func SubsystemCore(coreID uint8, kind string) string {
	return fmt.Sprintf("%s_core_%d", kind, coreID)
}

// PartitionedRNG provides deterministic, isolated RNG streams per subsystem,
// so that a core's arrival generator and task-size sampler never perturb
// each other's sequence and reseeding one core never perturbs another.
//
// Derivation: subsystemSeed = masterSeed XOR fnv1a64(subsystemName).
//
// Thread-safety: NOT thread-safe. The simulator runs single-threaded (§5),
// so this is never accessed from more than one goroutine.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named
// subsystem. The same name always returns the same *rand.Rand instance.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	seed := int64(p.key) ^ fnv1a64(name)
	rng := rand.New(rand.NewSource(seed))
	p.subsystems[name] = rng
	return rng
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
