package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatcher_GenerateRequest_RespectsArrivalGrid(t *testing.T) {
	// GIVEN a dispatcher with a deterministic grid and a single tenant
	rng := rand.New(rand.NewSource(1))
	d := NewDispatcher(1000, 2, 1, 2, NewUniformDistribution(rng, 1))

	// WHEN queried at time 0
	_, ok := d.GenerateRequest(0)
	// THEN the first arrival IS due at time 0 (k=0 arrival time is 0*RateInv=0)
	assert.True(t, ok)
	assert.Equal(t, uint64(1), d.Sent)

	// WHEN queried again before the second slot
	_, ok = d.GenerateRequest(d.NextArrival - 1)
	assert.False(t, ok)

	// WHEN queried at or after the second slot
	_, ok = d.GenerateRequest(d.NextArrival)
	assert.True(t, ok)
}

func TestDispatcher_GenerateRequest_ExhaustsBudget(t *testing.T) {
	// GIVEN a dispatcher with a budget of 1 request
	rng := rand.New(rand.NewSource(1))
	d := NewDispatcher(1000, 1, 1, 2, NewUniformDistribution(rng, 1))

	_, ok := d.GenerateRequest(0)
	assert.True(t, ok)

	// WHEN queried again after the budget is spent
	_, ok = d.GenerateRequest(1 << 40)
	// THEN no further arrivals are produced
	assert.False(t, ok)
}

func TestDispatcher_UniformDistribution_StaysInRange(t *testing.T) {
	// GIVEN a uniform distribution over [10, 20)
	rng := rand.New(rand.NewSource(3))
	dist := NewUniformDistribution(rng, 10)
	d := NewDispatcher(1e6, 1000, 10, 20, dist)

	for i := 0; i < 1000; i++ {
		id, ok := d.GenerateRequest(d.NextArrival)
		if !ok {
			continue
		}
		assert.GreaterOrEqual(t, id, uint16(10))
		assert.Less(t, id, uint16(20))
	}
}

func TestZipfDistribution_SkewRoutesToLowIndexTenants(t *testing.T) {
	// GIVEN a Zipf distribution over 100 tenants with skew 1.1
	rng := rand.New(rand.NewSource(42))
	dist := NewZipfDistribution(rng, 1.1, 100)

	counts := make([]int, 100)
	const n = 200000
	for i := 0; i < n; i++ {
		counts[dist.Sample()]++
	}

	top10 := 0
	for i := 0; i < 10; i++ {
		top10 += counts[i]
	}

	// THEN the top-10 tenants receive a clear majority of traffic
	assert.Greater(t, float64(top10)/float64(n), 0.5)
}
