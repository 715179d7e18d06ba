package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/isolsim/isolsim/sim/cycles"
)

func idleDispatcher() *Dispatcher {
	rng := rand.New(rand.NewSource(1))
	return NewDispatcher(0, 0, 1, 2, NewUniformDistribution(rng, 1))
}

func newTestCore(low, high uint16, isolation IsolationMode, dispatcher *Dispatcher) *Core {
	rng := NewPartitionedRNG(NewSimulationKey(1))
	return NewCore(0, low, high, dispatcher, isolation, false, rng, func(uint16) SchedulerPolicy {
		return NewRoundRobinPolicy()
	})
}

func TestCore_SingleShortTask_NoIsolation(t *testing.T) {
	// GIVEN one tenant with a single 1us task under NoIsolation
	core := newTestCore(1, 2, NoIsolation, idleDispatcher())
	core.tenantAt(1).AddRequest(0, 1.0)

	// WHEN the core runs one scheduling round
	core.Run()

	// THEN the task completes, no preemptions occur, and exactly one
	// context switch is charged for the first-ever activation
	assert.EqualValues(t, 1, core.RequestsProcessed)
	assert.EqualValues(t, 0, core.NumPreemptions)
	assert.EqualValues(t, 1, core.ContextSwitches)
	assert.Len(t, core.Latencies, 1)
	assert.Equal(t, cycles.FromMicros(1.0), core.Latencies[0])
}

func TestCore_LongTask_PreemptsRepeatedlyUnderPageTable(t *testing.T) {
	// GIVEN one tenant with a 1000us task (200 quanta of 5us) under PageTable
	core := newTestCore(1, 2, PageTable, idleDispatcher())
	core.tenantAt(1).AddRequest(0, 1000.0)

	// WHEN the core runs one quantum per round until the task completes
	for core.RequestsProcessed == 0 {
		core.Run()
	}

	// THEN it took 199 preemptions to drain 200 quanta
	assert.EqualValues(t, 1, core.RequestsProcessed)
	assert.EqualValues(t, 199, core.NumPreemptions)
}

func TestCore_MPK_IntraDomainSwitchIsCheaperThanFirstActivation(t *testing.T) {
	// GIVEN two tenants sharing an MPK domain (both within the first 15-wide
	// block), each handed one short task per round
	core := newTestCore(1, 31, MPK, idleDispatcher())

	const rounds = 3
	for i := 0; i < rounds; i++ {
		core.tenantAt(1).AddRequest(0, 1.0)
		core.tenantAt(2).AddRequest(0, 1.0)
		core.Run()
	}

	// THEN only the very first activation charged a full context switch; all
	// subsequent alternations were cheap intra-domain MPK switches
	assert.EqualValues(t, 2*rounds, core.RequestsProcessed)
	assert.EqualValues(t, 1, core.ContextSwitches)
	assert.EqualValues(t, core.RequestsProcessed-1, core.MPKSwitches)
}

func TestCore_MPK_CrossDomainSwitchForcesFullCost(t *testing.T) {
	// GIVEN two tenants in different MPK domains (1 is in [1,16), 17 is in
	// [16,31)), each handed one short task per round
	core := newTestCore(1, 31, MPK, idleDispatcher())

	const rounds = 3
	for i := 0; i < rounds; i++ {
		core.tenantAt(1).AddRequest(0, 1.0)
		core.tenantAt(17).AddRequest(0, 1.0)
		core.Run()
	}

	// THEN every switch crosses a domain boundary, so none of them are
	// counted as cheap MPK switches
	assert.EqualValues(t, 0, core.MPKSwitches)
	assert.EqualValues(t, core.RequestsProcessed, core.ContextSwitches)
}

func TestCore_PostPreemptionSwitchToAnotherTenantIsFree(t *testing.T) {
	// GIVEN tenant 1 holding a long task that will preempt, and tenant 2
	// holding a short task, under PageTable isolation
	core := newTestCore(1, 3, PageTable, idleDispatcher())
	core.tenantAt(1).AddRequest(0, 1000.0)
	core.tenantAt(2).AddRequest(0, 1.0)

	// WHEN one round runs: tenant 1 is activated and immediately preempts,
	// then tenant 2 is activated in the same round
	core.Run()

	// THEN only the first activation (tenant 1's cold start) was charged;
	// moving on to tenant 2 right after a preemption cost nothing extra
	assert.EqualValues(t, 1, core.ContextSwitches)
	assert.EqualValues(t, 1, core.NumPreemptions)
	assert.EqualValues(t, 1, core.RequestsProcessed)
}

func TestCore_Run_FastForwardsIdleClockToNextArrival(t *testing.T) {
	// GIVEN a sparse dispatcher (one arrival due immediately, the next far
	// in the future) and no pre-loaded requests
	rng := rand.New(rand.NewSource(1))
	dispatcher := NewDispatcher(1000, 2, 1, 2, NewUniformDistribution(rng, 1))
	core := newTestCore(1, 2, NoIsolation, dispatcher)

	// WHEN the core runs one round: the first arrival is generated and
	// completed, leaving nothing outstanding
	core.Run()

	// THEN the clock jumped ahead to the dispatcher's next scheduled arrival
	// rather than sitting at the cycle the last request completed
	assert.EqualValues(t, 1, core.RequestsProcessed)
	assert.Equal(t, dispatcher.GetNext(), core.Rdtsc)
	assert.Greater(t, core.Rdtsc, cycles.FromMicros(1.0))
}

func TestPartitionDomains_ContiguousDisjointCoverage(t *testing.T) {
	// GIVEN a tenant range wider than one MPK domain
	domains := partitionDomains(1, 31, 15)

	// THEN it splits into contiguous, disjoint blocks covering [1,31) with
	// no block exceeding the configured size
	assert.Len(t, domains, 2)
	assert.Equal(t, domain{Low: 1, High: 16}, domains[0])
	assert.Equal(t, domain{Low: 16, High: 31}, domains[1])
	for _, d := range domains {
		assert.LessOrEqual(t, int(d.High-d.Low), 15)
	}
}
