package sim

import (
	"math/rand"

	"github.com/sirupsen/logrus"
)

// domain is a half-open tenant range [Low, High) sharing an MPK key or
// VMFunc EPT view. Intra-domain tenant switches are cheap; cross-domain
// switches cost as much as a full context switch.
type domain struct {
	Low, High uint16
}

func (d domain) contains(tenant uint16) bool {
	return tenant >= d.Low && tenant < d.High
}

// partitionDomains splits [low, high) into contiguous blocks of at most
// maxSize tenants each. The last block holds whatever remains and may be
// smaller than maxSize.
func partitionDomains(low, high uint16, maxSize int) []domain {
	var domains []domain
	for start := low; start < high; {
		end := start + uint16(maxSize)
		if end > high {
			end = high
		}
		domains = append(domains, domain{Low: start, High: end})
		start = end
	}
	return domains
}

func domainFor(domains []domain, tenant uint16) (domain, bool) {
	for _, d := range domains {
		if d.contains(tenant) {
			return d, true
		}
	}
	return domain{}, false
}

// Core is the central component: one dispatcher, a contiguous slice of
// tenants, a simulated cycle counter, isolation-switch/preemption counters,
// and a completion-latency sample.
type Core struct {
	CoreID uint8
	Rdtsc  int64

	Low, High   uint16
	Tenants     []*Tenant // indexed by tenantID - Low
	activeTenant *uint16

	Dispatcher *Dispatcher
	Isolation  IsolationMode

	mpkDomains    []domain
	vmfuncDomains []domain

	BatchSize int
	taskSizeSampler *AliasSampler
	taskSizeRNG     *rand.Rand

	LastTaskState TaskState

	ContextSwitches uint64
	MPKSwitches     uint64
	VMFuncSwitches  uint64
	NumPreemptions  uint64
	csCycles        int64

	RequestsProcessed uint64
	Outstanding       uint64

	Latencies []int64
}

// NewCore builds a Core over tenant range [low, high), wiring its MPK and
// VMFunc sub-domain partitions, dispatcher, and per-core task-size sampler.
// policyFor is invoked once per tenant id to obtain that tenant's scheduler
// policy; pass a closure returning a shared policy instance to get
// MultiQueue/Minos core-wide-queue semantics instead of per-tenant
// round-robin.
func NewCore(coreID uint8, low, high uint16, dispatcher *Dispatcher, isolation IsolationMode, batching bool, rng *PartitionedRNG, policyFor func(tenantID uint16) SchedulerPolicy) *Core {
	tenants := make([]*Tenant, 0, high-low)
	for id := low; id < high; id++ {
		tenants = append(tenants, NewTenant(id, policyFor(id)))
	}

	batchSize := 1
	if batching {
		batchSize = BatchSize
	}

	return &Core{
		CoreID:          coreID,
		Low:             low,
		High:            high,
		Tenants:         tenants,
		Dispatcher:      dispatcher,
		Isolation:       isolation,
		mpkDomains:      partitionDomains(low, high, MaxMPKDomainSize),
		vmfuncDomains:   partitionDomains(low, high, MaxVMFuncDomainSize),
		BatchSize:       batchSize,
		taskSizeSampler: NewAliasSampler(TaskDistributionTimeUs[:], TaskDistributionWeights[:]),
		taskSizeRNG:     rng.ForSubsystem(SubsystemCore(coreID, subsystemTaskSize)),
		Latencies:       make([]int64, 0, dispatcher.NumRequests),
	}
}

func (c *Core) tenantAt(id uint16) *Tenant {
	return c.Tenants[id-c.Low]
}

// Run executes one scheduling round: for each tenant in [Low, High), pull
// pending arrivals into tenants, then run up to BatchSize quanta against
// that tenant's head-of-queue request.
func (c *Core) Run() {
	for idx, tenant := range c.Tenants {
		for i := 0; i < c.BatchSize; i++ {
			c.runDispatcher()

			req := tenant.GetRequest(c.Rdtsc)
			if req == nil {
				break
			}
			c.processRequest(req, idx)
		}
	}
	c.updateRdtsc()
}

// runDispatcher drains all arrivals due at the current clock into their
// tenants' run-queues.
func (c *Core) runDispatcher() {
	for {
		tenantID, ok := c.Dispatcher.GenerateRequest(c.Rdtsc)
		if !ok {
			return
		}
		serviceTime := c.taskSizeSampler.Sample(c.taskSizeRNG)
		c.tenantAt(tenantID).AddRequest(c.Rdtsc, serviceTime)
		c.Outstanding++
	}
}

// processRequest charges the tenant-switch cost (if any), runs one quantum,
// advances rdtsc, and records the resulting completion or preemption.
func (c *Core) processRequest(req *Request, tenantIdx int) {
	tenant := c.Tenants[tenantIdx]

	if c.activeTenant == nil || *c.activeTenant != tenant.TenantID {
		c.tenantSwitch(tenant.TenantID)
	}

	elapsed, state := req.Run(c.Isolation)
	c.Rdtsc += elapsed
	c.LastTaskState = state

	switch state {
	case Completed:
		c.Latencies = append(c.Latencies, c.Rdtsc-req.StartTime)
		c.RequestsProcessed++
		c.Outstanding--
	case Preempted:
		c.NumPreemptions++
		tenant.EnqueueTask(req)
	default:
		logrus.Errorf("core %d: request returned invariant-violating state %s", c.CoreID, state)
	}
}

// tenantSwitch charges the per-isolation-mode cost of activating newTenant,
// skipped entirely when the previous task ended Preempted (resuming the
// same context is free).
func (c *Core) tenantSwitch(newTenant uint16) {
	prevActive := c.activeTenant
	if c.LastTaskState == Preempted {
		// Resuming the same tenant-switch context is free: the preemption
		// handler already paid for whatever transition was needed.
		c.activeTenant = &newTenant
		return
	}
	c.activeTenant = &newTenant

	if prevActive == nil {
		c.chargeFullSwitch()
		return
	}

	switch c.Isolation {
	case NoIsolation:
		c.ContextSwitches++ // 0 cycles, but still counted as a switch
	case PageTable:
		c.Rdtsc += PagingTenantSwitchCycles
		c.csCycles += PagingTenantSwitchCycles
		c.ContextSwitches++
	case MPK:
		prevDomain, _ := domainFor(c.mpkDomains, *prevActive)
		if prevDomain.contains(newTenant) {
			c.Rdtsc += MPKTenantSwitchCycles
			c.csCycles += MPKTenantSwitchCycles
			c.MPKSwitches++
		} else {
			c.chargeFullSwitch()
		}
	case VMFunc:
		prevDomain, _ := domainFor(c.vmfuncDomains, *prevActive)
		if prevDomain.contains(newTenant) {
			c.Rdtsc += VMFuncTenantSwitchCycles
			c.csCycles += VMFuncTenantSwitchCycles
			c.VMFuncSwitches++
		} else {
			c.chargeFullSwitch()
		}
	}
}

func (c *Core) chargeFullSwitch() {
	switch c.Isolation {
	case NoIsolation:
		c.Rdtsc += NoIsolationTenantSwitchCycles
		c.csCycles += NoIsolationTenantSwitchCycles
	default:
		c.Rdtsc += CrossDomainSwitchCycles
		c.csCycles += CrossDomainSwitchCycles
	}
	c.ContextSwitches++
}

// csTimeCycles returns the total cycles this core has spent on tenant
// switches (cross-domain or intra-domain), used for the reported
// context-switch percentage.
func (c *Core) csTimeCycles() int64 {
	return c.csCycles
}

// updateRdtsc fast-forwards the core's virtual clock to the dispatcher's
// next scheduled arrival when there is nothing outstanding to process,
// so measured throughput is not diluted by simulated idle gaps.
func (c *Core) updateRdtsc() {
	if c.Outstanding == 0 {
		next := c.Dispatcher.GetNext()
		if next > c.Rdtsc {
			c.Rdtsc = next
		}
	}
}
