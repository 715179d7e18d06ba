package sim

// IsolationMode selects the hardware/software isolation mechanism a Core
// uses to switch protection context between tenants.
type IsolationMode string

const (
	NoIsolation    IsolationMode = "NoIsolation"
	PageTable      IsolationMode = "PageTableIsolation"
	MPK            IsolationMode = "MpkIsolation"
	VMFunc         IsolationMode = "VmfuncIsolation"
)

// Tenant-switch cycle costs, per isolation mode (§4.6 / §6 of the spec).
const (
	NoIsolationTenantSwitchCycles int64 = 0
	PagingTenantSwitchCycles      int64 = 3500
	MPKTenantSwitchCycles         int64 = 250
	VMFuncTenantSwitchCycles      int64 = 450

	// CrossDomainSwitchCycles is charged whenever MPK/VMFunc cannot use their
	// cheap intra-domain path: previous tenant inactive, or crossing domains.
	CrossDomainSwitchCycles int64 = 3500
)

// Preemption overhead cycle costs, per isolation mode.
const (
	NoIsolationPreemptionOverheadCycles int64 = 5600
	PagingPreemptionOverheadCycles      int64 = 7800
	MPKPreemptionOverheadCycles         int64 = 5850
	VMFuncPreemptionOverheadCycles      int64 = 2650
)

// QuantaTimeUs is the simulated CPU time a task runs before the scheduler
// considers preemption.
const QuantaTimeUs float64 = 5.0

// BatchSize is the number of per-tenant iterations a Core runs per tenant
// per scheduling round when batching is enabled.
const BatchSize = 8

// MaxMPKDomainSize is the largest number of tenants an MPK domain may cover.
const MaxMPKDomainSize = 15

// MaxVMFuncDomainSize is the largest number of tenants a VMFunc domain may cover.
const MaxVMFuncDomainSize = 512

// TaskDistributionTimeUs and TaskDistributionWeights together define the
// alias-sampled task-size distribution: 99.9% of tasks are ~1µs, 0.1% are
// ~1ms (the long tail that stresses preemption accounting).
var (
	TaskDistributionTimeUs    = [2]float64{1.0, 1000.0}
	TaskDistributionWeights   = [2]float64{99.9, 0.1}
)

// PreemptionOverheadCycles returns the cycle cost charged when a task is
// forcibly removed at a quantum boundary under the given isolation mode.
func PreemptionOverheadCycles(mode IsolationMode) int64 {
	switch mode {
	case NoIsolation:
		return NoIsolationPreemptionOverheadCycles
	case PageTable:
		return PagingPreemptionOverheadCycles
	case MPK:
		return MPKPreemptionOverheadCycles
	case VMFunc:
		return VMFuncPreemptionOverheadCycles
	default:
		return NoIsolationPreemptionOverheadCycles
	}
}
