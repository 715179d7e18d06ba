// Defines the Request struct that models a single tenant task moving through
// one scheduling quantum at a time.

package sim

import "github.com/isolsim/isolsim/sim/cycles"

// TaskState is the lifecycle state of a Request.
type TaskState int

const (
	Runnable TaskState = iota
	Running
	Preempted
	Completed
)

func (s TaskState) String() string {
	switch s {
	case Runnable:
		return "Runnable"
	case Running:
		return "Running"
	case Preempted:
		return "Preempted"
	case Completed:
		return "Completed"
	default:
		return "Unknown"
	}
}

// Request is a task record belonging to exactly one tenant's run-queue at a
// time. StartTime and MaxTimeUs are set once at admission and never change;
// RemainingTimeUs and State are mutated by Run as the task is stepped through
// quanta. Invariant: 0 <= RemainingTimeUs <= MaxTimeUs.
type Request struct {
	TenantID  uint16
	StartTime int64 // admission timestamp, in simulated cycles
	MaxTimeUs float64

	RemainingTimeUs float64
	State           TaskState
}

// NewRequest admits a task with the given total service demand.
func NewRequest(tenantID uint16, startTime int64, serviceTimeUs float64) *Request {
	return &Request{
		TenantID:        tenantID,
		StartTime:       startTime,
		MaxTimeUs:       serviceTimeUs,
		RemainingTimeUs: serviceTimeUs,
		State:           Runnable,
	}
}

// Run advances the request by one scheduling quantum under the given
// isolation mode, returning the cycles elapsed and the resulting state.
//
// If the remaining demand fits within a quantum, the request charges exactly
// its remaining time and completes. Otherwise it charges one full quantum
// plus the isolation mode's preemption overhead (the cost of forcibly
// removing the task at the quantum boundary) and is marked Preempted.
func (r *Request) Run(mode IsolationMode) (elapsedCycles int64, state TaskState) {
	if r.RemainingTimeUs <= QuantaTimeUs {
		elapsed := cycles.FromMicros(r.RemainingTimeUs)
		r.RemainingTimeUs = 0
		r.State = Completed
		return elapsed, Completed
	}

	r.RemainingTimeUs -= QuantaTimeUs
	elapsed := cycles.FromMicros(QuantaTimeUs) + PreemptionOverheadCycles(mode)
	r.State = Preempted
	return elapsed, Preempted
}
