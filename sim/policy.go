package sim

// SchedulerPolicy is a pluggable run-queue discipline. Each Tenant owns one
// policy instance (round-robin), or a Core may share one policy instance
// across all its tenants (multi-queue, Minos) — see Tenant and Core.
//
// Modeled as an interface-with-multiple-implementations: a small capability
// set, selected once at construction, with negligible per-call dispatch cost
// against the simulated work it gates.
type SchedulerPolicy interface {
	// CreateTask admits a newly-arrived task into the policy's run-queue(s).
	CreateTask(now int64, serviceTimeUs float64, tenantID uint16) *Request
	// PickNextTask selects the next task to run. hint is the current
	// simulated time; MultiQueue uses it, while RoundRobin and Minos ignore it
	// (Minos's core size is fixed at construction).
	PickNextTask(hint int64) *Request
	// EnqueueTask re-queues a task that was preempted mid-quantum.
	EnqueueTask(req *Request)
}

// RoundRobinPolicy is a single FIFO per tenant: create and re-queue both
// push to the back, pick pops the front. Fairness within a tenant is FIFO;
// fairness across tenants is the Core's iteration order over its tenants.
type RoundRobinPolicy struct {
	q runQueue
}

// NewRoundRobinPolicy constructs an empty round-robin policy.
func NewRoundRobinPolicy() *RoundRobinPolicy {
	return &RoundRobinPolicy{}
}

func (p *RoundRobinPolicy) CreateTask(now int64, serviceTimeUs float64, tenantID uint16) *Request {
	req := NewRequest(tenantID, now, serviceTimeUs)
	p.q.PushBack(req)
	return req
}

func (p *RoundRobinPolicy) PickNextTask(hint int64) *Request {
	return p.q.PopFront()
}

func (p *RoundRobinPolicy) EnqueueTask(req *Request) {
	p.q.PushBack(req)
}
