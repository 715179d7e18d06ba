package sim

// Tenant is a thin wrapper that forwards to its scheduler policy: a tenant
// never chooses between its own tasks directly, the policy does. Tenants
// are created once at startup, live for the entire simulation, and are
// owned by exactly one Core (see Core's tenant partition).
//
// Interception point: this indirection exists so a Core can swap a
// RoundRobinPolicy per tenant, or point several Tenants at the SAME shared
// MultiQueue/Minos policy instance, without either Core or policy code
// needing to know which.
type Tenant struct {
	TenantID uint16
	policy   SchedulerPolicy
}

// NewTenant creates a tenant backed by the given scheduler policy.
func NewTenant(id uint16, policy SchedulerPolicy) *Tenant {
	return &Tenant{TenantID: id, policy: policy}
}

// AddRequest admits a newly-arrived task for this tenant.
func (t *Tenant) AddRequest(now int64, serviceTimeUs float64) *Request {
	return t.policy.CreateTask(now, serviceTimeUs, t.TenantID)
}

// GetRequest selects the next task this tenant should run.
func (t *Tenant) GetRequest(hint int64) *Request {
	return t.policy.PickNextTask(hint)
}

// EnqueueTask re-queues a task that was preempted mid-quantum.
func (t *Tenant) EnqueueTask(req *Request) {
	t.policy.EnqueueTask(req)
}
