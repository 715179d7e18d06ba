package sim

// CoreSize distinguishes the two core types Minos discriminates between.
type CoreSize int

const (
	SmallCore CoreSize = iota
	LargeCore
)

// minosShortTaskThresholdUs is the boundary between the small and large
// Minos queues, taken from the short mode of the task-size distribution
// table (TaskDistributionTimeUs[0] = 1.0µs): anything at or below that is
// "small", anything above is "large".
var minosShortTaskThresholdUs = TaskDistributionTimeUs[0]

// MinosPolicy is size- and core-type-aware: small cores only ever serve the
// small queue (preventing head-of-line blocking from rare long tasks),
// while large cores prefer the large queue and fall back to the small queue
// when it is empty.
type MinosPolicy struct {
	small, large runQueue
	coreSize     CoreSize
}

// NewMinosPolicy constructs an empty Minos policy for the given core size.
func NewMinosPolicy(coreSize CoreSize) *MinosPolicy {
	return &MinosPolicy{coreSize: coreSize}
}

func (p *MinosPolicy) CreateTask(now int64, serviceTimeUs float64, tenantID uint16) *Request {
	req := NewRequest(tenantID, now, serviceTimeUs)
	if serviceTimeUs <= minosShortTaskThresholdUs {
		p.small.PushBack(req)
	} else {
		p.large.PushBack(req)
	}
	return req
}

// PickNextTask dispatches by the policy's core size. hint is unused (the
// core size is fixed at construction, unlike MultiQueue's time-based hint).
func (p *MinosPolicy) PickNextTask(hint int64) *Request {
	if p.coreSize == SmallCore {
		return p.small.PopFront()
	}
	if req := p.large.PopFront(); req != nil {
		return req
	}
	return p.small.PopFront()
}

// EnqueueTask re-queues a preempted task at the front of the large queue:
// anything that survived a full quantum without completing is, by
// definition, not a short task.
func (p *MinosPolicy) EnqueueTask(req *Request) {
	p.large.PushFront(req)
}
