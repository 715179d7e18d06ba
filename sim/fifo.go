// Implements runQueue, the FIFO run-queue requests sit in while waiting for
// their next quantum. Requests are enqueued on arrival and re-queued at
// the back (round-robin) or the front (multi-queue/Minos preemption) when
// preempted.

package sim

// runQueue is a FIFO queue of requests belonging to one scheduler policy's
// run-queue. A Request is owned by exactly one runQueue at a time.
type runQueue struct {
	q []*Request
}

// PushBack adds a request to the back of the queue.
func (rq *runQueue) PushBack(r *Request) {
	rq.q = append(rq.q, r)
}

// PushFront re-queues a request at the front of the queue. Used when a
// preempted task is known to belong to a particular queue (e.g. the
// multi-queue and Minos policies' long/large queues).
func (rq *runQueue) PushFront(r *Request) {
	rq.q = append([]*Request{r}, rq.q...)
}

// PopFront removes and returns the request at the front of the queue, or
// nil if the queue is empty.
func (rq *runQueue) PopFront() *Request {
	if len(rq.q) == 0 {
		return nil
	}
	r := rq.q[0]
	rq.q = rq.q[1:]
	return r
}

// Len returns the number of requests currently queued.
func (rq *runQueue) Len() int {
	return len(rq.q)
}

// Empty reports whether the queue has no requests.
func (rq *runQueue) Empty() bool {
	return len(rq.q) == 0
}
