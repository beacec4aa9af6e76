package observable

// Scheduler is a deferred task queue. Tasks run only when the owner calls
// Flush, never inside the call that enqueued them. Several observables can
// share one scheduler so their deliveries keep a single global order.
type Scheduler struct {
	queue    []func()
	flushing bool
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Enqueue queues fn for the next Flush
func (s *Scheduler) Enqueue(fn func()) {
	if fn == nil {
		return
	}
	s.queue = append(s.queue, fn)
}

// Pending returns the number of queued tasks
func (s *Scheduler) Pending() int {
	return len(s.queue)
}

// Flush runs queued tasks in FIFO order, including tasks enqueued by
// running tasks, until the queue is empty. A nested Flush call made from a
// task is a no-op; the outer call drains its work.
func (s *Scheduler) Flush() int {
	if s.flushing {
		return 0
	}
	s.flushing = true
	defer func() { s.flushing = false }()

	ran := 0
	for len(s.queue) > 0 {
		fn := s.queue[0]
		s.queue[0] = nil
		s.queue = s.queue[1:]
		fn()
		ran++
	}
	s.queue = nil
	return ran
}
