package audio

import "sync"

// UpdateFn mutates a stream's model. Updates are sent from any
// goroutine and applied by the audio thread strictly between buffer
// renders, in the order they were sent.
type UpdateFn[M any] func(model *M)

// updateQueue is the cross-thread update channel: multi-producer,
// single-consumer, FIFO. push appends under a mutex and drainInto
// moves everything out in one short critical section, so neither side
// holds the other up for long. The queue is unbounded: dropping
// updates would break the apply-everything-in-order guarantee.
type updateQueue[M any] struct {
	mu  sync.Mutex
	fns []UpdateFn[M]
}

func (q *updateQueue[M]) push(fn UpdateFn[M]) {
	q.mu.Lock()
	q.fns = append(q.fns, fn)
	q.mu.Unlock()
}

// drainInto appends every queued update to dst, empties the queue, and
// returns the extended slice. The queue's backing array is retained
// for future pushes.
func (q *updateQueue[M]) drainInto(dst []UpdateFn[M]) []UpdateFn[M] {
	q.mu.Lock()
	dst = append(dst, q.fns...)
	clear(q.fns)
	q.fns = q.fns[:0]
	q.mu.Unlock()
	return dst
}

// modelSlot owns the model between renders. The audio thread takes the
// model out for the span of a render or an update batch and puts it
// back; tryTake never waits on a contended lock, so the audio thread
// cannot stall on the slot.
type modelSlot[M any] struct {
	mu sync.Mutex

	// m is nil while the model is checked out.
	m *M
}

// tryTake checks the model out. It fails only when the slot's lock is
// contended or the model is already out, costing the caller at most
// the current buffer.
func (s *modelSlot[M]) tryTake() (*M, bool) {
	if !s.mu.TryLock() {
		return nil, false
	}
	m := s.m
	s.m = nil
	s.mu.Unlock()
	return m, m != nil
}

// put checks the model back in.
func (s *modelSlot[M]) put(m *M) {
	s.mu.Lock()
	s.m = m
	s.mu.Unlock()
}
