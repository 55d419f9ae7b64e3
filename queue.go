package zoomview

import "sync"

// workQueue serializes commands onto the goroutine that owns a View's
// mutable state. Post may be called from any goroutine; Drain runs on the
// owner. Commands posted while a drain is running wait for the next drain.
type workQueue struct {
	mu      sync.Mutex
	pending []func()
}

// Post appends fn to the queue and returns immediately.
func (q *workQueue) Post(fn func()) {
	if fn == nil {
		return
	}
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	q.mu.Unlock()
}

// Len returns the number of commands waiting to run.
func (q *workQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Drain runs every queued command in FIFO order and returns how many ran.
func (q *workQueue) Drain() int {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, fn := range batch {
		fn()
	}
	return len(batch)
}
