// Package loop drives the particle field one frame at a time.
//
// A Scheduler stands in for a display's "run before the next repaint" hook.
// Queue is the building block: the host drains it once per refresh, on the
// same goroutine that owns the field, so frames never overlap.
package loop

import "sync"

// Scheduler runs fn once on the next frame. The returned cancel function
// prevents fn from running if it has not run yet; it is safe to call twice.
type Scheduler interface {
	RequestFrame(fn func()) (cancel func())
}

type request struct {
	id uint64
	fn func()
}

// Queue is a pending-callback queue drained once per frame by its host.
// RequestFrame may be called from any goroutine; RunPending from one.
type Queue struct {
	mu      sync.Mutex
	nextID  uint64
	pending []request
	batch   []request
}

// RequestFrame implements Scheduler.
func (q *Queue) RequestFrame(fn func()) func() {
	q.mu.Lock()
	q.nextID++
	id := q.nextID
	q.pending = append(q.pending, request{id: id, fn: fn})
	q.mu.Unlock()

	return func() { q.cancel(id) }
}

func (q *Queue) cancel(id uint64) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, r := range q.pending {
		if r.id == id {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
}

// RunPending runs every callback queued before the call and returns how many ran.
// Callbacks queued while running wait for the next call.
func (q *Queue) RunPending() int {
	q.mu.Lock()
	q.batch, q.pending = q.pending, q.batch[:0]
	batch := q.batch
	q.mu.Unlock()

	for _, r := range batch {
		r.fn()
	}
	return len(batch)
}

// Len returns the number of queued callbacks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
