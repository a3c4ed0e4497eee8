package loop

import (
	"slices"
	"sync"
)

// ResizeSource delivers surface size changes.
type ResizeSource interface {
	Subscribe(fn func(w, h float64)) (unsubscribe func())
}

// ResizeNotifier fans size changes out to subscribers.
type ResizeNotifier struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]func(w, h float64)
}

// Subscribe registers fn. The returned function removes it and may be called more than once.
func (n *ResizeNotifier) Subscribe(fn func(w, h float64)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.subs == nil {
		n.subs = make(map[uint64]func(w, h float64))
	}
	n.nextID++
	id := n.nextID
	n.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subs, id)
			n.mu.Unlock()
		})
	}
}

// Notify calls every subscriber with the new size, in subscription order.
func (n *ResizeNotifier) Notify(w, h float64) {
	n.mu.Lock()
	ids := make([]uint64, 0, len(n.subs))
	for id := range n.subs {
		ids = append(ids, id)
	}
	fns := make([]func(w, h float64), 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		fns = append(fns, n.subs[id])
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn(w, h)
	}
}

// Len returns the number of subscribers.
func (n *ResizeNotifier) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs)
}

// Debouncer coalesces a burst of resizes into one, delivered on Flush.
type Debouncer struct {
	fn      func(w, h float64)
	pending bool
	w, h    float64
}

// NewDebouncer wraps fn.
func NewDebouncer(fn func(w, h float64)) *Debouncer {
	return &Debouncer{fn: fn}
}

// Push records a size; only the last one before Flush is delivered.
func (d *Debouncer) Push(w, h float64) {
	d.w, d.h = w, h
	d.pending = true
}

// Flush delivers the last pushed size, if any, and reports whether it did.
func (d *Debouncer) Flush() bool {
	if !d.pending {
		return false
	}
	d.pending = false
	d.fn(d.w, d.h)
	return true
}

// Pending reports whether a size is waiting for Flush.
func (d *Debouncer) Pending() bool { return d.pending }
