// Package fanout delivers events to subscribers in the order they were queued.
//
// Producers call Enqueue while holding the lock that orders their mutations,
// then Drain after releasing it. Only one goroutine drains at a time, so
// subscribers see events in enqueue order even when producers race.
package fanout

import "sync"

// Queue is an ordered event fan-out. The zero value is ready to use.
type Queue[E any] struct {
	subMu  sync.RWMutex
	subs   map[int]func(E)
	nextID int

	mu       sync.Mutex
	pending  []E
	draining bool
}

// Subscribe registers fn and returns a func that removes it.
func (q *Queue[E]) Subscribe(fn func(E)) func() {
	q.subMu.Lock()
	if q.subs == nil {
		q.subs = make(map[int]func(E))
	}
	id := q.nextID
	q.nextID++
	q.subs[id] = fn
	q.subMu.Unlock()

	return func() {
		q.subMu.Lock()
		delete(q.subs, id)
		q.subMu.Unlock()
	}
}

// Enqueue appends events for the next Drain.
func (q *Queue[E]) Enqueue(events ...E) {
	if len(events) == 0 {
		return
	}
	q.mu.Lock()
	q.pending = append(q.pending, events...)
	q.mu.Unlock()
}

// Drain delivers queued events synchronously unless another goroutine is
// already draining, in which case that goroutine delivers them. Subscribers
// may Enqueue and Drain again; nested events are delivered after the current
// batch.
func (q *Queue[E]) Drain() {
	q.mu.Lock()
	if q.draining {
		q.mu.Unlock()
		return
	}
	q.draining = true
	finished := false
	defer func() {
		// A panicking subscriber must not leave the queue stuck.
		if !finished {
			q.mu.Lock()
			q.draining = false
			q.mu.Unlock()
		}
	}()

	for len(q.pending) > 0 {
		batch := q.pending
		q.pending = nil
		q.mu.Unlock()

		subs := q.snapshot()
		for _, ev := range batch {
			for _, fn := range subs {
				fn(ev)
			}
		}
		q.mu.Lock()
	}
	q.draining = false
	finished = true
	q.mu.Unlock()
}

func (q *Queue[E]) snapshot() []func(E) {
	q.subMu.RLock()
	defer q.subMu.RUnlock()
	subs := make([]func(E), 0, len(q.subs))
	for _, fn := range q.subs {
		subs = append(subs, fn)
	}
	return subs
}
