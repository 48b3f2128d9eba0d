package querycache

import (
	"context"
	"slices"
	"sync"
)

// Handle is a subscriber's view of a cache entry. It keeps the entry alive
// until Release is called.
type Handle struct {
	c *Cache
	e *entry

	mu        sync.Mutex
	listeners []uint64
	released  bool
}

// Key returns the cache key of the entry.
func (h *Handle) Key() string {
	return h.e.key
}

// Snapshot returns the entry's current state.
func (h *Handle) Snapshot() Snapshot {
	h.c.mu.Lock()
	defer h.c.mu.Unlock()
	return h.e.snapshot()
}

// Wait blocks until the entry is no longer pending and returns its state.
// A rejected entry is returned with a nil error; inspect Snapshot.Err.
func (h *Handle) Wait(ctx context.Context) (Snapshot, error) {
	for {
		h.c.mu.Lock()
		if h.e.status != StatusPending {
			s := h.e.snapshot()
			h.c.mu.Unlock()
			return s, nil
		}
		ch := h.e.settled
		h.c.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return h.Snapshot(), ctx.Err()
		}
	}
}

// Result waits for the entry to settle and returns its value, or the
// *FetchFailure of a rejected entry.
func (h *Handle) Result(ctx context.Context) (any, error) {
	s, err := h.Wait(ctx)
	if err != nil {
		return nil, err
	}
	if s.Status == StatusRejected {
		return nil, s.Err
	}
	return s.Value, nil
}

// OnChange registers fn to be called after every state transition of the
// entry. Calls are made from a single goroutine in transition order. The
// returned function removes the listener; Release removes it as well. On a
// released handle OnChange registers nothing.
func (h *Handle) OnChange(fn func(Snapshot)) (cancel func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released {
		return func() {}
	}

	h.c.mu.Lock()
	h.c.nextID++
	id := h.c.nextID
	h.e.listeners[id] = fn
	h.c.mu.Unlock()
	h.listeners = append(h.listeners, id)

	return func() {
		h.mu.Lock()
		h.listeners = slices.DeleteFunc(h.listeners, func(v uint64) bool { return v == id })
		h.mu.Unlock()

		h.c.mu.Lock()
		delete(h.e.listeners, id)
		h.c.mu.Unlock()
	}
}

// Refetch starts a new fetch for the entry unless one is in flight.
func (h *Handle) Refetch(ctx context.Context) error {
	return h.c.refetchEntry(ctx, h.e)
}

// Release unsubscribes. It is safe to call more than once.
func (h *Handle) Release() {
	h.mu.Lock()
	if h.released {
		h.mu.Unlock()
		return
	}
	h.released = true
	ids := h.listeners
	h.listeners = nil
	h.mu.Unlock()

	h.c.mu.Lock()
	for _, id := range ids {
		delete(h.e.listeners, id)
	}
	h.c.mu.Unlock()

	h.c.release(h.e)
}
