package shop

import (
	"context"
	"fmt"

	"github.com/revittco/storefront/internal/querycache"
)

// State is a typed view of a cache snapshot.
type State[T any] struct {
	Status querycache.Status
	// Data is the last fetched value; the zero value until the first
	// successful fetch.
	Data T
	// HasData reports whether Data came from a fetch.
	HasData  bool
	Err      error
	Fetching bool
}

// Loading reports whether the first fetch is still running.
func (s State[T]) Loading() bool {
	return s.Status == querycache.StatusPending && !s.HasData
}

func stateOf[T any](snap querycache.Snapshot) State[T] {
	st := State[T]{Status: snap.Status, Err: snap.Err, Fetching: snap.Fetching}
	if v, ok := querycache.ValueAs[T](snap); ok {
		st.Data = v
		st.HasData = true
	}
	return st
}

// Subscription is a typed handle on a cached query.
type Subscription[T any] struct {
	h *querycache.Handle
}

func subscribe[T any](ctx context.Context, a *API, name string, args any) (*Subscription[T], error) {
	q, ok := a.queries[name]
	if !ok {
		return nil, fmt.Errorf("unknown query endpoint %q", name)
	}
	h, err := a.cache.Subscribe(ctx, q, args)
	if err != nil {
		return nil, err
	}
	return &Subscription[T]{h: h}, nil
}

// Key returns the cache key of the query.
func (s *Subscription[T]) Key() string { return s.h.Key() }

// State returns the current state without waiting.
func (s *Subscription[T]) State() State[T] {
	return stateOf[T](s.h.Snapshot())
}

// Result waits for the query to settle and returns its data or the fetch
// failure.
func (s *Subscription[T]) Result(ctx context.Context) (T, error) {
	var zero T
	v, err := s.h.Result(ctx)
	if err != nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("query %s: unexpected result type %T", s.h.Key(), v)
	}
	return out, nil
}

// OnChange calls fn after every state transition of the query.
func (s *Subscription[T]) OnChange(fn func(State[T])) (cancel func()) {
	return s.h.OnChange(func(snap querycache.Snapshot) {
		fn(stateOf[T](snap))
	})
}

// Refetch fetches the query again unless a fetch is already running.
func (s *Subscription[T]) Refetch(ctx context.Context) error {
	return s.h.Refetch(ctx)
}

// Release unsubscribes from the query.
func (s *Subscription[T]) Release() { s.h.Release() }
