package querycache

import (
	"context"
	"time"
)

// Status is the lifecycle state of a cache entry.
type Status int

const (
	StatusPending Status = iota + 1
	StatusFulfilled
	StatusRejected
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusFulfilled:
		return "fulfilled"
	case StatusRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// FetchFunc performs the read behind a query. It must be safe to call again
// for the same arguments; the cache itself never retries it.
type FetchFunc func(ctx context.Context, args any) (any, error)

// WriteFunc performs the write behind a mutation. It is called exactly once
// per Mutate call.
type WriteFunc func(ctx context.Context, args any) (any, error)

// TagsFunc computes an entry's tags from a successful fetch result.
type TagsFunc func(result, args any) []string

// Query defines a cacheable read operation.
type Query struct {
	Name  string
	Fetch FetchFunc

	// ProvidesTags are attached to every successful result.
	ProvidesTags []string

	// Tags, when set, replaces ProvidesTags and is evaluated on each
	// successful fetch.
	Tags TagsFunc
}

func (q Query) tagsFor(result, args any) []string {
	if q.Tags != nil {
		return normalizeTags(q.Tags(result, args))
	}
	return normalizeTags(q.ProvidesTags)
}

// Mutation defines a write operation and the tags it invalidates on success.
type Mutation struct {
	Name            string
	Write           WriteFunc
	InvalidatesTags []string
}

// MutationRecord describes the outcome of one Mutate call.
type MutationRecord struct {
	Operation       string
	InvalidatesTags []string
	Value           any
	Err             error

	// Invalidated lists the keys whose entries were marked for refetch.
	Invalidated []string
	// Dropped lists invalidated keys that had no subscribers and were evicted.
	Dropped []string
}

// Snapshot is a point-in-time copy of an entry's state.
type Snapshot struct {
	Key    string
	Status Status

	// Value is the last fetched payload. While a refetch is pending it
	// still holds the previous value unless the cache clears on invalidate.
	Value any
	Err   error
	Tags  []string

	Subscribers int
	// Fetching reports whether a fetch for this entry is in flight.
	Fetching  bool
	UpdatedAt time.Time
}

// HasValue reports whether the snapshot carries a payload.
func (s Snapshot) HasValue() bool {
	return s.Value != nil
}

// ValueAs returns the snapshot's value as T.
func ValueAs[T any](s Snapshot) (T, bool) {
	v, ok := s.Value.(T)
	return v, ok
}

type entry struct {
	key   string
	query Query
	args  any

	status    Status
	value     any
	err       error
	tags      []string
	updatedAt time.Time

	subscribers int
	fetching    bool
	// settled is closed when the in-flight fetch completes.
	settled chan struct{}

	// releaseGen increments each time subscribers drops to zero so stale
	// eviction timers can recognize themselves.
	releaseGen    uint64
	evictTimer    *time.Timer
	evictOnSettle bool

	listeners map[uint64]func(Snapshot)
}

func (e *entry) snapshot() Snapshot {
	s := Snapshot{
		Key:         e.key,
		Status:      e.status,
		Value:       e.value,
		Err:         e.err,
		Subscribers: e.subscribers,
		Fetching:    e.fetching,
		UpdatedAt:   e.updatedAt,
	}
	if len(e.tags) > 0 {
		s.Tags = append([]string(nil), e.tags...)
	}
	return s
}

func (e *entry) stopEvictTimer() {
	if e.evictTimer != nil {
		e.evictTimer.Stop()
		e.evictTimer = nil
	}
	e.evictOnSettle = false
}
