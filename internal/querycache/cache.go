package querycache

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache is an in-memory query cache. Entries are keyed by operation name and
// normalized arguments, carry invalidation tags and are reference counted by
// their subscribers.
//
// One mutex guards entries, the tag index and subscriber counts, so every
// state transition is atomic. Fetches and writes run outside the lock and
// their results are applied in a single critical section on completion.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
	tags    *tagIndex
	stats   Stats
	closed  bool
	nextID  uint64

	// in-flight fetch accounting for WaitIdle
	inflight int
	idle     chan struct{}

	grace             time.Duration
	clearOnInvalidate bool
	retryRejected     bool
	logger            *slog.Logger

	// flight keeps a single in-flight fetch per key, including across Reset
	// where a detached entry may still be loading.
	flight singleflight.Group

	base   context.Context
	cancel context.CancelFunc
	notify *notifier
	inst   instruments
}

// New creates a cache. Close releases its background resources.
func New(opts ...Option) *Cache {
	base, cancel := context.WithCancel(context.Background())
	c := &Cache{
		entries:       make(map[string]*entry),
		tags:          newTagIndex(),
		grace:         DefaultGracePeriod,
		retryRejected: true,
		logger:        slog.Default(),
		base:          base,
		cancel:        cancel,
		notify:        newNotifier(),
		inst:          newInstruments(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Subscribe returns a handle on the entry for q and args, creating the entry
// and starting its fetch if it does not exist yet. Concurrent subscribers to
// the same key share the entry and its single in-flight fetch.
//
// ctx only contributes values to a fetch started by this call; cancelling it
// does not abort the fetch, which other subscribers may be waiting on.
func (c *Cache) Subscribe(ctx context.Context, q Query, args any) (*Handle, error) {
	if q.Fetch == nil {
		return nil, fmt.Errorf("subscribe %s: %w", q.Name, ErrNoFetch)
	}
	key, err := Key(q.Name, args)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}

	e, ok := c.entries[key]
	start := false
	switch {
	case !ok:
		e = &entry{
			key:       key,
			query:     q,
			args:      args,
			listeners: make(map[uint64]func(Snapshot)),
		}
		c.entries[key] = e
		c.stats.Misses++
		c.beginFetchLocked(e, false)
		start = true
	case e.status == StatusRejected && !e.fetching && c.retryRejected:
		c.stats.Misses++
		c.beginFetchLocked(e, false)
		start = true
	default:
		c.stats.Hits++
	}

	if e.subscribers == 0 {
		e.stopEvictTimer()
	}
	e.subscribers++
	h := &Handle{c: c, e: e}
	c.mu.Unlock()

	if start {
		go c.runFetch(ctx, e)
	}
	return h, nil
}

// Mutate runs the mutation's write once. On success every entry carrying one
// of m.InvalidatesTags is marked for refetch; on failure the cache is left
// untouched and a *MutationFailure is returned.
func (c *Cache) Mutate(ctx context.Context, m Mutation, args any) (MutationRecord, error) {
	rec := MutationRecord{
		Operation:       m.Name,
		InvalidatesTags: normalizeTags(m.InvalidatesTags),
	}
	if m.Write == nil {
		rec.Err = fmt.Errorf("mutate %s: %w", m.Name, ErrNoWrite)
		return rec, rec.Err
	}
	if c.isClosed() {
		rec.Err = ErrClosed
		return rec, ErrClosed
	}

	c.inst.add(ctx, c.inst.mutations, 1, m.Name)
	v, err := m.Write(ctx, args)

	c.mu.Lock()
	c.stats.Mutations++
	if err != nil {
		c.stats.MutationFailures++
	}
	c.mu.Unlock()

	if err != nil {
		failure := &MutationFailure{Operation: m.Name, Err: err}
		rec.Err = failure
		c.logger.Debug("mutation failed", "operation", m.Name, "error", err)
		return rec, failure
	}

	rec.Value = v
	rec.Invalidated, rec.Dropped = c.InvalidateTags(ctx, rec.InvalidatesTags...)
	return rec, nil
}

// InvalidateTags marks every entry carrying one of tags for refetch and
// returns the affected keys. Entries without subscribers are evicted instead
// of refetched and are also reported in dropped. Entries that already have a
// fetch in flight are not fetched a second time.
func (c *Cache) InvalidateTags(ctx context.Context, tags ...string) (invalidated, dropped []string) {
	tags = normalizeTags(tags)
	if len(tags) == 0 {
		return nil, nil
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, nil
	}
	var refetch []*entry
	for _, key := range c.tags.keys(tags) {
		e := c.entries[key]
		invalidated = append(invalidated, key)
		if e.subscribers == 0 {
			c.evictLocked(e, "invalidated without subscribers")
			dropped = append(dropped, key)
			continue
		}
		if e.fetching {
			continue
		}
		c.beginFetchLocked(e, c.clearOnInvalidate)
		refetch = append(refetch, e)
	}
	c.stats.Invalidations += int64(len(invalidated))
	c.mu.Unlock()

	if len(invalidated) > 0 {
		c.inst.add(ctx, c.inst.invalidations, int64(len(invalidated)), "invalidate")
		c.logger.Debug("invalidated tags",
			"tags", tags, "entries", len(invalidated), "refetching", len(refetch))
	}
	for _, e := range refetch {
		go c.runFetch(ctx, e)
	}
	return invalidated, dropped
}

// Refetch starts a new fetch for key unless one is already in flight. It is
// the manual retry path for rejected entries.
func (c *Cache) Refetch(ctx context.Context, key string) error {
	c.mu.Lock()
	e, ok := c.entries[key]
	c.mu.Unlock()
	if !ok {
		return fmt.Errorf("refetch %s: %w", key, ErrUnknownKey)
	}
	return c.refetchEntry(ctx, e)
}

func (c *Cache) refetchEntry(ctx context.Context, e *entry) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.entries[e.key] != e {
		c.mu.Unlock()
		return fmt.Errorf("refetch %s: %w", e.key, ErrUnknownKey)
	}
	if e.fetching {
		c.mu.Unlock()
		return nil
	}
	c.beginFetchLocked(e, false)
	c.mu.Unlock()

	go c.runFetch(ctx, e)
	return nil
}

// Entry returns a snapshot of the entry stored under key.
func (c *Cache) Entry(key string) (Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return Snapshot{}, false
	}
	return e.snapshot(), true
}

// Keys returns the keys of all live entries in sorted order.
func (c *Cache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.entries))
	for k := range c.entries {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// KeysForTag returns the keys currently indexed under tag.
func (c *Cache) KeysForTag(tag string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tags.keys([]string{tag})
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns a snapshot of cache statistics.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Entries = len(c.entries)
	s.Tags = c.tags.len()
	for _, e := range c.entries {
		s.Subscribers += e.subscribers
	}
	if total := s.Hits + s.Misses; total > 0 {
		s.HitRate = float64(s.Hits) / float64(total)
	}
	return s
}

// ResetStats zeroes the counters.
func (c *Cache) ResetStats() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats = Stats{}
}

// Reset drops every entry and tag. Outstanding handles keep their last
// state but are detached and their listeners removed; fetches still in flight are discarded when they
// complete.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		e.stopEvictTimer()
		clear(e.listeners)
	}
	c.entries = make(map[string]*entry)
	c.tags.reset()
	c.stats = Stats{}
}

// Close resets the cache, cancels in-flight fetches and stops listener
// delivery. Subscribe and Mutate fail with ErrClosed afterwards.
func (c *Cache) Close() {
	c.Reset()
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.cancel()
	c.notify.close()
}

// WaitIdle blocks until no fetch is in flight.
func (c *Cache) WaitIdle(ctx context.Context) error {
	for {
		c.mu.Lock()
		if c.inflight == 0 {
			c.mu.Unlock()
			return nil
		}
		if c.idle == nil {
			c.idle = make(chan struct{})
		}
		ch := c.idle
		c.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (c *Cache) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// beginFetchLocked moves e to pending and accounts for the fetch the caller
// is about to start.
func (c *Cache) beginFetchLocked(e *entry, clear bool) {
	e.status = StatusPending
	e.err = nil
	if clear {
		e.value = nil
	}
	e.fetching = true
	e.settled = make(chan struct{})
	c.stats.Fetches++
	c.inflight++
	c.notifyLocked(e)
}

func (c *Cache) runFetch(parent context.Context, e *entry) {
	ctx, cancel := c.fetchContext(parent)
	defer cancel()

	c.inst.add(ctx, c.inst.fetches, 1, e.query.Name)
	v, err, _ := c.flight.Do(e.key, func() (any, error) {
		return safeFetch(ctx, e.query, e.args)
	})

	var tags []string
	if err == nil {
		tags = e.query.tagsFor(v, e.args)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.entries[e.key] == e
	e.fetching = false
	e.updatedAt = time.Now()
	if err != nil {
		e.status = StatusRejected
		e.value = nil
		e.err = &FetchFailure{Key: e.key, Err: err}
		if current {
			c.stats.FetchFailures++
		}
		c.inst.add(ctx, c.inst.fetchFailures, 1, e.query.Name)
		c.logger.Warn("query fetch failed", "key", e.key, "error", err)
	} else {
		e.status = StatusFulfilled
		e.value = v
		e.err = nil
		if current {
			c.tags.replace(e.key, e.tags, tags)
		}
		e.tags = tags
	}
	close(e.settled)
	c.notifyLocked(e)

	if current && e.subscribers == 0 && e.evictOnSettle {
		c.evictLocked(e, "released while fetching")
	}

	c.inflight--
	if c.inflight == 0 && c.idle != nil {
		close(c.idle)
		c.idle = nil
	}
}

// fetchContext keeps the values of parent but not its cancellation; the
// fetch is shared and lives until the cache is closed.
func (c *Cache) fetchContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(context.WithoutCancel(parent))
	stop := context.AfterFunc(c.base, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func safeFetch(ctx context.Context, q Query, args any) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("fetch panicked: %v", r)
		}
	}()
	return q.Fetch(ctx, args)
}

// release drops one subscriber from e and schedules its eviction when none
// are left.
func (c *Cache) release(e *entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e.subscribers--
	if e.subscribers > 0 || c.closed || c.entries[e.key] != e {
		return
	}
	e.releaseGen++
	if c.grace == 0 {
		c.tryEvictLocked(e)
		return
	}
	gen := e.releaseGen
	e.evictTimer = time.AfterFunc(c.grace, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.entries[e.key] != e || e.subscribers > 0 || e.releaseGen != gen {
			return
		}
		e.evictTimer = nil
		c.tryEvictLocked(e)
	})
}

// tryEvictLocked evicts e now, or once its in-flight fetch settles.
func (c *Cache) tryEvictLocked(e *entry) {
	if e.fetching {
		e.evictOnSettle = true
		return
	}
	c.evictLocked(e, "grace period elapsed")
}

func (c *Cache) evictLocked(e *entry, reason string) {
	e.stopEvictTimer()
	delete(c.entries, e.key)
	c.tags.remove(e.key, e.tags)
	c.stats.Evictions++
	c.inst.add(context.Background(), c.inst.evictions, 1, e.query.Name)
	c.logger.Debug("evicted query entry", "key", e.key, "reason", reason)
}

func (c *Cache) notifyLocked(e *entry) {
	if len(e.listeners) == 0 {
		return
	}
	ids := make([]uint64, 0, len(e.listeners))
	for id := range e.listeners {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	fns := make([]func(Snapshot), len(ids))
	for i, id := range ids {
		fns[i] = e.listeners[id]
	}
	c.notify.push(fns, e.snapshot())
}
