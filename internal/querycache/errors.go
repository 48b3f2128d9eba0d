package querycache

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned by operations on a cache after Close.
	ErrClosed = errors.New("query cache closed")

	// ErrUnknownKey indicates no entry exists for the requested cache key.
	ErrUnknownKey = errors.New("unknown cache key")

	// ErrNoFetch indicates a query definition without a fetch function.
	ErrNoFetch = errors.New("query has no fetch function")

	// ErrNoWrite indicates a mutation definition without a write function.
	ErrNoWrite = errors.New("mutation has no write function")
)

// FetchFailure is the error stored on a rejected entry. Every subscriber of
// the entry observes the same FetchFailure.
type FetchFailure struct {
	Key string
	Err error
}

func (e *FetchFailure) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Key, e.Err)
}

func (e *FetchFailure) Unwrap() error { return e.Err }

// MutationFailure is returned by Mutate when the underlying write fails.
// The cache is left untouched when it is returned.
type MutationFailure struct {
	Operation string
	Err       error
}

func (e *MutationFailure) Error() string {
	return fmt.Sprintf("mutation %s: %v", e.Operation, e.Err)
}

func (e *MutationFailure) Unwrap() error { return e.Err }

// KeyNormalizationError is returned when an operation's arguments cannot be
// turned into a stable cache key. It is raised before the cache is touched.
type KeyNormalizationError struct {
	Operation string
	Err       error
}

func (e *KeyNormalizationError) Error() string {
	return fmt.Sprintf("normalize key for %q: %v", e.Operation, e.Err)
}

func (e *KeyNormalizationError) Unwrap() error { return e.Err }
