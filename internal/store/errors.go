package store

import "errors"

var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates the resource already exists (unique constraint).
	ErrAlreadyExists = errors.New("already exists")

	// ErrConflict indicates the change is not allowed in the resource's
	// current state, e.g. moving a delivered order back to shipped.
	ErrConflict = errors.New("conflict")
)
