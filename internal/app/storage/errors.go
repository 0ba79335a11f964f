package storage

import "errors"

// Sentinel errors surfaced by every store implementation. Callers match
// them with errors.Is; the HTTP layer maps them to status codes.
var (
	// ErrNotFound reports that the referenced entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicateIdentifier reports that an insert collided with a live
	// identifier. The allocator consumes this to drive its retry loop.
	ErrDuplicateIdentifier = errors.New("identifier already in use")

	// ErrDuplicateEmail reports a unique-email violation on the users
	// collection.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrUnavailable reports that the store cannot be reached or an
	// operation timed out. No partial state is committed.
	ErrUnavailable = errors.New("store unavailable")
)
