// Package alloc assigns dense integer identifiers to collection entries.
// Every collection keeps its live identifiers packed as {1..k}; deleting an
// entry frees its identifier for reuse by the next allocation.
package alloc

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/campuslink/platform/internal/app/storage"
	"github.com/campuslink/platform/pkg/logger"
)

// Source lists the identifiers currently live in a collection, sorted
// ascending.
type Source interface {
	ListIdentifiers(ctx context.Context) ([]int64, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) ([]int64, error)

// ListIdentifiers implements Source.
func (f SourceFunc) ListIdentifiers(ctx context.Context) ([]int64, error) {
	return f(ctx)
}

// NextFree returns the smallest positive integer absent from ids. The input
// need not be sorted; duplicates and non-positive values are tolerated.
func NextFree(ids []int64) int64 {
	sorted := append([]int64(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	expected := int64(1)
	for _, id := range sorted {
		if id < expected {
			continue
		}
		if id > expected {
			break
		}
		expected++
	}
	return expected
}

const defaultMaxAttempts = 5

// Allocator computes candidate identifiers for a collection and commits
// them through the caller's insert. Two concurrent allocations may compute
// the same candidate; the losing insert fails with
// storage.ErrDuplicateIdentifier and the allocator recomputes and retries,
// so the read-then-write sequence never produces a duplicate.
type Allocator struct {
	source      Source
	maxAttempts int
	log         *logger.Logger
}

// Option customises an Allocator.
type Option func(*Allocator)

// WithMaxAttempts bounds the retry loop.
func WithMaxAttempts(n int) Option {
	return func(a *Allocator) {
		if n > 0 {
			a.maxAttempts = n
		}
	}
}

// New constructs an allocator over the given identifier source.
func New(source Source, log *logger.Logger, opts ...Option) *Allocator {
	if log == nil {
		log = logger.NewDefault("alloc")
	}
	a := &Allocator{
		source:      source,
		maxAttempts: defaultMaxAttempts,
		log:         log,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Allocate picks the smallest unused identifier and runs insert with it.
// insert must persist the entity under the candidate identifier and return
// storage.ErrDuplicateIdentifier when the identifier was taken by a
// concurrent allocation. Retries are bounded; exhaustion surfaces as
// storage.ErrUnavailable so callers treat it like any other store outage.
func (a *Allocator) Allocate(ctx context.Context, insert func(ctx context.Context, identifier int64) error) (int64, error) {
	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		ids, err := a.source.ListIdentifiers(ctx)
		if err != nil {
			return 0, fmt.Errorf("list identifiers: %w", err)
		}

		candidate := NextFree(ids)
		err = insert(ctx, candidate)
		if err == nil {
			return candidate, nil
		}
		if !errors.Is(err, storage.ErrDuplicateIdentifier) {
			return 0, err
		}

		a.log.WithField("identifier", candidate).
			WithField("attempt", attempt).
			Debug("identifier taken by concurrent insert, recomputing")
	}
	return 0, fmt.Errorf("allocation retries exhausted after %d attempts: %w", a.maxAttempts, storage.ErrUnavailable)
}
