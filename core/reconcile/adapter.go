package reconcile

import (
	"context"

	"diffing-research/core/diff"
)

// Surface is a list widget that can be driven by a Reconciler.
type Surface interface {
	// Attached reports whether the surface is currently on screen.
	Attached() bool

	// PerformBatchUpdates applies changes as one atomic batch and returns once
	// the batch has completed. The batch is validated against the store's
	// current data.
	PerformBatchUpdates(ctx context.Context, changes diff.Changes) error

	// ReloadData discards incremental state and renders the store afresh.
	ReloadData(ctx context.Context) error
}

// Store is the backing collection a Surface renders from.
type Store[T any] interface {
	Set(data diff.Snapshot[T])
}
