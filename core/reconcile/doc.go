// Package reconcile drives a presentation surface from one snapshot to the
// next by applying a staged changeset, falling back to a full reload when
// incremental application is impossible or undesirable.
//
// The reconciler is the only component that sequences backing store writes
// and surface batches. For every stage it first publishes the stage's data to
// the store and then delivers exactly one batch with that stage's deltas, so
// the surface always observes store contents that match its post-batch
// layout.
//
// # Architecture
//
// 1. Surface and Store: the two collaborators an Apply call touches. Any list
//    widget implementing Surface can be driven, see core/surface for the
//    headless one.
//
// 2. Reconciler: Apply walks the stages, honouring the detached fallback, an
//    optional interrupt predicate and an optional generation fence.
//
// 3. Plan: Summarize reports per-stage change counts for logging and APIs.
//
// # Fallbacks
//
//   - Detached surface: the store receives the final data and the surface is
//     reloaded once. No batch is sent.
//   - Interrupt: when the predicate returns true (or panics) for a stage, the
//     store receives the final data and the surface is reloaded once. Stages
//     already applied stay applied.
//   - Stale: when a Fence shows that a newer request has begun, the remaining
//     stages are dropped silently. The newer request owns the surface.
//
// A batch the surface rejects is fatal to the request and is returned wrapped
// in ErrBatchFailed. It is not retried.
//
// # Usage Example
//
//	rec := reconcile.New[catalog.MovieViewModel]("table", logger)
//	staged, _ := diff.Compute(contract, store.Snapshot(), next)
//	result, err := rec.Apply(ctx, staged, view, store,
//	    reconcile.WithInterrupt(reconcile.InterruptAbove[catalog.MovieViewModel](500)),
//	)
package reconcile
