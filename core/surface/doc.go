// Package surface provides a headless, windowed list view that accepts batched
// structural edits the way a table or collection widget does.
//
// A ListView renders rows pulled from a DataSource (the backing store). Batch
// updates are validated against the data source after the batch: if the rows
// the view would show differ in count from what the data source reports, the
// batch is rejected with diff.ErrInconsistentUpdate and the view is left as it
// was. That check is the same one a native list widget performs, and the usual
// symptom of a backing store and a view that have drifted apart.
//
// # Components
//
//   - BackingStore: mutex-guarded holder of the snapshot the view renders from.
//   - ListView: attach/detach, PerformBatchUpdates, ReloadData, row queries, a
//     visible window and a bounded log of applied batches.
package surface
