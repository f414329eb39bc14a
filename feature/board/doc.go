// Package board owns the list views the catalog is shown on.
//
// A Board pairs a surface.ListView with the BackingStore it renders from and
// runs all work touching them on its own main loop, one request at a time.
// Data is produced off the loop and handed to it for reconciliation.
//
// # Requests
//
//   - Load fetches the catalog and reloads the view.
//   - Reload draws a new sample and reloads the view without diffing.
//   - Update draws a new sample, computes the staged changeset from the data
//     currently shown and applies it batch by batch.
//   - Attach and Detach toggle whether the view is on screen. A detached view
//     is reloaded once instead of receiving batches.
//
// Every request starts a new generation. A request whose generation is no
// longer current when it reaches the loop, or while its stages are applied,
// is dropped and reported as stale. Each request delivers exactly one Outcome
// on the channel it returns.
//
// When an Archiver is set, the data a successful request ends on is archived
// and old snapshots beyond the retention are pruned.
package board
