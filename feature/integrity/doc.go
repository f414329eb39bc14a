// Package integrity provides health checks over the service's persisted state.
//
// Unlike the board and diffing packages, which compute and apply changesets,
// this package validates the infrastructure they rely on and the snapshots
// they leave behind.
//
// # Checks Provided
//
//   - Storage: Checks that the archive bucket exists and counts archived snapshots.
//   - Schema: Checks that the page cache table holds every column the catalog uses.
//   - Archive: Walks the archived snapshots of a board in order. Every snapshot
//     must satisfy the identity contract and every consecutive pair must diff
//     and replay back to its target.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/storage : Runs the storage check (supports ?fix=true).
//   - GET /integrity/schema : Runs the schema check.
//   - GET /integrity/archive : Runs the archive check (?board=, default table).
package integrity
