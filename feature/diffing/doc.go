// Package diffing exposes the changeset computer over HTTP and to the CLI.
//
// POST /diff takes a source and a target movie snapshot and returns the staged
// changeset between them with a per-stage summary. Snapshots sharing an
// identity inside one snapshot are rejected with 422.
package diffing
