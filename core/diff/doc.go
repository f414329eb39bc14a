// Package diff computes staged changesets between two snapshots of an ordered,
// sectioned list.
//
// A snapshot is an ordered list of sections, each holding an ordered list of
// elements. Elements are correlated across snapshots by identity and compared
// by content; sections are correlated by Key and compared by Header.
//
// # Staging
//
// A windowed list view cannot apply an arbitrary mix of section and element
// edits in one batch: deletions are resolved against the layout before the
// batch, insertions against the layout after it, and a move must not have its
// source or destination invalidated by another edit of the same batch. Compute
// therefore splits a transition into up to five ordered stages, omitting empty
// ones:
//
//  1. element updates (source coordinates)
//  2. section deletes and element deletes (source coordinates)
//  3. section inserts and section moves
//  4. element inserts and element moves, including moves across sections
//  5. section updates (target coordinates)
//
// Every stage carries the full snapshot reached once it has been applied, and
// the last stage always carries the target itself.
//
// # Contract
//
// Identities must be unique within a snapshot. Compute reports a violation as
// ErrDuplicateIdentity instead of producing a diff.
//
// # Usage
//
//	contract := diff.ContractOf[int, catalog.MovieViewModel]()
//	staged, err := diff.Compute(contract, diff.Flat(oldMovies), diff.Flat(newMovies))
//	if err != nil {
//	    return err
//	}
//	for _, changeset := range staged {
//	    fmt.Println(changeset.Changes)
//	}
package diff
