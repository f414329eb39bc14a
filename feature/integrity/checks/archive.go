package checks

import (
	"context"
	"fmt"

	"diffing-research/core/diff"
	"diffing-research/feature/catalog"
	"diffing-research/feature/diffing"
)

// ArchiveReader reads archived snapshots.
type ArchiveReader interface {
	List(ctx context.Context, prefix string) ([]catalog.ArchiveEntry, error)
	Get(ctx context.Context, name string) (catalog.ArchivedSnapshot, error)
}

// PairFailure is a consecutive snapshot pair that did not replay.
type PairFailure struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Error string `json:"error"`
}

// ArchiveReport is the result of an archive check.
type ArchiveReport struct {
	Board     string        `json:"board"`
	Snapshots int           `json:"snapshots"`
	Pairs     int           `json:"pairs"`
	Invalid   []string      `json:"invalid"`
	Failures  []PairFailure `json:"failures"`
	Matched   bool          `json:"matched"`
}

// CheckArchive walks the archived snapshots of board oldest first.
func CheckArchive(ctx context.Context, archive ArchiveReader, board string) (*ArchiveReport, error) {
	entries, err := archive.List(ctx, board+"/")
	if err != nil {
		return nil, err
	}

	report := &ArchiveReport{
		Board:     board,
		Snapshots: len(entries),
		Invalid:   []string{},
		Failures:  []PairFailure{},
	}

	var prev *catalog.ArchivedSnapshot
	var prevName string
	for _, entry := range entries {
		doc, err := archive.Get(ctx, entry.Name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name, err)
		}

		if _, err := diff.Compute(catalog.Contract, doc.Snapshot, doc.Snapshot); err != nil {
			report.Invalid = append(report.Invalid, entry.Name)
			prev = nil
			continue
		}

		if prev != nil {
			report.Pairs++
			if _, err := diffing.Compare(prev.Snapshot, doc.Snapshot, true); err != nil {
				report.Failures = append(report.Failures, PairFailure{From: prevName, To: entry.Name, Error: err.Error()})
			}
		}
		prev, prevName = &doc, entry.Name
	}

	report.Matched = len(report.Invalid) == 0 && len(report.Failures) == 0
	return report, nil
}
