package diffing

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"diffing-research/core/diff"
	"diffing-research/core/metrics"
	"diffing-research/core/reconcile"
	"diffing-research/feature/catalog"
)

// ErrVerification is returned when replaying a changeset does not reproduce
// its target.
var ErrVerification = errors.New("replayed changeset does not match target")

// Report is the result of comparing two snapshots.
type Report struct {
	Staged   diff.StagedChangeset[catalog.MovieViewModel] `json:"staged"`
	Summary  reconcile.PlanSummary                        `json:"summary"`
	Verified bool                                         `json:"verified"`
}

// Compare computes the staged changeset from source to target. With verify set
// the changeset is replayed onto source and checked against target.
func Compare(source, target diff.Snapshot[catalog.MovieViewModel], verify bool) (Report, error) {
	start := time.Now()
	staged, err := diff.Compute(catalog.Contract, source, target)
	metrics.ComputeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return Report{}, err
	}

	report := Report{Staged: staged, Summary: reconcile.Summarize(staged)}
	if !verify {
		return report, nil
	}

	replayed, err := diff.Replay(source, staged)
	if err != nil {
		return report, fmt.Errorf("%w: %w", ErrVerification, err)
	}
	if !Equivalent(replayed, target) {
		return report, ErrVerification
	}
	report.Verified = true
	return report, nil
}

// Equivalent reports whether a and b hold the same sections and elements in
// the same order with the same content.
func Equivalent(a, b diff.Snapshot[catalog.MovieViewModel]) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Key != b[i].Key || a[i].Header != b[i].Header || len(a[i].Elements) != len(b[i].Elements) {
			return false
		}
		for j, x := range a[i].Elements {
			y := b[i].Elements[j]
			if catalog.Contract.Identifier(x) != catalog.Contract.Identifier(y) || !catalog.Contract.ContentEqual(x, y) {
				return false
			}
		}
	}
	return true
}

// ParseSnapshot decodes a snapshot document. It accepts a bare snapshot (a
// list of sections), a flat list of movies, or an archived snapshot object.
func ParseSnapshot(data []byte) (diff.Snapshot[catalog.MovieViewModel], error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("empty snapshot document")
	}

	if data[0] == '{' {
		var doc catalog.ArchivedSnapshot
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode archived snapshot: %w", err)
		}
		return doc.Snapshot, nil
	}

	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if len(raw) > 0 {
		if _, sectioned := raw[0]["elements"]; !sectioned {
			var items []catalog.MovieViewModel
			if err := json.Unmarshal(data, &items); err != nil {
				return nil, fmt.Errorf("decode movies: %w", err)
			}
			return diff.Flat(items), nil
		}
	}

	var snapshot diff.Snapshot[catalog.MovieViewModel]
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return snapshot, nil
}
