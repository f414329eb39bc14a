package reconcile

import "diffing-research/core/diff"

// StageSummary counts the deltas of one stage.
type StageSummary struct {
	SectionsDeleted  int `json:"sections_deleted,omitempty"`
	SectionsInserted int `json:"sections_inserted,omitempty"`
	SectionsUpdated  int `json:"sections_updated,omitempty"`
	SectionsMoved    int `json:"sections_moved,omitempty"`
	ElementsDeleted  int `json:"elements_deleted,omitempty"`
	ElementsInserted int `json:"elements_inserted,omitempty"`
	ElementsUpdated  int `json:"elements_updated,omitempty"`
	ElementsMoved    int `json:"elements_moved,omitempty"`
}

// PlanSummary provides aggregate statistics for a staged changeset.
type PlanSummary struct {
	// Stages is the number of stages.
	Stages int `json:"stages"`

	// TotalChanges is the number of deltas across all stages.
	TotalChanges int `json:"total_changes"`

	// Sections and Items describe the final data.
	Sections int `json:"sections"`
	Items    int `json:"items"`

	// PerStage holds the per-stage counts in apply order.
	PerStage []StageSummary `json:"per_stage"`
}

// Summarize returns the statistics of staged.
func Summarize[T any](staged diff.StagedChangeset[T]) PlanSummary {
	summary := PlanSummary{
		Stages:       len(staged),
		TotalChanges: staged.ChangeCount(),
		PerStage:     make([]StageSummary, 0, len(staged)),
	}
	if final, ok := staged.Last(); ok {
		summary.Sections = len(final.Data)
		summary.Items = final.Data.Count()
	}

	for _, stage := range staged {
		c := stage.Changes
		summary.PerStage = append(summary.PerStage, StageSummary{
			SectionsDeleted:  len(c.SectionDeleted),
			SectionsInserted: len(c.SectionInserted),
			SectionsUpdated:  len(c.SectionUpdated),
			SectionsMoved:    len(c.SectionMoved),
			ElementsDeleted:  len(c.ElementDeleted),
			ElementsInserted: len(c.ElementInserted),
			ElementsUpdated:  len(c.ElementUpdated),
			ElementsMoved:    len(c.ElementMoved),
		})
	}
	return summary
}
