package diff

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateIdentity is returned when two elements (or two sections) of one
	// snapshot share the same identity.
	ErrDuplicateIdentity = errors.New("duplicate identity in snapshot")

	// ErrInconsistentUpdate is returned when a batch of changes does not transform
	// a layout into one matching the expected data.
	ErrInconsistentUpdate = errors.New("inconsistent batch update")
)

// Differentiable is implemented by element types that can be diffed.
type Differentiable[K comparable, T any] interface {
	// DifferenceIdentifier returns the key correlating the same logical entity
	// across snapshots.
	DifferenceIdentifier() K

	// IsContentEqual reports whether the element has the same content as other.
	// It is only consulted for elements with matching identifiers.
	IsContentEqual(other T) bool
}

// Contract bundles the identity and equality functions used by Compute.
type Contract[T any, K comparable] struct {
	// Identifier returns the identity key of an element.
	Identifier func(T) K

	// ContentEqual reports whether two elements with the same identity have
	// the same content.
	ContentEqual func(a, b T) bool
}

// ContractOf builds a Contract from a type implementing Differentiable.
func ContractOf[K comparable, T Differentiable[K, T]]() Contract[T, K] {
	return Contract[T, K]{
		Identifier:   func(v T) K { return v.DifferenceIdentifier() },
		ContentEqual: func(a, b T) bool { return a.IsContentEqual(b) },
	}
}

// Section is an ordered group of elements.
type Section[T any] struct {
	// Key identifies the section across snapshots.
	Key string `json:"key"`

	// Header is the section content. A matched section whose header changed is
	// reported as updated.
	Header string `json:"header,omitempty"`

	// Elements are the ordered items of the section.
	Elements []T `json:"elements"`
}

// Snapshot is the state of a list at one instant.
type Snapshot[T any] []Section[T]

// Flat wraps items as a snapshot with a single implicit section.
func Flat[T any](items []T) Snapshot[T] {
	return Snapshot[T]{{Elements: items}}
}

// Count returns the total number of elements across all sections.
func (s Snapshot[T]) Count() int {
	n := 0
	for _, section := range s {
		n += len(section.Elements)
	}
	return n
}

// Items returns all elements in section order.
func (s Snapshot[T]) Items() []T {
	items := make([]T, 0, s.Count())
	for _, section := range s {
		items = append(items, section.Elements...)
	}
	return items
}

// Clone returns a copy that shares no slices with s.
func (s Snapshot[T]) Clone() Snapshot[T] {
	if s == nil {
		return nil
	}
	out := make(Snapshot[T], len(s))
	for i, section := range s {
		out[i] = Section[T]{
			Key:      section.Key,
			Header:   section.Header,
			Elements: append([]T(nil), section.Elements...),
		}
	}
	return out
}

// ElementPath locates an element by section index and offset in that section.
type ElementPath struct {
	Element int `json:"element"`
	Section int `json:"section"`
}

func (p ElementPath) String() string {
	return fmt.Sprintf("[%d,%d]", p.Section, p.Element)
}

// MovedSection is a section move from a source index to a target index.
type MovedSection struct {
	Source int `json:"source"`
	Target int `json:"target"`
}

// MovedElement is an element move from a source path to a target path.
type MovedElement struct {
	Source ElementPath `json:"source"`
	Target ElementPath `json:"target"`
}

// Changes holds the structural deltas of one batch. Deletions, reloads and move
// sources refer to positions before the batch; insertions and move targets refer
// to positions after it.
type Changes struct {
	SectionDeleted  []int          `json:"section_deleted,omitempty"`
	SectionInserted []int          `json:"section_inserted,omitempty"`
	SectionUpdated  []int          `json:"section_updated,omitempty"`
	SectionMoved    []MovedSection `json:"section_moved,omitempty"`
	ElementDeleted  []ElementPath  `json:"element_deleted,omitempty"`
	ElementInserted []ElementPath  `json:"element_inserted,omitempty"`
	ElementUpdated  []ElementPath  `json:"element_updated,omitempty"`
	ElementMoved    []MovedElement `json:"element_moved,omitempty"`
}

// ChangeCount returns the number of individual edits in the batch.
func (c Changes) ChangeCount() int {
	return len(c.SectionDeleted) + len(c.SectionInserted) + len(c.SectionUpdated) + len(c.SectionMoved) +
		len(c.ElementDeleted) + len(c.ElementInserted) + len(c.ElementUpdated) + len(c.ElementMoved)
}

// HasChanges reports whether the batch contains at least one edit.
func (c Changes) HasChanges() bool {
	return c.ChangeCount() > 0
}

func (c Changes) String() string {
	return fmt.Sprintf("sections(-%d +%d ~%d >%d) elements(-%d +%d ~%d >%d)",
		len(c.SectionDeleted), len(c.SectionInserted), len(c.SectionUpdated), len(c.SectionMoved),
		len(c.ElementDeleted), len(c.ElementInserted), len(c.ElementUpdated), len(c.ElementMoved))
}

// Changeset is one stage of a staged changeset.
type Changeset[T any] struct {
	// Data is the snapshot reached after applying this stage.
	Data Snapshot[T] `json:"data"`

	// Changes are the deltas transforming the previous stage's data into Data.
	Changes Changes `json:"changes"`
}

// StagedChangeset is an ordered sequence of independently batchable changesets.
type StagedChangeset[T any] []Changeset[T]

// Last returns the final stage and false when there are no stages.
func (s StagedChangeset[T]) Last() (Changeset[T], bool) {
	if len(s) == 0 {
		return Changeset[T]{}, false
	}
	return s[len(s)-1], true
}

// ChangeCount returns the number of edits across all stages.
func (s StagedChangeset[T]) ChangeCount() int {
	n := 0
	for _, cs := range s {
		n += cs.Changes.ChangeCount()
	}
	return n
}
