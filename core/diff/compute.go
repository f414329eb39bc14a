package diff

import "fmt"

// sectionTrace records how a source section relates to the target.
type sectionTrace struct {
	reference    int // target index, or -1 when the section is deleted
	deleteOffset int // deleted sections before this one
	tracked      bool
}

// elementTrace records how a source element relates to the target.
type elementTrace struct {
	reference    ElementPath
	matched      bool
	deleteOffset int
	tracked      bool
}

type elementReference struct {
	path ElementPath
	ok   bool
}

type sectionResult struct {
	deleted  []int
	inserted []int
	updated  []int
	moved    []MovedSection
	traces   []sectionTrace
	refs     []int // source index per target section, or -1 when inserted
}

// Compute returns the staged changeset transforming source into target.
//
// Compute is pure and deterministic. It fails with ErrDuplicateIdentity when a
// section key or an element identity appears twice within source or target.
func Compute[T any, K comparable](contract Contract[T, K], source, target Snapshot[T]) (StagedChangeset[T], error) {
	sections, err := diffSections(source, target)
	if err != nil {
		return nil, err
	}

	// Identity table over the flattened source.
	sourcePositions := make(map[K]ElementPath, source.Count())
	for si, section := range source {
		for ei, element := range section.Elements {
			id := contract.Identifier(element)
			if prev, exists := sourcePositions[id]; exists {
				return nil, fmt.Errorf("source elements %s and %s share identity %v: %w",
					prev, ElementPath{Element: ei, Section: si}, id, ErrDuplicateIdentity)
			}
			sourcePositions[id] = ElementPath{Element: ei, Section: si}
		}
	}

	elementTraces := make([][]elementTrace, len(source))
	for si, section := range source {
		elementTraces[si] = make([]elementTrace, len(section.Elements))
	}

	targetRefs := make([][]elementReference, len(target))
	seen := make(map[K]ElementPath, target.Count())
	for ti, section := range target {
		targetRefs[ti] = make([]elementReference, len(section.Elements))
		for ei, element := range section.Elements {
			id := contract.Identifier(element)
			targetPath := ElementPath{Element: ei, Section: ti}
			if prev, exists := seen[id]; exists {
				return nil, fmt.Errorf("target elements %s and %s share identity %v: %w",
					prev, targetPath, id, ErrDuplicateIdentity)
			}
			seen[id] = targetPath

			sourcePath, found := sourcePositions[id]
			if !found {
				continue
			}
			targetRefs[ti][ei] = elementReference{path: sourcePath, ok: true}
			elementTraces[sourcePath.Section][sourcePath.Element].reference = targetPath
			elementTraces[sourcePath.Section][sourcePath.Element].matched = true
		}
	}

	var (
		elementDeleted  []ElementPath
		elementInserted []ElementPath
		elementUpdated  []ElementPath
		elementMoved    []MovedElement
	)

	firstStage := make(Snapshot[T], len(source))
	secondStage := make(Snapshot[T], 0, len(source))

	// Element deletions. Elements of deleted sections go away with their section.
	for si, section := range source {
		firstElements := append([]T(nil), section.Elements...)

		if sections.traces[si].reference >= 0 {
			offsetByDelete := 0
			secondElements := make([]T, 0, len(section.Elements))

			for ei := range section.Elements {
				trace := &elementTraces[si][ei]
				trace.deleteOffset = offsetByDelete

				// Survives when its target section already exists in source.
				if trace.matched && sections.refs[trace.reference.Section] >= 0 {
					targetElement := target[trace.reference.Section].Elements[trace.reference.Element]
					firstElements[ei] = targetElement
					secondElements = append(secondElements, targetElement)
					continue
				}

				elementDeleted = append(elementDeleted, ElementPath{Element: ei, Section: si})
				trace.tracked = true
				offsetByDelete++
			}

			secondStage = append(secondStage, Section[T]{Key: section.Key, Header: section.Header, Elements: secondElements})
		}

		firstStage[si] = Section[T]{Key: section.Key, Header: section.Header, Elements: firstElements}
	}

	thirdStage := make(Snapshot[T], 0, len(target))
	fourthStage := make(Snapshot[T], 0, len(target))

	// Element updates, moves and insertions. Inserted sections come in whole.
	for ti, targetSection := range target {
		si := sections.refs[ti]
		if si < 0 {
			thirdStage = append(thirdStage, targetSection)
			fourthStage = append(fourthStage, targetSection)
			continue
		}

		thirdStage = append(thirdStage, secondStage[si-sections.traces[si].deleteOffset])

		untracked := 0
		fourthElements := make([]T, 0, len(targetSection.Elements))

		for tei, targetElement := range targetSection.Elements {
			untracked = nextUntracked(elementTraces[si], untracked)
			targetPath := ElementPath{Element: tei, Section: ti}

			ref := targetRefs[ti][tei]
			if !ref.ok || sections.traces[ref.path.Section].reference < 0 {
				fourthElements = append(fourthElements, targetElement)
				elementInserted = append(elementInserted, targetPath)
				continue
			}

			sourcePath := ref.path
			movedSourceSection := sections.traces[sourcePath.Section].reference
			trace := &elementTraces[sourcePath.Section][sourcePath.Element]
			trace.tracked = true

			fourthElements = append(fourthElements, targetElement)

			sourceElement := source[sourcePath.Section].Elements[sourcePath.Element]
			if !contract.ContentEqual(targetElement, sourceElement) {
				elementUpdated = append(elementUpdated, sourcePath)
			}

			if sourcePath.Section != si || sourcePath.Element != untracked {
				elementMoved = append(elementMoved, MovedElement{
					Source: ElementPath{Element: sourcePath.Element - trace.deleteOffset, Section: movedSourceSection},
					Target: targetPath,
				})
			}
		}

		// Headers change only with the section reload stage.
		fourthStage = append(fourthStage, Section[T]{Key: targetSection.Key, Header: source[si].Header, Elements: fourthElements})
	}

	var staged StagedChangeset[T]

	if len(elementUpdated) > 0 {
		staged = append(staged, Changeset[T]{
			Data:    firstStage,
			Changes: Changes{ElementUpdated: elementUpdated},
		})
	}

	if len(sections.deleted) > 0 || len(elementDeleted) > 0 {
		staged = append(staged, Changeset[T]{
			Data:    secondStage,
			Changes: Changes{SectionDeleted: sections.deleted, ElementDeleted: elementDeleted},
		})
	}

	if len(sections.inserted) > 0 || len(sections.moved) > 0 {
		staged = append(staged, Changeset[T]{
			Data:    thirdStage,
			Changes: Changes{SectionInserted: sections.inserted, SectionMoved: sections.moved},
		})
	}

	if len(elementInserted) > 0 || len(elementMoved) > 0 {
		staged = append(staged, Changeset[T]{
			Data:    fourthStage,
			Changes: Changes{ElementInserted: elementInserted, ElementMoved: elementMoved},
		})
	}

	if len(sections.updated) > 0 {
		staged = append(staged, Changeset[T]{
			Data:    target,
			Changes: Changes{SectionUpdated: sections.updated},
		})
	}

	if len(staged) > 0 {
		staged[len(staged)-1].Data = target
	}

	return staged, nil
}

// MustCompute is like Compute but panics when the snapshots violate the
// identity contract.
func MustCompute[T any, K comparable](contract Contract[T, K], source, target Snapshot[T]) StagedChangeset[T] {
	staged, err := Compute(contract, source, target)
	if err != nil {
		panic(err)
	}
	return staged
}

// diffSections runs the section level pass. Updated sections are reported in
// target coordinates.
func diffSections[T any](source, target Snapshot[T]) (sectionResult, error) {
	result := sectionResult{
		traces: make([]sectionTrace, len(source)),
		refs:   make([]int, len(target)),
	}

	sourceIndex := make(map[string]int, len(source))
	for si, section := range source {
		if prev, exists := sourceIndex[section.Key]; exists {
			return result, fmt.Errorf("source sections %d and %d share key %q: %w", prev, si, section.Key, ErrDuplicateIdentity)
		}
		sourceIndex[section.Key] = si
		result.traces[si].reference = -1
	}

	targetIndex := make(map[string]int, len(target))
	for ti, section := range target {
		if prev, exists := targetIndex[section.Key]; exists {
			return result, fmt.Errorf("target sections %d and %d share key %q: %w", prev, ti, section.Key, ErrDuplicateIdentity)
		}
		targetIndex[section.Key] = ti

		result.refs[ti] = -1
		if si, found := sourceIndex[section.Key]; found {
			result.refs[ti] = si
			result.traces[si].reference = ti
		}
	}

	offsetByDelete := 0
	for si := range source {
		result.traces[si].deleteOffset = offsetByDelete
		if result.traces[si].reference < 0 {
			result.deleted = append(result.deleted, si)
			result.traces[si].tracked = true
			offsetByDelete++
		}
	}

	untracked := 0
	for ti, section := range target {
		untracked = nextUntrackedSection(result.traces, untracked)

		si := result.refs[ti]
		if si < 0 {
			result.inserted = append(result.inserted, ti)
			continue
		}
		result.traces[si].tracked = true

		if source[si].Header != section.Header {
			result.updated = append(result.updated, ti)
		}
		if si != untracked {
			result.moved = append(result.moved, MovedSection{Source: si - result.traces[si].deleteOffset, Target: ti})
		}
	}

	return result, nil
}

// nextUntracked returns the first untracked index at or after from, or -1.
// Once exhausted it stays exhausted.
func nextUntracked(traces []elementTrace, from int) int {
	if from < 0 {
		return -1
	}
	for i := from; i < len(traces); i++ {
		if !traces[i].tracked {
			return i
		}
	}
	return -1
}

func nextUntrackedSection(traces []sectionTrace, from int) int {
	if from < 0 {
		return -1
	}
	for i := from; i < len(traces); i++ {
		if !traces[i].tracked {
			return i
		}
	}
	return -1
}
