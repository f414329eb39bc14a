package diff

import "fmt"

const unset = -2

// Patch applies one batch of changes to prev the way a windowed list view does
// and returns the resulting layout.
//
// Deletions, reloads and move sources are resolved against prev; insertions and
// move targets against the layout after the batch. Untouched elements keep
// their relative order and fill the remaining positions. Content for inserted
// and reloaded positions is taken from next, which must describe the layout
// after the batch. Any index out of range, any position claimed twice, or a
// resulting layout whose counts differ from next yields ErrInconsistentUpdate.
func Patch[T any](prev Snapshot[T], changes Changes, next Snapshot[T]) (Snapshot[T], error) {
	sections, origin, err := patchSections(prev, changes, next)
	if err != nil {
		return nil, err
	}

	postOf := make([]int, len(prev))
	for i := range postOf {
		postOf[i] = -1
	}
	for j, o := range origin {
		if o >= 0 {
			postOf[o] = j
		}
	}

	if err := patchElements(prev, changes, next, sections, origin, postOf); err != nil {
		return nil, err
	}

	for j := range sections {
		if len(sections[j].Elements) != len(next[j].Elements) {
			return nil, inconsistent("section %d holds %d elements, data has %d", j, len(sections[j].Elements), len(next[j].Elements))
		}
	}

	return sections, nil
}

// Replay applies every stage of staged to source in order and returns the final
// layout. A correct staged changeset replays to its target.
func Replay[T any](source Snapshot[T], staged StagedChangeset[T]) (Snapshot[T], error) {
	current := source.Clone()
	for i, cs := range staged {
		next, err := Patch(current, cs.Changes, cs.Data)
		if err != nil {
			return nil, fmt.Errorf("stage %d: %w", i+1, err)
		}
		current = next
	}
	return current, nil
}

func patchSections[T any](prev Snapshot[T], changes Changes, next Snapshot[T]) (Snapshot[T], []int, error) {
	n := len(prev)
	removed := make([]bool, n)

	for _, i := range changes.SectionDeleted {
		if i < 0 || i >= n || removed[i] {
			return nil, nil, inconsistent("invalid section delete %d", i)
		}
		removed[i] = true
	}
	for _, m := range changes.SectionMoved {
		if m.Source < 0 || m.Source >= n || removed[m.Source] {
			return nil, nil, inconsistent("invalid section move source %d", m.Source)
		}
		removed[m.Source] = true
	}

	count := n - len(changes.SectionDeleted) + len(changes.SectionInserted)
	if count != len(next) {
		return nil, nil, inconsistent("batch yields %d sections, data has %d", count, len(next))
	}

	out := make(Snapshot[T], count)
	origin := make([]int, count)
	for j := range origin {
		origin[j] = unset
	}

	for _, t := range changes.SectionInserted {
		if t < 0 || t >= count || origin[t] != unset {
			return nil, nil, inconsistent("invalid section insert %d", t)
		}
		out[t] = cloneSection(next[t])
		origin[t] = -1
	}
	for _, m := range changes.SectionMoved {
		if m.Target < 0 || m.Target >= count || origin[m.Target] != unset {
			return nil, nil, inconsistent("invalid section move target %d", m.Target)
		}
		out[m.Target] = cloneSection(prev[m.Source])
		origin[m.Target] = m.Source
	}

	j := 0
	for i := 0; i < n; i++ {
		if removed[i] {
			continue
		}
		for j < count && origin[j] != unset {
			j++
		}
		if j >= count {
			return nil, nil, inconsistent("no room for section %d", i)
		}
		out[j] = cloneSection(prev[i])
		origin[j] = i
		j++
	}
	for j := range origin {
		if origin[j] == unset {
			return nil, nil, inconsistent("section %d left empty", j)
		}
	}

	for _, r := range changes.SectionUpdated {
		if r < 0 || r >= n || (removed[r] && !isMoveSource(changes.SectionMoved, r)) {
			return nil, nil, inconsistent("invalid section reload %d", r)
		}
		for j, o := range origin {
			if o == r {
				out[j] = cloneSection(next[j])
				origin[j] = -1
				break
			}
		}
	}

	return out, origin, nil
}

func patchElements[T any](prev Snapshot[T], changes Changes, next Snapshot[T], out Snapshot[T], origin, postOf []int) error {
	if len(changes.ElementDeleted) == 0 && len(changes.ElementInserted) == 0 &&
		len(changes.ElementMoved) == 0 && len(changes.ElementUpdated) == 0 {
		return nil
	}

	validSource := func(p ElementPath) bool {
		return p.Section >= 0 && p.Section < len(prev) && postOf[p.Section] >= 0 &&
			origin[postOf[p.Section]] >= 0 && p.Element >= 0 && p.Element < len(prev[p.Section].Elements)
	}
	validTarget := func(p ElementPath) bool {
		return p.Section >= 0 && p.Section < len(out) && origin[p.Section] >= 0 && p.Element >= 0
	}

	removed := make([][]bool, len(prev))
	for i := range prev {
		removed[i] = make([]bool, len(prev[i].Elements))
	}
	for _, p := range changes.ElementDeleted {
		if !validSource(p) || removed[p.Section][p.Element] {
			return inconsistent("invalid element delete %s", p)
		}
		removed[p.Section][p.Element] = true
	}
	moved := make([][]bool, len(prev))
	for i := range prev {
		moved[i] = make([]bool, len(prev[i].Elements))
	}
	for _, m := range changes.ElementMoved {
		if !validSource(m.Source) || removed[m.Source.Section][m.Source.Element] {
			return inconsistent("invalid element move source %s", m.Source)
		}
		removed[m.Source.Section][m.Source.Element] = true
		moved[m.Source.Section][m.Source.Element] = true
	}

	type slot struct {
		value  T
		origin ElementPath
		filled bool
		fresh  bool
	}

	slotsBySection := make(map[int][]slot)
	slotsFor := func(j int) []slot {
		if s, ok := slotsBySection[j]; ok {
			return s
		}
		s := make([]slot, len(next[j].Elements))
		slotsBySection[j] = s
		return s
	}

	for _, p := range changes.ElementInserted {
		if !validTarget(p) {
			return inconsistent("invalid element insert %s", p)
		}
		s := slotsFor(p.Section)
		if p.Element >= len(s) || s[p.Element].filled {
			return inconsistent("invalid element insert %s", p)
		}
		s[p.Element] = slot{value: next[p.Section].Elements[p.Element], filled: true, fresh: true}
	}
	for _, m := range changes.ElementMoved {
		if !validTarget(m.Target) {
			return inconsistent("invalid element move target %s", m.Target)
		}
		s := slotsFor(m.Target.Section)
		if m.Target.Element >= len(s) || s[m.Target.Element].filled {
			return inconsistent("invalid element move target %s", m.Target)
		}
		s[m.Target.Element] = slot{
			value:  prev[m.Source.Section].Elements[m.Source.Element],
			origin: m.Source,
			filled: true,
		}
	}

	postPath := make(map[ElementPath]ElementPath)

	for j := range out {
		o := origin[j]
		if o < 0 {
			continue
		}

		survivors := 0
		for _, gone := range removed[o] {
			if !gone {
				survivors++
			}
		}
		s, touched := slotsBySection[j]
		if !touched && survivors == len(prev[o].Elements) {
			for ei := range prev[o].Elements {
				postPath[ElementPath{Element: ei, Section: o}] = ElementPath{Element: ei, Section: j}
			}
			continue
		}
		if !touched {
			s = slotsFor(j)
		}

		claimed := 0
		for _, sl := range s {
			if sl.filled {
				claimed++
			}
		}
		if claimed+survivors != len(s) {
			return inconsistent("section %d: batch yields %d elements, data has %d", j, claimed+survivors, len(s))
		}

		k := 0
		for ei, element := range prev[o].Elements {
			if removed[o][ei] {
				continue
			}
			for k < len(s) && s[k].filled {
				k++
			}
			s[k] = slot{value: element, origin: ElementPath{Element: ei, Section: o}, filled: true}
			k++
		}

		elements := make([]T, len(s))
		for ei, sl := range s {
			elements[ei] = sl.value
			if !sl.fresh {
				postPath[sl.origin] = ElementPath{Element: ei, Section: j}
			}
		}
		out[j].Elements = elements
	}

	for _, p := range changes.ElementUpdated {
		if !validSource(p) || (removed[p.Section][p.Element] && !moved[p.Section][p.Element]) {
			return inconsistent("invalid element reload %s", p)
		}
		dst, ok := postPath[p]
		if !ok {
			return inconsistent("invalid element reload %s", p)
		}
		out[dst.Section].Elements[dst.Element] = next[dst.Section].Elements[dst.Element]
	}

	return nil
}

func isMoveSource(moves []MovedSection, index int) bool {
	for _, m := range moves {
		if m.Source == index {
			return true
		}
	}
	return false
}

func cloneSection[T any](s Section[T]) Section[T] {
	return Section[T]{Key: s.Key, Header: s.Header, Elements: append([]T(nil), s.Elements...)}
}

func inconsistent(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInconsistentUpdate)
}
