package diff

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   int
	Text string
}

func (i item) DifferenceIdentifier() int { return i.ID }

func (i item) IsContentEqual(other item) bool { return i.Text == other.Text }

var itemContract = ContractOf[int, item]()

func items(ids ...int) []item {
	out := make([]item, len(ids))
	for i, id := range ids {
		out[i] = item{ID: id, Text: fmt.Sprintf("movie-%d", id)}
	}
	return out
}

func section(key string, ids ...int) Section[item] {
	return Section[item]{Key: key, Header: key, Elements: items(ids...)}
}

func TestCompute_DeleteInsertMove(t *testing.T) {
	source := Flat(items(1, 2, 3))
	target := Flat(items(3, 1, 4))

	staged, err := Compute(itemContract, source, target)
	require.NoError(t, err)
	require.Len(t, staged, 2)

	// Stage 1: delete id=2 against the source layout.
	assert.Equal(t, []ElementPath{{Element: 1, Section: 0}}, staged[0].Changes.ElementDeleted)
	assert.Equal(t, Flat(items(1, 3)), staged[0].Data)

	// Stage 2: insert id=4 at its target offset, move id=3 from the post-delete offset 1 to 0.
	assert.Equal(t, []ElementPath{{Element: 2, Section: 0}}, staged[1].Changes.ElementInserted)
	assert.Equal(t, []MovedElement{{Source: ElementPath{Element: 1}, Target: ElementPath{Element: 0}}}, staged[1].Changes.ElementMoved)
	assert.Equal(t, target, staged[1].Data)

	replayed, err := Replay(source, staged)
	require.NoError(t, err)
	assert.Equal(t, target, replayed)
}

func TestCompute_ContentOnlyChange(t *testing.T) {
	source := Flat([]item{{ID: 1, Text: "a"}})
	target := Flat([]item{{ID: 1, Text: "b"}})

	staged, err := Compute(itemContract, source, target)
	require.NoError(t, err)
	require.Len(t, staged, 1)

	changes := staged[0].Changes
	assert.Equal(t, []ElementPath{{Element: 0, Section: 0}}, changes.ElementUpdated)
	assert.Empty(t, changes.ElementInserted)
	assert.Empty(t, changes.ElementDeleted)
	assert.Empty(t, changes.ElementMoved)
	assert.Equal(t, 1, staged.ChangeCount())
	assert.Equal(t, target, staged[0].Data)
}

func TestCompute_Idempotent(t *testing.T) {
	tests := []struct {
		name     string
		snapshot Snapshot[item]
	}{
		{"Empty", Snapshot[item]{}},
		{"EmptySection", Flat[item](nil)},
		{"Flat", Flat(items(1, 2, 3, 4))},
		{"Sectioned", Snapshot[item]{section("a", 1, 2), section("b"), section("c", 3)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			staged, err := Compute(itemContract, tt.snapshot, tt.snapshot)
			require.NoError(t, err)
			for _, cs := range staged {
				assert.False(t, cs.Changes.HasChanges())
			}
		})
	}
}

func TestCompute_Deterministic(t *testing.T) {
	source := Snapshot[item]{section("a", 1, 2, 3), section("b", 4, 5)}
	target := Snapshot[item]{section("b", 5, 1), section("c", 9), section("a", 3, 4, 2)}

	first, err := Compute(itemContract, source, target)
	require.NoError(t, err)
	second, err := Compute(itemContract, source, target)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCompute_DuplicateIdentity(t *testing.T) {
	tests := []struct {
		name   string
		source Snapshot[item]
		target Snapshot[item]
	}{
		{"SourceElements", Flat(items(1, 2, 1)), Flat(items(1))},
		{"TargetElements", Flat(items(1)), Flat(items(2, 2))},
		{"AcrossSections", Snapshot[item]{section("a", 1), section("b", 1)}, Flat(items(1))},
		{"SourceSections", Snapshot[item]{section("a"), section("a")}, Snapshot[item]{}},
		{"TargetSections", Snapshot[item]{}, Snapshot[item]{section("a"), section("a")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(itemContract, tt.source, tt.target)
			assert.ErrorIs(t, err, ErrDuplicateIdentity)
			assert.Panics(t, func() { MustCompute(itemContract, tt.source, tt.target) })
		})
	}
}

func TestCompute_StageOrder(t *testing.T) {
	source := Snapshot[item]{
		{Key: "a", Header: "A", Elements: []item{{ID: 1, Text: "movie-1"}, {ID: 2, Text: "y"}}},
		{Key: "b", Header: "B", Elements: items(3)},
		{Key: "gone", Header: "G", Elements: items(4)},
	}
	target := Snapshot[item]{
		{Key: "new", Header: "N", Elements: items(5)},
		{Key: "b", Header: "B2", Elements: items(3, 1)},
		{Key: "a", Header: "A", Elements: []item{{ID: 2, Text: "changed"}}},
	}

	staged, err := Compute(itemContract, source, target)
	require.NoError(t, err)
	require.Len(t, staged, 5)

	// Updates use source paths.
	assert.Equal(t, []ElementPath{{Element: 1, Section: 0}}, staged[0].Changes.ElementUpdated)

	assert.Equal(t, []int{2}, staged[1].Changes.SectionDeleted)
	assert.Empty(t, staged[1].Changes.ElementDeleted)

	assert.Equal(t, []int{0}, staged[2].Changes.SectionInserted)
	assert.Equal(t, []MovedSection{{Source: 1, Target: 1}}, staged[2].Changes.SectionMoved)

	assert.NotEmpty(t, staged[3].Changes.ElementMoved)
	assert.Empty(t, staged[3].Changes.ElementInserted)

	// Section updates use target indices.
	assert.Equal(t, []int{1}, staged[4].Changes.SectionUpdated)
	assert.Equal(t, target, staged[4].Data)

	replayed, err := Replay(source, staged)
	require.NoError(t, err)
	assert.Equal(t, target, replayed)
}

func TestCompute_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		source Snapshot[item]
		target Snapshot[item]
	}{
		{"AllInserted", Flat[item](nil), Flat(items(1, 2, 3))},
		{"AllDeleted", Flat(items(1, 2, 3)), Flat[item](nil)},
		{"FromNothing", Snapshot[item]{}, Flat(items(1, 2))},
		{"ToNothing", Flat(items(1, 2)), Snapshot[item]{}},
		{"Reversed", Flat(items(1, 2, 3, 4, 5)), Flat(items(5, 4, 3, 2, 1))},
		{"Shuffled", Flat(items(1, 2, 3, 4, 5, 6)), Flat(items(4, 7, 1, 6, 8, 2))},
		{"SectionMoves", Snapshot[item]{section("a", 1), section("b", 2), section("c", 3)}, Snapshot[item]{section("c", 3), section("a", 1), section("b", 2)}},
		{"CrossSection", Snapshot[item]{section("a", 1, 2), section("b", 3)}, Snapshot[item]{section("a", 2), section("b", 3, 1)}},
		{"IntoInsertedSection", Snapshot[item]{section("a", 1, 2)}, Snapshot[item]{section("z", 2), section("a", 1)}},
		{"OutOfDeletedSection", Snapshot[item]{section("a", 1), section("b", 2, 3)}, Snapshot[item]{section("a", 3, 1)}},
		{"MovedSectionWithMovedElements", Snapshot[item]{section("a", 1, 2, 3), section("b", 4)}, Snapshot[item]{section("b", 3, 4), section("a", 2, 1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			staged, err := Compute(itemContract, tt.source, tt.target)
			require.NoError(t, err)

			last, ok := staged.Last()
			require.True(t, ok)
			assert.Equal(t, tt.target, last.Data)

			replayed, err := Replay(tt.source, staged)
			require.NoError(t, err)
			assert.Equal(t, normalize(tt.target), normalize(replayed))
		})
	}
}

func TestCompute_RoundTripRandom(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))

	for run := 0; run < 300; run++ {
		source := randomSnapshot(rng)
		target := randomSnapshot(rng)

		staged, err := Compute(itemContract, source, target)
		require.NoError(t, err, "run %d", run)

		replayed, err := Replay(source, staged)
		require.NoError(t, err, "run %d: %v -> %v", run, source, target)
		require.Equal(t, normalize(target), normalize(replayed), "run %d", run)
	}
}

func TestCompute_StageDataMatchesPatch(t *testing.T) {
	tests := []struct {
		name   string
		source Snapshot[item]
		target Snapshot[item]
	}{
		{
			"HeaderChangeWithMoves",
			Snapshot[item]{{Key: "a", Header: "old", Elements: items(1, 2)}},
			Snapshot[item]{{Key: "a", Header: "new", Elements: items(2, 1)}},
		},
		{
			"HeaderChangeWithInsertedSection",
			Snapshot[item]{{Key: "a", Header: "old", Elements: items(1)}},
			Snapshot[item]{{Key: "z", Header: "z", Elements: items(2)}, {Key: "a", Header: "new", Elements: items(3, 1)}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			staged, err := Compute(itemContract, tt.source, tt.target)
			require.NoError(t, err)
			assertStagesPatch(t, tt.source, staged)

			// Only the section reload stage carries the new header.
			for _, cs := range staged[:len(staged)-1] {
				for _, sec := range cs.Data {
					if sec.Key == "a" {
						assert.Equal(t, "old", sec.Header)
					}
				}
			}
			last, _ := staged.Last()
			assert.NotEmpty(t, last.Changes.SectionUpdated)
		})
	}

	rng := rand.New(rand.NewPCG(3, 11))
	for run := 0; run < 300; run++ {
		source := randomSnapshot(rng)
		target := randomSnapshot(rng)

		staged, err := Compute(itemContract, source, target)
		require.NoError(t, err, "run %d", run)
		assertStagesPatch(t, source, staged)
	}
}

// assertStagesPatch applies each stage to the previous layout and requires the
// result, headers included, to equal the stage data.
func assertStagesPatch(t *testing.T, source Snapshot[item], staged StagedChangeset[item]) {
	t.Helper()
	current := source
	for i, cs := range staged {
		next, err := Patch(current, cs.Changes, cs.Data)
		require.NoError(t, err, "stage %d", i+1)
		require.Equal(t, normalize(cs.Data), normalize(next), "stage %d: %s", i+1, cs.Changes)
		current = next
	}
}

// randomSnapshot draws sections from a small key pool and ids from a small id
// pool so consecutive snapshots overlap heavily.
func randomSnapshot(rng *rand.Rand) Snapshot[item] {
	keys := rng.Perm(5)[:rng.IntN(5)]
	ids := rng.Perm(20)
	texts := []string{"a", "b"}

	snapshot := make(Snapshot[item], 0, len(keys))
	next := 0
	for _, k := range keys {
		n := rng.IntN(5)
		sec := Section[item]{Key: fmt.Sprintf("s%d", k), Header: texts[rng.IntN(2)]}
		for i := 0; i < n && next < len(ids); i++ {
			sec.Elements = append(sec.Elements, item{ID: ids[next], Text: texts[rng.IntN(2)]})
			next++
		}
		snapshot = append(snapshot, sec)
	}
	return snapshot
}

// normalize maps nil element slices to empty ones so equality only compares content.
func normalize(s Snapshot[item]) Snapshot[item] {
	out := make(Snapshot[item], len(s))
	for i, sec := range s {
		out[i] = Section[item]{Key: sec.Key, Header: sec.Header, Elements: append([]item{}, sec.Elements...)}
	}
	return out
}
