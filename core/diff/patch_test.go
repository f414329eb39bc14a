package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatch_Inconsistent(t *testing.T) {
	prev := Flat(items(1, 2, 3))

	tests := []struct {
		name    string
		changes Changes
		next    Snapshot[item]
	}{
		{"CountMismatch", Changes{ElementDeleted: []ElementPath{{Element: 0}}}, Flat(items(1, 2, 3))},
		{"DeleteOutOfRange", Changes{ElementDeleted: []ElementPath{{Element: 7}}}, Flat(items(1, 2))},
		{"DeleteTwice", Changes{ElementDeleted: []ElementPath{{Element: 1}, {Element: 1}}}, Flat(items(1))},
		{"InsertPastEnd", Changes{ElementInserted: []ElementPath{{Element: 4}}}, Flat(items(1, 2, 3, 4))},
		{"SectionCount", Changes{SectionInserted: []int{1}}, Flat(items(1, 2, 3))},
		{"ReloadDeleted", Changes{ElementDeleted: []ElementPath{{Element: 0}}, ElementUpdated: []ElementPath{{Element: 0}}}, Flat(items(2, 3))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Patch(prev, tt.changes, tt.next)
			assert.ErrorIs(t, err, ErrInconsistentUpdate)
		})
	}
}

func TestPatch_ReloadTakesContentFromNext(t *testing.T) {
	prev := Flat(items(1, 2))
	next := Flat([]item{{ID: 1, Text: "movie-1"}, {ID: 2, Text: "fresh"}})

	out, err := Patch(prev, Changes{ElementUpdated: []ElementPath{{Element: 1}}}, next)
	require.NoError(t, err)
	assert.Equal(t, "fresh", out[0].Elements[1].Text)
	assert.Equal(t, "movie-2", prev[0].Elements[1].Text, "prev must not be mutated")
}

func TestPatch_UntouchedElementsKeepOrder(t *testing.T) {
	prev := Flat(items(1, 2, 3, 4))
	next := Flat(items(9, 1, 3))

	out, err := Patch(prev, Changes{
		ElementDeleted:  []ElementPath{{Element: 1}, {Element: 3}},
		ElementInserted: []ElementPath{{Element: 0}},
	}, next)
	require.NoError(t, err)
	assert.Equal(t, items(9, 1, 3), out[0].Elements)
}
