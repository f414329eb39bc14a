package board

import (
	"context"
	"testing"

	"diffing-research/feature/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewRegistry(t *testing.T) {
	tests := []struct {
		name    string
		names   []string
		wantErr bool
	}{
		{"Defaults", []string{"table", "collection", "plain"}, false},
		{"Empty", nil, true},
		{"BlankName", []string{"table", ""}, true},
		{"Duplicate", []string{"table", "table"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Names = tt.names
			r, err := NewRegistry(cfg, &fakeSource{}, nil, 0, zap.NewNop())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []string{"collection", "plain", "table"}, r.Names())
			assert.Len(t, r.Boards(), 3)
			assert.Equal(t, "table", r.Boards()[0].Name())
		})
	}
}

func TestRegistry_Get(t *testing.T) {
	r, err := NewRegistry(testConfig(), &fakeSource{}, nil, 0, nil)
	require.NoError(t, err)

	b, err := r.Get("table")
	require.NoError(t, err)
	assert.Equal(t, "table", b.Name())

	_, err = r.Get("nope")
	assert.ErrorIs(t, err, ErrUnknownBoard)
}

func TestRegistry_LoadAll(t *testing.T) {
	cfg := testConfig()
	cfg.Names = []string{"table", "plain"}
	source := &fakeSource{initial: catalog.Sample{page("popular", 1, 2)}}

	r, err := NewRegistry(cfg, source, nil, 0, zap.NewNop())
	require.NoError(t, err)
	r.Start()
	defer r.Stop()

	require.NoError(t, r.LoadAll(context.Background()))
	for _, b := range r.Boards() {
		assert.Equal(t, 2, b.State().Stats.Items)
	}
}

func TestRegistry_LoadAllError(t *testing.T) {
	r, err := NewRegistry(testConfig(), &fakeSource{err: catalog.ErrNoPages}, nil, 0, zap.NewNop())
	require.NoError(t, err)
	r.Start()
	defer r.Stop()

	err = r.LoadAll(context.Background())
	assert.ErrorIs(t, err, catalog.ErrNoPages)
	assert.Contains(t, err.Error(), "table")
}
