package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.False(t, cfg.Storage.Enabled)
	assert.Equal(t, []string{"popular", "upcoming", "top_rated", "now_playing"}, cfg.Catalog.Categories)
	assert.Equal(t, 4, cfg.Catalog.MaxConcurrentRequests)
	assert.Equal(t, "resample", cfg.Catalog.ReloadPolicy)
	assert.Equal(t, []string{"table", "collection", "plain"}, cfg.Board.Names)
	assert.Equal(t, 0, cfg.Board.MaxStageChanges)
	assert.False(t, cfg.Board.Sectioned)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("CATALOG_MAX_CONCURRENT_REQUESTS", "2")
	t.Setenv("BOARD_NAMES", "table,plain")
	t.Setenv("BOARD_SECTIONED", "true")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Catalog.MaxConcurrentRequests)
	assert.Equal(t, []string{"table", "plain"}, cfg.Board.Names)
	assert.True(t, cfg.Board.Sectioned)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	// Registered so the value set by the .env file is restored afterwards.
	t.Setenv("BOARD_MAX_STAGE_CHANGES", "")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BOARD_MAX_STAGE_CHANGES=25\n"), 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Board.MaxStageChanges)
}

func TestConfig_Validate(t *testing.T) {
	valid := func(t *testing.T) *Config {
		cfg, err := LoadConfig(t.TempDir())
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"Defaults", func(*Config) {}, ""},
		{"BadPort", func(c *Config) { c.Server.Port = "http" }, "server"},
		{"NoCategories", func(c *Config) { c.Catalog.Categories = nil }, "catalog"},
		{"NoBoards", func(c *Config) { c.Board.Names = nil }, "board"},
		{"NegativeThreshold", func(c *Config) { c.Board.MaxStageChanges = -1 }, "board"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid(t)
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
