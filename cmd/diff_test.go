package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"diffing-research/core/reconcile"
	"diffing-research/feature/diffing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runDiffCommand executes the root command with args and returns its output.
// Flag values and their changed state are reset first since the command is a
// package-level singleton.
func runDiffCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	diffCmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})

	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&out)
	RootCmd.SetArgs(append([]string{"diff"}, args...))
	t.Cleanup(func() {
		RootCmd.SetOut(nil)
		RootCmd.SetErr(nil)
		RootCmd.SetArgs(nil)
	})

	err := RootCmd.Execute()
	return out.String(), err
}

func writeSnapshot(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDiffCommand_Verify(t *testing.T) {
	from := writeSnapshot(t, "from.json", `[{"id":1,"title":"A"},{"id":2,"title":"B"},{"id":3,"title":"C"}]`)
	to := writeSnapshot(t, "to.json", `[{"id":3,"title":"C"},{"id":1,"title":"A"},{"id":4,"title":"D"}]`)

	out, err := runDiffCommand(t, "--from", from, "--to", to, "--verify")
	require.NoError(t, err)

	var report struct {
		Summary  reconcile.PlanSummary `json:"summary"`
		Verified bool                  `json:"verified"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.True(t, report.Verified)
	assert.Equal(t, 2, report.Summary.Stages)
	assert.Equal(t, 3, report.Summary.TotalChanges)
	assert.Equal(t, 3, report.Summary.Items)
}

func TestDiffCommand_WithoutVerify(t *testing.T) {
	from := writeSnapshot(t, "from.json", `[{"id":1,"title":"A"}]`)
	to := writeSnapshot(t, "to.json", `[{"id":1,"title":"Renamed"}]`)

	out, err := runDiffCommand(t, "--from", from, "--to", to)
	require.NoError(t, err)

	var report diffing.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.False(t, report.Verified)
	require.Len(t, report.Staged, 1)
	assert.Len(t, report.Staged[0].Changes.ElementUpdated, 1)
}

func TestDiffCommand_Errors(t *testing.T) {
	valid := writeSnapshot(t, "valid.json", `[{"id":1,"title":"A"}]`)
	duplicate := writeSnapshot(t, "duplicate.json", `[{"id":1,"title":"A"},{"id":1,"title":"B"}]`)
	broken := writeSnapshot(t, "broken.json", `[{"id":`)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"MissingTarget", []string{"--from", valid}, "target: a snapshot file or archived snapshot name is required"},
		{"MissingFile", []string{"--from", filepath.Join(t.TempDir(), "none.json"), "--to", valid}, "source: failed to read"},
		{"BrokenJSON", []string{"--from", valid, "--to", broken}, "target: decode snapshot"},
		{"DuplicateIdentity", []string{"--from", valid, "--to", duplicate}, "duplicate identity"},
		{"ExclusiveFlags", []string{"--from", valid, "--from-archive", "table/a", "--to", valid}, "none of the others can be"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runDiffCommand(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
