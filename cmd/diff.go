package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"diffing-research/core/config"
	"diffing-research/core/diff"
	"diffing-research/feature/catalog"
	"diffing-research/feature/diffing"

	"github.com/spf13/cobra"
)

var (
	diffFrom        string
	diffTo          string
	diffFromArchive string
	diffToArchive   string
	diffVerify      bool
)

// diffCmd computes the staged changeset between two snapshots.
var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Print the staged changeset between two snapshots",
	Long: `Computes the staged changeset transforming one movie snapshot into another
and prints it as JSON.

A snapshot file holds a list of sections, a flat list of movies, or an
archived snapshot document. Archived snapshots can also be read from
object storage by name.

Examples:
  # Diff two files and check the result replays to the target
  diff --from before.json --to after.json --verify

  # Diff two archived snapshots
  diff --from-archive table/20260101T000000.000Z-a --to-archive table/20260101T000100.000Z-b`,
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().StringVar(&diffFrom, "from", "", "Source snapshot file")
	diffCmd.Flags().StringVar(&diffTo, "to", "", "Target snapshot file")
	diffCmd.Flags().StringVar(&diffFromArchive, "from-archive", "", "Source archived snapshot name")
	diffCmd.Flags().StringVar(&diffToArchive, "to-archive", "", "Target archived snapshot name")
	diffCmd.Flags().BoolVar(&diffVerify, "verify", false, "Replay the changeset and check it reaches the target")
	diffCmd.MarkFlagsMutuallyExclusive("from", "from-archive")
	diffCmd.MarkFlagsMutuallyExclusive("to", "to-archive")

	RootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var archive *catalog.Archive
	if diffFromArchive != "" || diffToArchive != "" {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if !cfg.Storage.Enabled {
			return errors.New("reading archived snapshots requires STORAGE_ENABLED=true")
		}
		if archive, err = newArchive(ctx, cfg); err != nil {
			return err
		}
	}

	source, err := readSnapshot(ctx, archive, diffFrom, diffFromArchive)
	if err != nil {
		return fmt.Errorf("source: %w", err)
	}
	target, err := readSnapshot(ctx, archive, diffTo, diffToArchive)
	if err != nil {
		return fmt.Errorf("target: %w", err)
	}

	report, err := diffing.Compare(source, target, diffVerify)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func readSnapshot(ctx context.Context, archive *catalog.Archive, path, name string) (diff.Snapshot[catalog.MovieViewModel], error) {
	if name != "" {
		doc, err := archive.Get(ctx, name)
		if err != nil {
			return nil, err
		}
		return doc.Snapshot, nil
	}
	if path == "" {
		return nil, errors.New("a snapshot file or archived snapshot name is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return diffing.ParseSnapshot(data)
}
