package cmd

import (
	"context"
	"fmt"

	"diffing-research/core/config"
	"diffing-research/core/logger"
	"diffing-research/feature/board"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	simulateBoard           string
	simulateUpdates         int
	simulateDetached        bool
	simulateSectioned       bool
	simulateMaxStageChanges int
)

// simulateCmd runs a headless board against the live catalog.
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run updates against a headless board and log every batch",
	Long: `Loads one board from the TMDB catalog, then triggers updates one after
another and logs the outcome and batches of each.

Examples:
  # Five incremental updates on the table board
  simulate --board table --updates 5

  # Detached board: every update becomes a single reload
  simulate --detached

  # Fall back to a reload when a stage carries more than 10 changes
  simulate --max-stage-changes 10`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().StringVar(&simulateBoard, "board", "table", "Board name")
	simulateCmd.Flags().IntVar(&simulateUpdates, "updates", 5, "Number of updates to trigger")
	simulateCmd.Flags().BoolVar(&simulateDetached, "detached", false, "Detach the board before updating")
	simulateCmd.Flags().BoolVar(&simulateSectioned, "sectioned", false, "One section per category")
	simulateCmd.Flags().IntVar(&simulateMaxStageChanges, "max-stage-changes", 0, "Interrupt stages with more changes (0 never interrupts)")

	RootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Catalog.Validate(); err != nil {
		return fmt.Errorf("invalid catalog config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	boardCfg := cfg.Board
	boardCfg.Sectioned = boardCfg.Sectioned || simulateSectioned
	if cmd.Flags().Changed("max-stage-changes") {
		boardCfg.MaxStageChanges = simulateMaxStageChanges
	}

	b := board.New(simulateBoard, boardCfg, newCatalog(cfg, connectDatabase(cfg, l), l), nil, 0, l)
	b.Start()
	defer b.Stop()

	if o := <-b.Load(ctx); o.Err != nil {
		return fmt.Errorf("failed to load board: %w", o.Err)
	}
	l.Info("Board loaded", zap.Int("items", b.State().Stats.Items))

	if simulateDetached {
		if o := <-b.Detach(ctx); o.Err != nil {
			return o.Err
		}
	}

	seen := 0
	for i := 1; i <= simulateUpdates; i++ {
		o := <-b.Update(ctx)
		if o.Err != nil {
			return fmt.Errorf("update %d: %w", i, o.Err)
		}
		printOutcome(l, i, o)

		history := b.History()
		for _, rec := range history {
			if rec.Seq <= seen {
				continue
			}
			l.Info("Batch", zap.Int("seq", rec.Seq), zap.Stringer("changes", rec.Changes))
			seen = rec.Seq
		}
	}

	stats := b.State().Stats
	l.Info("Simulation finished",
		zap.Int("batches", stats.Batches),
		zap.Int("reloads", stats.Reloads),
		zap.Int("items", stats.Items),
	)
	return nil
}

// printOutcome logs one update outcome.
func printOutcome(l *zap.Logger, n int, o board.Outcome) {
	fields := []zap.Field{
		zap.Int("update", n),
		zap.String("request_id", o.RequestID),
		zap.String("mode", string(o.Result.Mode)),
		zap.Int("stages", o.Result.Stages),
		zap.Int("batches", o.Result.Batches),
		zap.Int("reloads", o.Result.Reloads),
		zap.Strings("categories", o.Categories),
	}
	if o.Plan != nil {
		fields = append(fields, zap.Int("changes", o.Plan.TotalChanges), zap.Int("items", o.Plan.Items))
	}
	if o.Result.InterruptedAt > 0 {
		fields = append(fields, zap.Int("interrupted_at", o.Result.InterruptedAt))
	}
	l.Info("Update applied", fields...)
}
