package board

import (
	"errors"
	"fmt"
)

// Config holds configuration for the boards.
type Config struct {
	// Names are the boards created at startup, one per list widget.
	Names []string `mapstructure:"names" default:"table,collection,plain"`
	// Sectioned renders one section per catalog category instead of one flat list.
	Sectioned bool `mapstructure:"sectioned" default:"false"`
	// MaxStageChanges interrupts an update whose stage carries more changes,
	// falling back to a full reload. Zero never interrupts.
	MaxStageChanges int `mapstructure:"max_stage_changes" default:"0"`
	// HistorySize bounds the batch log kept per board.
	HistorySize int `mapstructure:"history_size" default:"32"`
	// WindowSize is the number of visible rows. Zero shows every row.
	WindowSize int `mapstructure:"window_size" default:"20"`
	// QueueSize bounds requests waiting for a board's main loop.
	QueueSize int `mapstructure:"queue_size" default:"16"`
}

// Validate checks the sizes.
func (c Config) Validate() error {
	if len(c.Names) == 0 {
		return errors.New("at least one board name is required")
	}
	if c.MaxStageChanges < 0 {
		return fmt.Errorf("invalid max stage changes %d", c.MaxStageChanges)
	}
	if c.HistorySize <= 0 {
		return fmt.Errorf("invalid history size %d", c.HistorySize)
	}
	if c.WindowSize < 0 {
		return fmt.Errorf("invalid window size %d", c.WindowSize)
	}
	return nil
}
