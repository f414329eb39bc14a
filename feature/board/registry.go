package board

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// ErrUnknownBoard is returned when no board has the requested name.
var ErrUnknownBoard = errors.New("unknown board")

// Registry holds the boards by name.
type Registry struct {
	boards map[string]*Board
	order  []string
	logger *zap.Logger
}

// NewRegistry creates a board per cfg.Names sharing source and archive.
func NewRegistry(cfg Config, source Source, archive Archiver, retention int, logger *zap.Logger) (*Registry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(cfg.Names) == 0 {
		return nil, errors.New("at least one board name is required")
	}

	r := &Registry{boards: make(map[string]*Board, len(cfg.Names)), logger: logger}
	for _, name := range cfg.Names {
		if name == "" {
			return nil, errors.New("board name cannot be empty")
		}
		if _, exists := r.boards[name]; exists {
			return nil, fmt.Errorf("duplicate board name %q", name)
		}
		r.boards[name] = New(name, cfg, source, archive, retention, logger)
		r.order = append(r.order, name)
	}
	return r, nil
}

// Get returns the named board.
func (r *Registry) Get(name string) (*Board, error) {
	b, ok := r.boards[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBoard, name)
	}
	return b, nil
}

// Names returns the board names in sorted order.
func (r *Registry) Names() []string {
	names := append([]string(nil), r.order...)
	sort.Strings(names)
	return names
}

// Boards returns the boards in configuration order.
func (r *Registry) Boards() []*Board {
	out := make([]*Board, len(r.order))
	for i, name := range r.order {
		out[i] = r.boards[name]
	}
	return out
}

// Start starts every board's main loop.
func (r *Registry) Start() {
	for _, b := range r.Boards() {
		b.Start()
	}
}

// Stop stops every board's main loop.
func (r *Registry) Stop() {
	for _, b := range r.Boards() {
		b.Stop()
	}
}

// LoadAll loads every board and waits for the outcomes. It returns the first
// error; boards that failed stay empty.
func (r *Registry) LoadAll(ctx context.Context) error {
	pending := make([]<-chan Outcome, 0, len(r.order))
	for _, b := range r.Boards() {
		pending = append(pending, b.Load(ctx))
	}

	var first error
	for i, ch := range pending {
		o := <-ch
		if o.Err != nil {
			if first == nil {
				first = fmt.Errorf("load board %s: %w", r.order[i], o.Err)
			}
			continue
		}
		r.logger.Info("Board loaded",
			zap.String("board", r.order[i]),
			zap.Strings("categories", o.Categories),
		)
	}
	return first
}
