package surface

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"diffing-research/core/diff"

	"go.uber.org/zap"
)

// ErrDetached is returned when a batch is sent to a view that is not attached.
var ErrDetached = errors.New("view is not attached")

// ErrInconsistentUpdate is returned when a batch does not match the data source.
var ErrInconsistentUpdate = diff.ErrInconsistentUpdate

const defaultHistorySize = 32

// BatchRecord describes one applied batch.
type BatchRecord struct {
	Seq       int          `json:"seq"`
	Changes   diff.Changes `json:"changes"`
	AppliedAt time.Time    `json:"applied_at"`
}

// Window is the visible range of rows, counted across sections.
type Window struct {
	Offset int `json:"offset"`
	Length int `json:"length"`
}

// Stats summarises the state of a view.
type Stats struct {
	Attached bool   `json:"attached"`
	Sections int    `json:"sections"`
	Items    int    `json:"items"`
	Batches  int    `json:"batches"`
	Reloads  int    `json:"reloads"`
	Window   Window `json:"window"`
}

// Option configures a ListView.
type Option func(*options)

type options struct {
	historySize int
	window      Window
	logger      *zap.Logger
	attached    bool
}

// WithHistorySize bounds the number of batch records kept.
func WithHistorySize(n int) Option {
	return func(o *options) { o.historySize = n }
}

// WithWindow sets the initial visible window. A zero length shows every row.
func WithWindow(w Window) Option {
	return func(o *options) { o.window = w }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Detached creates the view detached.
func Detached() Option {
	return func(o *options) { o.attached = false }
}

// ListView is a headless list widget.
type ListView[T any] struct {
	mu       sync.RWMutex
	name     string
	source   DataSource[T]
	rendered diff.Snapshot[T]
	attached bool
	window   Window
	history  []BatchRecord
	seq      int
	reloads  int
	opts     options
}

// NewListView creates a view rendering from source. The view starts attached
// and renders source's current data.
func NewListView[T any](name string, source DataSource[T], opts ...Option) *ListView[T] {
	o := options{historySize: defaultHistorySize, logger: zap.NewNop(), attached: true}
	for _, opt := range opts {
		opt(&o)
	}
	return &ListView[T]{
		name:     name,
		source:   source,
		rendered: source.Snapshot().Clone(),
		attached: o.attached,
		window:   o.window,
		opts:     o,
	}
}

// Name returns the view name.
func (v *ListView[T]) Name() string {
	return v.name
}

// Attach marks the view as on screen.
func (v *ListView[T]) Attach() {
	v.mu.Lock()
	v.attached = true
	v.mu.Unlock()
}

// Detach marks the view as off screen.
func (v *ListView[T]) Detach() {
	v.mu.Lock()
	v.attached = false
	v.mu.Unlock()
}

// Attached reports whether the view is on screen.
func (v *ListView[T]) Attached() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.attached
}

// PerformBatchUpdates applies changes atomically. It returns once the batch has
// been applied or rejected; a rejected batch leaves the view untouched.
func (v *ListView[T]) PerformBatchUpdates(ctx context.Context, changes diff.Changes) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.attached {
		return fmt.Errorf("%s: %w", v.name, ErrDetached)
	}

	next, err := diff.Patch(v.rendered, changes, v.source.Snapshot())
	if err != nil {
		v.opts.logger.Error("Batch update rejected",
			zap.String("view", v.name),
			zap.Stringer("changes", changes),
			zap.Error(err),
		)
		return fmt.Errorf("%s: %w", v.name, err)
	}

	v.rendered = next
	v.seq++
	v.history = append(v.history, BatchRecord{Seq: v.seq, Changes: changes, AppliedAt: time.Now()})
	if over := len(v.history) - v.opts.historySize; over > 0 {
		v.history = append([]BatchRecord(nil), v.history[over:]...)
	}

	v.opts.logger.Debug("Batch update applied",
		zap.String("view", v.name),
		zap.Int("seq", v.seq),
		zap.Stringer("changes", changes),
	)
	return nil
}

// ReloadData discards the rendered rows and renders the data source afresh.
func (v *ListView[T]) ReloadData(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	v.rendered = v.source.Snapshot().Clone()
	v.reloads++
	return nil
}

// NumberOfSections returns the rendered section count.
func (v *ListView[T]) NumberOfSections() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.rendered)
}

// NumberOfItems returns the rendered row count of section, or 0 when the
// section does not exist.
func (v *ListView[T]) NumberOfItems(section int) int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if section < 0 || section >= len(v.rendered) {
		return 0
	}
	return len(v.rendered[section].Elements)
}

// Item returns the rendered row at the given position.
func (v *ListView[T]) Item(section, offset int) (T, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	var zero T
	if section < 0 || section >= len(v.rendered) {
		return zero, false
	}
	elements := v.rendered[section].Elements
	if offset < 0 || offset >= len(elements) {
		return zero, false
	}
	return elements[offset], true
}

// Rendered returns a copy of every rendered row.
func (v *ListView[T]) Rendered() diff.Snapshot[T] {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.rendered.Clone()
}

// SetWindow changes the visible range.
func (v *ListView[T]) SetWindow(w Window) {
	v.mu.Lock()
	v.window = w
	v.mu.Unlock()
}

// Visible returns the rows inside the visible window. A detached view shows
// nothing.
func (v *ListView[T]) Visible() []T {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if !v.attached {
		return nil
	}
	rows := v.rendered.Items()
	if v.window.Length <= 0 {
		return rows
	}
	start := min(max(v.window.Offset, 0), len(rows))
	end := min(start+v.window.Length, len(rows))
	return rows[start:end]
}

// History returns the most recent batches, oldest first.
func (v *ListView[T]) History() []BatchRecord {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]BatchRecord(nil), v.history...)
}

// Stats returns a summary of the view.
func (v *ListView[T]) Stats() Stats {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return Stats{
		Attached: v.attached,
		Sections: len(v.rendered),
		Items:    v.rendered.Count(),
		Batches:  v.seq,
		Reloads:  v.reloads,
		Window:   v.window,
	}
}
