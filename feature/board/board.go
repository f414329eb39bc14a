package board

import (
	"context"
	"sync"
	"time"

	"diffing-research/core/diff"
	"diffing-research/core/metrics"
	"diffing-research/core/reconcile"
	"diffing-research/core/surface"
	"diffing-research/feature/catalog"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Request kinds.
const (
	KindLoad   = "load"
	KindReload = "reload"
	KindUpdate = "update"
	KindAttach = "attach"
	KindDetach = "detach"
)

// Source supplies catalog samples.
type Source interface {
	FetchAll(ctx context.Context) (catalog.Sample, error)
	Reload(ctx context.Context) (catalog.Sample, error)
	TriggerUpdate(ctx context.Context) (catalog.Sample, error)
}

// Archiver stores the snapshots boards end up showing.
type Archiver interface {
	Put(ctx context.Context, name string, doc catalog.ArchivedSnapshot) error
	Prune(ctx context.Context, board string, keep int) (int, error)
}

// Outcome is the single result of one board request.
type Outcome struct {
	RequestID  string                 `json:"request_id"`
	Kind       string                 `json:"kind"`
	Generation uint64                 `json:"generation,omitempty"`
	Categories []string               `json:"categories,omitempty"`
	Result     reconcile.Result       `json:"result"`
	Plan       *reconcile.PlanSummary `json:"plan,omitempty"`
	Archived   string                 `json:"archived,omitempty"`
	Err        error                  `json:"-"`
	Error      string                 `json:"error,omitempty"`
}

func (o Outcome) failed(err error) Outcome {
	o.Err = err
	o.Error = err.Error()
	return o
}

// State describes a board.
type State struct {
	Name       string                   `json:"name"`
	Generation uint64                   `json:"generation"`
	Stats      surface.Stats            `json:"stats"`
	Visible    []catalog.MovieViewModel `json:"visible"`
	Last       *Outcome                 `json:"last,omitempty"`
}

// Board owns one list view, its backing store and the main loop both live on.
type Board struct {
	name      string
	cfg       Config
	store     *surface.BackingStore[catalog.MovieViewModel]
	view      *surface.ListView[catalog.MovieViewModel]
	rec       *reconcile.Reconciler[catalog.MovieViewModel]
	fence     reconcile.Fence
	loop      *Loop
	source    Source
	archive   Archiver
	retention int
	logger    *zap.Logger

	mu   sync.Mutex
	last *Outcome
}

// New creates a board. archive may be nil; retention of zero keeps every
// archived snapshot.
func New(name string, cfg Config, source Source, archive Archiver, retention int, logger *zap.Logger) *Board {
	if logger == nil {
		logger = zap.NewNop()
	}
	store := surface.NewBackingStore[catalog.MovieViewModel](nil)
	log := logger.With(zap.String("board", name))
	return &Board{
		name:  name,
		cfg:   cfg,
		store: store,
		view: surface.NewListView[catalog.MovieViewModel](name, store,
			surface.WithHistorySize(cfg.HistorySize),
			surface.WithWindow(surface.Window{Length: cfg.WindowSize}),
			surface.WithLogger(log),
		),
		rec:       reconcile.New[catalog.MovieViewModel](name, logger),
		loop:      NewLoop(cfg.QueueSize),
		source:    source,
		archive:   archive,
		retention: retention,
		logger:    log,
	}
}

// Name returns the board name.
func (b *Board) Name() string {
	return b.name
}

// Start starts the board's main loop.
func (b *Board) Start() {
	b.loop.Start()
}

// Stop finishes queued work and stops the main loop.
func (b *Board) Stop() {
	b.loop.Stop()
}

// Load fetches the catalog and shows it with a full reload.
func (b *Board) Load(ctx context.Context) <-chan Outcome {
	return b.request(ctx, KindLoad, b.source.FetchAll, b.applyReload)
}

// Reload draws new data and shows it with a full reload, without diffing.
func (b *Board) Reload(ctx context.Context) <-chan Outcome {
	return b.request(ctx, KindReload, b.source.Reload, b.applyReload)
}

// Update draws new data and applies it incrementally.
func (b *Board) Update(ctx context.Context) <-chan Outcome {
	return b.request(ctx, KindUpdate, b.source.TriggerUpdate, b.applyUpdate)
}

// Attach puts the view on screen.
func (b *Board) Attach(ctx context.Context) <-chan Outcome {
	return b.toggle(ctx, KindAttach, b.view.Attach)
}

// Detach takes the view off screen. Updates reload it instead of batching.
func (b *Board) Detach(ctx context.Context) <-chan Outcome {
	return b.toggle(ctx, KindDetach, b.view.Detach)
}

// Snapshot returns a copy of the data the board currently shows.
func (b *Board) Snapshot() diff.Snapshot[catalog.MovieViewModel] {
	return b.store.Snapshot().Clone()
}

// History returns the board's recent batches.
func (b *Board) History() []surface.BatchRecord {
	return b.view.History()
}

// State returns a summary of the board.
func (b *Board) State() State {
	b.mu.Lock()
	last := b.last
	b.mu.Unlock()

	return State{
		Name:       b.name,
		Generation: b.fence.Current(),
		Stats:      b.view.Stats(),
		Visible:    b.view.Visible(),
		Last:       last,
	}
}

type applyFunc func(ctx context.Context, o Outcome, next diff.Snapshot[catalog.MovieViewModel]) Outcome

// request begins a new generation, produces the next data off the loop and
// applies it on the loop.
func (b *Board) request(ctx context.Context, kind string, produce func(context.Context) (catalog.Sample, error), apply applyFunc) <-chan Outcome {
	out := make(chan Outcome, 1)
	base := Outcome{RequestID: uuid.NewString(), Kind: kind, Generation: b.fence.Next()}

	go func() {
		defer close(out)

		sample, err := produce(ctx)
		if err != nil {
			out <- b.record(base.failed(err))
			return
		}
		base.Categories = sample.Categories()
		next := sample.Snapshot(b.cfg.Sectioned)

		o := <-b.loop.Submit(ctx, func(ctx context.Context) Outcome {
			return apply(ctx, base, next)
		})
		if o.RequestID == "" {
			o = base.failed(o.Err)
		}
		if o.Err == nil && !o.Result.Stale {
			b.archiveSnapshot(ctx, &o, next)
		}
		out <- b.record(o)
	}()

	return out
}

func (b *Board) toggle(ctx context.Context, kind string, fn func()) <-chan Outcome {
	out := make(chan Outcome, 1)
	base := Outcome{RequestID: uuid.NewString(), Kind: kind}

	go func() {
		defer close(out)
		o := <-b.loop.Submit(ctx, func(context.Context) Outcome {
			fn()
			return base
		})
		if o.RequestID == "" {
			o = base.failed(o.Err)
		}
		b.logger.Info("Board visibility changed", zap.String("kind", kind), zap.String("request_id", o.RequestID))
		out <- o
	}()

	return out
}

func (b *Board) applyReload(ctx context.Context, o Outcome, next diff.Snapshot[catalog.MovieViewModel]) Outcome {
	if !b.fence.IsCurrent(o.Generation) {
		return b.stale(o)
	}
	if err := b.rec.Reload(ctx, next, b.view, b.store); err != nil {
		return o.failed(err)
	}
	o.Result = reconcile.Result{RequestID: o.RequestID, Mode: reconcile.ModeReloaded, Reloads: 1}
	return o
}

func (b *Board) applyUpdate(ctx context.Context, o Outcome, next diff.Snapshot[catalog.MovieViewModel]) Outcome {
	if !b.fence.IsCurrent(o.Generation) {
		return b.stale(o)
	}

	start := time.Now()
	staged, err := diff.Compute(catalog.Contract, b.store.Snapshot(), next)
	metrics.ComputeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return o.failed(err)
	}
	plan := reconcile.Summarize(staged)
	o.Plan = &plan

	result, err := b.rec.Apply(ctx, staged, b.view, b.store,
		reconcile.WithInterrupt(reconcile.InterruptAbove[catalog.MovieViewModel](b.cfg.MaxStageChanges)),
		reconcile.WithFence[catalog.MovieViewModel](&b.fence, o.Generation),
		reconcile.WithRequestID[catalog.MovieViewModel](o.RequestID),
	)
	o.Result = result
	if err != nil {
		return o.failed(err)
	}
	return o
}

func (b *Board) stale(o Outcome) Outcome {
	metrics.StaleDrops.WithLabelValues(b.name).Inc()
	b.logger.Info("Newer request began, dropping request", zap.String("request_id", o.RequestID))
	o.Result = reconcile.Result{RequestID: o.RequestID, Mode: reconcile.ModeStale, Stale: true}
	return o
}

// archiveSnapshot stores next best-effort. Failures are logged only.
func (b *Board) archiveSnapshot(ctx context.Context, o *Outcome, next diff.Snapshot[catalog.MovieViewModel]) {
	if b.archive == nil {
		return
	}

	now := time.Now()
	name := catalog.Name(b.name, now, o.RequestID)
	doc := catalog.ArchivedSnapshot{Board: b.name, RequestID: o.RequestID, CreatedAt: now, Snapshot: next}
	if err := b.archive.Put(ctx, name, doc); err != nil {
		b.logger.Warn("Failed to archive snapshot", zap.String("request_id", o.RequestID), zap.Error(err))
		return
	}
	o.Archived = name

	if removed, err := b.archive.Prune(ctx, b.name, b.retention); err != nil {
		b.logger.Warn("Failed to prune archived snapshots", zap.Error(err))
	} else if removed > 0 {
		b.logger.Debug("Pruned archived snapshots", zap.Int("removed", removed))
	}
}

func (b *Board) record(o Outcome) Outcome {
	if o.Err != nil {
		b.logger.Error("Board request failed",
			zap.String("kind", o.Kind),
			zap.String("request_id", o.RequestID),
			zap.Error(o.Err),
		)
	}
	b.mu.Lock()
	b.last = &o
	b.mu.Unlock()
	return o
}
