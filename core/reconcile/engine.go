package reconcile

import (
	"context"
	"fmt"

	"diffing-research/core/diff"
	"diffing-research/core/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Reconciler applies staged changesets to one surface.
type Reconciler[T any] struct {
	name   string
	logger *zap.Logger
}

// New creates a Reconciler. name labels logs and metrics.
func New[T any](name string, logger *zap.Logger) *Reconciler[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler[T]{name: name, logger: logger.With(zap.String("board", name))}
}

// Apply brings surface and store from the changeset's source to its target.
//
// Apply must run on the goroutine that owns surface and store. It returns once
// every batch it issued has completed.
func (r *Reconciler[T]) Apply(ctx context.Context, staged diff.StagedChangeset[T], surface Surface, store Store[T], opts ...Option[T]) (Result, error) {
	o := Options[T]{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.RequestID == "" {
		o.RequestID = uuid.NewString()
	}

	result := Result{RequestID: o.RequestID, Mode: ModeNoop, Stages: len(staged)}
	log := r.logger.With(zap.String("request_id", o.RequestID))

	final, ok := staged.Last()
	if !ok {
		return result, nil
	}

	if o.stale() {
		return r.dropStale(log, result, 0), nil
	}

	if !surface.Attached() {
		store.Set(final.Data)
		if err := r.reload(ctx, surface, metrics.ReasonDetached); err != nil {
			return result, err
		}
		result.Mode = ModeDetached
		result.Reloads = 1
		log.Info("Surface detached, reloaded to final data", zap.Int("stages", len(staged)))
		return result, nil
	}

	for i, stage := range staged {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("stage %d of %d: %w", i+1, len(staged), err)
		}

		if o.stale() {
			return r.dropStale(log, result, i), nil
		}

		if o.Interrupt != nil && r.interrupted(log, o.Interrupt, stage) {
			store.Set(final.Data)
			if err := r.reload(ctx, surface, metrics.ReasonInterrupted); err != nil {
				return result, err
			}
			result.Mode = ModeInterrupted
			result.InterruptedAt = i + 1
			result.Reloads = 1
			log.Info("Apply interrupted, reloaded to final data",
				zap.Int("stage", i+1),
				zap.Int("stages", len(staged)),
			)
			return result, nil
		}

		store.Set(stage.Data)
		if err := surface.PerformBatchUpdates(ctx, stage.Changes); err != nil {
			metrics.BatchFailures.WithLabelValues(r.name).Inc()
			log.Error("Batch update failed",
				zap.Int("stage", i+1),
				zap.Stringer("changes", stage.Changes),
				zap.Error(err),
			)
			result.Mode = ModeFailed
			return result, fmt.Errorf("stage %d of %d: %w: %w", i+1, len(staged), ErrBatchFailed, err)
		}

		metrics.StagesApplied.WithLabelValues(r.name).Inc()
		result.Batches++
		result.Changes += stage.Changes.ChangeCount()
		log.Debug("Stage applied",
			zap.Int("stage", i+1),
			zap.Stringer("changes", stage.Changes),
		)
	}

	result.Mode = ModeIncremental
	return result, nil
}

// Reload publishes data and reloads surface without diffing.
func (r *Reconciler[T]) Reload(ctx context.Context, data diff.Snapshot[T], surface Surface, store Store[T]) error {
	store.Set(data)
	if err := r.reload(ctx, surface, metrics.ReasonRequested); err != nil {
		return err
	}
	r.logger.Debug("Surface reloaded", zap.Int("items", data.Count()))
	return nil
}

func (r *Reconciler[T]) reload(ctx context.Context, surface Surface, reason string) error {
	if err := surface.ReloadData(ctx); err != nil {
		return fmt.Errorf("reload surface: %w", err)
	}
	metrics.FullReloads.WithLabelValues(r.name, reason).Inc()
	return nil
}

func (r *Reconciler[T]) dropStale(log *zap.Logger, result Result, applied int) Result {
	metrics.StaleDrops.WithLabelValues(r.name).Inc()
	log.Info("Newer request began, dropping remaining stages",
		zap.Int("applied", applied),
		zap.Int("stages", result.Stages),
	)
	result.Mode = ModeStale
	result.Stale = true
	return result
}

// interrupted evaluates fn, treating a panic as a request to interrupt.
func (r *Reconciler[T]) interrupted(log *zap.Logger, fn Interrupt[T], stage diff.Changeset[T]) (stop bool) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Warn("Interrupt predicate panicked, falling back to reload", zap.Any("panic", rec))
			stop = true
		}
	}()
	return fn(stage)
}
