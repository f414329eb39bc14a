package reconcile

import (
	"errors"
	"sync/atomic"

	"diffing-research/core/diff"
)

// ErrBatchFailed wraps any error a surface returns from a batch.
var ErrBatchFailed = errors.New("batch update failed")

// Mode describes how an Apply call finished.
type Mode string

const (
	// ModeNoop means there was nothing to apply.
	ModeNoop Mode = "noop"
	// ModeIncremental means every stage was applied as a batch.
	ModeIncremental Mode = "incremental"
	// ModeDetached means the surface was detached and was reloaded instead.
	ModeDetached Mode = "detached"
	// ModeInterrupted means the interrupt predicate cut the apply short.
	ModeInterrupted Mode = "interrupted"
	// ModeStale means a newer request began and the remaining stages were dropped.
	ModeStale Mode = "stale"
	// ModeFailed means the surface rejected a batch.
	ModeFailed Mode = "failed"
	// ModeReloaded means the data was replaced without diffing.
	ModeReloaded Mode = "reloaded"
)

// Result reports what an Apply call did.
type Result struct {
	// RequestID identifies the request in logs.
	RequestID string `json:"request_id,omitempty"`

	// Mode is how the call finished.
	Mode Mode `json:"mode"`

	// Stages is the number of stages in the changeset.
	Stages int `json:"stages"`

	// Batches counts batches the surface accepted.
	Batches int `json:"batches"`

	// Reloads counts full reloads issued.
	Reloads int `json:"reloads"`

	// InterruptedAt is the 1-based stage the interrupt fired on, or 0.
	InterruptedAt int `json:"interrupted_at,omitempty"`

	// Changes is the number of deltas delivered in batches.
	Changes int `json:"changes"`

	// Stale is true when the fence dropped the remaining stages.
	Stale bool `json:"stale"`
}

// Interrupt decides, before a stage is applied, whether to abandon incremental
// application in favour of one full reload.
type Interrupt[T any] func(stage diff.Changeset[T]) bool

// InterruptAbove interrupts when a stage carries more than limit changes.
// A limit of zero or less never interrupts.
func InterruptAbove[T any](limit int) Interrupt[T] {
	if limit <= 0 {
		return nil
	}
	return func(stage diff.Changeset[T]) bool {
		return stage.Changes.ChangeCount() > limit
	}
}

// Fence hands out generation tokens. A request holding a token other than the
// latest is stale.
type Fence struct {
	current atomic.Uint64
}

// Next begins a new generation and returns its token.
func (f *Fence) Next() uint64 {
	return f.current.Add(1)
}

// Current returns the latest token.
func (f *Fence) Current() uint64 {
	return f.current.Load()
}

// IsCurrent reports whether token is still the latest.
func (f *Fence) IsCurrent(token uint64) bool {
	return f.current.Load() == token
}

// Options controls a single Apply call.
type Options[T any] struct {
	Interrupt  Interrupt[T]
	Fence      *Fence
	Generation uint64
	RequestID  string
}

// Option configures a single Apply call.
type Option[T any] func(*Options[T])

// WithInterrupt installs an interrupt predicate. A nil predicate is ignored.
func WithInterrupt[T any](fn Interrupt[T]) Option[T] {
	return func(o *Options[T]) { o.Interrupt = fn }
}

// WithFence makes the call drop its remaining stages once fence moves past
// generation.
func WithFence[T any](fence *Fence, generation uint64) Option[T] {
	return func(o *Options[T]) {
		o.Fence = fence
		o.Generation = generation
	}
}

// WithRequestID tags logs and the result with id.
func WithRequestID[T any](id string) Option[T] {
	return func(o *Options[T]) { o.RequestID = id }
}

func (o *Options[T]) stale() bool {
	return o.Fence != nil && !o.Fence.IsCurrent(o.Generation)
}
