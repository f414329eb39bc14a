package board

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrStopped is returned for work submitted to a stopped loop.
var ErrStopped = errors.New("board loop stopped")

// Loop runs submitted work one item at a time on a single goroutine. A
// board's surface and store are only touched from its loop.
type Loop struct {
	tasks chan func()
	quit  chan struct{}
	done  chan struct{}

	mu      sync.RWMutex
	stopped bool
	once    sync.Once
}

// NewLoop creates a loop with room for queue pending tasks.
func NewLoop(queue int) *Loop {
	if queue <= 0 {
		queue = 1
	}
	return &Loop{
		tasks: make(chan func(), queue),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}
}

// Start runs the loop in a new goroutine.
func (l *Loop) Start() {
	go l.run()
}

func (l *Loop) run() {
	defer close(l.done)
	for {
		select {
		case task := <-l.tasks:
			task()
		case <-l.quit:
			// Run what was accepted before Stop so every caller gets its outcome.
			for {
				select {
				case task := <-l.tasks:
					task()
				default:
					return
				}
			}
		}
	}
}

// Stop stops accepting work, runs what is queued and waits for the loop to exit.
// Stop must only be called on a started loop.
func (l *Loop) Stop() {
	l.once.Do(func() {
		l.mu.Lock()
		l.stopped = true
		l.mu.Unlock()
		close(l.quit)
	})
	<-l.done
}

// Submit queues fn and returns a channel that delivers exactly one Outcome and
// is then closed. A panic in fn is reported as the Outcome's error.
func (l *Loop) Submit(ctx context.Context, fn func(context.Context) Outcome) <-chan Outcome {
	out := make(chan Outcome, 1)
	fail := func(err error) <-chan Outcome {
		out <- Outcome{Err: err}
		close(out)
		return out
	}

	task := func() {
		defer close(out)
		defer func() {
			if r := recover(); r != nil {
				out <- Outcome{Err: fmt.Errorf("board task panicked: %v", r)}
			}
		}()
		if err := ctx.Err(); err != nil {
			out <- Outcome{Err: err}
			return
		}
		out <- fn(ctx)
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.stopped {
		return fail(ErrStopped)
	}

	select {
	case l.tasks <- task:
		return out
	case <-ctx.Done():
		return fail(ctx.Err())
	}
}
