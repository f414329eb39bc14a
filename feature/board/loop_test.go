package board

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoop_RunsOneTaskAtATime(t *testing.T) {
	loop := NewLoop(4)
	loop.Start()
	defer loop.Stop()

	var active, peak, ran int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o := <-loop.Submit(context.Background(), func(context.Context) Outcome {
				n := atomic.AddInt32(&active, 1)
				for {
					p := atomic.LoadInt32(&peak)
					if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
						break
					}
				}
				atomic.AddInt32(&ran, 1)
				atomic.AddInt32(&active, -1)
				return Outcome{Kind: "ok"}
			})
			assert.Equal(t, "ok", o.Kind)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(20), atomic.LoadInt32(&ran))
	assert.Equal(t, int32(1), atomic.LoadInt32(&peak))
}

func TestLoop_SingleOutcome(t *testing.T) {
	loop := NewLoop(1)
	loop.Start()
	defer loop.Stop()

	ch := loop.Submit(context.Background(), func(context.Context) Outcome { return Outcome{RequestID: "r"} })

	o, ok := <-ch
	require.True(t, ok)
	assert.Equal(t, "r", o.RequestID)
	_, ok = <-ch
	assert.False(t, ok, "channel is closed after the outcome")
}

func TestLoop_PanicBecomesError(t *testing.T) {
	loop := NewLoop(1)
	loop.Start()
	defer loop.Stop()

	o := <-loop.Submit(context.Background(), func(context.Context) Outcome { panic("boom") })
	require.Error(t, o.Err)
	assert.Contains(t, o.Err.Error(), "boom")

	// The loop keeps running after a panic.
	o = <-loop.Submit(context.Background(), func(context.Context) Outcome { return Outcome{Kind: "after"} })
	assert.Equal(t, "after", o.Kind)
}

func TestLoop_CancelledContext(t *testing.T) {
	loop := NewLoop(1)
	loop.Start()
	defer loop.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	o := <-loop.Submit(ctx, func(context.Context) Outcome {
		called = true
		return Outcome{}
	})
	assert.ErrorIs(t, o.Err, context.Canceled)
	assert.False(t, called)
}

func TestLoop_Stop(t *testing.T) {
	loop := NewLoop(2)

	// Accepted before Stop, so it still runs.
	queued := loop.Submit(context.Background(), func(context.Context) Outcome { return Outcome{Kind: "queued"} })

	loop.Start()
	loop.Stop()
	loop.Stop()

	assert.Equal(t, "queued", (<-queued).Kind)

	o := <-loop.Submit(context.Background(), func(context.Context) Outcome { return Outcome{} })
	assert.True(t, errors.Is(o.Err, ErrStopped))
}
