package pgbar

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCooperativeRenderer(t *testing.T) {
	t.Run("activate emits one frame", func(t *testing.T) {
		var frames int
		r := &cooperativeRenderer{task: func() { frames++ }, refresh: time.Hour}

		r.activate()
		assert.Equal(t, 1, frames)

		// Repeated activation is a no-op.
		r.activate()
		assert.Equal(t, 1, frames)
	})

	t.Run("render throttles by elapsed time", func(t *testing.T) {
		var frames int
		r := &cooperativeRenderer{task: func() { frames++ }, refresh: time.Hour}

		r.activate()
		for i := 0; i < 100; i++ {
			r.render()
		}
		assert.Equal(t, 1, frames)
	})

	t.Run("render redraws once the interval has passed", func(t *testing.T) {
		var frames int
		r := &cooperativeRenderer{task: func() { frames++ }, refresh: time.Millisecond}

		r.activate()
		time.Sleep(5 * time.Millisecond)
		r.render()
		assert.Equal(t, 2, frames)
	})

	t.Run("suspend flushes a final frame", func(t *testing.T) {
		var frames int
		r := &cooperativeRenderer{task: func() { frames++ }, refresh: time.Hour}

		r.activate()
		r.suspend()
		assert.Equal(t, 2, frames)

		// Suspend and render are no-ops while inactive.
		r.suspend()
		r.render()
		assert.Equal(t, 2, frames)
	})

	t.Run("close is a no-op", func(t *testing.T) {
		r := &cooperativeRenderer{task: func() {}, refresh: time.Hour}
		r.close()
		r.close()
	})
}

func TestThreadedRenderer(t *testing.T) {
	t.Run("activate starts the redraw loop", func(t *testing.T) {
		var frames atomic.Int64
		r := newThreadedRenderer(time.Millisecond, func() { frames.Add(1) })
		defer r.close()

		r.activate()
		assert.Eventually(t, func() bool {
			return frames.Load() >= 2
		}, time.Second, time.Millisecond)
	})

	t.Run("suspend parks the worker", func(t *testing.T) {
		var frames atomic.Int64
		r := newThreadedRenderer(time.Millisecond, func() { frames.Add(1) })
		defer r.close()

		r.activate()
		r.suspend()

		parked := frames.Load()
		time.Sleep(20 * time.Millisecond)
		assert.Equal(t, parked, frames.Load())
	})

	t.Run("reactivation resumes after suspend", func(t *testing.T) {
		var frames atomic.Int64
		r := newThreadedRenderer(time.Millisecond, func() { frames.Add(1) })
		defer r.close()

		r.activate()
		r.suspend()
		parked := frames.Load()

		r.activate()
		assert.Eventually(t, func() bool {
			return frames.Load() > parked
		}, time.Second, time.Millisecond)
		r.suspend()
	})

	t.Run("close without activation emits nothing", func(t *testing.T) {
		var frames atomic.Int64
		r := newThreadedRenderer(time.Millisecond, func() { frames.Add(1) })

		r.close()
		assert.Equal(t, int64(0), frames.Load())
	})

	t.Run("close is idempotent", func(t *testing.T) {
		r := newThreadedRenderer(time.Millisecond, func() {})
		r.activate()
		r.suspend()
		r.close()
		r.close()
	})
}

func TestNewRenderer(t *testing.T) {
	threaded := newRenderer(ModeThreaded, time.Millisecond, func() {})
	defer threaded.close()
	assert.IsType(t, &threadedRenderer{}, threaded)

	cooperative := newRenderer(ModeCooperative, time.Millisecond, func() {})
	assert.IsType(t, &cooperativeRenderer{}, cooperative)
}
