package pgbar

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// renderer drives redraws of a single bar. Both implementations honor
// the same contract: activate does not return before the first frame has
// been scheduled on an awake worker, and suspend does not return before
// the worker has genuinely parked (after flushing one last frame).
type renderer interface {
	activate()
	suspend()
	render()
	close()
}

func newRenderer(mode Mode, refresh time.Duration, task func()) renderer {
	if mode == ModeCooperative {
		return &cooperativeRenderer{task: task, refresh: refresh}
	}
	return newThreadedRenderer(refresh, task)
}

// threadedRenderer owns a background goroutine that invokes the frame
// task at a fixed cadence while active and parks on a condition variable
// while suspended.
type threadedRenderer struct {
	task    func()
	refresh time.Duration

	// hadOutput is touched only by the worker goroutine.
	hadOutput bool

	active    atomic.Bool
	suspended atomic.Bool
	finish    atomic.Bool
	stop      atomic.Bool

	mu        sync.Mutex
	cond      *sync.Cond
	done      chan struct{}
	closeOnce sync.Once
}

func newThreadedRenderer(refresh time.Duration, task func()) *threadedRenderer {
	r := &threadedRenderer{
		task:    task,
		refresh: refresh,
		done:    make(chan struct{}),
	}
	r.cond = sync.NewCond(&r.mu)
	r.suspended.Store(true)
	r.stop.Store(true)
	go r.loop()
	return r
}

func (r *threadedRenderer) loop() {
	defer close(r.done)

	for {
		r.mu.Lock()
		if r.stop.Load() && !r.finish.Load() {
			if r.active.Load() {
				// One more frame so the caller sees the latest
				// state before the worker parks.
				r.task()
			}
			r.suspended.Store(true)
			r.cond.Wait()
		}
		r.mu.Unlock()

		r.active.Store(true)
		if r.hadOutput || !r.finish.Load() {
			r.task()
		}
		if r.finish.Load() {
			return
		}
		r.hadOutput = true
		time.Sleep(r.refresh)
	}
}

// activate wakes the worker and spins until it confirms it is running.
// The next frame is therefore never racing the caller's own render call.
func (r *threadedRenderer) activate() {
	r.mu.Lock()
	r.stop.Store(false)
	// Signal under the mutex: the worker is either before its stop
	// check, in which case it will see the cleared flag, or already
	// parked in Wait.
	r.cond.Signal()
	r.mu.Unlock()

	for !r.active.Load() {
		runtime.Gosched()
	}
	r.suspended.Store(false)
}

// suspend requests a stop and spins until the worker has parked. Safe to
// call repeatedly.
func (r *threadedRenderer) suspend() {
	r.mu.Lock()
	r.stop.Store(true)
	r.mu.Unlock()

	for !r.suspended.Load() {
		runtime.Gosched()
	}

	r.mu.Lock()
	r.active.Store(false)
	r.mu.Unlock()
}

// render is a no-op: the worker alone performs output in this mode.
func (r *threadedRenderer) render() {}

// close terminates and joins the worker. Safe even if the renderer was
// never activated, and idempotent.
func (r *threadedRenderer) close() {
	r.closeOnce.Do(func() {
		r.mu.Lock()
		r.finish.Store(true)
		r.stop.Store(false)
		r.cond.Broadcast()
		r.mu.Unlock()
		<-r.done
	})
}

// cooperativeRenderer redraws opportunistically on the caller's
// goroutine, throttled to the same nominal cadence as the threaded
// variant. Single-threaded by construction; no locking.
type cooperativeRenderer struct {
	task    func()
	refresh time.Duration
	active  bool
	last    time.Time
}

func (r *cooperativeRenderer) activate() {
	if r.active {
		return
	}
	r.last = time.Now()
	r.task()
	r.active = true
}

func (r *cooperativeRenderer) suspend() {
	if !r.active {
		return
	}
	r.task() // final flush
	r.active = false
}

func (r *cooperativeRenderer) render() {
	if !r.active {
		return
	}
	now := time.Now()
	if now.Sub(r.last) < r.refresh {
		return
	}
	r.last = now
	r.task()
}

func (r *cooperativeRenderer) close() {}
