package pgbar

import "sync/atomic"

// counter is a monotonic task counter bounded by a fixed total.
// current is read by the render goroutine while the caller's goroutine
// advances it, so it is stored atomically. total and step only change
// while the bar is idle.
type counter struct {
	total   uint64
	step    uint64
	current atomic.Uint64
}

// advance moves the counter forward by n, clamping at total. Overshoot
// is silently truncated so the bar can never report more than 100%.
func (c *counter) advance(n uint64) {
	cur := c.current.Load()
	next := cur + n
	if next > c.total || next < cur { // clamp, including wraparound
		next = c.total
	}
	c.current.Store(next)
}

// isEnded reports whether the counter has reached its total, or sits
// close enough that the next advance would have to clamp. Written
// without a division because it runs on every update.
func (c *counter) isEnded() bool {
	cur := c.current.Load()
	return cur >= c.total || c.total-cur < c.step
}

func (c *counter) reset() {
	c.current.Store(0)
}
