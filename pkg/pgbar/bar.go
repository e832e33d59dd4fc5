package pgbar

import (
	"io"
	"sync/atomic"
	"time"

	"github.com/TheSohrabX/pgbar/pkg/logger"
)

// Bar renders a live-updating progress indicator on a terminal. It owns
// a bounded counter, a render strategy and the styling state, and
// enforces the idle -> active -> done state machine.
//
// A Bar is driven from a single goroutine: Update, UpdateN, Reset and
// the setters must not be called concurrently. Output, however, may
// happen on a background goroutine depending on the mode, so a Bar must
// be Closed when no longer needed.
type Bar struct {
	log logger.Logger
	out io.Writer

	cfg  Config
	cnt  counter
	asm  assembler
	rndr renderer

	inTTY   bool
	updated atomic.Bool

	// Redraw state, touched only by the frame task (which runs on the
	// worker goroutine in threaded mode and inline otherwise). Reset
	// whenever the bar returns to idle.
	doneFlag     bool
	lastFraction float64
	smoothed     time.Duration
	firstInvoked time.Time
}

// New creates a progress bar. Zero-valued Config fields fall back to the
// stock look: every field enabled, a 30-glyph track, threaded rendering
// at 35ms, output to stderr. A nil logger disables logging.
func New(config Config, log logger.Logger) *Bar {
	config = config.withDefaults()
	if log == nil {
		log = logger.Nop()
	}

	b := &Bar{
		log:   log,
		out:   config.Output,
		cfg:   config,
		asm:   newAssembler(config),
		inTTY: config.Probe(config.Output),
	}
	b.cnt.total = config.Total
	b.cnt.step = config.Step
	b.rndr = newRenderer(config.Mode, config.RefreshRate, b.rendering)

	b.log.WithFields(logger.Fields{
		"total":   config.Total,
		"step":    config.Step,
		"mode":    config.Mode,
		"style":   config.Style,
		"refresh": config.RefreshRate,
		"inTTY":   b.inTTY,
	}).Debug("Created new progress bar")

	return b
}

// IsUpdated reports whether at least one frame has been produced since
// the last reset.
func (b *Bar) IsUpdated() bool {
	return b.updated.Load()
}

// IsDone reports whether the counter has reached its total and the
// final frame has been scheduled.
func (b *Bar) IsDone() bool {
	return b.IsUpdated() && b.cnt.isEnded()
}

// Update advances the bar by its configured step.
func (b *Bar) Update() error {
	return b.doUpdate(func() { b.cnt.advance(b.cnt.step) })
}

// UpdateN advances the bar by n, ignoring the configured step. Any
// portion past the total is truncated.
func (b *Bar) UpdateN(n uint64) error {
	return b.doUpdate(func() { b.cnt.advance(n) })
}

func (b *Bar) doUpdate(advance func()) error {
	if b.IsDone() {
		return ErrAlreadyDone
	}
	if b.cnt.total == 0 {
		return ErrZeroTotal
	}

	if !b.updated.Load() {
		b.log.Debug("Activating render strategy")
		b.rndr.activate()
	}

	advance()
	b.rndr.render()
	b.log.Trace("bar advanced")

	if b.cnt.isEnded() {
		b.rndr.suspend() // wait for the final frame to flush
		b.log.WithFields(logger.Fields{
			"total": b.cnt.total,
		}).Debug("Progress bar completed")
	}
	return nil
}

// Reset returns the bar to idle, zeroing the counter but preserving the
// total, step and styling. No-op if the bar never rendered.
func (b *Bar) Reset() {
	if !b.updated.Load() {
		return
	}
	b.log.Debug("Resetting progress bar")
	b.cnt.reset()
	b.rndr.suspend()
	b.updated.Store(false)
}

// Close terminates the render strategy. Required for ModeThreaded bars;
// safe to call on a bar that was never updated, and idempotent.
func (b *Bar) Close() {
	b.rndr.close()
}

// rendering produces one frame from the current counter and timing
// state. It is the task handed to the render strategy and is never
// invoked from two goroutines at once.
func (b *Bar) rendering() {
	if !b.updated.Load() {
		b.doneFlag = false
		b.lastFraction = 0
		if b.inTTY {
			b.smoothed = 0
			b.firstInvoked = time.Now()
			erase, content := b.asm.generate(b.asm.style, 0, 0, 0, false)
			io.WriteString(b.out, erase+content)
		}
		b.updated.Store(true)
	}

	if b.doneFlag {
		return
	}

	done := b.cnt.current.Load()

	if b.inTTY {
		// Average interval per completed task since activation,
		// folded into the running smoothed estimate.
		latest := time.Since(b.firstInvoked)
		if done != 0 {
			latest /= time.Duration(done)
		}
		b.smoothed = (b.smoothed + latest) / 2

		fraction := float64(done) / float64(b.cnt.total)
		ctrl := b.asm.style
		if fraction-b.lastFraction < 0.01 {
			// Progress moved less than a point: skip the glyph
			// churn, repaint only the status fields.
			ctrl &^= StyleBar
		} else {
			b.lastFraction = fraction
		}

		erase, content := b.asm.generate(ctrl, fraction, done, b.smoothed, true)
		io.WriteString(b.out, erase+content)
	}

	if b.cnt.isEnded() {
		if b.inTTY {
			erase, content := b.asm.generate(b.asm.style, 1, b.cnt.total, b.smoothed, true)
			io.WriteString(b.out, erase+content+"\n")
		}
		b.doneFlag = true
	}
}

// SetTotal sets the task total. Ignored once the bar has rendered.
func (b *Bar) SetTotal(total uint64) error {
	if b.updated.Load() {
		return nil
	}
	if total == 0 {
		return ErrZeroTotal
	}
	b.cnt.total = total
	b.asm.setTotal(total)
	return nil
}

// SetStep sets how far each Update advances. Ignored once rendered.
func (b *Bar) SetStep(step uint64) error {
	if b.updated.Load() {
		return nil
	}
	if step == 0 {
		return ErrZeroStep
	}
	b.cnt.step = step
	return nil
}

// SetStyle selects the rendered fields. Ignored once rendered.
func (b *Bar) SetStyle(style Style) *Bar {
	if !b.updated.Load() {
		b.asm.style = style
		b.asm.recalcStatusLength()
	}
	return b
}

// SetDoneChar sets the glyph for the completed part of the track.
func (b *Bar) SetDoneChar(s string) *Bar {
	if !b.updated.Load() {
		b.asm.doneChar = s
	}
	return b
}

// SetTodoChar sets the glyph for the remaining part of the track.
func (b *Bar) SetTodoChar(s string) *Bar {
	if !b.updated.Load() {
		b.asm.todoChar = s
	}
	return b
}

// SetStartpoint sets the string before the track.
func (b *Bar) SetStartpoint(s string) *Bar {
	if !b.updated.Load() {
		b.asm.startpoint = s
	}
	return b
}

// SetEndpoint sets the string after the track.
func (b *Bar) SetEndpoint(s string) *Bar {
	if !b.updated.Load() {
		b.asm.endpoint = s
	}
	return b
}

// SetLeftStatus sets the opening bracket of the status bar.
func (b *Bar) SetLeftStatus(s string) *Bar {
	if !b.updated.Load() {
		b.asm.leftStatus = s
		b.asm.recalcStatusLength()
	}
	return b
}

// SetRightStatus sets the closing bracket of the status bar.
func (b *Bar) SetRightStatus(s string) *Bar {
	if !b.updated.Load() {
		b.asm.rightStatus = s
		b.asm.recalcStatusLength()
	}
	return b
}

// SetBarLength sets the glyph count of the track.
func (b *Bar) SetBarLength(n int) *Bar {
	if !b.updated.Load() && n > 0 {
		b.asm.barLength = n
	}
	return b
}

// SetTodoColor sets the color of the remaining part of the track.
func (b *Bar) SetTodoColor(d Dye) *Bar {
	if !b.updated.Load() {
		b.asm.todoColor = d
	}
	return b
}

// SetDoneColor sets the color of the completed part of the track.
func (b *Bar) SetDoneColor(d Dye) *Bar {
	if !b.updated.Load() {
		b.asm.doneColor = d
	}
	return b
}

// SetStatusColor sets the color of the status bar.
func (b *Bar) SetStatusColor(d Dye) *Bar {
	if !b.updated.Load() {
		b.asm.statusColor = d
	}
	return b
}
