package pgbar

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Fixed field widths, sized for the widest value each field can show.
const (
	ratioLen = len("100.00%")
	timeLen  = len("9.9m < 9.9m")
	rateLen  = len("999.99 kHz")

	divider   = " | "
	blank     = " "
	backspace = "\b"
)

// assembler turns counter and timing state into display frames. It is
// mutated only while the bar is idle; during a run every method is
// read-only, so the render goroutine can call it without locking.
type assembler struct {
	style Style
	total uint64

	todoChar    string
	doneChar    string
	startpoint  string
	endpoint    string
	leftStatus  string
	rightStatus string

	todoColor   Dye
	doneColor   Dye
	statusColor Dye
	noColor     bool

	barLength    int
	cntLength    int // rendered width of "done/total"
	statusLength int // rendered width of the whole status bracket
}

func newAssembler(c Config) assembler {
	a := assembler{
		style:       c.Style,
		todoChar:    c.TodoChar,
		doneChar:    c.DoneChar,
		startpoint:  c.Startpoint,
		endpoint:    c.Endpoint,
		leftStatus:  c.LeftStatus,
		rightStatus: c.RightStatus,
		todoColor:   c.TodoColor,
		doneColor:   c.DoneColor,
		statusColor: c.StatusColor,
		noColor:     c.NoColor,
		barLength:   c.BarLength,
	}
	a.setTotal(c.Total)
	return a
}

// setTotal records the task total and recomputes the counter width from
// its decimal digit count.
func (a *assembler) setTotal(total uint64) {
	a.total = total
	digits := len(strconv.FormatUint(total, 10))
	a.cntLength = digits*2 + 1
	a.recalcStatusLength()
}

// recalcStatusLength sizes the status bracket from the enabled non-bar
// fields, their dividers and the bracket strings.
func (a *assembler) recalcStatusLength() {
	length := 0
	fields := 0
	if a.style.has(StylePercentage) {
		length += ratioLen
		fields++
	}
	if a.style.has(StyleCounter) {
		length += a.cntLength
		fields++
	}
	if a.style.has(StyleRate) {
		length += rateLen
		fields++
	}
	if a.style.has(StyleCountdown) {
		length += timeLen
		fields++
	}
	if length != 0 {
		length += len(a.leftStatus) + len(a.rightStatus)
		if fields > 1 {
			length += (fields - 1) * len(divider)
		}
	}
	a.statusLength = length
}

// generate assembles one frame. ctrl is the field set for this frame
// (the bar bit may be cleared relative to the configured style), updated
// reports whether any frame has been emitted before. The erase run
// covers exactly the fields being rewritten this frame; on the very
// first frame there is nothing to erase.
func (a *assembler) generate(ctrl Style, fraction float64, done uint64, interval time.Duration, updated bool) (erase, content string) {
	totalLength := 0
	var b strings.Builder

	if ctrl.has(StyleBar) {
		totalLength += a.barLength + len(a.startpoint) + len(a.endpoint) + 1
		b.WriteString(a.showBar(fraction))
	}
	if a.statusLength != 0 {
		totalLength += a.statusLength
		if !a.noColor {
			b.WriteString(fontBold)
			b.WriteString(string(a.statusColor))
		}
		b.WriteString(a.leftStatus)
	}
	if ctrl.has(StylePercentage) {
		b.WriteString(a.showPercentage(fraction, updated))
		if ctrl.has(StyleCounter | StyleRate | StyleCountdown) {
			b.WriteString(divider)
		}
	}
	if ctrl.has(StyleCounter) {
		b.WriteString(a.showCounter(done))
		if ctrl.has(StyleRate | StyleCountdown) {
			b.WriteString(divider)
		}
	}
	if ctrl.has(StyleRate) {
		b.WriteString(a.showRate(interval, updated))
		if ctrl.has(StyleCountdown) {
			b.WriteString(divider)
		}
	}
	if ctrl.has(StyleCountdown) {
		b.WriteString(a.showCountdown(interval, done, updated))
	}
	if a.statusLength != 0 {
		b.WriteString(a.rightStatus)
		if !a.noColor {
			b.WriteString(resetColor)
		}
	}

	if updated {
		erase = strings.Repeat(backspace, totalLength)
	}
	return erase, b.String()
}

func (a *assembler) showBar(fraction float64) string {
	doneLen := int(math.Round(float64(a.barLength) * fraction))
	if doneLen > a.barLength {
		doneLen = a.barLength
	}

	var b strings.Builder
	b.WriteString(a.startpoint)
	if !a.noColor {
		b.WriteString(string(a.doneColor))
	}
	b.WriteString(strings.Repeat(a.doneChar, doneLen))
	if !a.noColor {
		b.WriteString(string(a.todoColor))
	}
	b.WriteString(strings.Repeat(a.todoChar, a.barLength-doneLen))
	if !a.noColor {
		b.WriteString(resetColor)
	}
	b.WriteString(a.endpoint)
	b.WriteString(blank)
	return b.String()
}

func (a *assembler) showPercentage(fraction float64, updated bool) string {
	if !updated {
		return alignLeft(ratioLen, "0.00%")
	}
	return alignRight(ratioLen, trunc2(fraction*100)+"%")
}

func (a *assembler) showCounter(done uint64) string {
	totalStr := strconv.FormatUint(a.total, 10)
	return alignRight(len(totalStr), strconv.FormatUint(done, 10)) + "/" + totalStr
}

func (a *assembler) showRate(interval time.Duration, updated bool) string {
	if !updated {
		return alignCenter(rateLen, "0.00 Hz")
	}

	// An interval of zero means updates arrive too fast to measure.
	freq := math.Inf(1)
	if interval > 0 {
		freq = float64(time.Second) / float64(interval)
	}

	var rate string
	switch {
	case freq < 1e3:
		rate = trunc2(freq) + " Hz"
	case freq < 1e6:
		rate = trunc2(freq/1e3) + " kHz"
	case freq < 1e9:
		rate = trunc2(freq/1e6) + " MHz"
	default:
		if ghz := freq / 1e9; ghz > 999.99 {
			rate = "> 1.00 GHz"
		} else {
			rate = trunc2(ghz) + " GHz"
		}
	}
	return alignCenter(rateLen, rate)
}

func (a *assembler) showCountdown(interval time.Duration, done uint64, updated bool) string {
	if !updated {
		return alignCenter(timeLen, "0s < 99h")
	}
	elapsed := time.Duration(done) * interval
	remaining := time.Duration(a.total-done) * interval
	return alignCenter(timeLen, formatTime(elapsed)+" < "+formatTime(remaining))
}

// formatTime renders a duration in the narrowest unit that still fits
// the fixed countdown width: whole seconds under a minute, one-decimal
// minutes under nine, whole minutes under an hour, one-decimal hours
// while the truncated value stays below ten, whole hours to 99, then
// capped.
func formatTime(d time.Duration) string {
	sec := int64(d / time.Second)
	switch {
	case sec < 60:
		return strconv.FormatInt(sec, 10) + "s"
	case sec < 9*60:
		return trunc1(float64(sec)/60) + "m"
	case sec < 60*60:
		return strconv.FormatInt(sec/60, 10) + "m"
	case sec < 10*60*60:
		return trunc1(float64(sec)/3600) + "h"
	case sec <= 99*60*60:
		return strconv.FormatInt(sec/3600, 10) + "h"
	default:
		return "99h"
	}
}

// trunc1 and trunc2 truncate instead of rounding so a value just under a
// unit boundary cannot grow past its fixed field width.
func trunc1(v float64) string {
	return strconv.FormatFloat(math.Floor(v*10)/10, 'f', 1, 64)
}

func trunc2(v float64) string {
	return strconv.FormatFloat(math.Floor(v*100)/100, 'f', 2, 64)
}

func alignLeft(width int, s string) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(blank, width-len(s))
}

func alignRight(width int, s string) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(blank, width-len(s)) + s
}

func alignCenter(width int, s string) string {
	if len(s) >= width {
		return s
	}
	pad := width - len(s)
	right := pad / 2
	return strings.Repeat(blank, pad-right) + s + strings.Repeat(blank, right)
}

// String implements fmt.Stringer for debug logging.
func (a *assembler) String() string {
	return fmt.Sprintf("assembler{style: %05b, total: %d, barLength: %d, statusLength: %d}",
		a.style, a.total, a.barLength, a.statusLength)
}
