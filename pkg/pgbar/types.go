package pgbar

import (
	"io"
	"os"
	"time"

	"golang.org/x/term"
)

// Style is a bitmask selecting which display fields are rendered.
type Style uint8

const (
	// StyleBar renders the glyph track between the start and end points.
	StyleBar Style = 1 << iota

	// StylePercentage renders the two-decimal completion percentage.
	StylePercentage

	// StyleCounter renders the done/total task counter.
	StyleCounter

	// StyleRate renders the smoothed update frequency.
	StyleRate

	// StyleCountdown renders "elapsed < remaining".
	StyleCountdown

	// StyleEntire enables every field.
	StyleEntire = StyleBar | StylePercentage | StyleCounter | StyleRate | StyleCountdown
)

// has reports whether any of the given field bits are enabled.
func (s Style) has(fields Style) bool {
	return s&fields != 0
}

// Dye is an ANSI escape sequence applied to a display field.
type Dye string

const (
	DyeNone    Dye = ""
	DyeBlack   Dye = "\033[30m"
	DyeRed     Dye = "\033[31m"
	DyeGreen   Dye = "\033[32m"
	DyeYellow  Dye = "\033[33m"
	DyeBlue    Dye = "\033[34m"
	DyeMagenta Dye = "\033[35m"
	DyeCyan    Dye = "\033[36m"
	DyeWhite   Dye = "\033[37m"
)

const (
	fontBold   = "\033[1m"
	resetColor = "\033[0m"
)

// Mode selects the render strategy.
type Mode string

const (
	// ModeThreaded redraws on a background goroutine at a fixed cadence,
	// independent of how fast the caller updates.
	ModeThreaded Mode = "threaded"

	// ModeCooperative redraws inline during Update calls, throttled by
	// elapsed time. No background activity.
	ModeCooperative Mode = "cooperative"
)

// DefaultRefreshRate caps redraws at roughly 25 Hz.
const DefaultRefreshRate = 35 * time.Millisecond

// TTYProbe reports whether the given writer is an interactive terminal.
// When it returns false the bar never writes any bytes.
type TTYProbe func(io.Writer) bool

// Config holds the configuration for a progress bar.
type Config struct {
	// Total is the number of tasks the bar is bounded by.
	Total uint64

	// Step is the number of tasks each Update call advances (default 1).
	Step uint64

	// Style selects the rendered fields (default StyleEntire).
	Style Style

	// Mode selects the render strategy (default ModeThreaded).
	Mode Mode

	// RefreshRate is the minimum interval between redraws.
	RefreshRate time.Duration

	// BarLength is the glyph count of the track (default 30).
	BarLength int

	// Glyphs and brackets. Defaults match "[---   ] [ ... ]".
	TodoChar    string
	DoneChar    string
	Startpoint  string
	Endpoint    string
	LeftStatus  string
	RightStatus string

	// Field colors. StatusColor defaults to DyeCyan.
	TodoColor   Dye
	DoneColor   Dye
	StatusColor Dye

	// NoColor drops every escape sequence, including the status bar's
	// bold/reset wrapping.
	NoColor bool

	// Output is where frames are written (default os.Stderr).
	Output io.Writer

	// Probe decides whether Output is an interactive terminal. Consumed
	// once at construction; defaults to an isatty check for *os.File
	// writers and true for anything else.
	Probe TTYProbe
}

// withDefaults fills unset fields: zero values mean "use the stock look".
func (c Config) withDefaults() Config {
	if c.Step == 0 {
		c.Step = 1
	}
	if c.Style == 0 {
		c.Style = StyleEntire
	}
	if c.Mode == "" {
		c.Mode = ModeThreaded
	}
	if c.RefreshRate == 0 {
		c.RefreshRate = DefaultRefreshRate
	}
	if c.BarLength == 0 {
		c.BarLength = 30
	}
	if c.TodoChar == "" {
		c.TodoChar = " "
	}
	if c.DoneChar == "" {
		c.DoneChar = "-"
	}
	if c.Startpoint == "" {
		c.Startpoint = "["
	}
	if c.Endpoint == "" {
		c.Endpoint = "]"
	}
	if c.LeftStatus == "" {
		c.LeftStatus = "[ "
	}
	if c.RightStatus == "" {
		c.RightStatus = " ]"
	}
	if c.StatusColor == DyeNone {
		c.StatusColor = DyeCyan
	}
	if c.Output == nil {
		c.Output = os.Stderr
	}
	if c.Probe == nil {
		c.Probe = IsTerminal
	}
	return c
}

// IsTerminal is the default TTYProbe. File writers are probed with
// isatty; custom writers are assumed to want the output.
func IsTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return true
}
