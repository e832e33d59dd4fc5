package config

// Theme describes the visual appearance of the bar, loaded from a YAML
// file. Empty values fall back to the stock look.
type Theme struct {
	// TodoChar is the glyph for the unfinished part of the track
	TodoChar string `yaml:"todo_char"`

	// DoneChar is the glyph for the finished part of the track
	DoneChar string `yaml:"done_char"`

	// Startpoint and Endpoint bracket the track
	Startpoint string `yaml:"startpoint"`
	Endpoint   string `yaml:"endpoint"`

	// LeftStatus and RightStatus bracket the status fields
	LeftStatus  string `yaml:"left_status"`
	RightStatus string `yaml:"right_status"`

	// Colors by name: none, black, red, green, yellow, blue, magenta,
	// cyan or white
	TodoColor   string `yaml:"todo_color"`
	DoneColor   string `yaml:"done_color"`
	StatusColor string `yaml:"status_color"`
}

// Constants for configuration limits and defaults
const (
	// MinRefreshMS is the minimum allowed redraw interval in milliseconds
	MinRefreshMS = 1

	// DefaultRefreshMS is the default redraw interval in milliseconds
	DefaultRefreshMS = 35

	// DefaultBarLength is the default glyph count of the bar track
	DefaultBarLength = 30

	// MaxWorkerMultiplier is the maximum multiple of CPU cores for worker count
	MaxWorkerMultiplier = 4
)
