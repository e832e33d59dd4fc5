/*
Package config provides configuration management for the pgbar command.
It handles environment variables, theme files and validation of all
configuration parameters.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Environment Variables:

	PGBAR_TOTAL          Number of tasks the bar is bounded by
	PGBAR_STEP           Tasks completed per update
	PGBAR_MODE           Render mode: threaded|cooperative
	PGBAR_WORKERS        Number of concurrent workers for the demo workload
	PGBAR_RATE_LIMIT     Rate limit for task execution (tasks/second)
	PGBAR_REFRESH_MS     Minimum interval between redraws in milliseconds
	PGBAR_BAR_LENGTH     Glyph count of the bar track
	PGBAR_FIELDS         Comma-separated display fields
	PGBAR_THEME          Path to a YAML theme file
	PGBAR_NO_COLOR       Disable colored output
	PGBAR_VERBOSE        Verbosity level (number of 'v's)

Default Values:

	Total:      100
	Step:       1
	Mode:       "threaded"
	Workers:    Number of CPU cores
	RefreshMS:  35
	BarLength:  30
	Fields:     all of [bar percentage counter rate countdown]
*/
package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/TheSohrabX/pgbar/pkg/pgbar"
)

// Config holds all configuration parameters for the application
type Config struct {
	// Total is the number of tasks the progress bar counts towards
	Total uint64

	// Step is the number of tasks each completion advances the bar by
	Step uint64

	// Mode selects the render strategy (threaded or cooperative)
	Mode string

	// Workers is the number of concurrent workers for the demo workload
	Workers int

	// RateLimit is the maximum number of tasks per second (0 for unlimited)
	RateLimit int

	// RefreshMS is the minimum interval between redraws in milliseconds
	RefreshMS int

	// BarLength is the glyph count of the bar track
	BarLength int

	// Fields is the list of display fields to render
	Fields []string

	// ThemeFile is the path to a YAML theme file (empty for the stock look)
	ThemeFile string

	// NoColor disables colored output
	NoColor bool

	// Verbose sets the verbosity level
	Verbose int
}

// validFields maps field names to their style bits
var validFields = map[string]pgbar.Style{
	"bar":        pgbar.StyleBar,
	"percentage": pgbar.StylePercentage,
	"counter":    pgbar.StyleCounter,
	"rate":       pgbar.StyleRate,
	"countdown":  pgbar.StyleCountdown,
}

// validModes contains the list of supported render modes
var validModes = map[string]bool{
	string(pgbar.ModeThreaded):    true,
	string(pgbar.ModeCooperative): true,
}

// dyes maps color names to their escape sequences
var dyes = map[string]pgbar.Dye{
	"":        pgbar.DyeNone,
	"none":    pgbar.DyeNone,
	"black":   pgbar.DyeBlack,
	"red":     pgbar.DyeRed,
	"green":   pgbar.DyeGreen,
	"yellow":  pgbar.DyeYellow,
	"blue":    pgbar.DyeBlue,
	"magenta": pgbar.DyeMagenta,
	"cyan":    pgbar.DyeCyan,
	"white":   pgbar.DyeWhite,
}

// Load reads configuration from environment variables and validates it
func Load() (Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("total", 100)
	v.SetDefault("step", 1)
	v.SetDefault("mode", string(pgbar.ModeThreaded))
	v.SetDefault("workers", runtime.NumCPU())
	v.SetDefault("rate_limit", 0)
	v.SetDefault("refresh_ms", 35)
	v.SetDefault("bar_length", 30)
	v.SetDefault("no_color", false)
	v.SetDefault("verbose", 0)

	// Configure environment variables
	v.SetEnvPrefix("PGBAR")
	v.AutomaticEnv()

	// Map environment variables to config fields
	v.BindEnv("total")
	v.BindEnv("step")
	v.BindEnv("mode")
	v.BindEnv("workers")
	v.BindEnv("rate_limit")
	v.BindEnv("refresh_ms")
	v.BindEnv("bar_length")
	v.BindEnv("fields")
	v.BindEnv("theme")
	v.BindEnv("no_color")
	v.BindEnv("verbose")

	// Process verbosity level from string of 'v's
	if verboseStr := v.GetString("verbose"); verboseStr != "" {
		v.Set("verbose", strings.Count(verboseStr, "v"))
	}

	// Create config instance
	cfg := Config{
		Total:     v.GetUint64("total"),
		Step:      v.GetUint64("step"),
		Mode:      v.GetString("mode"),
		Workers:   v.GetInt("workers"),
		RateLimit: v.GetInt("rate_limit"),
		RefreshMS: v.GetInt("refresh_ms"),
		BarLength: v.GetInt("bar_length"),
		ThemeFile: v.GetString("theme"),
		NoColor:   v.GetBool("no_color"),
		Verbose:   v.GetInt("verbose"),
	}

	// Handle special case for workers=0
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}

	// Process display fields
	if fieldsStr := v.GetString("fields"); fieldsStr != "" {
		fields := strings.Split(fieldsStr, ",")
		cfg.Fields = make([]string, 0, len(fields))
		for _, f := range fields {
			if trimmed := strings.TrimSpace(f); trimmed != "" {
				cfg.Fields = append(cfg.Fields, trimmed)
			}
		}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c Config) Validate() error {
	// Validate task bounds
	if c.Total == 0 {
		return fmt.Errorf("total must be positive")
	}
	if c.Step == 0 {
		return fmt.Errorf("step must be positive")
	}

	// Validate render mode
	if !validModes[c.Mode] {
		return fmt.Errorf("invalid mode: must be one of [threaded cooperative]")
	}

	// Validate workers count
	if c.Workers < 0 {
		return fmt.Errorf("workers count must be positive")
	}
	maxWorkers := runtime.NumCPU() * MaxWorkerMultiplier
	if c.Workers > maxWorkers {
		return fmt.Errorf("workers count cannot exceed system CPU count * 4")
	}

	// Validate rate limit
	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must be non-negative")
	}

	// Validate refresh interval
	if c.RefreshMS < MinRefreshMS {
		return fmt.Errorf("refresh interval must be at least 1ms")
	}

	// Validate bar length
	if c.BarLength <= 0 {
		return fmt.Errorf("bar length must be positive")
	}

	// Validate display fields
	for _, f := range c.Fields {
		if _, ok := validFields[f]; !ok {
			return fmt.Errorf(
				"invalid field %q: must be one of [bar percentage counter rate countdown]", f)
		}
	}

	return nil
}

// Style folds the configured field names into a display bitmask. An
// empty field list selects every field.
func (c Config) Style() pgbar.Style {
	if len(c.Fields) == 0 {
		return pgbar.StyleEntire
	}

	var style pgbar.Style
	for _, f := range c.Fields {
		style |= validFields[f]
	}
	return style
}

// LoadTheme reads and validates a YAML theme file from the given filesystem
func LoadTheme(fs afero.Fs, path string) (Theme, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return Theme{}, fmt.Errorf("failed to read theme file: %w", err)
	}

	var theme Theme
	if err := yaml.Unmarshal(data, &theme); err != nil {
		return Theme{}, fmt.Errorf("failed to parse theme file: %w", err)
	}

	for _, color := range []string{theme.TodoColor, theme.DoneColor, theme.StatusColor} {
		if _, ok := dyes[strings.ToLower(color)]; !ok {
			return Theme{}, fmt.Errorf(
				"invalid color %q: must be one of [none black red green yellow blue magenta cyan white]", color)
		}
	}

	return theme, nil
}

// Dye translates a validated color name into its escape sequence
func Dye(name string) pgbar.Dye {
	return dyes[strings.ToLower(name)]
}

// String returns a string representation of the configuration
func (c Config) String() string {
	return fmt.Sprintf(
		"Config{Total: %d, Step: %d, Mode: %s, Workers: %d, RateLimit: %d, "+
			"RefreshMS: %d, BarLength: %d, Fields: %v, ThemeFile: %s, "+
			"NoColor: %v, Verbose: %d}",
		c.Total, c.Step, c.Mode, c.Workers, c.RateLimit,
		c.RefreshMS, c.BarLength, c.Fields, c.ThemeFile,
		c.NoColor, c.Verbose,
	)
}
