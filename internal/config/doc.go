// Package config provides configuration management for the pgbar command.
// It handles environment variables, theme files, and validation of all
// configuration parameters.
//
// # Configuration Loading
//
// To load the configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Environment Variables
//
// The following environment variables are supported:
//
//	PGBAR_TOTAL       Number of tasks the bar is bounded by (default: 100)
//	PGBAR_STEP        Tasks completed per update (default: 1)
//	PGBAR_MODE        Render mode: threaded|cooperative
//	PGBAR_WORKERS     Number of concurrent workers (default: CPU cores)
//	PGBAR_RATE_LIMIT  Rate limit for task execution (0 for unlimited)
//	PGBAR_REFRESH_MS  Minimum interval between redraws (default: 35)
//	PGBAR_BAR_LENGTH  Glyph count of the bar track (default: 30)
//	PGBAR_FIELDS      Comma-separated display fields
//	PGBAR_THEME       Path to a YAML theme file
//	PGBAR_NO_COLOR    Disable colored output (true/false)
//	PGBAR_VERBOSE     Verbosity level (number of 'v's)
//
// # Display Fields
//
// The PGBAR_FIELDS variable selects which fields are rendered. Valid
// names are bar, percentage, counter, rate and countdown. An empty list
// selects every field:
//
//	PGBAR_FIELDS="bar,percentage,counter"
//
// # Theme Files
//
// A theme file customizes the bar's appearance:
//
//	todo_char: " "
//	done_char: "="
//	startpoint: "["
//	endpoint: "]"
//	left_status: "[ "
//	right_status: " ]"
//	todo_color: none
//	done_color: green
//	status_color: cyan
//
// Colors are named: none, black, red, green, yellow, blue, magenta,
// cyan or white.
//
// # Configuration Validation
//
// The package performs validation on all configuration values:
//   - Total and Step must be positive
//   - Mode must be one of: threaded, cooperative
//   - Workers must be positive and not exceed CPU cores * 4
//   - RefreshMS must be at least 1
//   - BarLength must be positive
//   - Field and color names must be from the supported sets
//
// # Thread Safety
//
// The configuration is immutable after loading and is safe for concurrent
// access across multiple goroutines.
//
// # See Also
//
// Related Packages:
//   - "github.com/TheSohrabX/pgbar/pkg/logger"  - Logging package
//   - "github.com/TheSohrabX/pgbar/pkg/pgbar"   - Progress bar implementation
//   - "github.com/TheSohrabX/pgbar/pkg/worker"  - Worker pool implementation
package config
