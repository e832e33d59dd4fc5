package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/TheSohrabX/pgbar/cmd/pgbar/app"
	"github.com/TheSohrabX/pgbar/internal/config"
	"github.com/TheSohrabX/pgbar/internal/version"
	"github.com/TheSohrabX/pgbar/pkg/logger"
)

var (
	// Global flags
	verbosity   int
	noColor     bool
	showVersion bool

	// Run command flags
	total     uint64
	step      uint64
	mode      string
	workers   int
	rateLimit int
	refreshMS int
	barLength int
	fields    []string
	themeFile string
	sleepMS   int
	walkPath  string

	// Global logger instance
	log logger.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pgbar [command] [flags]",
	Short: "A live-updating terminal progress bar",
	Long: `pgbar v` + version.Version + `
========================================

A tool that renders a live progress bar over a bounded workload, supporting
threaded and cooperative render modes, configurable display fields and
YAML themes.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Initialize logger
		log = logger.NewLogger(logger.Config{
			Verbosity: verbosity,
			Output:    os.Stderr,
		})

		// Handle version flag
		if showVersion {
			fmt.Println(version.Version)
			os.Exit(0)
		}
	},
}

var runCmd = &cobra.Command{
	Use:   "run [flags]",
	Short: "Drive a progress bar over a demo workload",
	Long: `Runs a bounded workload on a worker pool and renders a progress bar as
tasks complete. Without --path the workload is simulated; with --path each
task stats one file under the given directory.`,
	RunE: runDemo,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flag("full").Value.String() == "true" {
			fmt.Println(version.FullVersion())
		} else {
			fmt.Println(version.Version)
		}
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "verbose output (can be used multiple times)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&showVersion, "version", false, "print version information")

	// Run command flags
	runCmd.Flags().Uint64VarP(&total, "total", "n", 100, "number of tasks the bar is bounded by")
	runCmd.Flags().Uint64VarP(&step, "step", "s", 1, "tasks completed per update")
	runCmd.Flags().StringVarP(&mode, "mode", "m", "threaded", "render mode: threaded|cooperative")
	runCmd.Flags().IntVarP(&workers, "workers", "w", runtime.NumCPU(), "number of concurrent workers")
	runCmd.Flags().IntVarP(&rateLimit, "rate-limit", "r", 0, "rate limit for task execution (tasks/sec)")
	runCmd.Flags().IntVar(&refreshMS, "refresh", 35, "minimum interval between redraws in milliseconds")
	runCmd.Flags().IntVarP(&barLength, "bar-length", "l", 30, "glyph count of the bar track")
	runCmd.Flags().StringSliceVarP(&fields, "fields", "f", []string{}, "display fields: bar|percentage|counter|rate|countdown")
	runCmd.Flags().StringVarP(&themeFile, "theme", "t", "", "path to a YAML theme file")
	runCmd.Flags().IntVar(&sleepMS, "sleep", 20, "simulated task duration in milliseconds")
	runCmd.Flags().StringVarP(&walkPath, "path", "p", "", "walk files under this directory instead of simulating work")

	// Version command flags
	versionCmd.Flags().BoolP("full", "f", false, "show full version information")

	// Add commands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.SetHelpTemplate(getCustomHelpTemplate())
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg := config.Config{
		Total:     total,
		Step:      step,
		Mode:      mode,
		Workers:   workers,
		RateLimit: rateLimit,
		RefreshMS: refreshMS,
		BarLength: barLength,
		Fields:    fields,
		ThemeFile: themeFile,
		NoColor:   noColor,
		Verbose:   verbosity,
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log.WithFields(logger.Fields{
		"total":     cfg.Total,
		"step":      cfg.Step,
		"mode":      cfg.Mode,
		"workers":   cfg.Workers,
		"rateLimit": cfg.RateLimit,
		"fields":    cfg.Fields,
		"theme":     cfg.ThemeFile,
		"path":      walkPath,
	}).Info("Starting workload")

	application, err := app.New(&cfg)
	if err != nil {
		return err
	}
	defer application.Shutdown()

	return application.Run(&app.RunOptions{
		Path:  walkPath,
		Sleep: time.Duration(sleepMS) * time.Millisecond,
	})
}

func getCustomHelpTemplate() string {
	return `{{.Long}}

Usage:
  {{.Use}}

Available Commands:{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}

{{if .HasAvailableLocalFlags}}Run Command:
  pgbar run [flags]

  Runs a bounded workload on a worker pool and renders a progress bar as
  tasks complete.

Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}

Run Command Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}

Version Information:
  pgbar version     Show version number
  pgbar version -f  Show full version information (build date, commit hash, etc.)

Display Fields:
  The --fields (-f) flag selects which fields are rendered:

    bar          The glyph track between the start and end points
    percentage   Two-decimal completion percentage
    counter      done/total task counter
    rate         Smoothed update frequency (Hz, kHz, MHz, GHz)
    countdown    "elapsed < remaining" estimate

  Multiple fields can be combined:
    pgbar run -f bar -f percentage -f counter

  An empty list selects every field.

Theme Files:
  The --theme (-t) flag points to a YAML file customizing the bar:

    todo_char: " "
    done_char: "="
    startpoint: "["
    endpoint: "]"
    left_status: "[ "
    right_status: " ]"
    done_color: green
    status_color: cyan

  Colors: none, black, red, green, yellow, blue, magenta, cyan, white

Environment Variables:
  PGBAR_TOTAL        Number of tasks the bar is bounded by
  PGBAR_STEP         Tasks completed per update
  PGBAR_MODE         Render mode (threaded|cooperative)
  PGBAR_WORKERS      Number of concurrent workers
  PGBAR_RATE_LIMIT   Rate limit for task execution
  PGBAR_REFRESH_MS   Minimum interval between redraws
  PGBAR_BAR_LENGTH   Glyph count of the bar track
  PGBAR_FIELDS       Comma-separated display fields
  PGBAR_THEME        Path to a YAML theme file
  PGBAR_NO_COLOR     Disable colored output
  PGBAR_VERBOSE      Verbosity level (number of 'v's)

Examples:
  # Simulate 100 tasks with the stock look
  pgbar run

  # 500 tasks, 8 workers, cooperative rendering
  pgbar run -n 500 -w 8 -m cooperative

  # Rate-limited workload with a custom theme
  pgbar run -n 200 -r 50 -t theme.yaml

  # Percentage and counter only
  pgbar run -f percentage -f counter

  # Walk a directory instead of simulating work
  pgbar run -p /path/to/dir

For more information and updates, visit: https://github.com/TheSohrabX/pgbar{{end}}
`
}
