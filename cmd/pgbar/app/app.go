/*
Package app provides the main application container and orchestration for the
pgbar command. It manages component lifecycle, coordinates the workload, and
handles graceful shutdown.

The application container initializes and manages all core components:
- Logger for structured logging
- Worker pool for concurrent task execution
- Progress bar visualization

Usage:

	application, err := app.New(cfg)
	if err != nil {
	    log.Fatal(err)
	}
	if err := application.Run(opts); err != nil {
	    log.Fatal(err)
	}
*/
package app

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/afero"

	"github.com/TheSohrabX/pgbar/internal/config"
	"github.com/TheSohrabX/pgbar/pkg/logger"
	"github.com/TheSohrabX/pgbar/pkg/pgbar"
	"github.com/TheSohrabX/pgbar/pkg/worker"
)

// RunOptions defines the options for a workload run
type RunOptions struct {
	// Path to walk instead of simulating work (empty for simulation)
	Path string

	// Sleep is the simulated duration of each task
	Sleep time.Duration
}

// App represents the main application container
type App struct {
	config *config.Config
	log    logger.Logger

	fs   afero.Fs
	pool worker.Pool
	bar  *pgbar.Bar

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	mu     sync.RWMutex
}

// New creates a new application instance
func New(cfg *config.Config) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())

	app := &App{
		config: cfg,
		fs:     afero.NewOsFs(),
		done:   make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
	}

	app.initLogger()

	if err := app.initComponents(); err != nil {
		cancel()
		return nil, err
	}

	app.setupSignalHandling()

	app.log.WithFields(logger.Fields{
		"workers": cfg.Workers,
		"verbose": cfg.Verbose,
	}).Info("Application initialized")

	return app, nil
}

// Run executes the workload and renders the bar as tasks complete
func (a *App) Run(opts *RunOptions) error {
	defer func() {
		if r := recover(); r != nil {
			a.log.WithFields(logger.Fields{
				"panic": r,
				"stack": string(debug.Stack()),
			}).Error("Recovered from panic")
		}
	}()

	started := time.Now()

	tasks, err := a.buildTasks(opts)
	if err != nil {
		return err
	}

	bar, err := a.initBar(uint64(len(tasks)) * a.config.Step)
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.bar = bar
	a.mu.Unlock()

	a.log.WithFields(logger.Fields{
		"tasks": len(tasks),
		"mode":  a.config.Mode,
	}).Info("Starting workload")

	if err := a.pool.Start(a.ctx); err != nil {
		return fmt.Errorf("failed to start worker pool: %w", err)
	}

	// A single goroutine drains completions and drives the bar. Update
	// is not safe for concurrent use, so the workers never touch it.
	var failed int
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for c := range a.pool.Completions() {
			if c.Err != nil {
				failed++
				a.log.WithFields(logger.Fields{
					"task":  c.ID,
					"error": c.Err,
				}).Warn("Task failed")
			}
			if err := bar.Update(); err != nil {
				a.log.WithFields(logger.Fields{
					"error": err,
				}).Error("Failed to advance progress bar")
			}
		}
	}()

	for _, task := range tasks {
		if err := a.pool.Submit(task); err != nil {
			a.log.WithFields(logger.Fields{
				"task":  task.ID,
				"error": err,
			}).Error("Failed to submit task")
			break
		}
	}

	waitErr := a.pool.Wait()
	<-drained
	bar.Close()

	if waitErr != nil {
		a.reportFailure(fmt.Sprintf("Workload interrupted: %v", waitErr))
		return waitErr
	}

	stats := a.pool.GetStats()
	a.log.WithFields(logger.Fields{
		"completed": stats.CompletedTasks,
		"failed":    stats.FailedTasks,
		"duration":  time.Since(started),
	}).Info("Workload completed")

	if failed > 0 {
		a.reportFailure(fmt.Sprintf("%d of %d tasks failed", failed, len(tasks)))
	} else {
		a.reportSuccess(fmt.Sprintf("%d tasks completed in %s",
			len(tasks), formatDuration(time.Since(started))))
	}

	return nil
}

// Shutdown performs a graceful shutdown of the application
func (a *App) Shutdown() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	select {
	case <-a.done:
		return nil
	default:
	}

	a.log.Info("Initiating graceful shutdown")

	// Cancel context to stop ongoing operations
	a.cancel()

	// Release the render goroutine
	if a.bar != nil {
		a.bar.Close()
	}

	// Stop worker pool
	if a.pool != nil {
		if err := a.pool.Stop(); err != nil {
			a.log.WithFields(logger.Fields{
				"error": err,
			}).Error("Failed to stop worker pool")
		}
	}

	close(a.done)
	a.log.Info("Shutdown complete")
	return nil
}

// initLogger initializes the application logger
func (a *App) initLogger() {
	a.log = logger.NewLogger(logger.Config{
		Verbosity: a.config.Verbose,
	})

	a.log.WithFields(logger.Fields{
		"verbosity": a.config.Verbose,
	}).Debug("Logger initialized")

	color.NoColor = color.NoColor || a.config.NoColor
}

// initComponents initializes all application components
func (a *App) initComponents() error {
	a.log.Debug("Initializing application components")

	pool, err := worker.NewPool(worker.Config{
		Workers:   a.config.Workers,
		RateLimit: a.config.RateLimit,
	})
	if err != nil {
		a.log.WithFields(logger.Fields{
			"error": err,
		}).Error("Failed to initialize worker pool")
		return fmt.Errorf("failed to initialize worker pool: %w", err)
	}
	a.pool = pool

	a.log.Debug("Components initialized successfully")
	return nil
}

// initBar builds the progress bar from the configuration and an optional
// theme file.
func (a *App) initBar(total uint64) (*pgbar.Bar, error) {
	barCfg := pgbar.Config{
		Total:       total,
		Step:        a.config.Step,
		Style:       a.config.Style(),
		Mode:        pgbar.Mode(a.config.Mode),
		RefreshRate: time.Duration(a.config.RefreshMS) * time.Millisecond,
		BarLength:   a.config.BarLength,
		NoColor:     a.config.NoColor,
	}

	if a.config.ThemeFile != "" {
		theme, err := config.LoadTheme(a.fs, a.config.ThemeFile)
		if err != nil {
			return nil, err
		}

		barCfg.TodoChar = theme.TodoChar
		barCfg.DoneChar = theme.DoneChar
		barCfg.Startpoint = theme.Startpoint
		barCfg.Endpoint = theme.Endpoint
		barCfg.LeftStatus = theme.LeftStatus
		barCfg.RightStatus = theme.RightStatus
		barCfg.TodoColor = config.Dye(theme.TodoColor)
		barCfg.DoneColor = config.Dye(theme.DoneColor)
		barCfg.StatusColor = config.Dye(theme.StatusColor)

		a.log.WithFields(logger.Fields{
			"theme": a.config.ThemeFile,
		}).Debug("Theme loaded")
	}

	return pgbar.New(barCfg, a.log), nil
}

// buildTasks assembles the workload: either one stat task per file under
// the given path, or a simulated sleep per task.
func (a *App) buildTasks(opts *RunOptions) ([]worker.Task, error) {
	if opts.Path != "" {
		return a.buildWalkTasks(opts.Path)
	}

	count := int(a.config.Total / a.config.Step)
	if a.config.Total%a.config.Step != 0 {
		count++
	}

	sleep := opts.Sleep
	tasks := make([]worker.Task, count)
	for i := range tasks {
		tasks[i] = worker.Task{
			ID: i,
			Execute: func(ctx context.Context) error {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(sleep):
					return nil
				}
			},
		}
	}

	return tasks, nil
}

// buildWalkTasks collects the files under root and returns one stat task
// per file.
func (a *App) buildWalkTasks(root string) ([]worker.Task, error) {
	info, err := a.fs.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("path does not exist: %s", root)
		}
		return nil, fmt.Errorf("failed to access path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", root)
	}

	var paths []string
	err = afero.Walk(a.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			a.log.WithFields(logger.Fields{
				"path":  path,
				"error": err,
			}).Warn("Skipping unreadable entry")
			return nil
		}
		if !info.IsDir() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("no files found under %s", root)
	}

	a.log.WithFields(logger.Fields{
		"root":  root,
		"files": len(paths),
	}).Debug("Workload collected")

	tasks := make([]worker.Task, len(paths))
	for i, path := range paths {
		path := path
		tasks[i] = worker.Task{
			ID: i,
			Execute: func(ctx context.Context) error {
				if err := ctx.Err(); err != nil {
					return err
				}
				_, err := a.fs.Stat(path)
				return err
			},
		}
	}

	return tasks, nil
}

// reportSuccess prints a final status line to stdout
func (a *App) reportSuccess(msg string) {
	color.New(color.FgGreen, color.Bold).Fprintf(os.Stdout, "✓ %s\n", msg)
}

// reportFailure prints a final status line to stdout
func (a *App) reportFailure(msg string) {
	color.New(color.FgRed, color.Bold).Fprintf(os.Stdout, "✗ %s\n", msg)
}

// formatDuration formats a duration for display
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds",
			int(d.Minutes()),
			int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm%ds",
		int(d.Hours()),
		int(d.Minutes())%60,
		int(d.Seconds())%60)
}
