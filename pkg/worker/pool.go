/*
Package worker provides a rate-limited worker pool that streams task
completions, so a single consumer can advance a progress bar as work
finishes without ever calling into the bar concurrently.

Basic usage:

	pool, _ := worker.NewPool(worker.Config{
		Workers:   4,
		RateLimit: 10, // 10 tasks/sec
	})

	ctx := context.Background()
	pool.Start(ctx)

	for i := 0; i < total; i++ {
		pool.Submit(worker.Task{ID: i, Execute: doWork})
	}

	go pool.Wait()
	for c := range pool.Completions() {
		if c.Err == nil {
			bar.Update()
		}
	}
*/
package worker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Task represents a unit of work whose completion advances the bar.
type Task struct {
	// ID identifies the task in completions and error messages
	ID int

	// Execute performs the actual work. It receives a context for
	// cancellation support.
	Execute func(context.Context) error
}

// Completion is emitted on the completions channel for every finished
// task, successful or not.
type Completion struct {
	// ID matches the task that produced this completion
	ID int

	// Err is non-nil when the task failed
	Err error
}

// Config holds the configuration for the worker pool
type Config struct {
	// Workers is the number of concurrent workers
	Workers int

	// RateLimit is the maximum number of tasks started per second
	// (0 for unlimited)
	RateLimit int
}

// Pool defines the interface for a worker pool
type Pool interface {
	// Start initializes and starts the worker pool
	Start(context.Context) error

	// Submit adds a task to the pool for execution
	Submit(Task) error

	// Completions returns the stream of finished tasks. The channel is
	// closed by Wait once every submitted task has been executed; the
	// caller must drain it or Submit will eventually block.
	Completions() <-chan Completion

	// Wait closes the queue and blocks until all submitted tasks have
	// finished, then closes the completions channel.
	Wait() error

	// GetStats returns current statistics about the pool
	GetStats() Stats

	// Status returns the current status of the pool
	Status() Status

	// Stop cancels outstanding work and shuts the pool down
	Stop() error
}

type pool struct {
	config      Config
	tasks       chan Task
	completions chan Completion
	limiter     *rate.Limiter
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc

	mu        sync.RWMutex
	started   bool
	stopped   bool
	startTime time.Time

	activeWorkers  atomic.Int32
	completedTasks atomic.Int64
	failedTasks    atomic.Int64
}

// NewPool creates a new worker pool with the given configuration
func NewPool(config Config) (Pool, error) {
	if err := validateConfig(config); err != nil {
		return nil, err
	}

	var limiter *rate.Limiter
	if config.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RateLimit), 1)
	}

	return &pool{
		config:      config,
		tasks:       make(chan Task, config.Workers*2),
		completions: make(chan Completion, config.Workers*2),
		limiter:     limiter,
	}, nil
}

func validateConfig(config Config) error {
	if config.Workers <= 0 {
		return fmt.Errorf("number of workers must be positive")
	}
	if config.RateLimit < 0 {
		return fmt.Errorf("rate limit must be non-negative")
	}
	return nil
}

// Start initializes and starts the worker pool
func (p *pool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return fmt.Errorf("pool already started")
	}

	p.ctx, p.cancel = context.WithCancel(ctx)
	p.started = true
	p.startTime = time.Now()

	for i := 0; i < p.config.Workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	return nil
}

// Submit adds a task to the pool for execution
func (p *pool) Submit(task Task) error {
	p.mu.RLock()
	started := p.started
	p.mu.RUnlock()
	if !started {
		return fmt.Errorf("pool not started")
	}

	select {
	case <-p.ctx.Done():
		return fmt.Errorf("pool is shutting down: %w", p.ctx.Err())
	case p.tasks <- task:
		return nil
	}
}

func (p *pool) Completions() <-chan Completion {
	return p.completions
}

// Wait closes the queue, waits for the workers to drain it and closes
// the completions channel.
func (p *pool) Wait() error {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return fmt.Errorf("pool not started")
	}
	if !p.stopped {
		close(p.tasks)
		p.stopped = true
	}
	p.mu.Unlock()

	p.wg.Wait()
	close(p.completions)

	if err := p.ctx.Err(); err != nil {
		return fmt.Errorf("pool interrupted: %w", err)
	}
	return nil
}

// Stop cancels outstanding work and shuts the pool down
func (p *pool) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return nil
	}
	if !p.started {
		p.stopped = true
		return nil
	}

	p.stopped = true
	p.started = false
	p.cancel()
	close(p.tasks)

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(500 * time.Millisecond):
		return fmt.Errorf("shutdown timed out")
	}
}

func (p *pool) GetStats() Stats {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return Stats{
		ActiveWorkers:  int(p.activeWorkers.Load()),
		QueuedTasks:    len(p.tasks),
		CompletedTasks: int(p.completedTasks.Load()),
		FailedTasks:    int(p.failedTasks.Load()),
		Status:         p.getStatus(),
		Uptime:         time.Since(p.startTime),
	}
}

func (p *pool) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.getStatus()
}

// getStatus must be called with at least a read lock held.
func (p *pool) getStatus() Status {
	if !p.started {
		return StatusStopped
	}
	if p.activeWorkers.Load() > 0 || len(p.tasks) > 0 {
		return StatusProcessing
	}
	return StatusIdle
}

// worker executes tasks from the queue and reports every completion.
func (p *pool) worker() {
	defer p.wg.Done()

	for task := range p.tasks {
		if p.limiter != nil {
			if err := p.limiter.Wait(p.ctx); err != nil {
				p.failedTasks.Add(1)
				return
			}
		}

		p.activeWorkers.Add(1)
		err := task.Execute(p.ctx)
		p.activeWorkers.Add(-1)

		if err != nil {
			p.failedTasks.Add(1)
		} else {
			p.completedTasks.Add(1)
		}

		select {
		case <-p.ctx.Done():
			return
		case p.completions <- Completion{ID: task.ID, Err: err}:
		}
	}
}
