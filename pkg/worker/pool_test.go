package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectCompletions(t *testing.T, p Pool) []Completion {
	t.Helper()

	var completions []Completion
	done := make(chan struct{})
	go func() {
		defer close(done)
		for c := range p.Completions() {
			completions = append(completions, c)
		}
	}()

	require.NoError(t, p.Wait())
	<-done
	return completions
}

func TestWorkerPool(t *testing.T) {
	tests := []struct {
		name      string
		workers   int
		rateLimit int
		setup     func(*testing.T) []Task
		validate  func(*testing.T, []Completion)
	}{
		{
			name:    "basic task processing",
			workers: 4,
			setup: func(t *testing.T) []Task {
				tasks := make([]Task, 8)
				for i := 0; i < 8; i++ {
					i := i
					tasks[i] = Task{
						ID: i,
						Execute: func(ctx context.Context) error {
							return nil
						},
					}
				}
				return tasks
			},
			validate: func(t *testing.T, completions []Completion) {
				assert.Len(t, completions, 8)
				for _, c := range completions {
					assert.NoError(t, c.Err)
				}
			},
		},
		{
			name:      "rate limited processing",
			workers:   4,
			rateLimit: 100,
			setup: func(t *testing.T) []Task {
				tasks := make([]Task, 5)
				for i := 0; i < 5; i++ {
					i := i
					tasks[i] = Task{
						ID:      i,
						Execute: func(ctx context.Context) error { return nil },
					}
				}
				return tasks
			},
			validate: func(t *testing.T, completions []Completion) {
				assert.Len(t, completions, 5)
			},
		},
		{
			name:    "failed tasks are still reported",
			workers: 2,
			setup: func(t *testing.T) []Task {
				return []Task{
					{
						ID: 1,
						Execute: func(ctx context.Context) error {
							return errors.New("planned error")
						},
					},
					{
						ID:      2,
						Execute: func(ctx context.Context) error { return nil },
					},
				}
			},
			validate: func(t *testing.T, completions []Completion) {
				assert.Len(t, completions, 2)

				failed := 0
				for _, c := range completions {
					if c.Err != nil {
						failed++
						assert.Equal(t, 1, c.ID)
					}
				}
				assert.Equal(t, 1, failed)
			},
		},
		{
			name:    "concurrent execution",
			workers: 4,
			setup: func(t *testing.T) []Task {
				var concurrent atomic.Int32
				var maxConcurrent atomic.Int32
				tasks := make([]Task, 8)

				for i := 0; i < 8; i++ {
					i := i
					tasks[i] = Task{
						ID: i,
						Execute: func(ctx context.Context) error {
							current := concurrent.Add(1)
							if current > maxConcurrent.Load() {
								maxConcurrent.Store(current)
							}
							time.Sleep(50 * time.Millisecond)
							concurrent.Add(-1)
							return nil
						},
					}
				}

				return tasks
			},
			validate: func(t *testing.T, completions []Completion) {
				assert.Len(t, completions, 8)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool, err := NewPool(Config{
				Workers:   tt.workers,
				RateLimit: tt.rateLimit,
			})
			require.NoError(t, err)

			tasks := tt.setup(t)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			require.NoError(t, pool.Start(ctx))

			for _, task := range tasks {
				require.NoError(t, pool.Submit(task))
			}

			tt.validate(t, collectCompletions(t, pool))
		})
	}
}

func TestPoolConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name: "valid config",
			config: Config{
				Workers:   4,
				RateLimit: 10,
			},
			wantErr: false,
		},
		{
			name: "zero workers",
			config: Config{
				Workers: 0,
			},
			wantErr: true,
		},
		{
			name: "negative workers",
			config: Config{
				Workers: -1,
			},
			wantErr: true,
		},
		{
			name: "negative rate limit",
			config: Config{
				Workers:   1,
				RateLimit: -1,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool, err := NewPool(tt.config)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, pool)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, pool)
			}
		})
	}
}

func TestPoolStats(t *testing.T) {
	pool, err := NewPool(Config{Workers: 2})
	require.NoError(t, err)

	require.NoError(t, pool.Start(context.Background()))

	for i := 0; i < 4; i++ {
		require.NoError(t, pool.Submit(Task{
			ID:      i,
			Execute: func(ctx context.Context) error { return nil },
		}))
	}

	completions := collectCompletions(t, pool)
	assert.Len(t, completions, 4)

	stats := pool.GetStats()
	assert.Equal(t, 4, stats.CompletedTasks)
	assert.Equal(t, 0, stats.FailedTasks)
	assert.Equal(t, 0, stats.QueuedTasks)
	assert.True(t, stats.Uptime > 0)
}

func TestStatusTransitions(t *testing.T) {
	pool, err := NewPool(Config{Workers: 1})
	require.NoError(t, err)

	// Initial status
	assert.Equal(t, StatusStopped, pool.Status())

	require.NoError(t, pool.Start(context.Background()))
	assert.Equal(t, StatusIdle, pool.Status())

	// During processing
	require.NoError(t, pool.Submit(Task{
		ID: 1,
		Execute: func(ctx context.Context) error {
			time.Sleep(100 * time.Millisecond)
			return nil
		},
	}))
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, StatusProcessing, pool.Status())

	require.NoError(t, pool.Stop())
	assert.Equal(t, StatusStopped, pool.Status())
}

func TestStatsConcurrency(t *testing.T) {
	pool, err := NewPool(Config{Workers: 4})
	require.NoError(t, err)

	require.NoError(t, pool.Start(context.Background()))

	// Concurrently read stats while submitting; the assertion is the
	// absence of data races under -race.
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()
			_ = pool.GetStats()
			_ = pool.Status()
		}()

		go func(id int) {
			defer wg.Done()
			_ = pool.Submit(Task{
				ID: id,
				Execute: func(ctx context.Context) error {
					time.Sleep(10 * time.Millisecond)
					return nil
				},
			})
		}(i)
	}

	wg.Wait()
	collectCompletions(t, pool)
}
