// Package stresstest fires one saved request many times over a fixed pool
// of workers and aggregates latency statistics.
package stresstest

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"

	"github.com/talis-fb/RequestTUI/internal/types"
)

// Client executes requests
type Client interface {
	Execute(ctx context.Context, req types.HttpRequest) types.Response
}

// Result is the outcome of a single request
type Result struct {
	Status     int
	DurationMs int64
	LocalError bool
	Unexpected bool
}

// Runner executes stress tests
type Runner struct {
	client Client
	config Config
	log    logr.Logger
}

// NewRunner validates config and creates a runner
func NewRunner(client Client, config Config, log logr.Logger) (*Runner, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Runner{client: client, config: config, log: log}, nil
}

// Run sends req TotalRequests times over ConcurrentConns workers. A run cut
// short by Config.Duration is not an error; cancellation of ctx is, and the
// statistics gathered so far are returned with it.
func (r *Runner) Run(ctx context.Context, req types.HttpRequest) (*Stats, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if r.config.Duration > 0 {
		var stop context.CancelFunc
		runCtx, stop = context.WithTimeout(runCtx, r.config.Duration)
		defer stop()
	}

	tasks := make(chan time.Duration, r.config.ConcurrentConns*2)
	results := make(chan Result, r.config.ConcurrentConns*2)

	var g errgroup.Group
	for range r.config.ConcurrentConns {
		g.Go(func() error {
			r.worker(runCtx, req, tasks, results)
			return nil
		})
	}
	go r.schedule(runCtx, tasks)
	go func() {
		_ = g.Wait()
		close(results)
	}()

	r.log.Info("stress test started", "url", req.URL,
		"requests", r.config.TotalRequests, "workers", r.config.ConcurrentConns)

	start := time.Now()
	stats := NewStats(r.config.TotalRequests)
	for res := range results {
		stats.Add(res)
	}
	stats.Elapsed = time.Since(start)

	r.log.Info("stress test finished", "completed", stats.CompletedRequests, "elapsed", stats.Elapsed)
	if err := ctx.Err(); err != nil {
		return stats, fmt.Errorf("stress test cancelled: %w", err)
	}
	return stats, nil
}

// schedule queues one start offset per request, spread over the ramp-up
func (r *Runner) schedule(ctx context.Context, tasks chan<- time.Duration) {
	defer close(tasks)

	step := time.Duration(0)
	if r.config.RampUp > 0 {
		step = r.config.RampUp / time.Duration(r.config.TotalRequests)
	}
	for i := range r.config.TotalRequests {
		select {
		case <-ctx.Done():
			return
		case tasks <- time.Duration(i) * step:
		}
	}
}

func (r *Runner) worker(ctx context.Context, req types.HttpRequest, tasks <-chan time.Duration, results chan<- Result) {
	start := time.Now()
	for offset := range tasks {
		if wait := offset - time.Since(start); wait > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(wait):
			}
		}

		resp := r.client.Execute(ctx, req)
		if ctx.Err() != nil {
			// interrupted mid-flight, not a measurement
			return
		}

		res := Result{
			Status:     resp.Status,
			DurationMs: resp.ResponseTime,
			LocalError: resp.IsInternalError(),
		}
		res.Unexpected = !res.LocalError && r.config.unexpected(resp.Status)

		select {
		case <-ctx.Done():
			return
		case results <- res:
		}
	}
}
