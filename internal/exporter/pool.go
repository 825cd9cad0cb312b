package exporter

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"urdf-scene-exporter/internal/logging"
)

// progressInterval is how often a running pass reports progress.
var progressInterval = 2 * time.Second

// run calls fn for 0..n-1. With one worker it runs in order and stops at the
// first error; with more it fans out over a bounded pool and the first error
// cancels the remaining work.
func (e *Exporter) run(ctx context.Context, stage string, n int, fn func(ctx context.Context, i int) error) error {
	workers := min(e.Workers, n)
	if workers <= 1 {
		for i := range n {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(ctx, i); err != nil {
				return err
			}
		}
		return nil
	}

	var processed atomic.Int64
	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(progressInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				rate := float64(p) / time.Since(start).Seconds()
				logging.Logger().Info("progress", "stage", stage, "done", p, "total", n, "per_sec", rate)
			}
		}
	}()

	// Worker pool
	g, ctx := errgroup.WithContext(ctx)
	work := make(chan int, workers*2)

	for range workers {
		g.Go(func() error {
			for i := range work {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := fn(ctx, i); err != nil {
					return err
				}
				processed.Add(1)
			}
			return nil
		})
	}

	// Send work
	g.Go(func() error {
		defer close(work)
		for i := range n {
			select {
			case work <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	return g.Wait()
}
