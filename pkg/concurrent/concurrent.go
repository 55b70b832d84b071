package concurrent

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Task is a long-running unit of work that returns when ctx is done or it
// fails.
type Task func(ctx context.Context) error

// RunAll runs tasks concurrently. The first failure cancels the context
// shared by the rest, and its error is returned once all have stopped.
func RunAll(ctx context.Context, tasks ...Task) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, task := range tasks {
		if task == nil {
			continue
		}
		g.Go(func() error {
			return task(gctx)
		})
	}
	return g.Wait()
}
