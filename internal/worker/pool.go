package worker

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// RunAll executes tasks with at most limit running concurrently and waits
// for all of them. The first error cancels the shared context and is
// returned; tasks are expected to honor cancellation.
func RunAll(ctx context.Context, limit int, tasks []func(context.Context) error) error {
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for _, task := range tasks {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return task(ctx)
		})
	}
	return g.Wait()
}
