package async

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Task is a named unit of work.
type Task struct {
	Name string
	Func func(context.Context) error
}

// Run executes tasks with at most limit running at once. A limit below one
// runs them sequentially in order.
//
// Example:
//
//	tasks := []async.Task{
//	    {Name: "loki", Func: applyLoki},
//	    {Name: "thanos", Func: applyThanos},
//	}
//	if err := async.Run(ctx, 2, tasks); err != nil {
//	    return err
//	}
func Run(ctx context.Context, limit int, tasks []Task) error {
	if len(tasks) == 0 {
		return nil
	}
	if limit < 1 {
		limit = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, task := range tasks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("%s: %w", task.Name, err)
			}
			if err := task.Func(gctx); err != nil {
				return fmt.Errorf("%s: %w", task.Name, err)
			}
			return nil
		})
	}

	return g.Wait()
}
