package async

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Task represents an asynchronous operation with a name and function.
type Task struct {
	Name string
	Func func(context.Context) error
}

// RunParallel executes all tasks concurrently and waits for them to finish.
// The first error encountered is returned, wrapped with the task name.
//
// Example:
//
//	tasks := []Task{
//	    {Name: "blue", Func: ensureBlue},
//	    {Name: "red", Func: ensureRed},
//	}
//	if err := RunParallel(ctx, tasks); err != nil {
//	    return err
//	}
func RunParallel(ctx context.Context, tasks []Task) error {
	return RunBounded(ctx, tasks, len(tasks))
}

// RunBounded executes tasks with at most limit running at the same time.
// A limit of 1 runs the tasks one after another in slice order and stops at
// the first failure. With a larger limit, the context handed to the tasks is
// cancelled as soon as one of them fails.
func RunBounded(ctx context.Context, tasks []Task, limit int) error {
	if len(tasks) == 0 {
		return nil
	}

	if limit <= 1 {
		for _, task := range tasks {
			if err := task.Func(ctx); err != nil {
				return fmt.Errorf("%s: %w", task.Name, err)
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, task := range tasks {
		g.Go(func() error {
			if err := task.Func(gctx); err != nil {
				return fmt.Errorf("%s: %w", task.Name, err)
			}
			return nil
		})
	}
	return g.Wait()
}
