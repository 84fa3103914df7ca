// Package async provides utilities for parallel task execution.
//
// This package contains generic helpers for running multiple independent
// operations concurrently with a bounded worker pool. It is used for
// read-only checks that have no ordering dependency, such as readiness
// probes and per-account policy resolution.
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

// RunParallel executes tasks concurrently with at most limit workers and
// waits for all of them to finish. A limit <= 0 means no bound. If any task
// returns an error, the first error (in task order) is returned after all
// tasks complete; tasks are never skipped because an earlier one failed.
func RunParallel(ctx context.Context, tasks []Task, limit int) error {
	if len(tasks) == 0 {
		return nil
	}

	g := &errgroup.Group{}
	if limit > 0 {
		g.SetLimit(limit)
	}

	taskErrs := make([]error, len(tasks))
	for i, task := range tasks {
		g.Go(func() error {
			taskErrs[i] = task.Func(ctx)
			return nil
		})
	}

	// Group funcs always return nil; errors are collected per task so that
	// every task runs to completion.
	_ = g.Wait()

	for i, err := range taskErrs {
		if err != nil {
			return fmt.Errorf("%s: %w", tasks[i].Name, err)
		}
	}
	return nil
}
