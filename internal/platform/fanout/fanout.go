// Package fanout runs named tasks concurrently and reports every failure.
package fanout

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// DefaultLimit bounds concurrent tasks when Run is given a non-positive limit.
const DefaultLimit = 4

// Task is one named unit of work.
type Task struct {
	Name string
	Run  func(context.Context) error
}

// TaskError attributes a failure to the task that produced it.
type TaskError struct {
	Name string
	Err  error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e *TaskError) Unwrap() error {
	return e.Err
}

// Run executes tasks with at most limit running at once and waits for all of
// them. Unlike a plain errgroup, one failure does not cancel the rest: the
// returned error joins a *TaskError for every failed task in task order, or is
// nil when all succeed.
func Run(ctx context.Context, limit int, tasks ...Task) error {
	if len(tasks) == 0 {
		return nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	errs := make([]error, len(tasks))
	var group errgroup.Group
	group.SetLimit(limit)
	for i, task := range tasks {
		group.Go(func() error {
			if task.Run == nil {
				errs[i] = &TaskError{Name: task.Name, Err: errors.New("task has no run function")}
				return nil
			}
			if err := task.Run(ctx); err != nil {
				errs[i] = &TaskError{Name: task.Name, Err: err}
			}
			return nil
		})
	}
	_ = group.Wait()
	return errors.Join(errs...)
}

// Failed returns the names of failed tasks in err, in the order they were joined.
func Failed(err error) []string {
	if err == nil {
		return nil
	}
	var names []string
	var walk func(error)
	walk = func(err error) {
		var taskErr *TaskError
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for _, inner := range joined.Unwrap() {
				walk(inner)
			}
			return
		}
		if errors.As(err, &taskErr) {
			names = append(names, taskErr.Name)
		}
	}
	walk(err)
	return names
}
