package pool

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// DefaultLimit is the number of tasks allowed in flight when none is configured.
const DefaultLimit = 6

// Pool runs independent tasks with a bounded number in flight.
// A failing task never cancels its siblings.
type Pool struct {
	limit int
}

// New creates a pool. A non-positive limit falls back to DefaultLimit.
func New(limit int) *Pool {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Pool{limit: limit}
}

// Limit returns the concurrency bound.
func (p *Pool) Limit() int {
	return p.limit
}

// Run calls fn for every index in [0, n) and returns one error slot per task.
// Panics inside a task are converted into that task's error.
func (p *Pool) Run(ctx context.Context, n int, fn func(ctx context.Context, i int) error) []error {
	errs := make([]error, n)
	if n == 0 {
		return errs
	}

	g := new(errgroup.Group)
	g.SetLimit(p.limit)

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			errs[i] = err
			continue
		}
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					errs[i] = fmt.Errorf("task %d panicked: %v", i, r)
				}
			}()
			errs[i] = fn(ctx, i)
			return nil
		})
	}

	_ = g.Wait()
	return errs
}

// Map applies fn to every item with bounded concurrency. Results keep the
// order of items; a failed item leaves its zero value in the result slice.
func Map[T, R any](ctx context.Context, p *Pool, items []T, fn func(ctx context.Context, item T) (R, error)) ([]R, []error) {
	out := make([]R, len(items))
	errs := p.Run(ctx, len(items), func(ctx context.Context, i int) error {
		r, err := fn(ctx, items[i])
		if err != nil {
			return err
		}
		out[i] = r
		return nil
	})
	return out, errs
}

// FirstError returns the first non-nil error, or nil.
func FirstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
