// Package workerpool provides a generic WorkerPoolExecutor
// that fans a slice of inputs out to concurrent workers and joins on all of them.
package workerpool

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

type PoolOptions struct {
	NumWorkers int
}

type PoolOptionFunc func(*PoolOptions)

func defaultOpts() PoolOptions {
	return PoolOptions{
		NumWorkers: runtime.NumCPU(),
	}
}

// WithWorkers allows customization of the number of concurrent workers.
// Values below one are ignored.
func WithWorkers(num int) PoolOptionFunc {
	return func(opts *PoolOptions) {
		if num > 0 {
			opts.NumWorkers = num
		}
	}
}

// WorkerPoolExecutor runs tasks on a bounded set of goroutines.
// T is the input type, R is the output type.
type WorkerPoolExecutor[T any, R any] struct {
	PoolOptions
}

// New creates a new WorkerPoolExecutor with optional configuration.
func New[T any, R any](opts ...PoolOptionFunc) *WorkerPoolExecutor[T, R] {
	o := defaultOpts()
	for _, fn := range opts {
		fn(&o)
	}
	return &WorkerPoolExecutor[T, R]{PoolOptions: o}
}

// Run calls fn once per input with at most NumWorkers calls in flight and
// blocks until every call has returned. Results come back in input order:
// the call for inputs[i] is the only writer of outputs[i].
//
// The first error cancels the context handed to the remaining calls and is
// returned with a nil slice. Inputs not yet started when ctx is done are
// skipped and ctx.Err() is returned.
func (w *WorkerPoolExecutor[T, R]) Run(ctx context.Context, inputs []T, fn func(ctx context.Context, idx int, t T) (R, error)) ([]R, error) {
	outputs := make([]R, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.NumWorkers)
	for i, input := range inputs {
		g.Go(func() error {
			// skip work nobody will collect
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := fn(gctx, i, input)
			if err != nil {
				return err
			}
			outputs[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}
	return outputs, nil
}
