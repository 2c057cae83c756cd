package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/anu-bioinfo/pathway-connectivity/internal/brelax"
)

// TaskError accumulates the errors of a batch of relaxations.
type TaskError struct {
	Errors []error
}

func (e *TaskError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := "multiple errors:"
	for _, err := range e.Errors {
		msg += " " + err.Error() + ";"
	}
	return msg
}

// Unwrap exposes the accumulated errors to errors.Is and errors.As.
func (e *TaskError) Unwrap() []error {
	return e.Errors
}

func (e *TaskError) append(err error) {
	if err == nil {
		return
	}
	e.Errors = append(e.Errors, err)
}

func (e *TaskError) asError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// Relaxer produces distance labelings per aggregate.
type Relaxer interface {
	Relax(ctx context.Context, source brelax.AggregateID) (*brelax.Labeling, error)
}

// RelaxPool relaxes many aggregates with a bounded number of workers. The
// relaxer's cache is the only state shared between workers.
type RelaxPool struct {
	relaxer Relaxer
	workers int
}

// NewRelaxPool creates a pool; workers <= 0 means a single worker.
func NewRelaxPool(relaxer Relaxer, workers int) *RelaxPool {
	if workers <= 0 {
		workers = 1
	}
	return &RelaxPool{
		relaxer: relaxer,
		workers: workers,
	}
}

// RelaxAll returns the labelings of sources, index-aligned with the input.
func (p *RelaxPool) RelaxAll(ctx context.Context, sources []brelax.AggregateID) ([]*brelax.Labeling, error) {
	out := make([]*brelax.Labeling, len(sources))
	err := p.run(ctx, len(sources), func(idx int) error {
		l, err := p.relaxer.Relax(ctx, sources[idx])
		if err != nil {
			return fmt.Errorf("relax %s: %w", sources[idx], err)
		}
		out[idx] = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (p *RelaxPool) run(ctx context.Context, total int, workerFn func(idx int) error) error {
	if total == 0 {
		return nil
	}
	if p.workers == 1 {
		var taskErr TaskError
		for i := 0; i < total; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := workerFn(i); err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				taskErr.append(err)
			}
		}
		return taskErr.asError()
	}

	indexCh := make(chan int)
	errCh := make(chan error, total)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for idx := range indexCh {
			if err := workerFn(idx); err != nil {
				select {
				case errCh <- err:
				case <-ctx.Done():
					return
				}
			}
		}
	}

	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go worker()
	}

Loop:
	for i := 0; i < total; i++ {
		select {
		case indexCh <- i:
		case <-ctx.Done():
			break Loop
		}
	}
	close(indexCh)
	wg.Wait()
	close(errCh)

	var taskErr TaskError
	for err := range errCh {
		if err == nil {
			continue
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		taskErr.append(err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return taskErr.asError()
}
