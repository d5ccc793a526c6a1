package workers

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Workers runs a fixed set of workers concurrently.
type Workers struct {
	workers []Worker
}

// NewWorkers returns an aggregate over workers.
func NewWorkers(workers ...Worker) *Workers {
	return &Workers{workers: workers}
}

// Run starts every worker and waits for all of them to return. The first
// error cancels the context of the others and is returned.
func (w *Workers) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, worker := range w.workers {
		g.Go(func() error {
			return worker.Run(ctx)
		})
	}
	return g.Wait()
}
