package settle

import (
	"context"
	"runtime"

	"github.com/zeebo/errs"
	"golang.org/x/sync/errgroup"
)

// Request is one independent placement query.
type Request struct {
	Board Board
	Shape Shape
}

// PlaceBatch runs one Place invocation per request and returns the
// results in request order. Invocations share no mutable state, so they
// fan out across workers with no coordination. A single invocation
// always runs to completion; cancelling the context only stops requests
// that have not started yet.
func (t *Table) PlaceBatch(ctx context.Context, reqs []Request) (_ []Placements, err error) {
	out := make([]Placements, len(reqs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range reqs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = t.Place(reqs[i].Board, reqs[i].Shape)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errs.Wrap(err)
	}
	return out, nil
}

// PlaceBatch runs the batch under the standard SRS rules.
func PlaceBatch(ctx context.Context, reqs []Request) ([]Placements, error) {
	return defaultTable.PlaceBatch(ctx, reqs)
}
