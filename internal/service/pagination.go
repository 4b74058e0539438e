package service

import (
	"context"

	"storefront/internal/model"

	"golang.org/x/sync/errgroup"
)

// fetchPage runs the total count and the bounded fetch concurrently.
// Both closures must reflect the same predicate; the count may be very
// slightly stale relative to the fetch, which is accepted (no snapshot
// consistency between the two reads).
func fetchPage[T any](
	ctx context.Context,
	page model.PageRequest,
	count func(context.Context) (int, error),
	list func(ctx context.Context, limit, offset int) ([]T, error),
) (model.Page[T], error) {
	var (
		total   int
		entries []T
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = count(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		entries, err = list(gctx, page.PerPage, page.Offset())
		return err
	})

	if err := g.Wait(); err != nil {
		return model.Page[T]{}, err
	}

	return model.NewPage(entries, total, page), nil
}
