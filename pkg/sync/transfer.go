package sync

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// forEach calls `fn` on every item with at most `limit` calls in flight, and
// waits for all of them to finish. After the first failure, items that
// haven't started yet are skipped, and that failure is returned.
func forEach[T any](ctx context.Context, limit int, items []T,
	fn func(context.Context, T) error) error {

	if limit < 1 {
		limit = 1
	}

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(limit)
	for _, item := range items {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(ctx, item)
		})
	}
	return group.Wait()
}
