package services

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// FetchAll runs fetch for every index in [0, n) concurrently and returns the
// results in index order. It is all-or-nothing: the first failure cancels the
// context handed to the remaining calls and is returned without any partial
// results.
func FetchAll[T any](ctx context.Context, n int, fetch func(ctx context.Context, i int) (T, error)) ([]T, error) {
	results := make([]T, n)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			v, err := fetch(gctx, i)
			if err != nil {
				return err
			}
			results[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
