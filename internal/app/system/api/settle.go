package api

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Settle runs every call concurrently and waits for all of them. The
// returned slice holds each call's error at the call's index. One failure
// does not cancel the others.
func Settle(ctx context.Context, calls ...func(context.Context) error) []error {
	errs := make([]error, len(calls))
	var g errgroup.Group
	for i, call := range calls {
		g.Go(func() error {
			errs[i] = call(ctx)
			return nil
		})
	}
	_ = g.Wait()
	return errs
}
