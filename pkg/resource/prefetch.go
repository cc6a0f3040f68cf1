package resource

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// PrefetchOptions bounds a Prefetch.
type PrefetchOptions struct {
	// Concurrency is the maximum number of requests in flight.
	Concurrency int
	// RatePerSecond limits how fast requests start. Zero means no limit.
	RatePerSecond float64
}

// Prefetch fetches every distinct uri concurrently and returns the
// bodies keyed by uri. The first failure cancels the remaining fetches
// and is returned.
func Prefetch(ctx context.Context, f Fetcher, uris []string, opts PrefetchOptions) (map[string][]byte, error) {
	limit := opts.Concurrency
	if limit <= 0 {
		limit = 4
	}
	var limiter *rate.Limiter
	if opts.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), 1)
	}

	var (
		mu     sync.Mutex
		bodies = make(map[string][]byte, len(uris))
		seen   = make(map[string]bool, len(uris))
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, uri := range uris {
		if seen[uri] {
			continue
		}
		seen[uri] = true
		g.Go(func() error {
			if limiter != nil {
				if err := limiter.Wait(ctx); err != nil {
					return err
				}
			}
			body, _, err := f.Fetch(ctx, uri)
			if err != nil {
				return err
			}
			mu.Lock()
			bodies[uri] = body
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return bodies, nil
}
