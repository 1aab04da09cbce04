package planetdata

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/litescript/ls-orrery/internal/logging"
)

// DefaultConcurrency bounds in-flight stats requests.
const DefaultConcurrency = 4

// EnrichOptions controls Enrich.
type EnrichOptions struct {
	Concurrency int
	Limiter     *rate.Limiter // nil means unlimited
	Logger      *logging.Logger
}

// Enrich fetches statistics for every planet and merges them in. Output
// order matches input order. A failed or empty lookup keeps the base data
// and logs a warning; only context cancellation fails the run.
func Enrich(ctx context.Context, src StatsSource, base []Planet, opts EnrichOptions) ([]Planet, error) {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}

	out := make([]Planet, len(base))
	copy(out, base)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	for i := range base {
		g.Go(func() error {
			if opts.Limiter != nil {
				if err := opts.Limiter.Wait(gctx); err != nil {
					return fmt.Errorf("wait for %s: %w", base[i].Name, err)
				}
			}

			stats, err := src.Fetch(gctx, base[i].Name)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				log.Warn("stats lookup failed for %s, using base data only: %v", base[i].Name, err)
				return nil
			}
			if stats == nil {
				log.Warn("no API data found for %s, using base data only", base[i].Name)
				return nil
			}

			out[i] = Merge(base[i], stats)
			log.Debug("merged stats for %s", base[i].Name)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
