package summary

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// DefaultWorkers caps concurrent LLM calls. The ingestion pipeline itself is
// strictly sequential; this pool exists only for prompt fan-out.
const DefaultWorkers = 4

// Pool runs functions over an index range with a fixed concurrency cap and
// per-item retry. Work holds a permit only around the call itself.
type Pool struct {
	workers int
	retry   func() backoff.BackOff
}

// NewPool creates a Pool with the given concurrency cap.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Pool{
		workers: workers,
		retry: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			b.MaxInterval = 10 * time.Second
			b.MaxElapsedTime = 30 * time.Second
			return b
		},
	}
}

// ForEach calls fn for every index in [0, n) with at most the configured
// number of concurrent calls, retrying transient failures with exponential
// backoff. It returns one slot per index; nil means success.
func (p *Pool) ForEach(ctx context.Context, n int, fn func(ctx context.Context, i int) error) []error {
	errs := make([]error, n)
	permits := make(chan struct{}, p.workers)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			errs[i] = ctx.Err()
			continue
		}

		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			permits <- struct{}{}
			defer func() { <-permits }()

			errs[i] = backoff.Retry(func() error {
				return fn(ctx, i)
			}, backoff.WithContext(p.retry(), ctx))
		}(i)
	}
	wg.Wait()

	return errs
}
