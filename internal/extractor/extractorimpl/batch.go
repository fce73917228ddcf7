package extractorimpl

import (
	"context"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/vankhoa205/tweet-extractor-service/internal/extractor"
)

// ExtractBatch extracts every URL on a bounded worker pool. Results keep
// the order of the input and one bad URL never sinks its neighbours.
func (e *Impl) ExtractBatch(ctx context.Context, urls []string) []extractor.Result {
	results := make([]extractor.Result, len(urls))
	if len(urls) == 0 {
		return results
	}

	workers := e.cfg.Extractor.BatchConcurrency
	if workers < 1 {
		workers = 1
	}
	if workers > len(urls) {
		workers = len(urls)
	}

	e.logger.Info("Extracting batch", "posts", len(urls), "workers", workers)

	var wg sync.WaitGroup
	pool, _ := ants.NewPool(workers, ants.WithPreAlloc(true))
	defer pool.Release()

	for i, url := range urls {
		wg.Add(1)
		index, target := i, url

		err := pool.Submit(func() {
			defer wg.Done()
			record, err := e.Extract(ctx, target)
			if err != nil {
				results[index] = extractor.Result{URL: target, Err: err}
				return
			}
			results[index] = extractor.Result{URL: target, Record: record}
		})
		if err != nil {
			wg.Done()
			e.logger.Error("Failed to submit extraction job", "url", target, "error", err)
			results[index] = extractor.Result{URL: target, Err: err}
		}
	}

	wg.Wait()
	return results
}
