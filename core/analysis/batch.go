// ABOUTME: Batch analysis fans URLs out over a fixed-width worker pool
// ABOUTME: Results land at their input index, isolated per URL

package analysis

import (
	"context"
	"sync"

	"pagelens-api/core/config"
	"pagelens-api/core/domain"
)

// AnalyzeBatch analyzes every URL with bounded concurrency. The
// result always holds one record per input URL, in input order; a
// failing URL never affects its neighbors. Duplicate URLs get
// independent records.
func (m *Manager) AnalyzeBatch(ctx context.Context, urls []string, opts config.AnalysisOptions) *domain.BatchResult {
	opts = m.merge(opts)
	start := m.now()

	records := make([]domain.AnalysisRecord, len(urls))
	if len(urls) == 0 {
		return &domain.BatchResult{
			Records:   records,
			Aggregate: domain.NewBatchAggregate(records, 0),
		}
	}

	workers := opts.MaxConcurrent
	if workers > len(urls) {
		workers = len(urls)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				records[i] = *m.AnalyzeOne(ctx, urls[i], "", opts)
			}
		}()
	}

	for i := range urls {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	elapsed := m.now().Sub(start).Milliseconds()
	result := &domain.BatchResult{
		Records:   records,
		Aggregate: domain.NewBatchAggregate(records, elapsed),
	}

	m.logDebug("Batch analysis complete", map[string]interface{}{
		"urls":      len(urls),
		"succeeded": result.Aggregate.Succeeded,
		"failed":    result.Aggregate.Failed,
		"timed_out": result.Aggregate.TimedOut,
	})
	return result
}
