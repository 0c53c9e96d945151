package analysis

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"pagelens-api/core/config"
	"pagelens-api/core/domain"
	"pagelens-api/core/interfaces"
)

func TestAnalyzeBatch_OrderAndIsolation(t *testing.T) {
	slow := "https://example.com/slow"
	client := &mockHTTPClient{
		GetFunc: func(ctx context.Context, url string) (interfaces.Response, error) {
			if url == slow {
				<-ctx.Done()
				return nil, ctx.Err()
			}
			return &mockResponse{statusCode: 200, body: articlePage}, nil
		},
	}
	m := newTestManager(client)

	opts := config.DefaultOptions()
	opts.Timeout = 30 * time.Millisecond

	urls := []string{"https://example.com/a", slow, "https://example.com/c"}
	result := m.AnalyzeBatch(context.Background(), urls, opts)

	if len(result.Records) != 3 {
		t.Fatalf("record count = %d, want 3", len(result.Records))
	}
	if result.Records[0].Status != domain.StatusSuccess {
		t.Errorf("records[0].Status = %v, want success", result.Records[0].Status)
	}
	if result.Records[1].Status != domain.StatusTimeout {
		t.Errorf("records[1].Status = %v, want timeout", result.Records[1].Status)
	}
	if result.Records[2].Status != domain.StatusSuccess {
		t.Errorf("records[2].Status = %v, want success", result.Records[2].Status)
	}
	for i, u := range urls {
		if result.Records[i].URL != u {
			t.Errorf("records[%d].URL = %q, want input order preserved (%q)", i, result.Records[i].URL, u)
		}
	}

	agg := result.Aggregate
	if agg.Succeeded != 2 || agg.TimedOut != 1 || agg.Failed != 0 {
		t.Errorf("aggregate = %+v, want 2 succeeded, 1 timed out, 0 failed", agg)
	}
	if agg.TotalElapsedMs < 0 {
		t.Errorf("TotalElapsedMs = %d, want >= 0", agg.TotalElapsedMs)
	}
}

func TestAnalyzeBatch_Empty(t *testing.T) {
	m := newTestManager(routingClient(nil))

	result := m.AnalyzeBatch(context.Background(), nil, config.AnalysisOptions{})
	if len(result.Records) != 0 {
		t.Errorf("record count = %d, want 0", len(result.Records))
	}
	if result.Aggregate != (domain.BatchAggregate{}) {
		t.Errorf("aggregate = %+v, want all zero", result.Aggregate)
	}
}

func TestAnalyzeBatch_DuplicateURLs(t *testing.T) {
	client := routingClient(map[string]string{"https://example.com/article": articlePage})
	m := newTestManager(client)

	urls := []string{"https://example.com/article", "https://example.com/article"}
	result := m.AnalyzeBatch(context.Background(), urls, config.AnalysisOptions{})

	if len(result.Records) != 2 {
		t.Fatalf("record count = %d, want one record per occurrence", len(result.Records))
	}
	if result.Aggregate.Succeeded != 2 {
		t.Errorf("Succeeded = %d, want 2", result.Aggregate.Succeeded)
	}
}

func TestAnalyzeBatch_RespectsConcurrencyBound(t *testing.T) {
	var inFlight, peak int64
	client := &mockHTTPClient{
		GetFunc: func(ctx context.Context, url string) (interfaces.Response, error) {
			current := atomic.AddInt64(&inFlight, 1)
			for {
				observed := atomic.LoadInt64(&peak)
				if current <= observed || atomic.CompareAndSwapInt64(&peak, observed, current) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt64(&inFlight, -1)
			return &mockResponse{statusCode: 200, body: articlePage}, nil
		},
	}
	m := newTestManager(client)

	opts := config.DefaultOptions()
	opts.MaxConcurrent = 2

	urls := make([]string, 10)
	for i := range urls {
		urls[i] = "https://example.com/article"
	}
	result := m.AnalyzeBatch(context.Background(), urls, opts)

	if len(result.Records) != 10 {
		t.Fatalf("record count = %d, want 10", len(result.Records))
	}
	if got := atomic.LoadInt64(&peak); got > 2 {
		t.Errorf("peak concurrent fetches = %d, want <= 2", got)
	}
}

func TestAnalyzeBatch_MixedFailures(t *testing.T) {
	client := routingClient(map[string]string{
		"https://example.com/good": articlePage,
		"https://example.com/feed": sampleFeed,
	})
	m := newTestManager(client)

	urls := []string{
		"https://example.com/good",
		"https://example.com/missing", // 404
		"not-a-url",
		"https://example.com/feed",
	}
	result := m.AnalyzeBatch(context.Background(), urls, config.AnalysisOptions{})

	if len(result.Records) != 4 {
		t.Fatalf("record count = %d, want 4", len(result.Records))
	}
	agg := result.Aggregate
	if agg.Succeeded != 2 || agg.Failed != 2 || agg.TimedOut != 0 {
		t.Errorf("aggregate = %+v, want 2 succeeded / 2 failed / 0 timed out", agg)
	}
}
