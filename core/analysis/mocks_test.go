package analysis

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"pagelens-api/core/interfaces"
)

// mockResponse implements interfaces.Response over in-memory bytes.
type mockResponse struct {
	statusCode int
	body       string
	headers    map[string]string
}

func (r *mockResponse) StatusCode() int {
	return r.statusCode
}

func (r *mockResponse) Body() io.ReadCloser {
	return io.NopCloser(strings.NewReader(r.body))
}

func (r *mockResponse) Header(key string) string {
	for k, v := range r.headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

// mockHTTPClient implements interfaces.HTTPClient with a settable
// function so each test controls fetch behavior.
type mockHTTPClient struct {
	GetFunc func(ctx context.Context, url string) (interfaces.Response, error)

	mu    sync.Mutex
	calls []string
}

func (m *mockHTTPClient) Get(ctx context.Context, url string) (interfaces.Response, error) {
	m.mu.Lock()
	m.calls = append(m.calls, url)
	m.mu.Unlock()
	return m.GetFunc(ctx, url)
}

func (m *mockHTTPClient) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// routingClient serves canned bodies per URL, 404 for everything else.
func routingClient(pages map[string]string) *mockHTTPClient {
	return &mockHTTPClient{
		GetFunc: func(ctx context.Context, url string) (interfaces.Response, error) {
			if body, ok := pages[url]; ok {
				return &mockResponse{statusCode: 200, body: body}, nil
			}
			return &mockResponse{statusCode: 404}, nil
		},
	}
}

// mockCache implements interfaces.Cache over a plain map.
type mockCache struct {
	mu    sync.Mutex
	store map[string][]byte

	getCalls int
	setCalls int
}

func newMockCache() *mockCache {
	return &mockCache{store: make(map[string][]byte)}
}

func (c *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.getCalls++
	data, ok := c.store[key]
	if !ok {
		return nil, fmt.Errorf("cache miss for %s", key)
	}
	return data, nil
}

func (c *mockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setCalls++
	c.store[key] = value
	return nil
}

func (c *mockCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}

// mockLogger discards everything.
type mockLogger struct{}

func (mockLogger) Debug(msg string, fields map[string]interface{}) {}
func (mockLogger) Info(msg string, fields map[string]interface{})  {}
func (mockLogger) Warn(msg string, fields map[string]interface{})  {}
func (mockLogger) Error(msg string, fields map[string]interface{}) {}

func testDeps(client interfaces.HTTPClient) interfaces.Dependencies {
	return interfaces.Dependencies{
		HTTPClient: client,
		Logger:     mockLogger{},
	}
}
