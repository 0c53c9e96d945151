package interfaces

import (
	"context"
	"io"
)

// HTTPClient is the injected fetch capability. The analysis core never
// implements transport concerns itself: redirects, retries and
// robots.txt compliance all live behind this interface.
type HTTPClient interface {
	// Get performs an HTTP GET request to the specified URL.
	// The request is cancelled when ctx is done.
	Get(ctx context.Context, url string) (Response, error)
}

// Response is the fetch result consumed by the analyzers.
type Response interface {
	// StatusCode returns the HTTP status code of the response.
	StatusCode() int

	// Body returns the response body as an io.ReadCloser.
	// The caller is responsible for closing the body when done.
	Body() io.ReadCloser

	// Header returns the value of the specified header.
	// Header names are case-insensitive; missing headers yield "".
	Header(key string) string
}
