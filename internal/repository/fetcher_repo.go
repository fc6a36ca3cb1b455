package repository

import "context"

// Request describes one remote fetch: method, URL and an optional structured
// body serialized as JSON.
type Request struct {
	Method string
	URL    string
	Body   any
}

// Response is the raw result of a fetch.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Fetcher defines the fetch capability consumed by pagination, photo-page
// recovery and photo downloads. Retry policy lives behind this interface,
// not in its callers.
type Fetcher interface {
	Fetch(ctx context.Context, req Request) (*Response, error)
}
