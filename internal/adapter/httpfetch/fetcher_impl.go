package httpfetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/user/listing-service/internal/repository"
)

const userAgent = "listing-service/0.1 (+https://github.com/user/listing-service)"

// HTTPFetcher provides a concrete implementation for the Fetcher interface
// over net/http.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates a fetcher with the given per-request timeout.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{client: &http.Client{Timeout: timeout}}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, req repository.Request) (*repository.Response, error) {
	var body io.Reader
	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return nil, &repository.FetchError{URL: req.URL, Err: err}
		}
		body = bytes.NewReader(encoded)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, &repository.FetchError{URL: req.URL, Err: err}
	}
	httpReq.Header.Set("User-Agent", userAgent)
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := f.client.Do(httpReq)
	if err != nil {
		return nil, &repository.FetchError{URL: req.URL, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &repository.FetchError{URL: req.URL, Err: err}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &repository.FetchError{
			URL: req.URL,
			Err: fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	return &repository.Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        data,
	}, nil
}
