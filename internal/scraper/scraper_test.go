package scraper

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"testing"

	"github.com/user/listing-service/internal/repository"
	"github.com/user/listing-service/pkg/metrics"
)

func TestMain(m *testing.M) {
	metrics.Init()
	m.Run()
}

// indexFetcher answers every page request with the requested page index as
// the body, so a fake source can look the page up during parsing. It counts
// calls and can fail selected URLs.
type indexFetcher struct {
	mu      sync.Mutex
	calls   int
	failURL string
}

func (f *indexFetcher) Fetch(_ context.Context, req repository.Request) (*repository.Response, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.failURL != "" && req.URL == f.failURL {
		return nil, &repository.FetchError{URL: req.URL, Err: fmt.Errorf("connection refused")}
	}

	index, _ := req.Body.(int)
	return &repository.Response{
		StatusCode: 200,
		Body:       []byte(strconv.Itoa(index)),
	}, nil
}

func (f *indexFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// pagedSource serves a fixed slice of prebuilt pages.
type pagedSource struct {
	pages    []*Page
	parseErr map[int]error
}

func (s *pagedSource) Name() string { return "paged" }

func (s *pagedSource) PageRequest(index, size int) repository.Request {
	return repository.Request{Method: "GET", URL: "http://paged/search", Body: index}
}

func (s *pagedSource) ParsePage(data []byte) (*Page, error) {
	index, err := strconv.Atoi(string(data))
	if err != nil {
		return nil, err
	}
	if parseErr, ok := s.parseErr[index]; ok {
		return nil, parseErr
	}
	if index >= len(s.pages) {
		return &Page{}, nil
	}
	return s.pages[index], nil
}

func (s *pagedSource) Include(RawItem) bool { return true }

func (s *pagedSource) DetailURL(item RawItem) (string, error) {
	url, _ := item["url"].(string)
	return url, nil
}

func (s *pagedSource) Adapter(raw RawPayload) SourceAdapter { return nil }

// buildPages slices total numbered items into pages of the given size and
// stamps the declared total on page 0.
func buildPages(total, size int, declareTotal bool) []*Page {
	var pages []*Page
	for start := 0; start < total; start += size {
		page := &Page{}
		for i := start; i < start+size && i < total; i++ {
			page.Items = append(page.Items, RawItem{"n": i})
		}
		page.More = start+size < total
		pages = append(pages, page)
	}
	if len(pages) == 0 {
		pages = []*Page{{}}
	}
	if declareTotal {
		pages[0].Total = &total
	}
	return pages
}
