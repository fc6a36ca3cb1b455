package scraper

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/user/listing-service/internal/repository"
	"github.com/user/listing-service/pkg/metrics"
)

// PageCursor is the pagination state of one crawl run: current page index,
// page size, and the result set total once it becomes known.
type PageCursor struct {
	Index int
	Size  int
	Total *int
}

// ExtraPages is the number of page fetches needed beyond page 0 to cover a
// result set of the given total.
func ExtraPages(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	pages := (total + size - 1) / size
	if pages <= 1 {
		return 0
	}
	return pages - 1
}

// Paginator walks an unknown-length remote result set exactly once, emitting
// raw per-item payloads. When page 0 declares a total, the remaining pages are
// computed up front and fetched independently; otherwise it falls back to
// sequential fetching until the source signals no more data.
type Paginator struct {
	fetcher repository.Fetcher
	source  Source
	size    int
	workers int
	logger  *zap.Logger
}

func NewPaginator(fetcher repository.Fetcher, source Source, pageSize, workers int, logger *zap.Logger) *Paginator {
	if workers < 1 {
		workers = 1
	}
	return &Paginator{
		fetcher: fetcher,
		source:  source,
		size:    pageSize,
		workers: workers,
		logger:  logger,
	}
}

// Run fetches all pages and sends every raw item to out. It does not close
// out. A parse failure is fatal to the whole run; fetch errors of individual
// fan-out pages are fatal as well, since skipping a page would silently lose
// items.
func (p *Paginator) Run(ctx context.Context, out chan<- RawItem) error {
	cursor := PageCursor{Index: 0, Size: p.size}

	first, err := p.fetchPage(ctx, cursor.Index)
	if err != nil {
		return err
	}
	if err := p.emit(ctx, out, first.Items); err != nil {
		return err
	}

	if first.Total != nil {
		cursor.Total = first.Total
		return p.fanOut(ctx, out, ExtraPages(*first.Total, p.size))
	}
	return p.sequential(ctx, out, &cursor, first)
}

// fanOut fetches pages 1..extra with bounded parallelism. Page order is free:
// each page is an independent slice of the result set.
func (p *Paginator) fanOut(ctx context.Context, out chan<- RawItem, extra int) error {
	if extra == 0 {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		sem      = make(chan struct{}, p.workers)
		mu       sync.Mutex
		firstErr error
	)

	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
		mu.Unlock()
	}

	for index := 1; index <= extra; index++ {
		select {
		case <-ctx.Done():
		case sem <- struct{}{}:
			wg.Add(1)
			go func(index int) {
				defer wg.Done()
				defer func() { <-sem }()

				page, err := p.fetchPage(ctx, index)
				if err != nil {
					fail(err)
					return
				}
				if err := p.emit(ctx, out, page.Items); err != nil {
					fail(err)
				}
			}(index)
		}
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}

// sequential is the fallback for sources that never expose a total: keep
// fetching the next page while the source signals more data. A page with zero
// items terminates the walk regardless of the signal, so a lying source
// cannot spin the run forever.
func (p *Paginator) sequential(ctx context.Context, out chan<- RawItem, cursor *PageCursor, page *Page) error {
	for page.More && len(page.Items) > 0 {
		cursor.Index++
		next, err := p.fetchPage(ctx, cursor.Index)
		if err != nil {
			return err
		}
		if err := p.emit(ctx, out, next.Items); err != nil {
			return err
		}
		page = next
	}
	return nil
}

func (p *Paginator) fetchPage(ctx context.Context, index int) (*Page, error) {
	resp, err := p.fetcher.Fetch(ctx, p.source.PageRequest(index, p.size))
	if err != nil {
		return nil, err
	}
	metrics.PagesFetchedTotal.WithLabelValues(p.source.Name()).Inc()

	page, err := p.source.ParsePage(resp.Body)
	if err != nil {
		return nil, &repository.ParseError{Source: p.source.Name(), Page: index, Err: err}
	}
	p.logger.Debug("fetched result page",
		zap.String("source", p.source.Name()),
		zap.Int("page", index),
		zap.Int("items", len(page.Items)))
	return page, nil
}

func (p *Paginator) emit(ctx context.Context, out chan<- RawItem, items []RawItem) error {
	for _, item := range items {
		select {
		case out <- item:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
