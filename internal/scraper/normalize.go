package scraper

import (
	"bytes"
	"context"
	"net/http"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/user/listing-service/internal/entity"
	"github.com/user/listing-service/internal/repository"
	"github.com/user/listing-service/pkg/metrics"
)

// Result is the outcome of normalizing one raw item: a validated record, a
// skip verdict, or a per-item error. Errors never abort sibling items.
type Result struct {
	Source  string
	Record  *entity.Record
	Skipped bool
	Err     error
}

// Normalizer turns raw items into canonical records, fetching each kept
// item's detail page for photo links on the way. Results may arrive out of
// order; the include filter runs before any detail fetch so excluded items
// cost no round trips.
type Normalizer struct {
	fetcher repository.Fetcher
	workers int
	logger  *zap.Logger
}

func NewNormalizer(fetcher repository.Fetcher, workers int, logger *zap.Logger) *Normalizer {
	if workers < 1 {
		workers = 1
	}
	return &Normalizer{fetcher: fetcher, workers: workers, logger: logger}
}

// Run drains in and sends one Result per non-excluded item to out. Returns
// once in is closed and all workers finished. Does not close out.
func (n *Normalizer) Run(ctx context.Context, source Source, in <-chan RawItem, out chan<- Result) {
	var wg sync.WaitGroup
	for i := 0; i < n.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range in {
				select {
				case <-ctx.Done():
					// Keep draining so the producer can finish, but do no work.
					continue
				default:
				}
				result, ok := n.normalizeItem(ctx, source, item)
				if !ok {
					continue
				}
				select {
				case out <- result:
				case <-ctx.Done():
					return
				}
			}
		}()
	}
	wg.Wait()
}

func (n *Normalizer) normalizeItem(ctx context.Context, source Source, item RawItem) (Result, bool) {
	if !source.Include(item) {
		n.logger.Debug("item excluded by source filter", zap.String("source", source.Name()))
		metrics.ItemsNormalizedTotal.WithLabelValues(source.Name(), "skipped").Inc()
		return Result{Source: source.Name(), Skipped: true}, true
	}

	detailURL, err := source.DetailURL(item)
	if err != nil {
		metrics.ItemsNormalizedTotal.WithLabelValues(source.Name(), "error").Inc()
		return Result{Source: source.Name(), Err: err}, true
	}

	payload := RawPayload{Fields: item, Page: n.fetchDetailPage(ctx, source, detailURL)}

	record, err := source.Adapter(payload).ToRecord(ctx)
	if err != nil {
		n.logger.Warn("item failed normalization",
			zap.String("source", source.Name()),
			zap.String("url", detailURL),
			zap.Error(err))
		metrics.ItemsNormalizedTotal.WithLabelValues(source.Name(), "error").Inc()
		return Result{Source: source.Name(), Err: err}, true
	}

	metrics.ItemsNormalizedTotal.WithLabelValues(source.Name(), "ok").Inc()
	return Result{Source: source.Name(), Record: record}, true
}

// fetchDetailPage recovers the item's own HTML page. On any failure the item
// is still normalized, just without a page handle, so photos come out empty.
func (n *Normalizer) fetchDetailPage(ctx context.Context, source Source, detailURL string) *goquery.Document {
	resp, err := n.fetcher.Fetch(ctx, repository.Request{Method: http.MethodGet, URL: detailURL})
	if err != nil {
		n.logger.Warn("detail page fetch failed, continuing without photos",
			zap.String("source", source.Name()),
			zap.String("url", detailURL),
			zap.Error(err))
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		n.logger.Warn("detail page is not parseable HTML",
			zap.String("source", source.Name()),
			zap.String("url", detailURL),
			zap.Error(err))
		return nil
	}
	return doc
}
