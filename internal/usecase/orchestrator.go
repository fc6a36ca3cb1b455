package usecase

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/user/listing-service/internal/repository"
	"github.com/user/listing-service/internal/scraper"
	"github.com/user/listing-service/pkg/metrics"
)

// RunStats are the terminal statistics of one source's ingestion run.
type RunStats struct {
	Normalized   int
	Skipped      int
	ItemErrors   int
	Duplicates   int
	Stored       int
	PhotosStored int
	PhotosFailed int
	Fatal        error
}

// Orchestrator binds pagination, normalization and the shared persistence
// pipeline per registered source. Sources run independently and concurrently;
// one source's fatal pagination error cancels only that source's tasks.
type Orchestrator struct {
	registry *scraper.Registry
	fetcher  repository.Fetcher
	pipeline *Pipeline
	pageSize int
	workers  int
	logger   *zap.Logger
}

func NewOrchestrator(
	registry *scraper.Registry,
	fetcher repository.Fetcher,
	pipeline *Pipeline,
	pageSize, workers int,
	logger *zap.Logger,
) *Orchestrator {
	if workers < 1 {
		workers = 1
	}
	return &Orchestrator{
		registry: registry,
		fetcher:  fetcher,
		pipeline: pipeline,
		pageSize: pageSize,
		workers:  workers,
		logger:   logger,
	}
}

// Run ingests every registered source to completion and returns per-source
// terminal statistics.
func (o *Orchestrator) Run(ctx context.Context) map[string]*RunStats {
	stats := make(map[string]*RunStats, len(o.registry.All()))

	var wg sync.WaitGroup
	for _, source := range o.registry.All() {
		st := &RunStats{}
		stats[source.Name()] = st

		wg.Add(1)
		go func(source scraper.Source, st *RunStats) {
			defer wg.Done()
			o.runSource(ctx, source, st)
		}(source, st)
	}
	wg.Wait()

	return stats
}

func (o *Orchestrator) runSource(ctx context.Context, source scraper.Source, st *RunStats) {
	start := time.Now()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	items := make(chan scraper.RawItem, o.workers)
	results := make(chan scraper.Result, o.workers)

	paginator := scraper.NewPaginator(o.fetcher, source, o.pageSize, o.workers, o.logger)
	normalizer := scraper.NewNormalizer(o.fetcher, o.workers, o.logger)

	paginationErr := make(chan error, 1)
	go func() {
		err := paginator.Run(ctx, items)
		if err != nil {
			// Tear down this source's in-flight work; siblings are unaffected.
			cancel()
		}
		close(items)
		paginationErr <- err
	}()

	go func() {
		normalizer.Run(ctx, source, items, results)
		close(results)
	}()

	var (
		mu       sync.Mutex
		workerWG sync.WaitGroup
	)
	for i := 0; i < o.workers; i++ {
		workerWG.Add(1)
		go func() {
			defer workerWG.Done()
			for result := range results {
				o.consume(ctx, source.Name(), result, st, &mu)
			}
		}()
	}
	workerWG.Wait()

	if err := <-paginationErr; err != nil {
		st.Fatal = err
	}

	metrics.PipelineDuration.WithLabelValues(source.Name()).Observe(time.Since(start).Seconds())
	o.logger.Info("source run finished",
		zap.String("source", source.Name()),
		zap.Int("normalized", st.Normalized),
		zap.Int("skipped", st.Skipped),
		zap.Int("item_errors", st.ItemErrors),
		zap.Int("duplicates", st.Duplicates),
		zap.Int("stored", st.Stored),
		zap.Int("photos_stored", st.PhotosStored),
		zap.Int("photos_failed", st.PhotosFailed),
		zap.Error(st.Fatal),
		zap.Duration("took", time.Since(start)))
}

func (o *Orchestrator) consume(ctx context.Context, source string, result scraper.Result, st *RunStats, mu *sync.Mutex) {
	if result.Skipped {
		mu.Lock()
		st.Skipped++
		mu.Unlock()
		return
	}
	if result.Err != nil {
		mu.Lock()
		st.ItemErrors++
		mu.Unlock()
		return
	}

	mu.Lock()
	st.Normalized++
	mu.Unlock()

	outcome := o.pipeline.Process(ctx, source, result.Record)

	mu.Lock()
	defer mu.Unlock()
	switch {
	case outcome.Duplicate:
		st.Duplicates++
	case outcome.Err != nil:
		o.logger.Error("record lost in persistence",
			zap.String("source", source),
			zap.String("url", result.Record.URL),
			zap.Error(outcome.Err))
		st.ItemErrors++
	default:
		st.Stored++
		st.PhotosStored += outcome.PhotosStored
		st.PhotosFailed += len(outcome.PhotoErrors)
	}
}
