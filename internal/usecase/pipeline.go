package usecase

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/user/listing-service/internal/entity"
	"github.com/user/listing-service/internal/repository"
	"github.com/user/listing-service/pkg/metrics"
)

// State of one record inside the persistence pipeline.
type State string

const (
	StateReceived         State = "received"
	StateDuplicateChecked State = "duplicate_checked"
	StateStored           State = "stored"
	StatePhotosQueued     State = "photos_queued"
	StatePhotosStored     State = "photos_stored"
	StateError            State = "error"
)

// Outcome is the terminal result of pushing one record through the pipeline.
// Duplicate and photo failures are reported outcomes, not errors; Err is set
// only when the record itself was lost.
type Outcome struct {
	State        State
	Duplicate    bool
	PhotosStored int
	PhotoErrors  []error
	Err          error
}

// Pipeline persists canonical records: dedup check, document store write,
// then an independent per-photo fetch-and-upload fan-out. One bad photo never
// loses the record; a duplicate verdict drops the record without a write.
type Pipeline struct {
	records      repository.RecordRepository
	blobs        repository.BlobRepository
	fetcher      repository.Fetcher
	dedup        repository.DedupStrategy
	storeRetries int
	photoWorkers int
	logger       *zap.Logger
}

func NewPipeline(
	records repository.RecordRepository,
	blobs repository.BlobRepository,
	fetcher repository.Fetcher,
	dedup repository.DedupStrategy,
	storeRetries, photoWorkers int,
	logger *zap.Logger,
) *Pipeline {
	if storeRetries < 0 {
		storeRetries = 0
	}
	if photoWorkers < 1 {
		photoWorkers = 1
	}
	return &Pipeline{
		records:      records,
		blobs:        blobs,
		fetcher:      fetcher,
		dedup:        dedup,
		storeRetries: storeRetries,
		photoWorkers: photoWorkers,
		logger:       logger,
	}
}

// Process runs the state machine
// Received -> DuplicateChecked -> Stored -> PhotosQueued -> PhotosStored
// for one record. If the store write fails, no photo upload is attempted.
func (p *Pipeline) Process(ctx context.Context, source string, record *entity.Record) Outcome {
	duplicate, err := p.dedup.IsDuplicate(ctx, record)
	if err != nil {
		return Outcome{State: StateError, Err: fmt.Errorf("dedup check for %s: %w", record.URL, err)}
	}
	if duplicate {
		p.logger.Info("dropping duplicate record",
			zap.String("source", source),
			zap.String("url", record.URL))
		metrics.DuplicatesDroppedTotal.WithLabelValues(source).Inc()
		return Outcome{State: StateDuplicateChecked, Duplicate: true}
	}

	// Photo URLs leave the record before the store write; uploads are a
	// logically separate concern keyed by the record id.
	refs := make([]entity.PhotoRef, 0, len(record.Photos))
	for _, photoURL := range record.Photos {
		refs = append(refs, entity.NewPhotoRef(record.ID, photoURL))
	}
	record.Photos = []string{}

	if err := p.insertWithRetry(ctx, record); err != nil {
		return Outcome{State: StateError, Err: err}
	}
	metrics.RecordsStoredTotal.WithLabelValues(source).Inc()
	p.dedup.MarkStored(ctx, record)

	keys, photoErrors := p.fanOut(ctx, source, refs)

	// The record keeps only the final storage keys of the photos that made it.
	record.Photos = keys
	if len(keys) > 0 {
		if err := p.records.UpdatePhotos(ctx, record.ID, keys); err != nil {
			p.logger.Warn("failed to write photo keys back to the stored record",
				zap.String("id", record.ID.Hex()),
				zap.Error(err))
		}
	}

	return Outcome{
		State:        StatePhotosStored,
		PhotosStored: len(keys),
		PhotoErrors:  photoErrors,
	}
}

func (p *Pipeline) insertWithRetry(ctx context.Context, record *entity.Record) error {
	var err error
	for attempt := 0; attempt <= p.storeRetries; attempt++ {
		if _, err = p.records.Insert(ctx, record); err == nil {
			return nil
		}
		p.logger.Warn("store write failed",
			zap.String("url", record.URL),
			zap.Int("attempt", attempt+1),
			zap.Error(err))
	}
	return &repository.WriteError{Op: "insert " + record.URL, Err: err}
}

// fanOut fetches and uploads every photo independently with bounded
// parallelism. Returns the keys of stored photos and one error per failed
// photo; all attempts complete either way.
func (p *Pipeline) fanOut(ctx context.Context, source string, refs []entity.PhotoRef) ([]string, []error) {
	if len(refs) == 0 {
		return []string{}, nil
	}

	var (
		wg     sync.WaitGroup
		sem    = make(chan struct{}, p.photoWorkers)
		mu     sync.Mutex
		keys   []string
		failed []error
	)

	for _, ref := range refs {
		wg.Add(1)
		sem <- struct{}{}
		go func(ref entity.PhotoRef) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := p.uploadPhoto(ctx, ref); err != nil {
				p.logger.Warn("photo upload failed",
					zap.String("source", source),
					zap.String("photo_url", ref.SourceURL),
					zap.Error(err))
				metrics.PhotosUploadedTotal.WithLabelValues(source, "error").Inc()
				mu.Lock()
				failed = append(failed, err)
				mu.Unlock()
				return
			}

			metrics.PhotosUploadedTotal.WithLabelValues(source, "ok").Inc()
			mu.Lock()
			keys = append(keys, ref.Key)
			mu.Unlock()
		}(ref)
	}
	wg.Wait()

	if keys == nil {
		keys = []string{}
	}
	return keys, failed
}

func (p *Pipeline) uploadPhoto(ctx context.Context, ref entity.PhotoRef) error {
	resp, err := p.fetcher.Fetch(ctx, repository.Request{Method: http.MethodGet, URL: ref.SourceURL})
	if err != nil {
		return &repository.UploadError{Key: ref.Key, Err: err}
	}
	if err := p.blobs.Put(ctx, ref.Key, resp.Body, resp.ContentType); err != nil {
		return &repository.UploadError{Key: ref.Key, Err: err}
	}
	return nil
}
