package scraper

import (
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/user/listing-service/internal/entity"
	"github.com/user/listing-service/internal/repository"
)

// RawItem is one untyped, source-specific item as it arrived from a result
// page.
type RawItem map[string]any

// RawPayload is the input of one normalization: the raw item fields plus an
// optional fetched detail page used to recover content (photo links) that is
// not present in the structured payload. Owned by the normalization call that
// produced one record, discarded after mapping.
type RawPayload struct {
	Fields RawItem
	Page   *goquery.Document
}

// Page is one parsed result page. Total is the declared size of the whole
// result set when the source exposes one; More is the source's own
// more-data-available signal, used only when Total stays unknown.
type Page struct {
	Items []RawItem
	Total *int
	More  bool
}

// SourceAdapter is the page-object over one raw payload: each accessor
// derives its value purely from the payload, ToRecord combines them all into
// one canonical record.
type SourceAdapter interface {
	Name() string
	URL() (string, error)
	Origin() entity.Source
	OfferType() entity.OfferType
	Status() entity.Status
	Price() (entity.Price, error)
	Size() (entity.Size, error)
	Rooms() (entity.Rooms, error)
	Floor() *int
	Location(ctx context.Context) *entity.Location
	Details() *entity.Details
	Description() *string
	Photos() []string
	ToRecord(ctx context.Context) (*entity.Record, error)
}

// Source describes one external listing source end to end: how to request and
// parse result pages, which items to keep, where the item's own page lives,
// and how to map a raw payload to a record.
type Source interface {
	Name() string
	// PageRequest builds the fetch request for one result page.
	PageRequest(index, size int) repository.Request
	// ParsePage decodes one raw page response.
	ParsePage(data []byte) (*Page, error)
	// Include reports whether an item should be normalized at all. Applied
	// before any detail-page fetch so excluded items cost no round trips.
	Include(item RawItem) bool
	// DetailURL is the address of the item's own page, fetched for photos.
	DetailURL(item RawItem) (string, error)
	// Adapter binds a raw payload to this source's page-object.
	Adapter(raw RawPayload) SourceAdapter
}

// Registry resolves sources by identifier.
type Registry struct {
	sources map[string]Source
}

func NewRegistry() *Registry {
	return &Registry{sources: make(map[string]Source)}
}

func (r *Registry) Register(s Source) {
	r.sources[s.Name()] = s
}

func (r *Registry) Lookup(name string) (Source, error) {
	s, ok := r.sources[name]
	if !ok {
		return nil, fmt.Errorf("unknown source %q", name)
	}
	return s, nil
}

// All returns every registered source.
func (r *Registry) All() []Source {
	out := make([]Source, 0, len(r.sources))
	for _, s := range r.sources {
		out = append(out, s)
	}
	return out
}
