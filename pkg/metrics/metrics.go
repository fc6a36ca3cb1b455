package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var initOnce sync.Once

var (
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	PagesFetchedTotal      *prometheus.CounterVec
	ItemsNormalizedTotal   *prometheus.CounterVec
	RecordsStoredTotal     *prometheus.CounterVec
	DuplicatesDroppedTotal *prometheus.CounterVec
	PhotosUploadedTotal    *prometheus.CounterVec
	PipelineDuration       *prometheus.HistogramVec
)

func Init() {
	initOnce.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	PagesFetchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listing_pages_fetched_total",
			Help: "Total number of result pages fetched from remote sources.",
		},
		[]string{"source"},
	)

	ItemsNormalizedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listing_items_normalized_total",
			Help: "Total number of raw items that went through normalization.",
		},
		[]string{"source", "outcome"}, // outcome: ok, skipped, error
	)

	RecordsStoredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listing_records_stored_total",
			Help: "Total number of canonical records written to the document store.",
		},
		[]string{"source"},
	)

	DuplicatesDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listing_duplicates_dropped_total",
			Help: "Total number of records dropped by the dedup strategy.",
		},
		[]string{"source"},
	)

	PhotosUploadedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listing_photos_uploaded_total",
			Help: "Total number of photo upload attempts.",
		},
		[]string{"source", "outcome"}, // outcome: ok, error
	)

	PipelineDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "listing_pipeline_duration_seconds",
			Help:    "Duration of a full source ingestion run.",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"source"},
	)
}
