package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/user/listing-service/internal/adapter/httpfetch"
	minioadapter "github.com/user/listing-service/internal/adapter/minio"
	mongoadapter "github.com/user/listing-service/internal/adapter/mongo"
	"github.com/user/listing-service/internal/adapter/nominatim"
	redisadapter "github.com/user/listing-service/internal/adapter/redis"
	"github.com/user/listing-service/internal/scraper"
	"github.com/user/listing-service/internal/usecase"
	"github.com/user/listing-service/pkg/config"
	"github.com/user/listing-service/pkg/logger"
	"github.com/user/listing-service/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	metrics.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mongoClient, err := mongodriver.Connect(ctx, options.Client().ApplyURI(cfg.MongoURL))
	if err != nil {
		log.Fatal("could not connect to mongo", zap.Error(err))
	}
	defer mongoClient.Disconnect(context.Background())

	redisClient := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	blobs, err := minioadapter.NewBlobRepo(cfg.MinioURL, cfg.MinioLogin, cfg.MinioPassword, cfg.MinioBucket, cfg.MinioUseSSL)
	if err != nil {
		log.Fatal("could not create minio client", zap.Error(err))
	}
	if err := blobs.EnsureBucket(ctx); err != nil {
		log.Fatal("could not ensure photo bucket", zap.Error(err))
	}

	records := mongoadapter.NewRecordRepo(mongoClient, cfg.MongoDatabase, cfg.MongoCollection)
	seen := redisadapter.NewSeenRepo(redisClient)
	fetcher := httpfetch.NewHTTPFetcher(time.Duration(cfg.FetchTimeout) * time.Second)
	geocoder := nominatim.NewGeocoder(cfg.NominatimURL, fetcher)

	dedup, err := usecase.NewDedupStrategy(
		cfg.DedupStrategy, seen, records,
		time.Duration(cfg.SeenTTLHours)*time.Hour, log,
	)
	if err != nil {
		log.Fatal("bad dedup configuration", zap.Error(err))
	}

	registry := scraper.NewRegistry()
	registry.Register(scraper.NewYitSource(geocoder))

	pipeline := usecase.NewPipeline(records, blobs, fetcher, dedup, cfg.StoreRetries, cfg.SourceWorkers, log)
	orchestrator := usecase.NewOrchestrator(registry, fetcher, pipeline, cfg.PageSize, cfg.SourceWorkers, log)

	log.Info("starting ingestion run",
		zap.Int("page_size", cfg.PageSize),
		zap.Int("workers", cfg.SourceWorkers),
		zap.String("dedup", cfg.DedupStrategy))

	stats := orchestrator.Run(ctx)

	failed := false
	for name, st := range stats {
		if st.Fatal != nil {
			failed = true
		}
		log.Info("run statistics",
			zap.String("source", name),
			zap.Int("normalized", st.Normalized),
			zap.Int("skipped", st.Skipped),
			zap.Int("item_errors", st.ItemErrors),
			zap.Int("duplicates", st.Duplicates),
			zap.Int("stored", st.Stored),
			zap.Int("photos_stored", st.PhotosStored),
			zap.Int("photos_failed", st.PhotosFailed),
			zap.Error(st.Fatal))
	}

	if failed {
		os.Exit(1)
	}
}
