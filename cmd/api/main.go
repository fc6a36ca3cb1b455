package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	minioadapter "github.com/user/listing-service/internal/adapter/minio"
	mongoadapter "github.com/user/listing-service/internal/adapter/mongo"
	redisadapter "github.com/user/listing-service/internal/adapter/redis"
	"github.com/user/listing-service/internal/delivery/http/handler"
	"github.com/user/listing-service/internal/delivery/http/router"
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

	ctx := context.Background()

	mongoClient, err := mongodriver.Connect(ctx, options.Client().ApplyURI(cfg.MongoURL))
	if err != nil {
		log.Fatal("could not connect to mongo", zap.Error(err))
	}
	defer mongoClient.Disconnect(ctx)

	redisClient := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	blobs, err := minioadapter.NewBlobRepo(cfg.MinioURL, cfg.MinioLogin, cfg.MinioPassword, cfg.MinioBucket, cfg.MinioUseSSL)
	if err != nil {
		log.Fatal("could not create minio client", zap.Error(err))
	}

	records := mongoadapter.NewRecordRepo(mongoClient, cfg.MongoDatabase, cfg.MongoCollection)
	seen := redisadapter.NewSeenRepo(redisClient)

	manager := usecase.NewRecordManager(records, log)

	apiHandler := handler.NewHandler(manager, map[string]handler.Pinger{
		"mongo": records,
		"redis": seen,
		"minio": blobs,
	}, log)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router.New(apiHandler, log),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("could not start server", zap.Error(err))
		}
	}()
	log.Info("server started", zap.String("port", cfg.ServerPort))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exiting")
}
