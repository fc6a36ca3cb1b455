package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/user/listing-service/internal/delivery/http/handler"
	"github.com/user/listing-service/internal/delivery/http/middleware"
)

func New(h *handler.Handler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Metrics)

	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/api/health", h.HandleHealthCheck)

	r.Route("/api/listings", func(r chi.Router) {
		r.Get("/", h.HandleListRecords)
		r.Post("/", h.HandleCreateRecord)
		r.Get("/{id}", h.HandleGetRecord)
		r.Delete("/{id}", h.HandleDeleteRecord)
	})

	return r
}
