package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/user/listing-service/internal/delivery/http/response"
	"github.com/user/listing-service/internal/entity"
	"github.com/user/listing-service/internal/repository"
	"github.com/user/listing-service/internal/usecase"
)

// Pinger is anything whose connectivity the health check can verify.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	records usecase.RecordManager
	health  map[string]Pinger
	logger  *zap.Logger
}

func NewHandler(records usecase.RecordManager, health map[string]Pinger, logger *zap.Logger) *Handler {
	return &Handler{records: records, health: health, logger: logger}
}

func (h *Handler) HandleListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.records.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list records", zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, records)
}

func (h *Handler) HandleGetRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	record, err := h.records.Get(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		h.writeJSONError(w, "Not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to get record", zap.String("id", id), zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, record)
}

func (h *Handler) HandleCreateRecord(w http.ResponseWriter, r *http.Request) {
	var record entity.Record
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	id, err := h.records.Create(r.Context(), &record)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidRecord) {
			h.writeJSONError(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		h.logger.Error("failed to create record", zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusCreated, response.CreateListingResponse{ID: id})
}

func (h *Handler) HandleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := h.records.Delete(r.Context(), id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		h.writeJSONError(w, "Not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrUnexpectedDeleteCount):
		h.writeJSONError(w, "Error deleting "+id, http.StatusInternalServerError)
	case err != nil:
		h.logger.Error("failed to delete record", zap.String("id", id), zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
	default:
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
	}
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := make(map[string]string, len(h.health))
	healthy := true
	for name, pinger := range h.health {
		if err := pinger.Ping(ctx); err != nil {
			h.logger.Error("health check failed", zap.String("dependency", name), zap.Error(err))
			status[name] = "unhealthy"
			healthy = false
			continue
		}
		status[name] = "healthy"
	}

	if !healthy {
		h.writeJSON(w, http.StatusServiceUnavailable, status)
		return
	}
	h.writeJSON(w, http.StatusOK, status)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, response.ErrorResponse{Error: message})
}
