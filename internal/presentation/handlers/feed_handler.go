package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/foliowatch/foliowatch/internal/application/services"
	"github.com/foliowatch/foliowatch/internal/domain/entities"
)

// FeedHandler handles HTTP requests for the display feed queue and
// its rotation state.
type FeedHandler struct {
	service   *services.FeedService
	scheduler *services.FeedScheduler
	logger    *zap.Logger
}

// NewFeedHandler creates a new feed handler
func NewFeedHandler(service *services.FeedService, scheduler *services.FeedScheduler, logger *zap.Logger) *FeedHandler {
	return &FeedHandler{
		service:   service,
		scheduler: scheduler,
		logger:    logger,
	}
}

// RegisterRoutes registers the feed routes
func (h *FeedHandler) RegisterRoutes(r chi.Router) {
	r.Get("/feed", h.List)
	r.Post("/feed", h.Add)
	r.Delete("/feed/{id}", h.Remove)
	r.Post("/feed/pause", h.Pause)
	r.Post("/feed/resume", h.Resume)
}

// List handles GET /api/v1/feed
func (h *FeedHandler) List(w http.ResponseWriter, r *http.Request) {
	response, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list feed items", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "Failed to list feed")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"data":   response.Data,
		"paused": h.scheduler.IsPaused(),
	})
}

// Add handles POST /api/v1/feed; ?urgent=true queues in front
func (h *FeedHandler) Add(w http.ResponseWriter, r *http.Request) {
	var item entities.FeedItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	urgent := r.URL.Query().Get("urgent") == "true"

	if err := h.service.Add(r.Context(), &item, urgent); err != nil {
		if errors.Is(err, services.ErrInvalidFeedItem) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("Failed to add feed item", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "Failed to add feed item")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{"data": item})
}

// Remove handles DELETE /api/v1/feed/{id}
func (h *FeedHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.respondError(w, http.StatusBadRequest, "Invalid feed item id")
		return
	}

	if err := h.service.Remove(r.Context(), id); err != nil {
		h.logger.Error("Failed to remove feed item", zap.Error(err), zap.Int64("id", id))
		h.respondError(w, http.StatusInternalServerError, "Failed to remove feed item")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Pause handles POST /api/v1/feed/pause
func (h *FeedHandler) Pause(w http.ResponseWriter, r *http.Request) {
	h.scheduler.Pause()
	h.respondJSON(w, http.StatusOK, map[string]bool{"paused": true})
}

// Resume handles POST /api/v1/feed/resume
func (h *FeedHandler) Resume(w http.ResponseWriter, r *http.Request) {
	h.scheduler.Resume()
	h.respondJSON(w, http.StatusOK, map[string]bool{"paused": false})
}

func (h *FeedHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (h *FeedHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
