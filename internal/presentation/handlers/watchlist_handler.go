package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/foliowatch/foliowatch/internal/application/services"
	"github.com/foliowatch/foliowatch/internal/domain/entities"
)

// WatchlistHandler handles HTTP requests for watchlists
type WatchlistHandler struct {
	service *services.WatchlistService
	logger  *zap.Logger
}

// NewWatchlistHandler creates a new watchlist handler
func NewWatchlistHandler(service *services.WatchlistService, logger *zap.Logger) *WatchlistHandler {
	return &WatchlistHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the watchlist routes
func (h *WatchlistHandler) RegisterRoutes(r chi.Router) {
	r.Get("/watchlists", h.List)
	r.Post("/watchlists", h.Create)
	r.Get("/watchlists/{id}", h.GetView)
	r.Put("/watchlists/{id}", h.Update)
	r.Delete("/watchlists/{id}", h.Delete)
}

// List handles GET /api/v1/watchlists
func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	response, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list watchlists", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "Failed to list watchlists")
		return
	}

	h.respondJSON(w, http.StatusOK, response)
}

// GetView handles GET /api/v1/watchlists/{id}
func (h *WatchlistHandler) GetView(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.respondError(w, http.StatusBadRequest, "Invalid watchlist id")
		return
	}

	response, err := h.service.GetView(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get watchlist view", zap.Error(err), zap.Int64("id", id))
		h.respondError(w, http.StatusInternalServerError, "Failed to get watchlist")
		return
	}

	if response == nil {
		h.respondError(w, http.StatusNotFound, "watchlist not found")
		return
	}

	h.respondJSON(w, http.StatusOK, response)
}

// Create handles POST /api/v1/watchlists
func (h *WatchlistHandler) Create(w http.ResponseWriter, r *http.Request) {
	var watchlist entities.Watchlist
	if err := json.NewDecoder(r.Body).Decode(&watchlist); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if watchlist.Name == "" {
		h.respondError(w, http.StatusBadRequest, "Name is required")
		return
	}

	if err := h.service.Create(r.Context(), &watchlist); err != nil {
		h.logger.Error("Failed to create watchlist", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "Failed to create watchlist")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{"data": watchlist})
}

// Update handles PUT /api/v1/watchlists/{id}
func (h *WatchlistHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.respondError(w, http.StatusBadRequest, "Invalid watchlist id")
		return
	}

	var watchlist entities.Watchlist
	if err := json.NewDecoder(r.Body).Decode(&watchlist); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	watchlist.ID = id

	if err := h.service.Update(r.Context(), &watchlist); err != nil {
		h.logger.Error("Failed to update watchlist", zap.Error(err), zap.Int64("id", id))
		h.respondError(w, http.StatusInternalServerError, "Failed to update watchlist")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{"data": watchlist})
}

// Delete handles DELETE /api/v1/watchlists/{id}
func (h *WatchlistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.respondError(w, http.StatusBadRequest, "Invalid watchlist id")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("Failed to delete watchlist", zap.Error(err), zap.Int64("id", id))
		h.respondError(w, http.StatusInternalServerError, "Failed to delete watchlist")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *WatchlistHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (h *WatchlistHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
