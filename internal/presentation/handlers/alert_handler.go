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

// AlertHandler handles HTTP requests for alert rules
type AlertHandler struct {
	service *services.AlertService
	logger  *zap.Logger
}

// NewAlertHandler creates a new alert handler
func NewAlertHandler(service *services.AlertService, logger *zap.Logger) *AlertHandler {
	return &AlertHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the alert routes
func (h *AlertHandler) RegisterRoutes(r chi.Router) {
	r.Get("/alerts", h.List)
	r.Post("/alerts", h.Create)
	r.Put("/alerts/{id}", h.Update)
	r.Delete("/alerts/{id}", h.Delete)
}

// List handles GET /api/v1/alerts with an optional subject filter
func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		response *services.AlertListResponse
		err      error
	)
	if subject := r.URL.Query().Get("subject"); subject != "" {
		response, err = h.service.ListBySubject(ctx, subject)
	} else {
		response, err = h.service.ListEnabled(ctx)
	}
	if err != nil {
		h.logger.Error("Failed to list alert rules", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "Failed to list alerts")
		return
	}

	h.respondJSON(w, http.StatusOK, response)
}

// Create handles POST /api/v1/alerts
func (h *AlertHandler) Create(w http.ResponseWriter, r *http.Request) {
	var rule entities.AlertRule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	rule.Enabled = true

	if err := h.service.Create(r.Context(), &rule); err != nil {
		if errors.Is(err, services.ErrInvalidRule) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("Failed to create alert rule", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "Failed to create alert")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{"data": rule})
}

// Update handles PUT /api/v1/alerts/{id}
func (h *AlertHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.respondError(w, http.StatusBadRequest, "Invalid alert id")
		return
	}

	var rule entities.AlertRule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	rule.ID = id

	if err := h.service.Update(r.Context(), &rule); err != nil {
		if errors.Is(err, services.ErrInvalidRule) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("Failed to update alert rule", zap.Error(err), zap.Int64("id", id))
		h.respondError(w, http.StatusInternalServerError, "Failed to update alert")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{"data": rule})
}

// Delete handles DELETE /api/v1/alerts/{id}
func (h *AlertHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.respondError(w, http.StatusBadRequest, "Invalid alert id")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("Failed to delete alert rule", zap.Error(err), zap.Int64("id", id))
		h.respondError(w, http.StatusInternalServerError, "Failed to delete alert")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AlertHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (h *AlertHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
