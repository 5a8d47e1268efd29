package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/foliowatch/foliowatch/internal/application/services"
	"github.com/foliowatch/foliowatch/internal/infrastructure/gateway"
)

// LogoHandler handles HTTP requests for token logos
type LogoHandler struct {
	service *services.LogoService
	logger  *zap.Logger
}

// NewLogoHandler creates a new logo handler
func NewLogoHandler(service *services.LogoService, logger *zap.Logger) *LogoHandler {
	return &LogoHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the logo routes
func (h *LogoHandler) RegisterRoutes(r chi.Router) {
	r.Get("/logos/{unit}", h.GetLogo)
}

// GetLogo handles GET /api/v1/logos/{unit}
func (h *LogoHandler) GetLogo(w http.ResponseWriter, r *http.Request) {
	unit := chi.URLParam(r, "unit")
	if unit == "" {
		h.respondError(w, http.StatusBadRequest, "Token unit is required")
		return
	}

	meta, err := h.service.GetLogo(r.Context(), unit)
	if err != nil {
		var gwErr *gateway.Error
		if errors.As(err, &gwErr) {
			switch {
			case gwErr.Kind == gateway.KindNoCredential:
				h.respondError(w, http.StatusServiceUnavailable, "Logo provider not configured")
				return
			case gwErr.Kind == gateway.KindHTTPError && gwErr.StatusCode == http.StatusNotFound:
				h.respondError(w, http.StatusNotFound, "Logo not found")
				return
			}
		}
		h.logger.Error("Failed to fetch logo", zap.String("unit", unit), zap.Error(err))
		h.respondError(w, http.StatusBadGateway, "Failed to fetch logo")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{"data": meta})
}

func (h *LogoHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (h *LogoHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
