package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/supervisormatch/supervisormatch/pkg/audit"
	"github.com/supervisormatch/supervisormatch/pkg/auth"
	"github.com/supervisormatch/supervisormatch/pkg/services"
)

// ModelSettings for GET|PUT /api/settings/model
type ModelSettings struct {
	Model string `json:"model"`
}

// AvailabilitySettings for GET|PUT /api/settings/availability
type AvailabilitySettings struct {
	Available *bool `json:"available"`
}

// SettingsHandler handles the student and supervisor settings page.
type SettingsHandler struct {
	settingsService services.SettingsService
	auditor         *audit.Auditor
	logger          *zap.Logger
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(settingsService services.SettingsService, auditor *audit.Auditor, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		auditor:         auditor,
		logger:          logger,
	}
}

// RegisterRoutes registers the settings handler's routes on the given mux.
func (h *SettingsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/settings/model", authMiddleware.RequireAuth(h.GetModel))
	mux.HandleFunc("PUT /api/settings/model", authMiddleware.RequireAuth(h.SetModel))
	mux.HandleFunc("GET /api/settings/availability", authMiddleware.RequireAuth(h.GetAvailability))
	mux.HandleFunc("PUT /api/settings/availability", authMiddleware.RequireAuth(h.SetAvailability))
}

// GetModel handles GET /api/settings/model
func (h *SettingsHandler) GetModel(w http.ResponseWriter, r *http.Request) {
	studentID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}

	model, err := h.settingsService.GetModel(r.Context(), studentID)
	if err != nil {
		writeServiceError(w, h.logger, "Failed to get model", err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: ModelSettings{Model: model}}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// SetModel handles PUT /api/settings/model
func (h *SettingsHandler) SetModel(w http.ResponseWriter, r *http.Request) {
	studentID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}

	var req ModelSettings
	if !decodeJSONBody(w, r, &req, h.logger) {
		return
	}

	if err := h.settingsService.SetModel(r.Context(), studentID, req.Model); err != nil {
		writeServiceError(w, h.logger, "Failed to set model", err)
		return
	}
	h.auditor.Log(r.Context(), audit.EventModelChanged, r.RemoteAddr, req)

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: req}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// GetAvailability handles GET /api/settings/availability
// Keyed by the session email; users that are not supervisors read as unavailable.
func (h *SettingsHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	available, err := h.settingsService.GetAvailability(r.Context(), auth.GetEmailFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, h.logger, "Failed to get availability", err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: AvailabilitySettings{Available: &available}}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// SetAvailability handles PUT /api/settings/availability
func (h *SettingsHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	var req AvailabilitySettings
	if !decodeJSONBody(w, r, &req, h.logger) {
		return
	}
	if req.Available == nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "available is required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	email := auth.GetEmailFromContext(r.Context())
	if err := h.settingsService.SetAvailability(r.Context(), email, *req.Available); err != nil {
		writeServiceError(w, h.logger, "Failed to set availability", err)
		return
	}
	h.auditor.Log(r.Context(), audit.EventAvailabilityChanged, r.RemoteAddr, map[string]bool{
		"available": *req.Available,
	})

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: req}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
