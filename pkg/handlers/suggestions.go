package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/supervisormatch/supervisormatch/pkg/audit"
	"github.com/supervisormatch/supervisormatch/pkg/auth"
	"github.com/supervisormatch/supervisormatch/pkg/models"
	"github.com/supervisormatch/supervisormatch/pkg/services"
)

// ============================================================================
// Request/Response Types
// ============================================================================

// SubmitSuggestionRequest for POST /api/suggestions/requests
type SubmitSuggestionRequest struct {
	Text        *string            `json:"text,omitempty"`
	Topics      []models.TopicRef  `json:"topics,omitempty"`
	ProjectType models.ProjectType `json:"projectType"`
}

// StoredSuggestionsResponse for POST /api/suggestions/requests
type StoredSuggestionsResponse struct {
	Suggestions []*models.Suggestion `json:"suggestions"`
	Total       int                  `json:"total"`
}

// SuggestionListResponse for GET /api/suggestions
type SuggestionListResponse struct {
	Suggestions []*models.ResolvedSuggestion `json:"suggestions"`
	Total       int                          `json:"total"`
}

// ContactResponse for POST /api/suggestions/{sid}/contact
type ContactResponse struct {
	SupervisorID string `json:"supervisorId"`
	Contacted    bool   `json:"contacted"`
}

// DraftResponse for GET /api/student/draft
type DraftResponse struct {
	Text string `json:"text"`
}

// ============================================================================
// Handler
// ============================================================================

// SuggestionsHandler handles the interest form and the suggestion list.
type SuggestionsHandler struct {
	requestService    services.SuggestionRequestService
	suggestionService services.SuggestionService
	auditor           *audit.Auditor
	logger            *zap.Logger
}

// NewSuggestionsHandler creates a new suggestions handler.
func NewSuggestionsHandler(
	requestService services.SuggestionRequestService,
	suggestionService services.SuggestionService,
	auditor *audit.Auditor,
	logger *zap.Logger,
) *SuggestionsHandler {
	return &SuggestionsHandler{
		requestService:    requestService,
		suggestionService: suggestionService,
		auditor:           auditor,
		logger:            logger,
	}
}

// RegisterRoutes registers the suggestions handler's routes on the given mux.
func (h *SuggestionsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/suggestions/requests", authMiddleware.RequireAuth(h.Submit))
	mux.HandleFunc("GET /api/suggestions", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("POST /api/suggestions/{sid}/contact", authMiddleware.RequireAuth(h.Contact))
	mux.HandleFunc("GET /api/student/draft", authMiddleware.RequireAuth(h.Draft))
}

// Submit handles POST /api/suggestions/requests
func (h *SuggestionsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	studentID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}

	var req SubmitSuggestionRequest
	if !decodeJSONBody(w, r, &req, h.logger) {
		return
	}

	stored, err := h.requestService.Submit(r.Context(), studentID, &services.SubmitRequest{
		Text:        req.Text,
		Topics:      req.Topics,
		ProjectType: req.ProjectType,
	})
	if err != nil {
		writeServiceError(w, h.logger.With(zap.String("student_id", studentID)), "Failed to submit suggestion request", err)
		return
	}

	h.auditor.Log(r.Context(), audit.EventSuggestionsRequested, r.RemoteAddr, map[string]any{
		"project_type": req.ProjectType,
		"stored":       len(stored),
	})

	response := StoredSuggestionsResponse{
		Suggestions: stored,
		Total:       len(stored),
	}
	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// List handles GET /api/suggestions
func (h *SuggestionsHandler) List(w http.ResponseWriter, r *http.Request) {
	studentID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}

	resolved, err := h.suggestionService.List(r.Context(), studentID)
	if err != nil {
		writeServiceError(w, h.logger.With(zap.String("student_id", studentID)), "Failed to list suggestions", err)
		return
	}

	response := SuggestionListResponse{
		Suggestions: resolved,
		Total:       len(resolved),
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Contact handles POST /api/suggestions/{sid}/contact
func (h *SuggestionsHandler) Contact(w http.ResponseWriter, r *http.Request) {
	studentID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}
	supervisorID, ok := ParseSupervisorID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.suggestionService.Contact(r.Context(), studentID, supervisorID); err != nil {
		writeServiceError(w, h.logger.With(
			zap.String("student_id", studentID),
			zap.String("supervisor_id", supervisorID)), "Failed to mark supervisor contacted", err)
		return
	}

	h.auditor.Log(r.Context(), audit.EventSupervisorContacted, r.RemoteAddr, map[string]string{
		"supervisor_id": supervisorID,
	})

	response := ContactResponse{SupervisorID: supervisorID, Contacted: true}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Draft handles GET /api/student/draft
func (h *SuggestionsHandler) Draft(w http.ResponseWriter, r *http.Request) {
	studentID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}

	text, err := h.requestService.Draft(r.Context(), studentID)
	if err != nil {
		writeServiceError(w, h.logger, "Failed to load draft", err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: DraftResponse{Text: text}}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
