package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/supervisormatch/supervisormatch/pkg/auth"
	"github.com/supervisormatch/supervisormatch/pkg/models"
	"github.com/supervisormatch/supervisormatch/pkg/services"
)

// TopicListResponse for GET /api/topics
type TopicListResponse struct {
	Topics []*models.Topic `json:"topics"`
	Total  int             `json:"total"`
}

// TopicsHandler serves the topic picker.
type TopicsHandler struct {
	topicService services.TopicService
	logger       *zap.Logger
}

// NewTopicsHandler creates a new topics handler.
func NewTopicsHandler(topicService services.TopicService, logger *zap.Logger) *TopicsHandler {
	return &TopicsHandler{
		topicService: topicService,
		logger:       logger,
	}
}

// RegisterRoutes registers the topics handler's routes on the given mux.
func (h *TopicsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/topics", authMiddleware.RequireAuth(h.List))
}

// List handles GET /api/topics
func (h *TopicsHandler) List(w http.ResponseWriter, r *http.Request) {
	topics, err := h.topicService.List(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, "Failed to list topics", err)
		return
	}

	response := TopicListResponse{
		Topics: topics,
		Total:  len(topics),
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
