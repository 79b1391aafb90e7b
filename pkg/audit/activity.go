// Package audit records user actions that change stored state, in structured
// form under a dedicated logger namespace.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/supervisormatch/supervisormatch/pkg/auth"
	"github.com/supervisormatch/supervisormatch/pkg/middleware"
)

// EventType categorizes audited actions for filtering.
type EventType string

const (
	// EventSuggestionsRequested is logged when a student replaces their suggestions.
	EventSuggestionsRequested EventType = "suggestions_requested"
	// EventSupervisorContacted is logged when a student marks a supervisor contacted.
	EventSupervisorContacted EventType = "supervisor_contacted"
	// EventModelChanged is logged when a student picks another embedding model.
	EventModelChanged EventType = "model_changed"
	// EventAvailabilityChanged is logged when a supervisor toggles availability.
	EventAvailabilityChanged EventType = "availability_changed"
)

// Event is one audited action.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	EventType EventType `json:"event_type"`
	UserID    string    `json:"user_id,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	ClientIP  string    `json:"client_ip,omitempty"`
	Details   any       `json:"details,omitempty"`
}

// Auditor logs user actions at INFO level.
type Auditor struct {
	logger *zap.Logger
}

// NewAuditor creates an auditor logging under the "audit" namespace.
// A nil logger yields an auditor that drops every event.
func NewAuditor(logger *zap.Logger) *Auditor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Auditor{logger: logger.Named("audit")}
}

// Log records eventType for the user in ctx. The session subject and the
// request id are read from ctx; details must be JSON-serializable.
func (a *Auditor) Log(ctx context.Context, eventType EventType, clientIP string, details any) {
	if a == nil {
		return
	}

	event := Event{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		UserID:    auth.GetUserIDFromContext(ctx),
		RequestID: middleware.GetRequestID(ctx),
		ClientIP:  clientIP,
		Details:   details,
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		a.logger.Warn("Failed to encode audit event", zap.String("event_type", string(eventType)), zap.Error(err))
		return
	}

	a.logger.Info("User action",
		zap.String("event_json", string(eventJSON)),
		zap.String("event_type", string(eventType)),
		zap.String("user_id", event.UserID),
		zap.String("request_id", event.RequestID),
	)
}
