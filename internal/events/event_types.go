package events

import (
	"time"

	"github.com/mattaxpro/client-go/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSessionSaved         EventType = "session_saved"
	EventSessionCleared       EventType = "session_cleared"
	EventAuthorizationChanged EventType = "authorization_status_changed"
)

// Event is a notification emitted by the session store or the
// authorization controller.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// SessionSavedPayload payload.
type SessionSavedPayload struct {
	SubjectID string      `json:"subject_id"`
	Role      domain.Role `json:"role"`
}

// SessionClearedPayload payload. Reason is "logout" or "unauthorized".
type SessionClearedPayload struct {
	Reason string `json:"reason"`
}

// AuthorizationChangedPayload payload.
type AuthorizationChangedPayload struct {
	RequestID    string                     `json:"request_id"`
	AccountantID string                     `json:"accountant_id"`
	OldStatus    domain.AuthorizationStatus `json:"old_status"`
	NewStatus    domain.AuthorizationStatus `json:"new_status"`
}
