package entity

import "time"

// Acciones registradas en request_logs.
const (
	LogActionCreated       = "created"
	LogActionUpdated       = "updated"
	LogActionSubmitted     = "submitted"
	LogActionAssigned      = "assigned"
	LogActionReassigned    = "reassigned"
	LogActionStarted       = "started"
	LogActionInfoRequested = "info_requested"
	LogActionResumed       = "resumed"
	LogActionCompleted     = "completed"
	LogActionCancelled     = "cancelled"
	LogActionCommented     = "commented"
	LogActionDeleted       = "deleted"
)

// RequestLog entrada de auditoría append-only; nunca se actualiza ni se borra.
type RequestLog struct {
	ID        string
	RequestID string
	Action    string
	OldStatus *Status
	NewStatus *Status
	ActorID   string
	Metadata  map[string]any
	CreatedAt time.Time
}
