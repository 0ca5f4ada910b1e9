package models

import "time"

// AuditLog is one immutable stored audit event. Rows are append-only;
// nothing in this service updates or deletes them.
type AuditLog struct {
	ID          int64     `json:"id"`
	EventID     string    `json:"eventId"`
	EventType   string    `json:"eventType"`
	ServiceName string    `json:"serviceName,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	UserID      string    `json:"userId,omitempty"`
	EntityID    string    `json:"entityId"`
	EntityType  string    `json:"entityType"`
	OldValue    *string   `json:"oldValue"`
	NewValue    *string   `json:"newValue"`
	Action      string    `json:"action"`
}
