package services

import (
	"bytes"
	"encoding/json"

	"github.com/calvin/audit-service/internal/apperrors"
)

// ParseEvent turns a serialized event document into an AuditEvent. The five
// required fields must be present as JSON strings; serviceName and userId
// are optional strings; oldValue and newValue may hold any JSON value and
// are kept as their serialized text. A timestamp key in the document is
// ignored, the pipeline assigns its own.
func ParseEvent(payload []byte) (AuditEvent, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(payload, &doc); err != nil {
		return AuditEvent{}, &apperrors.MalformedEventError{Reason: "invalid json: " + err.Error()}
	}

	var ev AuditEvent
	var err error
	if ev.EventID, err = stringField(doc, "eventId", true); err != nil {
		return AuditEvent{}, err
	}
	if ev.EventType, err = stringField(doc, "eventType", true); err != nil {
		return AuditEvent{}, err
	}
	if ev.EntityID, err = stringField(doc, "entityId", true); err != nil {
		return AuditEvent{}, err
	}
	if ev.EntityType, err = stringField(doc, "entityType", true); err != nil {
		return AuditEvent{}, err
	}
	if ev.Action, err = stringField(doc, "action", true); err != nil {
		return AuditEvent{}, err
	}
	if ev.ServiceName, err = stringField(doc, "serviceName", false); err != nil {
		return AuditEvent{}, err
	}
	if ev.UserID, err = stringField(doc, "userId", false); err != nil {
		return AuditEvent{}, err
	}
	ev.OldValue = rawValue(doc, "oldValue")
	ev.NewValue = rawValue(doc, "newValue")
	return ev, nil
}

func stringField(doc map[string]json.RawMessage, key string, required bool) (string, error) {
	raw, ok := doc[key]
	if !ok || string(raw) == "null" {
		if required {
			return "", &apperrors.MalformedEventError{Reason: "missing field " + key}
		}
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", &apperrors.MalformedEventError{Reason: "field " + key + " is not a string"}
	}
	return s, nil
}

// rawValue keeps the serialized form of any JSON value. Absent keys and JSON
// null both collapse to nil rather than the literal string "null".
func rawValue(doc map[string]json.RawMessage, key string) *string {
	raw, ok := doc[key]
	if !ok || string(raw) == "null" {
		return nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		s := string(raw)
		return &s
	}
	s := buf.String()
	return &s
}
