package services

import (
	"context"
	"errors"
	"time"

	"github.com/calvin/audit-service/internal/apperrors"
	"github.com/calvin/audit-service/internal/api/validate"
	"github.com/calvin/audit-service/internal/models"
	repo "github.com/calvin/audit-service/internal/repository"
)

// AuditEvent is the raw input to the ingestion pipeline. Timestamps are
// deliberately absent: the pipeline assigns them at write time.
type AuditEvent struct {
	EventID     string
	EventType   string
	ServiceName string
	UserID      string
	EntityID    string
	EntityType  string
	OldValue    *string
	NewValue    *string
	Action      string
}

type AuditService struct {
	logs repo.AuditLogs
	acls repo.UserACLs
}

func NewAuditService(logs repo.AuditLogs, acls repo.UserACLs) *AuditService {
	return &AuditService{logs: logs, acls: acls}
}

// ListVisibleLogs returns the audit logs the given user may see. Admins get
// a full scan; everyone else is restricted to the entity types on their
// allow-list. Results come back in store order and callers must not rely
// on it being stable.
func (s *AuditService) ListVisibleLogs(ctx context.Context, userID string) ([]models.AuditLog, error) {
	acl, err := s.acls.FindByUserID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, apperrors.ErrPolicyNotFound
	}
	if err != nil {
		return nil, err
	}

	if acl.IsAdmin {
		return s.logs.ListAll(ctx)
	}

	// The allow-list tolerates duplicates in storage; collapse to a set.
	seen := make(map[string]struct{}, len(acl.AllowedEntities))
	entityTypes := make([]string, 0, len(acl.AllowedEntities))
	for _, e := range acl.AllowedEntities {
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		entityTypes = append(entityTypes, e)
	}
	if len(entityTypes) == 0 {
		return []models.AuditLog{}, nil
	}
	return s.logs.ListByEntityTypeIn(ctx, entityTypes)
}

// Ingest validates an audit event and persists it. Validation runs before
// any store call: a rejected event writes nothing. The stored timestamp is
// always assigned here, never taken from the caller.
func (s *AuditService) Ingest(ctx context.Context, ev AuditEvent) (models.AuditLog, error) {
	var errs validate.Errs
	for _, f := range []struct{ name, value string }{
		{"eventId", ev.EventID},
		{"eventType", ev.EventType},
		{"entityId", ev.EntityID},
		{"entityType", ev.EntityType},
		{"action", ev.Action},
	} {
		if e := validate.Required(f.name, f.value); e != nil {
			errs = append(errs, *e)
		}
	}
	if len(errs) > 0 {
		return models.AuditLog{}, &apperrors.ValidationError{Fields: errs}
	}

	return s.logs.Insert(ctx, models.AuditLog{
		EventID:     ev.EventID,
		EventType:   ev.EventType,
		ServiceName: ev.ServiceName,
		Timestamp:   time.Now().UTC(),
		UserID:      ev.UserID,
		EntityID:    ev.EntityID,
		EntityType:  ev.EntityType,
		OldValue:    ev.OldValue,
		NewValue:    ev.NewValue,
		Action:      ev.Action,
	})
}

// IngestMessage parses a serialized event document from the message channel
// and runs it through the same pipeline as direct calls.
func (s *AuditService) IngestMessage(ctx context.Context, payload []byte) (models.AuditLog, error) {
	ev, err := ParseEvent(payload)
	if err != nil {
		return models.AuditLog{}, err
	}
	return s.Ingest(ctx, ev)
}
