package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvin/audit-service/internal/apperrors"
	"github.com/calvin/audit-service/internal/models"
	"github.com/calvin/audit-service/internal/repository/memory"
)

func newService() (*AuditService, *memory.AuditLogs, *memory.UserACLs) {
	logs := memory.NewAuditLogs()
	acls := memory.NewUserACLs()
	return NewAuditService(logs, acls), logs, acls
}

func seedLogs(t *testing.T, svc *AuditService, entityTypes ...string) {
	t.Helper()
	for i, et := range entityTypes {
		_, err := svc.Ingest(context.Background(), AuditEvent{
			EventID:    "e" + string(rune('1'+i)),
			EventType:  "UPDATE",
			EntityID:   "ent1",
			EntityType: et,
			Action:     "update",
		})
		require.NoError(t, err)
	}
}

func TestListVisibleLogsAdminSeesEverything(t *testing.T) {
	svc, _, acls := newService()
	seedLogs(t, svc, "typeA", "typeB", "typeC")
	// Admin allow-list is irrelevant, even when empty.
	acls.Put(models.UserACL{UserID: "admin", IsAdmin: true})

	logs, err := svc.ListVisibleLogs(context.Background(), "admin")
	require.NoError(t, err)
	assert.Len(t, logs, 3)
}

func TestListVisibleLogsFiltersByAllowList(t *testing.T) {
	svc, _, acls := newService()
	seedLogs(t, svc, "typeA", "typeB", "typeC")
	acls.Put(models.UserACL{UserID: "u1", AllowedEntities: []string{"typeA", "typeB"}})

	logs, err := svc.ListVisibleLogs(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, logs, 2)
	for _, l := range logs {
		assert.Contains(t, []string{"typeA", "typeB"}, l.EntityType)
		assert.NotEqual(t, "typeC", l.EntityType)
	}
}

func TestListVisibleLogsDedupesAllowList(t *testing.T) {
	svc, _, acls := newService()
	seedLogs(t, svc, "typeA", "typeB")
	acls.Put(models.UserACL{UserID: "u1", AllowedEntities: []string{"typeA", "typeA", "typeA"}})

	logs, err := svc.ListVisibleLogs(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "typeA", logs[0].EntityType)
}

func TestListVisibleLogsEmptyAllowList(t *testing.T) {
	svc, _, acls := newService()
	seedLogs(t, svc, "typeA")
	acls.Put(models.UserACL{UserID: "u1"})

	logs, err := svc.ListVisibleLogs(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestListVisibleLogsUnknownUser(t *testing.T) {
	svc, _, _ := newService()

	logs, err := svc.ListVisibleLogs(context.Background(), "ghost")
	assert.Nil(t, logs)
	assert.ErrorIs(t, err, apperrors.ErrPolicyNotFound)
}

func TestIngestRejectsMissingRequiredFields(t *testing.T) {
	valid := AuditEvent{
		EventID:    "e1",
		EventType:  "CREATE",
		EntityID:   "ent1",
		EntityType: "typeA",
		Action:     "create",
	}
	cases := []struct {
		name   string
		mutate func(*AuditEvent)
	}{
		{"eventId", func(ev *AuditEvent) { ev.EventID = "" }},
		{"eventType", func(ev *AuditEvent) { ev.EventType = "" }},
		{"entityId", func(ev *AuditEvent) { ev.EntityID = "" }},
		{"entityType", func(ev *AuditEvent) { ev.EntityType = "" }},
		{"action", func(ev *AuditEvent) { ev.Action = " " }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, logs, _ := newService()
			ev := valid
			tc.mutate(&ev)

			_, err := svc.Ingest(context.Background(), ev)
			var ve *apperrors.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Contains(t, ve.Error(), tc.name)
			assert.Zero(t, logs.Len(), "rejected event must not be written")
		})
	}
}

func TestIngestAssignsUTCTimestamp(t *testing.T) {
	svc, _, _ := newService()

	before := time.Now().UTC()
	l, err := svc.Ingest(context.Background(), AuditEvent{
		EventID:    "e1",
		EventType:  "CREATE",
		EntityID:   "ent1",
		EntityType: "typeA",
		Action:     "create",
	})
	require.NoError(t, err)
	assert.Equal(t, time.UTC, l.Timestamp.Location())
	assert.WithinDuration(t, before, l.Timestamp, 5*time.Second)
}

// Redelivery of the same bus message after a crash creates a second record:
// there is no deduplication on eventId, by contract.
func TestIngestAllowsDuplicateEventIDs(t *testing.T) {
	svc, logs, _ := newService()
	ev := AuditEvent{
		EventID:    "e1",
		EventType:  "CREATE",
		EntityID:   "ent1",
		EntityType: "typeA",
		Action:     "create",
	}

	first, err := svc.Ingest(context.Background(), ev)
	require.NoError(t, err)
	second, err := svc.Ingest(context.Background(), ev)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 2, logs.Len())
}

func TestIngestMessageRoundTrip(t *testing.T) {
	svc, _, acls := newService()
	payload := []byte(`{"eventId":"e1","eventType":"CREATE","entityId":"ent1","entityType":"typeA","action":"create","oldValue":null,"newValue":{}}`)

	l, err := svc.IngestMessage(context.Background(), payload)
	require.NoError(t, err)
	assert.Nil(t, l.OldValue)
	require.NotNil(t, l.NewValue)
	assert.Equal(t, "{}", *l.NewValue)

	acls.Put(models.UserACL{UserID: "u1", AllowedEntities: []string{"typeA"}})
	logs, err := svc.ListVisibleLogs(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Nil(t, logs[0].OldValue)
	assert.Equal(t, "{}", *logs[0].NewValue)
}

func TestIngestMessageIgnoresCallerTimestamp(t *testing.T) {
	svc, _, _ := newService()
	payload := []byte(`{"eventId":"e1","eventType":"CREATE","entityId":"ent1","entityType":"typeA","action":"create","timestamp":"1999-01-01T00:00:00Z"}`)

	l, err := svc.IngestMessage(context.Background(), payload)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), l.Timestamp, 5*time.Second)
}

func TestIngestMessageMalformedWritesNothing(t *testing.T) {
	svc, logs, _ := newService()

	_, err := svc.IngestMessage(context.Background(), []byte(`{"eventId":"e1","eventType":"CREATE","entityId":"ent1","entityType":"typeA"}`))
	var me *apperrors.MalformedEventError
	require.True(t, errors.As(err, &me))
	assert.Zero(t, logs.Len())
}
