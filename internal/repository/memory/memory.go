// Package memory holds in-memory implementations of the repository
// interfaces, used by tests and by local runs without Postgres.
package memory

import (
	"context"
	"sync"

	"github.com/calvin/audit-service/internal/models"
	"github.com/calvin/audit-service/internal/repository"
)

type AuditLogs struct {
	mu   sync.Mutex
	next int64
	logs []models.AuditLog
}

func NewAuditLogs() *AuditLogs { return &AuditLogs{} }

func (s *AuditLogs) Insert(_ context.Context, l models.AuditLog) (models.AuditLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	l.ID = s.next
	s.logs = append(s.logs, l)
	return l, nil
}

func (s *AuditLogs) ListAll(context.Context) ([]models.AuditLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.AuditLog, len(s.logs))
	copy(out, s.logs)
	return out, nil
}

func (s *AuditLogs) ListByEntityTypeIn(_ context.Context, entityTypes []string) ([]models.AuditLog, error) {
	allowed := make(map[string]struct{}, len(entityTypes))
	for _, t := range entityTypes {
		allowed[t] = struct{}{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.AuditLog
	for _, l := range s.logs {
		if _, ok := allowed[l.EntityType]; ok {
			out = append(out, l)
		}
	}
	return out, nil
}

// Len reports the number of stored records.
func (s *AuditLogs) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.logs)
}

type UserACLs struct {
	mu   sync.Mutex
	acls map[string]models.UserACL
}

func NewUserACLs() *UserACLs { return &UserACLs{acls: make(map[string]models.UserACL)} }

// Put provisions a policy, standing in for the external admin process.
func (s *UserACLs) Put(acl models.UserACL) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.acls[acl.UserID] = acl
}

func (s *UserACLs) FindByUserID(_ context.Context, userID string) (models.UserACL, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acl, ok := s.acls[userID]
	if !ok {
		return models.UserACL{}, repository.ErrNotFound
	}
	return acl, nil
}
