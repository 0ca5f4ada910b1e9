package repository

import (
	"context"
	"errors"

	"github.com/calvin/audit-service/internal/models"
)

// ErrNotFound is returned by lookups when no row matches.
var ErrNotFound = errors.New("not found")

// AuditLogs is the append-only audit record store. Inserts are single-row
// and atomic; concurrent callers never observe partial writes.
type AuditLogs interface {
	Insert(ctx context.Context, l models.AuditLog) (models.AuditLog, error)
	ListAll(ctx context.Context) ([]models.AuditLog, error)
	ListByEntityTypeIn(ctx context.Context, entityTypes []string) ([]models.AuditLog, error)
}

// UserACLs reads per-user access policies. Provisioning happens out of band.
type UserACLs interface {
	FindByUserID(ctx context.Context, userID string) (models.UserACL, error)
}
