package postgres

import (
	repo "github.com/calvin/audit-service/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repositories struct {
	AuditLogs repo.AuditLogs
	UserACLs  repo.UserACLs
}

func NewRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		AuditLogs: &auditLogsRepo{pool},
		UserACLs:  &userACLsRepo{pool},
	}
}
