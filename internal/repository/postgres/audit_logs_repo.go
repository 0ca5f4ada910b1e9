package postgres

import (
	"context"

	"github.com/calvin/audit-service/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type auditLogsRepo struct{ pool *pgxpool.Pool }

const auditLogColumns = `id, event_id, event_type, service_name, timestamp, user_id, entity_id, entity_type, old_value, new_value, action`

func (r *auditLogsRepo) Insert(ctx context.Context, l models.AuditLog) (models.AuditLog, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO audit_log(event_id, event_type, service_name, timestamp, user_id, entity_id, entity_type, old_value, new_value, action)
		 VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10) RETURNING id`,
		l.EventID, l.EventType, nullIfEmpty(l.ServiceName), l.Timestamp, nullIfEmpty(l.UserID),
		l.EntityID, l.EntityType, l.OldValue, l.NewValue, l.Action,
	).Scan(&l.ID)
	if err != nil {
		return models.AuditLog{}, err
	}
	return l, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *auditLogsRepo) ListAll(ctx context.Context) ([]models.AuditLog, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+auditLogColumns+` FROM audit_log ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return scanAuditLogs(rows)
}

func (r *auditLogsRepo) ListByEntityTypeIn(ctx context.Context, entityTypes []string) ([]models.AuditLog, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+auditLogColumns+` FROM audit_log WHERE entity_type = ANY($1) ORDER BY id`, entityTypes)
	if err != nil {
		return nil, err
	}
	return scanAuditLogs(rows)
}

func scanAuditLogs(rows pgx.Rows) ([]models.AuditLog, error) {
	defer rows.Close()

	var out []models.AuditLog
	for rows.Next() {
		var l models.AuditLog
		var serviceName, userID *string
		if err := rows.Scan(&l.ID, &l.EventID, &l.EventType, &serviceName, &l.Timestamp, &userID,
			&l.EntityID, &l.EntityType, &l.OldValue, &l.NewValue, &l.Action); err != nil {
			return nil, err
		}
		if serviceName != nil {
			l.ServiceName = *serviceName
		}
		if userID != nil {
			l.UserID = *userID
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
