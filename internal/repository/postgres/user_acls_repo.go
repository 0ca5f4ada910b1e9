package postgres

import (
	"context"
	"errors"

	"github.com/calvin/audit-service/internal/models"
	"github.com/calvin/audit-service/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type userACLsRepo struct{ pool *pgxpool.Pool }

func (r *userACLsRepo) FindByUserID(ctx context.Context, userID string) (models.UserACL, error) {
	var a models.UserACL
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, is_admin FROM user_acl WHERE user_id=$1`, userID,
	).Scan(&a.ID, &a.UserID, &a.IsAdmin)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.UserACL{}, repository.ErrNotFound
	}
	if err != nil {
		return models.UserACL{}, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT allowed_entity FROM user_acl_allowed_entities WHERE user_acl_id=$1 ORDER BY id`, a.ID)
	if err != nil {
		return models.UserACL{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var entity string
		if err := rows.Scan(&entity); err != nil {
			return models.UserACL{}, err
		}
		a.AllowedEntities = append(a.AllowedEntities, entity)
	}
	return a, rows.Err()
}
