package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/rewear-service/internal/domain"
)

// ModerationLogRepository persists the admin audit trail.
type ModerationLogRepository interface {
	Create(ctx context.Context, entry *domain.ModerationLog) error
	ListByItem(ctx context.Context, itemID string, limit, offset int) ([]domain.ModerationLog, error)
}

type moderationLogRepository struct {
	pool *pgxpool.Pool
}

// NewModerationLogRepository instantiates repository.
func NewModerationLogRepository(pool *pgxpool.Pool) ModerationLogRepository {
	return &moderationLogRepository{pool: pool}
}

func (r *moderationLogRepository) Create(ctx context.Context, entry *domain.ModerationLog) error {
	const query = `
        INSERT INTO moderation_logs (item_id, admin_user_id, action, reason)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		entry.ItemID,
		entry.AdminID,
		entry.Action,
		entry.Reason,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *moderationLogRepository) ListByItem(ctx context.Context, itemID string, limit, offset int) ([]domain.ModerationLog, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, item_id, admin_user_id, action, reason, created_at
        FROM moderation_logs WHERE item_id=$1
        ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, itemID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ModerationLog
	for rows.Next() {
		var entry domain.ModerationLog
		if err := rows.Scan(
			&entry.ID,
			&entry.ItemID,
			&entry.AdminID,
			&entry.Action,
			&entry.Reason,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
