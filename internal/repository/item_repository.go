package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/rewear-service/internal/domain"
)

// ItemFilter captures browse/search parameters.
type ItemFilter struct {
	OwnerID    *string
	Status     *domain.ItemStatus
	Category   *domain.ItemCategory
	Size       *string
	Condition  *domain.ItemCondition
	Featured   *bool
	SearchTerm *string
	Limit      int
	Offset     int
	OldestOnly bool
}

// ItemRepository encapsulates item persistence.
type ItemRepository interface {
	// CreateWithBonus inserts the item and credits the upload bonus to the
	// owner in a single transaction.
	CreateWithBonus(ctx context.Context, item *domain.Item, uploadBonus int) error
	Update(ctx context.Context, item *domain.Item) error
	GetByID(ctx context.Context, id string) (*domain.Item, error)
	// Delete hard-deletes the item unless an active swap references it.
	Delete(ctx context.Context, id string) error
	ListWithFilter(ctx context.Context, filter ItemFilter) ([]domain.Item, error)
	CountWithFilter(ctx context.Context, filter ItemFilter) (int64, error)
	CountByStatus(ctx context.Context, status domain.ItemStatus) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type itemRepository struct {
	pool *pgxpool.Pool
}

// NewItemRepository instantiates repository.
func NewItemRepository(pool *pgxpool.Pool) ItemRepository {
	return &itemRepository{pool: pool}
}

const itemColumns = `id, owner_user_id, title, description, category, clothing_type, size, condition,
               images, tags, status, featured, created_at, updated_at`

func (r *itemRepository) CreateWithBonus(ctx context.Context, item *domain.Item, uploadBonus int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const insertQuery = `
        INSERT INTO items (owner_user_id, title, description, category, clothing_type, size, condition, images, tags, status, featured)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, created_at, updated_at`
	if err := tx.QueryRow(ctx, insertQuery,
		item.OwnerID,
		item.Title,
		item.Description,
		item.Category,
		item.ClothingType,
		item.Size,
		item.Condition,
		item.Images,
		item.Tags,
		item.Status,
		item.Featured,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return err
	}

	if uploadBonus > 0 {
		const bonusQuery = `UPDATE users SET points = points + $1, updated_at = NOW() WHERE id = $2`
		cmd, err := tx.Exec(ctx, bonusQuery, uploadBonus, item.OwnerID)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
	}

	return tx.Commit(ctx)
}

func (r *itemRepository) Update(ctx context.Context, item *domain.Item) error {
	const query = `
        UPDATE items SET title=$1, description=$2, category=$3, clothing_type=$4, size=$5, condition=$6,
            images=$7, tags=$8, status=$9, featured=$10, updated_at=NOW()
        WHERE id=$11`
	cmd, err := r.pool.Exec(ctx, query,
		item.Title,
		item.Description,
		item.Category,
		item.ClothingType,
		item.Size,
		item.Condition,
		item.Images,
		item.Tags,
		item.Status,
		item.Featured,
		item.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *itemRepository) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id=$1`
	var item domain.Item
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&item.ID,
		&item.OwnerID,
		&item.Title,
		&item.Description,
		&item.Category,
		&item.ClothingType,
		&item.Size,
		&item.Condition,
		&item.Images,
		&item.Tags,
		&item.Status,
		&item.Featured,
		&item.CreatedAt,
		&item.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var activeSwaps int64
	const activeQuery = `SELECT COUNT(*) FROM swaps WHERE item_id=$1 AND status IN ('pending','accepted')`
	if err := tx.QueryRow(ctx, activeQuery, id).Scan(&activeSwaps); err != nil {
		return err
	}
	if activeSwaps > 0 {
		return ErrActiveSwapExists
	}

	// Rejected/completed swap rows cascade with the item (ON DELETE CASCADE).
	cmd, err := tx.Exec(ctx, `DELETE FROM items WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return tx.Commit(ctx)
}

func (r *itemRepository) ListWithFilter(ctx context.Context, filter ItemFilter) ([]domain.Item, error) {
	clauses, args := itemFilterClauses(filter)

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	order := "created_at DESC"
	if filter.OldestOnly {
		order = "created_at ASC"
	}

	query := fmt.Sprintf(`SELECT %s FROM items WHERE %s ORDER BY %s LIMIT %d OFFSET %d`,
		itemColumns, strings.Join(clauses, " AND "), order, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows)
}

func (r *itemRepository) CountWithFilter(ctx context.Context, filter ItemFilter) (int64, error) {
	clauses, args := itemFilterClauses(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM items WHERE %s`, strings.Join(clauses, " AND "))
	var count int64
	err := r.pool.QueryRow(ctx, query, args...).Scan(&count)
	return count, err
}

func (r *itemRepository) CountByStatus(ctx context.Context, status domain.ItemStatus) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM items WHERE status=$1`, status).Scan(&count)
	return count, err
}

func (r *itemRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM items`).Scan(&count)
	return count, err
}

func itemFilterClauses(filter ItemFilter) ([]string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		clauses = append(clauses, fmt.Sprintf("owner_user_id=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}
	if filter.Size != nil {
		args = append(args, *filter.Size)
		clauses = append(clauses, fmt.Sprintf("size=$%d", len(args)))
	}
	if filter.Condition != nil {
		args = append(args, *filter.Condition)
		clauses = append(clauses, fmt.Sprintf("condition=$%d", len(args)))
	}
	if filter.Featured != nil {
		args = append(args, *filter.Featured)
		clauses = append(clauses, fmt.Sprintf("featured=$%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(title) LIKE %s OR LOWER(description) LIKE %s)", placeholder, placeholder))
	}
	return clauses, args
}

func scanItems(rows pgx.Rows) ([]domain.Item, error) {
	var result []domain.Item
	for rows.Next() {
		var item domain.Item
		if err := rows.Scan(
			&item.ID,
			&item.OwnerID,
			&item.Title,
			&item.Description,
			&item.Category,
			&item.ClothingType,
			&item.Size,
			&item.Condition,
			&item.Images,
			&item.Tags,
			&item.Status,
			&item.Featured,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}
