package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/rewear-service/internal/domain"
)

// SwapDirection selects which side of a swap the user is on when listing.
type SwapDirection string

const (
	SwapDirectionSent     SwapDirection = "sent"
	SwapDirectionReceived SwapDirection = "received"
	SwapDirectionAll      SwapDirection = "all"
)

// SwapFilter captures listing parameters for a user's swaps.
type SwapFilter struct {
	UserID    string
	Direction SwapDirection
	Limit     int
	Offset    int
}

// SwapRepository encapsulates swap persistence. Multi-entity state
// transitions run as single transactions so a half-applied accept or
// complete can never be observed.
type SwapRepository interface {
	// Create inserts a pending swap. Returns ErrActiveSwapExists when a
	// pending/accepted swap already references the item.
	Create(ctx context.Context, swap *domain.Swap) error
	GetByID(ctx context.Context, id string) (*domain.Swap, error)
	GetByIDWithDetails(ctx context.Context, id string) (*domain.Swap, error)
	GetActiveByItem(ctx context.Context, itemID string) (*domain.Swap, error)
	// Accept atomically marks the pending swap accepted, marks its item
	// swapped and, for redeem swaps, debits points_used from the requester
	// and credits ownerBonus to the owner. Returns pgx.ErrNoRows when no
	// pending swap with that id belongs to ownerID, ErrInsufficientPoints
	// when the requester balance no longer covers the debit.
	Accept(ctx context.Context, swapID, ownerID string, ownerBonus int) (*domain.Swap, error)
	// Reject marks the pending swap rejected. No item or ledger effects.
	Reject(ctx context.Context, swapID, ownerID string) (*domain.Swap, error)
	// Complete atomically marks the accepted swap completed and credits
	// completionBonus to both requester and owner. The caller must be one of
	// the two parties.
	Complete(ctx context.Context, swapID, callerID string, completionBonus int) (*domain.Swap, error)
	ListByUser(ctx context.Context, filter SwapFilter) ([]domain.Swap, error)
	CountByUser(ctx context.Context, filter SwapFilter) (int64, error)
	CountByStatus(ctx context.Context, status domain.SwapStatus) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type swapRepository struct {
	pool *pgxpool.Pool
}

// NewSwapRepository instantiates repository.
func NewSwapRepository(pool *pgxpool.Pool) SwapRepository {
	return &swapRepository{pool: pool}
}

const swapColumns = `id, item_id, requester_user_id, owner_user_id, swap_type, status, message, points_used, created_at, updated_at`

func (r *swapRepository) Create(ctx context.Context, swap *domain.Swap) error {
	const query = `
        INSERT INTO swaps (item_id, requester_user_id, owner_user_id, swap_type, status, message, points_used)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		swap.ItemID,
		swap.RequesterID,
		swap.OwnerID,
		swap.Type,
		swap.Status,
		swap.Message,
		swap.PointsUsed,
	).Scan(&swap.ID, &swap.CreatedAt, &swap.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrActiveSwapExists
	}
	return err
}

func (r *swapRepository) GetByID(ctx context.Context, id string) (*domain.Swap, error) {
	query := `SELECT ` + swapColumns + ` FROM swaps WHERE id=$1`
	var swap domain.Swap
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&swap.ID,
		&swap.ItemID,
		&swap.RequesterID,
		&swap.OwnerID,
		&swap.Type,
		&swap.Status,
		&swap.Message,
		&swap.PointsUsed,
		&swap.CreatedAt,
		&swap.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &swap, nil
}

const swapDetailQuery = `
        SELECT s.id, s.item_id, s.requester_user_id, s.owner_user_id, s.swap_type, s.status,
               s.message, s.points_used, s.created_at, s.updated_at,
               i.title, i.images, i.status,
               req.name, own.name
        FROM swaps s
        JOIN items i ON i.id = s.item_id
        JOIN users req ON req.id = s.requester_user_id
        JOIN users own ON own.id = s.owner_user_id`

func (r *swapRepository) GetByIDWithDetails(ctx context.Context, id string) (*domain.Swap, error) {
	rows, err := r.pool.Query(ctx, swapDetailQuery+` WHERE s.id=$1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	swaps, err := scanSwapDetails(rows)
	if err != nil {
		return nil, err
	}
	if len(swaps) == 0 {
		return nil, pgx.ErrNoRows
	}
	return &swaps[0], nil
}

func (r *swapRepository) GetActiveByItem(ctx context.Context, itemID string) (*domain.Swap, error) {
	query := `SELECT ` + swapColumns + ` FROM swaps WHERE item_id=$1 AND status IN ('pending','accepted')`
	var swap domain.Swap
	if err := r.pool.QueryRow(ctx, query, itemID).Scan(
		&swap.ID,
		&swap.ItemID,
		&swap.RequesterID,
		&swap.OwnerID,
		&swap.Type,
		&swap.Status,
		&swap.Message,
		&swap.PointsUsed,
		&swap.CreatedAt,
		&swap.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &swap, nil
}

func (r *swapRepository) Accept(ctx context.Context, swapID, ownerID string, ownerBonus int) (*domain.Swap, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	swap, err := lockSwap(ctx, tx,
		`SELECT `+swapColumns+` FROM swaps WHERE id=$1 AND owner_user_id=$2 AND status='pending' FOR UPDATE`,
		swapID, ownerID)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE swaps SET status='accepted', updated_at=NOW() WHERE id=$1`, swap.ID); err != nil {
		return nil, err
	}

	if swap.Type == domain.SwapTypeRedeem {
		cmd, err := tx.Exec(ctx,
			`UPDATE users SET points = points - $1, updated_at = NOW() WHERE id = $2 AND points >= $1`,
			swap.PointsUsed, swap.RequesterID)
		if err != nil {
			return nil, err
		}
		if cmd.RowsAffected() == 0 {
			return nil, ErrInsufficientPoints
		}
		if ownerBonus > 0 {
			if _, err := tx.Exec(ctx,
				`UPDATE users SET points = points + $1, updated_at = NOW() WHERE id = $2`,
				ownerBonus, swap.OwnerID); err != nil {
				return nil, err
			}
		}
	}

	if _, err := tx.Exec(ctx,
		`UPDATE items SET status='swapped', updated_at=NOW() WHERE id=$1`, swap.ItemID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	swap.Status = domain.SwapStatusAccepted
	return swap, nil
}

func (r *swapRepository) Reject(ctx context.Context, swapID, ownerID string) (*domain.Swap, error) {
	const query = `
        UPDATE swaps SET status='rejected', updated_at=NOW()
        WHERE id=$1 AND owner_user_id=$2 AND status='pending'`
	cmd, err := r.pool.Exec(ctx, query, swapID, ownerID)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, pgx.ErrNoRows
	}
	return r.GetByID(ctx, swapID)
}

func (r *swapRepository) Complete(ctx context.Context, swapID, callerID string, completionBonus int) (*domain.Swap, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	swap, err := lockSwap(ctx, tx,
		`SELECT `+swapColumns+` FROM swaps
         WHERE id=$1 AND status='accepted' AND (requester_user_id=$2 OR owner_user_id=$2) FOR UPDATE`,
		swapID, callerID)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE swaps SET status='completed', updated_at=NOW() WHERE id=$1`, swap.ID); err != nil {
		return nil, err
	}

	if completionBonus > 0 {
		if _, err := tx.Exec(ctx,
			`UPDATE users SET points = points + $1, updated_at = NOW() WHERE id = ANY($2)`,
			completionBonus, []string{swap.RequesterID, swap.OwnerID}); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	swap.Status = domain.SwapStatusCompleted
	return swap, nil
}

func (r *swapRepository) ListByUser(ctx context.Context, filter SwapFilter) ([]domain.Swap, error) {
	clause, args := swapFilterClause(filter)

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY s.created_at DESC LIMIT %d OFFSET %d`,
		swapDetailQuery, clause, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSwapDetails(rows)
}

func (r *swapRepository) CountByUser(ctx context.Context, filter SwapFilter) (int64, error) {
	clause, args := swapFilterClause(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM swaps s WHERE %s`, clause)
	var count int64
	err := r.pool.QueryRow(ctx, query, args...).Scan(&count)
	return count, err
}

func (r *swapRepository) CountByStatus(ctx context.Context, status domain.SwapStatus) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM swaps WHERE status=$1`, status).Scan(&count)
	return count, err
}

func (r *swapRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM swaps`).Scan(&count)
	return count, err
}

func swapFilterClause(filter SwapFilter) (string, []any) {
	args := []any{filter.UserID}
	switch filter.Direction {
	case SwapDirectionSent:
		return "s.requester_user_id=$1", args
	case SwapDirectionReceived:
		return "s.owner_user_id=$1", args
	default:
		return "(s.requester_user_id=$1 OR s.owner_user_id=$1)", args
	}
}

func lockSwap(ctx context.Context, tx pgx.Tx, query string, args ...any) (*domain.Swap, error) {
	var swap domain.Swap
	if err := tx.QueryRow(ctx, query, args...).Scan(
		&swap.ID,
		&swap.ItemID,
		&swap.RequesterID,
		&swap.OwnerID,
		&swap.Type,
		&swap.Status,
		&swap.Message,
		&swap.PointsUsed,
		&swap.CreatedAt,
		&swap.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &swap, nil
}

func scanSwapDetails(rows pgx.Rows) ([]domain.Swap, error) {
	var result []domain.Swap
	for rows.Next() {
		var (
			swap          domain.Swap
			itemTitle     string
			itemImages    []string
			itemStatus    domain.ItemStatus
			requesterName string
			ownerName     string
		)
		if err := rows.Scan(
			&swap.ID,
			&swap.ItemID,
			&swap.RequesterID,
			&swap.OwnerID,
			&swap.Type,
			&swap.Status,
			&swap.Message,
			&swap.PointsUsed,
			&swap.CreatedAt,
			&swap.UpdatedAt,
			&itemTitle,
			&itemImages,
			&itemStatus,
			&requesterName,
			&ownerName,
		); err != nil {
			return nil, err
		}
		swap.Item = &domain.ItemSummary{ID: swap.ItemID, Title: itemTitle, Images: itemImages, Status: itemStatus}
		swap.Requester = &domain.UserSummary{ID: swap.RequesterID, Name: requesterName}
		swap.Owner = &domain.UserSummary{ID: swap.OwnerID, Name: ownerName}
		result = append(result, swap)
	}
	return result, rows.Err()
}
