package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/rewear-service/internal/config"
	"github.com/spec-kit/rewear-service/internal/domain"
	"github.com/spec-kit/rewear-service/internal/events"
	"github.com/spec-kit/rewear-service/internal/repository"
	apperrors "github.com/spec-kit/rewear-service/pkg/util"
)

const statsCacheKey = "admin:platform_stats"

// AdminService implements the moderation gate and platform administration.
type AdminService struct {
	items      repository.ItemRepository
	users      repository.UserRepository
	swaps      repository.SwapRepository
	modLogs    repository.ModerationLogRepository
	dispatcher events.Dispatcher
	cache      *redis.Client
	cacheTTL   time.Duration
}

// AdminDependencies bundles repositories for the admin service.
type AdminDependencies struct {
	ItemRepo   repository.ItemRepository
	UserRepo   repository.UserRepository
	SwapRepo   repository.SwapRepository
	ModLogRepo repository.ModerationLogRepository
	Dispatcher events.Dispatcher
	Cache      *redis.Client
}

// PlatformStats aggregates marketplace totals for the admin dashboard.
type PlatformStats struct {
	TotalUsers     int64 `json:"total_users"`
	TotalItems     int64 `json:"total_items"`
	PendingItems   int64 `json:"pending_items"`
	ApprovedItems  int64 `json:"approved_items"`
	TotalSwaps     int64 `json:"total_swaps"`
	CompletedSwaps int64 `json:"completed_swaps"`
}

// NewAdminService constructs the service.
func NewAdminService(points config.PointsConfig, deps AdminDependencies) *AdminService {
	return &AdminService{
		items:      deps.ItemRepo,
		users:      deps.UserRepo,
		swaps:      deps.SwapRepo,
		modLogs:    deps.ModLogRepo,
		dispatcher: deps.Dispatcher,
		cache:      deps.Cache,
		cacheTTL:   points.StatsCacheTTL(),
	}
}

// ListPendingItems returns the moderation queue, oldest first.
func (s *AdminService) ListPendingItems(ctx context.Context, limit, offset int) ([]domain.Item, int64, error) {
	status := domain.ItemStatusPending
	filter := repository.ItemFilter{
		Status:     &status,
		Limit:      limit,
		Offset:     offset,
		OldestOnly: true,
	}
	items, err := s.items.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.items.CountWithFilter(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ModerateItem approves or rejects a pending item.
func (s *AdminService) ModerateItem(ctx context.Context, adminID, itemID string, decision domain.ItemStatus, reason string) (*domain.Item, error) {
	if decision != domain.ItemStatusApproved && decision != domain.ItemStatusRejected {
		return nil, apperrors.NewValidationError(`status must be "approved" or "rejected"`, nil)
	}

	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("item", nil)
		}
		return nil, err
	}
	if item.Status != domain.ItemStatusPending {
		return nil, apperrors.NewInvalidState("item has already been moderated", nil)
	}

	item.Status = decision
	if err := s.items.Update(ctx, item); err != nil {
		return nil, err
	}

	action := domain.ModerationActionApproved
	if decision == domain.ItemStatusRejected {
		action = domain.ModerationActionRejected
	}
	s.recordModeration(ctx, item.ID, adminID, action, reason)

	s.publishEvent(ctx, events.Event{
		Type:    events.EventItemModerated,
		ActorID: adminID,
		Payload: events.ItemModeratedPayload{
			ItemID:   item.ID,
			Decision: decision,
			Reason:   reason,
		},
	})
	return item, nil
}

// DeleteItem removes any item unless an active swap references it.
func (s *AdminService) DeleteItem(ctx context.Context, adminID, itemID, reason string) error {
	if _, err := s.items.GetByID(ctx, itemID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("item", nil)
		}
		return err
	}
	if err := s.items.Delete(ctx, itemID); err != nil {
		if errors.Is(err, repository.ErrActiveSwapExists) {
			return apperrors.NewConflict("cannot delete item with active swap requests", nil)
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("item", nil)
		}
		return err
	}
	s.recordModeration(ctx, itemID, adminID, domain.ModerationActionDeleted, reason)
	return nil
}

// ToggleFeatured flips the featured flag of an approved item.
func (s *AdminService) ToggleFeatured(ctx context.Context, adminID, itemID string) (*domain.Item, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("item", nil)
		}
		return nil, err
	}
	if item.Status != domain.ItemStatusApproved {
		return nil, apperrors.NewInvalidState("only approved items can be featured", nil)
	}

	item.Featured = !item.Featured
	if err := s.items.Update(ctx, item); err != nil {
		return nil, err
	}

	action := domain.ModerationActionFeatured
	if !item.Featured {
		action = domain.ModerationActionUnfeatured
	}
	s.recordModeration(ctx, item.ID, adminID, action, "")
	return item, nil
}

// GetPlatformStats returns marketplace totals, served from the redis cache
// when fresh.
func (s *AdminService) GetPlatformStats(ctx context.Context) (*PlatformStats, error) {
	if stats := s.cachedStats(ctx); stats != nil {
		return stats, nil
	}

	var (
		stats PlatformStats
		err   error
	)
	if stats.TotalUsers, err = s.users.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalItems, err = s.items.Count(ctx); err != nil {
		return nil, err
	}
	if stats.PendingItems, err = s.items.CountByStatus(ctx, domain.ItemStatusPending); err != nil {
		return nil, err
	}
	if stats.ApprovedItems, err = s.items.CountByStatus(ctx, domain.ItemStatusApproved); err != nil {
		return nil, err
	}
	if stats.TotalSwaps, err = s.swaps.Count(ctx); err != nil {
		return nil, err
	}
	if stats.CompletedSwaps, err = s.swaps.CountByStatus(ctx, domain.SwapStatusCompleted); err != nil {
		return nil, err
	}

	s.storeStats(ctx, &stats)
	return &stats, nil
}

// ListUsers returns a user page for the admin panel.
func (s *AdminService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, int64, error) {
	users, err := s.users.List(ctx, repository.UserFilter{Limit: limit, Offset: offset})
	if err != nil {
		return nil, 0, err
	}
	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// ToggleUserStatus activates or deactivates an account. Admin accounts
// cannot be deactivated.
func (s *AdminService) ToggleUserStatus(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}
	if user.IsAdmin() {
		return nil, apperrors.NewInvalidState("cannot deactivate admin users", nil)
	}

	user.Active = !user.Active
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListModerationLog returns the audit trail for one item.
func (s *AdminService) ListModerationLog(ctx context.Context, itemID string, limit, offset int) ([]domain.ModerationLog, error) {
	return s.modLogs.ListByItem(ctx, itemID, limit, offset)
}

func (s *AdminService) recordModeration(ctx context.Context, itemID, adminID string, action domain.ModerationAction, reason string) {
	if s.modLogs == nil {
		return
	}
	entry := &domain.ModerationLog{
		ItemID:  itemID,
		AdminID: adminID,
		Action:  action,
		Reason:  reason,
	}
	_ = s.modLogs.Create(ctx, entry)
}

func (s *AdminService) cachedStats(ctx context.Context) *PlatformStats {
	if s.cache == nil || s.cacheTTL <= 0 {
		return nil
	}
	raw, err := s.cache.Get(ctx, statsCacheKey).Bytes()
	if err != nil {
		return nil
	}
	var stats PlatformStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil
	}
	return &stats
}

func (s *AdminService) storeStats(ctx context.Context, stats *PlatformStats) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	_ = s.cache.Set(ctx, statsCacheKey, raw, s.cacheTTL).Err()
}

func (s *AdminService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
