package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/rewear-service/internal/config"
	"github.com/spec-kit/rewear-service/internal/domain"
	"github.com/spec-kit/rewear-service/internal/events"
	"github.com/spec-kit/rewear-service/internal/repository"
	apperrors "github.com/spec-kit/rewear-service/pkg/util"
)

const maxSwapMessageLen = 500

// SwapService orchestrates the request/respond/complete lifecycle between
// two users over one item.
type SwapService struct {
	swaps      repository.SwapRepository
	items      repository.ItemRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	points     config.PointsConfig
}

// SwapDependencies bundles repositories for the swap service.
type SwapDependencies struct {
	SwapRepo   repository.SwapRepository
	ItemRepo   repository.ItemRepository
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
}

// SwapCreateInput describes a swap request payload.
type SwapCreateInput struct {
	ItemID  string
	Type    domain.SwapType
	Message string
}

// SwapListFilter describes my-swaps listing parameters.
type SwapListFilter struct {
	Direction repository.SwapDirection
	Limit     int
	Offset    int
}

// NewSwapService constructs the service.
func NewSwapService(points config.PointsConfig, deps SwapDependencies) *SwapService {
	return &SwapService{
		swaps:      deps.SwapRepo,
		items:      deps.ItemRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		points:     points,
	}
}

// CreateSwapRequest opens a pending swap against an approved item.
func (s *SwapService) CreateSwapRequest(ctx context.Context, requesterID string, input SwapCreateInput) (*domain.Swap, error) {
	if !domain.ValidSwapType(input.Type) {
		return nil, apperrors.NewValidationError(`type must be "swap" or "redeem"`, nil)
	}
	if len(input.Message) > maxSwapMessageLen {
		return nil, apperrors.NewValidationError("message must be less than 500 characters", nil)
	}

	item, err := s.items.GetByID(ctx, input.ItemID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("item", nil)
		}
		return nil, err
	}
	if item.Status != domain.ItemStatusApproved {
		return nil, apperrors.NewInvalidState("item is not approved for swapping", nil)
	}
	if item.OwnerID == requesterID {
		return nil, apperrors.NewForbidden("you cannot request to swap your own item")
	}

	if _, err := s.swaps.GetActiveByItem(ctx, item.ID); err == nil {
		return nil, apperrors.NewConflict("there is already an active swap request for this item", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	pointsUsed := 0
	if input.Type == domain.SwapTypeRedeem {
		pointsUsed = s.points.RedeemCost
		requester, err := s.users.GetByID(ctx, requesterID)
		if err != nil {
			return nil, err
		}
		if requester.Points < pointsUsed {
			return nil, apperrors.NewInsufficientPoints(pointsUsed, requester.Points)
		}
	}

	swap := &domain.Swap{
		ItemID:      item.ID,
		RequesterID: requesterID,
		OwnerID:     item.OwnerID,
		Type:        input.Type,
		Status:      domain.SwapStatusPending,
		Message:     strings.TrimSpace(input.Message),
		PointsUsed:  pointsUsed,
	}
	if err := s.swaps.Create(ctx, swap); err != nil {
		if errors.Is(err, repository.ErrActiveSwapExists) {
			// Lost the insert race against a concurrent requester.
			return nil, apperrors.NewConflict("there is already an active swap request for this item", nil)
		}
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventSwapRequested,
		ActorID: requesterID,
		Payload: events.SwapRequestedPayload{
			SwapID:      swap.ID,
			ItemID:      swap.ItemID,
			RequesterID: swap.RequesterID,
			OwnerID:     swap.OwnerID,
			Type:        swap.Type,
			PointsUsed:  swap.PointsUsed,
		},
	})
	return s.swaps.GetByIDWithDetails(ctx, swap.ID)
}

// RespondToSwapRequest lets the item owner accept or reject a pending swap.
// Acceptance marks the item swapped and, for redeem swaps, settles points,
// all in one transaction.
func (s *SwapService) RespondToSwapRequest(ctx context.Context, ownerID, swapID string, decision domain.SwapDecision) (*domain.Swap, error) {
	if !domain.ValidSwapDecision(decision) {
		return nil, apperrors.NewValidationError(`status must be "accepted" or "rejected"`, nil)
	}

	var (
		swap *domain.Swap
		err  error
	)
	switch decision {
	case domain.SwapDecisionAccepted:
		swap, err = s.swaps.Accept(ctx, swapID, ownerID, s.points.SwapBonus)
	case domain.SwapDecisionRejected:
		swap, err = s.swaps.Reject(ctx, swapID, ownerID)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("swap request", nil)
		}
		if errors.Is(err, repository.ErrInsufficientPoints) {
			return nil, s.insufficientPointsAtAccept(ctx, swapID)
		}
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventSwapResponded,
		ActorID: ownerID,
		Payload: events.SwapRespondedPayload{
			SwapID:   swap.ID,
			ItemID:   swap.ItemID,
			Decision: swap.Status,
		},
	})
	if decision == domain.SwapDecisionAccepted && swap.Type == domain.SwapTypeRedeem {
		s.publishPointsAwarded(ctx, swap.RequesterID, -swap.PointsUsed, "redeem_debit")
		s.publishPointsAwarded(ctx, swap.OwnerID, s.points.SwapBonus, "swap_accepted_bonus")
	}
	return s.swaps.GetByIDWithDetails(ctx, swap.ID)
}

// CompleteSwap lets either party finalize an accepted swap; both sides
// receive the completion bonus.
func (s *SwapService) CompleteSwap(ctx context.Context, callerID, swapID string) (*domain.Swap, error) {
	swap, err := s.swaps.Complete(ctx, swapID, callerID, s.points.SwapBonus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("swap", nil)
		}
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventSwapCompleted,
		ActorID: callerID,
		Payload: events.SwapCompletedPayload{
			SwapID:          swap.ID,
			ItemID:          swap.ItemID,
			RequesterID:     swap.RequesterID,
			OwnerID:         swap.OwnerID,
			CompletionBonus: s.points.SwapBonus,
		},
	})
	s.publishPointsAwarded(ctx, swap.RequesterID, s.points.SwapBonus, "swap_completed_bonus")
	s.publishPointsAwarded(ctx, swap.OwnerID, s.points.SwapBonus, "swap_completed_bonus")
	return s.swaps.GetByIDWithDetails(ctx, swap.ID)
}

// ListUserSwaps returns swaps the user participates in, with the total count.
func (s *SwapService) ListUserSwaps(ctx context.Context, userID string, filter SwapListFilter) ([]domain.Swap, int64, error) {
	direction := filter.Direction
	switch direction {
	case repository.SwapDirectionSent, repository.SwapDirectionReceived:
	default:
		direction = repository.SwapDirectionAll
	}
	repoFilter := repository.SwapFilter{
		UserID:    userID,
		Direction: direction,
		Limit:     filter.Limit,
		Offset:    filter.Offset,
	}
	swaps, err := s.swaps.ListByUser(ctx, repoFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.swaps.CountByUser(ctx, repoFilter)
	if err != nil {
		return nil, 0, err
	}
	return swaps, total, nil
}

func (s *SwapService) insufficientPointsAtAccept(ctx context.Context, swapID string) error {
	swap, err := s.swaps.GetByID(ctx, swapID)
	if err != nil {
		return apperrors.NewInsufficientPoints(0, 0)
	}
	available := 0
	if requester, err := s.users.GetByID(ctx, swap.RequesterID); err == nil {
		available = requester.Points
	}
	return apperrors.NewInsufficientPoints(swap.PointsUsed, available)
}

func (s *SwapService) publishEvent(ctx context.Context, event events.Event) {
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

func (s *SwapService) publishPointsAwarded(ctx context.Context, userID string, delta int, reason string) {
	s.publishEvent(ctx, events.Event{
		Type:    events.EventPointsAwarded,
		ActorID: userID,
		Payload: events.PointsAwardedPayload{
			UserID: userID,
			Delta:  delta,
			Reason: reason,
		},
	})
}
