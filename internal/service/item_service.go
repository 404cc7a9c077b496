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

// ItemService coordinates listing workflows.
type ItemService struct {
	items      repository.ItemRepository
	swaps      repository.SwapRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	points     config.PointsConfig
}

// ItemDependencies bundles repositories for the item service.
type ItemDependencies struct {
	ItemRepo   repository.ItemRepository
	SwapRepo   repository.SwapRepository
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
}

// ItemCreateInput describes item creation payload.
type ItemCreateInput struct {
	Title        string
	Description  string
	Category     domain.ItemCategory
	ClothingType string
	Size         string
	Condition    domain.ItemCondition
	Images       []string
	Tags         []string
}

// ItemUpdateInput describes item update payload; nil fields are unchanged.
type ItemUpdateInput struct {
	Title        *string
	Description  *string
	Category     *domain.ItemCategory
	ClothingType *string
	Size         *string
	Condition    *domain.ItemCondition
	Images       []string
	Tags         []string
}

// ItemListFilter describes public browse parameters.
type ItemListFilter struct {
	Status     *domain.ItemStatus
	Category   *domain.ItemCategory
	Size       *string
	Condition  *domain.ItemCondition
	Featured   *bool
	SearchTerm *string
	Limit      int
	Offset     int
}

// ItemDetail pairs an item with its owner, availability and any active swap.
type ItemDetail struct {
	Item       *domain.Item
	Owner      *domain.UserSummary
	ActiveSwap *domain.Swap
	Available  bool
}

// NewItemService constructs the service.
func NewItemService(points config.PointsConfig, deps ItemDependencies) *ItemService {
	return &ItemService{
		items:      deps.ItemRepo,
		swaps:      deps.SwapRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		points:     points,
	}
}

// CreateItem lists a new pending item and credits the uploader the upload
// bonus in the same transaction.
func (s *ItemService) CreateItem(ctx context.Context, ownerID string, input ItemCreateInput) (*domain.Item, error) {
	if err := validateItemInput(input); err != nil {
		return nil, err
	}

	item := &domain.Item{
		OwnerID:      ownerID,
		Title:        strings.TrimSpace(input.Title),
		Description:  strings.TrimSpace(input.Description),
		Category:     input.Category,
		ClothingType: strings.TrimSpace(input.ClothingType),
		Size:         input.Size,
		Condition:    input.Condition,
		Images:       input.Images,
		Tags:         input.Tags,
		Status:       domain.ItemStatusPending,
		Featured:     false,
	}
	if item.Tags == nil {
		item.Tags = []string{}
	}

	if err := s.items.CreateWithBonus(ctx, item, s.points.UploadBonus); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventItemCreated,
		ActorID: ownerID,
		Payload: events.ItemCreatedPayload{
			ItemID:   item.ID,
			OwnerID:  ownerID,
			Title:    item.Title,
			Category: item.Category,
		},
	})
	if s.points.UploadBonus > 0 {
		s.publishEvent(ctx, events.Event{
			Type:    events.EventPointsAwarded,
			ActorID: ownerID,
			Payload: events.PointsAwardedPayload{
				UserID: ownerID,
				Delta:  s.points.UploadBonus,
				Reason: "item_upload_bonus",
			},
		})
	}
	return item, nil
}

// ListItems returns a browse page; status defaults to approved.
func (s *ItemService) ListItems(ctx context.Context, filter ItemListFilter) ([]domain.Item, int64, error) {
	status := domain.ItemStatusApproved
	if filter.Status != nil {
		status = *filter.Status
	}
	repoFilter := repository.ItemFilter{
		Status:     &status,
		Category:   filter.Category,
		Size:       filter.Size,
		Condition:  filter.Condition,
		Featured:   filter.Featured,
		SearchTerm: filter.SearchTerm,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}
	items, err := s.items.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.items.CountWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// GetItem fetches one item with its active swap and availability.
func (s *ItemService) GetItem(ctx context.Context, itemID string) (*ItemDetail, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("item", nil)
		}
		return nil, err
	}

	detail := &ItemDetail{Item: item}
	if owner, err := s.users.GetByID(ctx, item.OwnerID); err == nil {
		detail.Owner = &domain.UserSummary{ID: owner.ID, Name: owner.Name}
	}
	activeSwap, err := s.swaps.GetActiveByItem(ctx, item.ID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	detail.ActiveSwap = activeSwap
	detail.Available = item.Status == domain.ItemStatusApproved &&
		(activeSwap == nil || activeSwap.Status != domain.SwapStatusAccepted)
	return detail, nil
}

// UpdateItem applies owner edits; swapped items are frozen.
func (s *ItemService) UpdateItem(ctx context.Context, callerID, itemID string, input ItemUpdateInput) (*domain.Item, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("item", nil)
		}
		return nil, err
	}
	if item.OwnerID != callerID {
		return nil, apperrors.NewForbidden("you do not have permission to update this item")
	}
	if item.Status == domain.ItemStatusSwapped {
		return nil, apperrors.NewInvalidState("cannot update item that has been swapped", nil)
	}

	applyItemUpdate(item, input)
	if err := validateItemInput(ItemCreateInput{
		Title:        item.Title,
		Description:  item.Description,
		Category:     item.Category,
		ClothingType: item.ClothingType,
		Size:         item.Size,
		Condition:    item.Condition,
		Images:       item.Images,
		Tags:         item.Tags,
	}); err != nil {
		return nil, err
	}
	if err := s.items.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem hard-deletes an item owned by the caller (or any item when the
// caller is an admin) unless an active swap references it.
func (s *ItemService) DeleteItem(ctx context.Context, callerID string, isAdmin bool, itemID string) error {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("item", nil)
		}
		return err
	}
	if !isAdmin && item.OwnerID != callerID {
		return apperrors.NewForbidden("you do not have permission to delete this item")
	}

	if err := s.items.Delete(ctx, item.ID); err != nil {
		if errors.Is(err, repository.ErrActiveSwapExists) {
			return apperrors.NewConflict("cannot delete item with active swap requests", nil)
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("item", nil)
		}
		return err
	}
	return nil
}

// ListUserItems returns the caller's own items, any status.
func (s *ItemService) ListUserItems(ctx context.Context, ownerID string, status *domain.ItemStatus, limit, offset int) ([]domain.Item, int64, error) {
	repoFilter := repository.ItemFilter{
		OwnerID: &ownerID,
		Status:  status,
		Limit:   limit,
		Offset:  offset,
	}
	items, err := s.items.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.items.CountWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func validateItemInput(input ItemCreateInput) error {
	title := strings.TrimSpace(input.Title)
	if len(title) < 3 || len(title) > 100 {
		return apperrors.NewValidationError("title must be between 3 and 100 characters", nil)
	}
	description := strings.TrimSpace(input.Description)
	if len(description) < 10 || len(description) > 1000 {
		return apperrors.NewValidationError("description must be between 10 and 1000 characters", nil)
	}
	if !domain.ValidCategory(input.Category) {
		return apperrors.NewValidationError("invalid category", nil)
	}
	if strings.TrimSpace(input.ClothingType) == "" {
		return apperrors.NewValidationError("type is required", nil)
	}
	if !domain.ValidSize(input.Size) {
		return apperrors.NewValidationError("invalid size", nil)
	}
	if !domain.ValidCondition(input.Condition) {
		return apperrors.NewValidationError("invalid condition", nil)
	}
	if len(input.Images) == 0 {
		return apperrors.NewValidationError("at least one image is required", nil)
	}
	for _, url := range input.Images {
		if !domain.ValidImageURL(url) {
			return apperrors.NewValidationError("each image must be a valid URL", nil)
		}
	}
	return nil
}

func applyItemUpdate(item *domain.Item, input ItemUpdateInput) {
	if input.Title != nil {
		item.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		item.Description = strings.TrimSpace(*input.Description)
	}
	if input.Category != nil {
		item.Category = *input.Category
	}
	if input.ClothingType != nil {
		item.ClothingType = strings.TrimSpace(*input.ClothingType)
	}
	if input.Size != nil {
		item.Size = *input.Size
	}
	if input.Condition != nil {
		item.Condition = *input.Condition
	}
	if input.Images != nil {
		item.Images = input.Images
	}
	if input.Tags != nil {
		item.Tags = input.Tags
	}
}

func (s *ItemService) publishEvent(ctx context.Context, event events.Event) {
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
