package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/rewear-service/internal/api/dto"
	"github.com/spec-kit/rewear-service/internal/auth"
	"github.com/spec-kit/rewear-service/internal/domain"
	"github.com/spec-kit/rewear-service/internal/service"
	apperrors "github.com/spec-kit/rewear-service/pkg/util"
)

// ItemsHandler manages listing endpoints.
type ItemsHandler struct {
	service *service.ItemService
}

// NewItemsHandler constructs handler.
func NewItemsHandler(itemService *service.ItemService) *ItemsHandler {
	return &ItemsHandler{service: itemService}
}

// CreateItem POST /api/items.
func (h *ItemsHandler) CreateItem(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	item, err := h.service.CreateItem(c.Context(), principal.User.ID, service.ItemCreateInput{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		ClothingType: req.ClothingType,
		Size:         req.Size,
		Condition:    req.Condition,
		Images:       req.Images,
		Tags:         req.Tags,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "item submitted for approval", itemResponse(item))
}

// ListItems GET /api/items.
func (h *ItemsHandler) ListItems(c *fiber.Ctx) error {
	page, limit, offset := pageParams(c)
	filter := service.ItemListFilter{Limit: limit, Offset: offset}
	if v := c.Query("status"); v != "" {
		status := domain.ItemStatus(v)
		filter.Status = &status
	}
	if v := c.Query("category"); v != "" {
		category := domain.ItemCategory(v)
		filter.Category = &category
	}
	if v := c.Query("size"); v != "" {
		filter.Size = &v
	}
	if v := c.Query("condition"); v != "" {
		condition := domain.ItemCondition(v)
		filter.Condition = &condition
	}
	if v := c.Query("featured"); v != "" {
		featured := v == "true"
		filter.Featured = &featured
	}
	if v := strings.TrimSpace(c.Query("search")); v != "" {
		filter.SearchTerm = &v
	}

	items, total, err := h.service.ListItems(c.Context(), filter)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "items retrieved", fiber.Map{
		"items":      itemResponses(items),
		"pagination": pagination(total, page, limit),
	})
}

// GetItem GET /api/items/:id.
func (h *ItemsHandler) GetItem(c *fiber.Ctx) error {
	detail, err := h.service.GetItem(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	resp := dto.ItemDetailResponse{
		ItemResponse: itemResponse(detail.Item),
		Available:    detail.Available,
	}
	if detail.Owner != nil {
		resp.Owner = &dto.SwapUserSummary{ID: detail.Owner.ID, Name: detail.Owner.Name}
	}
	if detail.ActiveSwap != nil {
		swap := swapResponse(detail.ActiveSwap)
		resp.ActiveSwap = &swap
	}
	return respond(c, http.StatusOK, "item retrieved", resp)
}

// UpdateItem PUT /api/items/:id.
func (h *ItemsHandler) UpdateItem(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.UpdateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	item, err := h.service.UpdateItem(c.Context(), principal.User.ID, c.Params("id"), service.ItemUpdateInput{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		ClothingType: req.ClothingType,
		Size:         req.Size,
		Condition:    req.Condition,
		Images:       req.Images,
		Tags:         req.Tags,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "item updated", itemResponse(item))
}

// DeleteItem DELETE /api/items/:id.
func (h *ItemsHandler) DeleteItem(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	if err := h.service.DeleteItem(c.Context(), principal.User.ID, principal.User.IsAdmin(), c.Params("id")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "item deleted", nil)
}

// MyItems GET /api/items/user/my-items.
func (h *ItemsHandler) MyItems(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	page, limit, offset := pageParams(c)
	var status *domain.ItemStatus
	if v := c.Query("status"); v != "" {
		s := domain.ItemStatus(v)
		status = &s
	}

	items, total, err := h.service.ListUserItems(c.Context(), principal.User.ID, status, limit, offset)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "items retrieved", fiber.Map{
		"items":      itemResponses(items),
		"pagination": pagination(total, page, limit),
	})
}

func itemResponse(item *domain.Item) dto.ItemResponse {
	return dto.ItemResponse{
		ID:           item.ID,
		OwnerID:      item.OwnerID,
		Title:        item.Title,
		Description:  item.Description,
		Category:     item.Category,
		ClothingType: item.ClothingType,
		Size:         item.Size,
		Condition:    item.Condition,
		Images:       item.Images,
		Tags:         item.Tags,
		Status:       item.Status,
		Featured:     item.Featured,
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
}

func itemResponses(items []domain.Item) []dto.ItemResponse {
	resp := make([]dto.ItemResponse, 0, len(items))
	for i := range items {
		resp = append(resp, itemResponse(&items[i]))
	}
	return resp
}
