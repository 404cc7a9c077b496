package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/rewear-service/internal/api/dto"
	"github.com/spec-kit/rewear-service/internal/auth"
	"github.com/spec-kit/rewear-service/internal/domain"
	"github.com/spec-kit/rewear-service/internal/repository"
	"github.com/spec-kit/rewear-service/internal/service"
	apperrors "github.com/spec-kit/rewear-service/pkg/util"
)

// SwapsHandler manages the swap lifecycle endpoints.
type SwapsHandler struct {
	service *service.SwapService
}

// NewSwapsHandler constructs handler.
func NewSwapsHandler(swapService *service.SwapService) *SwapsHandler {
	return &SwapsHandler{service: swapService}
}

// CreateSwap POST /api/swaps.
func (h *SwapsHandler) CreateSwap(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateSwapRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ItemID == "" {
		return apperrors.NewValidationError("item_id required", nil)
	}

	swap, err := h.service.CreateSwapRequest(c.Context(), principal.User.ID, service.SwapCreateInput{
		ItemID:  req.ItemID,
		Type:    req.Type,
		Message: req.Message,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "swap request created", swapResponse(swap))
}

// RespondToSwap PUT /api/swaps/:id/respond.
func (h *SwapsHandler) RespondToSwap(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.RespondSwapRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	swap, err := h.service.RespondToSwapRequest(c.Context(), principal.User.ID, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	message := "swap request rejected"
	if swap.Status == domain.SwapStatusAccepted {
		message = "swap request accepted"
	}
	return respond(c, http.StatusOK, message, swapResponse(swap))
}

// CompleteSwap PUT /api/swaps/:id/complete.
func (h *SwapsHandler) CompleteSwap(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	swap, err := h.service.CompleteSwap(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "swap completed", swapResponse(swap))
}

// MySwaps GET /api/swaps/my-swaps.
func (h *SwapsHandler) MySwaps(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	page, limit, offset := pageParams(c)
	filter := service.SwapListFilter{
		Direction: repository.SwapDirection(c.Query("direction")),
		Limit:     limit,
		Offset:    offset,
	}

	swaps, total, err := h.service.ListUserSwaps(c.Context(), principal.User.ID, filter)
	if err != nil {
		return err
	}
	resp := make([]dto.SwapResponse, 0, len(swaps))
	for i := range swaps {
		resp = append(resp, swapResponse(&swaps[i]))
	}
	return respond(c, http.StatusOK, "swaps retrieved", fiber.Map{
		"swaps":      resp,
		"pagination": pagination(total, page, limit),
	})
}

func swapResponse(swap *domain.Swap) dto.SwapResponse {
	resp := dto.SwapResponse{
		ID:         swap.ID,
		ItemID:     swap.ItemID,
		Type:       swap.Type,
		Status:     swap.Status,
		Message:    swap.Message,
		PointsUsed: swap.PointsUsed,
		CreatedAt:  swap.CreatedAt,
		UpdatedAt:  swap.UpdatedAt,
	}
	if swap.Item != nil {
		resp.Item = &dto.SwapItemSummary{
			ID:     swap.Item.ID,
			Title:  swap.Item.Title,
			Images: swap.Item.Images,
			Status: swap.Item.Status,
		}
	}
	if swap.Requester != nil {
		resp.Requester = &dto.SwapUserSummary{ID: swap.Requester.ID, Name: swap.Requester.Name}
	}
	if swap.Owner != nil {
		resp.Owner = &dto.SwapUserSummary{ID: swap.Owner.ID, Name: swap.Owner.Name}
	}
	return resp
}
