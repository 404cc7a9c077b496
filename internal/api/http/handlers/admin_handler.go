package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/rewear-service/internal/api/dto"
	"github.com/spec-kit/rewear-service/internal/auth"
	"github.com/spec-kit/rewear-service/internal/domain"
	"github.com/spec-kit/rewear-service/internal/service"
	apperrors "github.com/spec-kit/rewear-service/pkg/util"
)

// AdminHandler exposes moderation and platform administration endpoints.
type AdminHandler struct {
	service *service.AdminService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{service: adminService}
}

// PendingItems GET /api/admin/items/pending.
func (h *AdminHandler) PendingItems(c *fiber.Ctx) error {
	page, limit, offset := pageParams(c)
	items, total, err := h.service.ListPendingItems(c.Context(), limit, offset)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "pending items retrieved", fiber.Map{
		"items":      itemResponses(items),
		"pagination": pagination(total, page, limit),
	})
}

// ModerateItem PUT /api/admin/items/:id/moderate.
func (h *AdminHandler) ModerateItem(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.ModerateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	item, err := h.service.ModerateItem(c.Context(), principal.User.ID, c.Params("id"), req.Status, req.Reason)
	if err != nil {
		return err
	}
	message := "item rejected"
	if item.Status == domain.ItemStatusApproved {
		message = "item approved"
	}
	return respond(c, http.StatusOK, message, itemResponse(item))
}

// DeleteItem DELETE /api/admin/items/:id.
func (h *AdminHandler) DeleteItem(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.AdminDeleteItemRequest
	_ = c.BodyParser(&req)

	if err := h.service.DeleteItem(c.Context(), principal.User.ID, c.Params("id"), req.Reason); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "item deleted", nil)
}

// ToggleFeatured PUT /api/admin/items/:id/featured.
func (h *AdminHandler) ToggleFeatured(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	item, err := h.service.ToggleFeatured(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	message := "item unfeatured"
	if item.Featured {
		message = "item featured"
	}
	return respond(c, http.StatusOK, message, itemResponse(item))
}

// ModerationLog GET /api/admin/items/:id/log.
func (h *AdminHandler) ModerationLog(c *fiber.Ctx) error {
	_, limit, offset := pageParams(c)
	entries, err := h.service.ListModerationLog(c.Context(), c.Params("id"), limit, offset)
	if err != nil {
		return err
	}
	resp := make([]dto.ModerationLogResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, dto.ModerationLogResponse{
			ID:        entry.ID,
			ItemID:    entry.ItemID,
			AdminID:   entry.AdminID,
			Action:    entry.Action,
			Reason:    entry.Reason,
			CreatedAt: entry.CreatedAt,
		})
	}
	return respond(c, http.StatusOK, "moderation log retrieved", resp)
}

// ListUsers GET /api/admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	page, limit, offset := pageParams(c)
	users, total, err := h.service.ListUsers(c.Context(), limit, offset)
	if err != nil {
		return err
	}
	resp := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, userResponse(&users[i]))
	}
	return respond(c, http.StatusOK, "users retrieved", fiber.Map{
		"users":      resp,
		"pagination": pagination(total, page, limit),
	})
}

// ToggleUserStatus PUT /api/admin/users/:id/toggle-status.
func (h *AdminHandler) ToggleUserStatus(c *fiber.Ctx) error {
	user, err := h.service.ToggleUserStatus(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	message := "user deactivated"
	if user.Active {
		message = "user activated"
	}
	return respond(c, http.StatusOK, message, userResponse(user))
}

// Stats GET /api/admin/stats.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.GetPlatformStats(c.Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "platform stats retrieved", stats)
}
