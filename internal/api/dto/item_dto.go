package dto

import (
	"time"

	"github.com/spec-kit/rewear-service/internal/domain"
)

// CreateItemRequest payload.
type CreateItemRequest struct {
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	Category     domain.ItemCategory  `json:"category"`
	ClothingType string               `json:"type"`
	Size         string               `json:"size"`
	Condition    domain.ItemCondition `json:"condition"`
	Images       []string             `json:"images"`
	Tags         []string             `json:"tags"`
}

// UpdateItemRequest payload; omitted fields are unchanged.
type UpdateItemRequest struct {
	Title        *string               `json:"title"`
	Description  *string               `json:"description"`
	Category     *domain.ItemCategory  `json:"category"`
	ClothingType *string               `json:"type"`
	Size         *string               `json:"size"`
	Condition    *domain.ItemCondition `json:"condition"`
	Images       []string              `json:"images"`
	Tags         []string              `json:"tags"`
}

// ItemResponse is the full item representation.
type ItemResponse struct {
	ID           string               `json:"id"`
	OwnerID      string               `json:"owner_id"`
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	Category     domain.ItemCategory  `json:"category"`
	ClothingType string               `json:"type"`
	Size         string               `json:"size"`
	Condition    domain.ItemCondition `json:"condition"`
	Images       []string             `json:"images"`
	Tags         []string             `json:"tags"`
	Status       domain.ItemStatus    `json:"status"`
	Featured     bool                 `json:"featured"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// ItemDetailResponse pairs an item with its owner and availability info.
type ItemDetailResponse struct {
	ItemResponse
	Owner      *SwapUserSummary `json:"owner,omitempty"`
	Available  bool             `json:"available"`
	ActiveSwap *SwapResponse    `json:"active_swap,omitempty"`
}

// Pagination describes a result page.
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int64 `json:"pages"`
}
