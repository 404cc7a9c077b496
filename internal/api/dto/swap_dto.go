package dto

import (
	"time"

	"github.com/spec-kit/rewear-service/internal/domain"
)

// CreateSwapRequest payload.
type CreateSwapRequest struct {
	ItemID  string          `json:"item_id"`
	Type    domain.SwapType `json:"type"`
	Message string          `json:"message"`
}

// RespondSwapRequest payload for the owner's decision.
type RespondSwapRequest struct {
	Status domain.SwapDecision `json:"status"`
}

// SwapItemSummary is the joined item projection in swap responses.
type SwapItemSummary struct {
	ID     string            `json:"id"`
	Title  string            `json:"title"`
	Images []string          `json:"images"`
	Status domain.ItemStatus `json:"status"`
}

// SwapUserSummary is the joined user projection in swap responses.
type SwapUserSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SwapResponse is the full swap representation.
type SwapResponse struct {
	ID         string            `json:"id"`
	ItemID     string            `json:"item_id"`
	Type       domain.SwapType   `json:"type"`
	Status     domain.SwapStatus `json:"status"`
	Message    string            `json:"message,omitempty"`
	PointsUsed int               `json:"points_used"`
	Item       *SwapItemSummary  `json:"item,omitempty"`
	Requester  *SwapUserSummary  `json:"requester,omitempty"`
	Owner      *SwapUserSummary  `json:"owner,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}
