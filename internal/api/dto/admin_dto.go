package dto

import (
	"time"

	"github.com/spec-kit/rewear-service/internal/domain"
)

// ModerateItemRequest payload for the moderation decision.
type ModerateItemRequest struct {
	Status domain.ItemStatus `json:"status"`
	Reason string            `json:"reason"`
}

// AdminDeleteItemRequest payload.
type AdminDeleteItemRequest struct {
	Reason string `json:"reason"`
}

// ModerationLogResponse is one audit trail entry.
type ModerationLogResponse struct {
	ID        string                  `json:"id"`
	ItemID    string                  `json:"item_id"`
	AdminID   string                  `json:"admin_id"`
	Action    domain.ModerationAction `json:"action"`
	Reason    string                  `json:"reason,omitempty"`
	CreatedAt time.Time               `json:"created_at"`
}
