package events

import (
	"time"

	"github.com/spec-kit/rewear-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventItemCreated   EventType = "item_created"
	EventItemModerated EventType = "item_moderated"
	EventSwapRequested EventType = "swap_requested"
	EventSwapResponded EventType = "swap_responded"
	EventSwapCompleted EventType = "swap_completed"
	EventPointsAwarded EventType = "points_awarded"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ItemCreatedPayload payload.
type ItemCreatedPayload struct {
	ItemID   string              `json:"item_id"`
	OwnerID  string              `json:"owner_id"`
	Title    string              `json:"title"`
	Category domain.ItemCategory `json:"category"`
}

// ItemModeratedPayload payload.
type ItemModeratedPayload struct {
	ItemID   string            `json:"item_id"`
	Decision domain.ItemStatus `json:"decision"`
	Reason   string            `json:"reason,omitempty"`
}

// SwapRequestedPayload payload.
type SwapRequestedPayload struct {
	SwapID      string          `json:"swap_id"`
	ItemID      string          `json:"item_id"`
	RequesterID string          `json:"requester_id"`
	OwnerID     string          `json:"owner_id"`
	Type        domain.SwapType `json:"type"`
	PointsUsed  int             `json:"points_used"`
}

// SwapRespondedPayload payload.
type SwapRespondedPayload struct {
	SwapID   string            `json:"swap_id"`
	ItemID   string            `json:"item_id"`
	Decision domain.SwapStatus `json:"decision"`
}

// SwapCompletedPayload payload.
type SwapCompletedPayload struct {
	SwapID          string `json:"swap_id"`
	ItemID          string `json:"item_id"`
	RequesterID     string `json:"requester_id"`
	OwnerID         string `json:"owner_id"`
	CompletionBonus int    `json:"completion_bonus"`
}

// PointsAwardedPayload payload.
type PointsAwardedPayload struct {
	UserID string `json:"user_id"`
	Delta  int    `json:"delta"`
	Reason string `json:"reason"`
}
