package domain

import "time"

// SwapType differentiates direct trades from point redemptions.
type SwapType string

const (
	SwapTypeSwap   SwapType = "swap"
	SwapTypeRedeem SwapType = "redeem"
)

// SwapStatus enumerates lifecycle states for swap requests.
type SwapStatus string

const (
	SwapStatusPending   SwapStatus = "pending"
	SwapStatusAccepted  SwapStatus = "accepted"
	SwapStatusRejected  SwapStatus = "rejected"
	SwapStatusCompleted SwapStatus = "completed"
)

// SwapDecision constrains owner responses to a pending swap.
type SwapDecision string

const (
	SwapDecisionAccepted SwapDecision = "accepted"
	SwapDecisionRejected SwapDecision = "rejected"
)

// Swap is the aggregate for an exchange between two users over one item.
// OwnerID is a copy of the item's owner at request time.
type Swap struct {
	ID          string
	ItemID      string
	RequesterID string
	OwnerID     string
	Type        SwapType
	Status      SwapStatus
	Message     string
	PointsUsed  int
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Joined summaries, populated by list/get queries.
	Item      *ItemSummary
	Requester *UserSummary
	Owner     *UserSummary
}

// ItemSummary is a slim projection of an item for swap responses.
type ItemSummary struct {
	ID     string
	Title  string
	Images []string
	Status ItemStatus
}

// UserSummary is a slim projection of a user for swap responses.
type UserSummary struct {
	ID   string
	Name string
}

// ActiveSwapStatuses are states that make an item unavailable to new requests.
var ActiveSwapStatuses = []SwapStatus{SwapStatusPending, SwapStatusAccepted}

// ValidSwapType reports whether the type is a known enum value.
func ValidSwapType(t SwapType) bool {
	return t == SwapTypeSwap || t == SwapTypeRedeem
}

// ValidSwapDecision reports whether the decision is accepted or rejected.
func ValidSwapDecision(d SwapDecision) bool {
	return d == SwapDecisionAccepted || d == SwapDecisionRejected
}
