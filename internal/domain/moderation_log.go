package domain

import "time"

// ModerationAction captures what an admin did to an item.
type ModerationAction string

const (
	ModerationActionApproved   ModerationAction = "approved"
	ModerationActionRejected   ModerationAction = "rejected"
	ModerationActionDeleted    ModerationAction = "deleted"
	ModerationActionFeatured   ModerationAction = "featured"
	ModerationActionUnfeatured ModerationAction = "unfeatured"
)

// ModerationLog is an immutable audit trail entry for admin actions.
type ModerationLog struct {
	ID        string
	ItemID    string
	AdminID   string
	Action    ModerationAction
	Reason    string
	CreatedAt time.Time
}
