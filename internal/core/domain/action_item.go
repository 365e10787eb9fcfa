package domain

import "time"

type ActionPriority string

const (
	PriorityLow    ActionPriority = "low"
	PriorityMedium ActionPriority = "medium"
	PriorityHigh   ActionPriority = "high"
	PriorityUrgent ActionPriority = "urgent"
)

type ActionItemStatus string

const (
	ActionItemOpen      ActionItemStatus = "open"
	ActionItemCompleted ActionItemStatus = "completed"
	ActionItemDismissed ActionItemStatus = "dismissed"
)

// ActionItem is a follow-up task produced by an extraction run. Items
// attach to the first created event of the run.
type ActionItem struct {
	ID          string           `json:"id"`
	UserID      string           `json:"user_id"`
	EventID     string           `json:"event_id"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Priority    ActionPriority   `json:"priority"`
	Type        string           `json:"type,omitempty"`
	Deadline    *time.Time       `json:"deadline,omitempty"`
	Status      ActionItemStatus `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
}
