package domain

import (
	"encoding/json"
	"time"
)

type EntryStatus string

const (
	EntryStatusDraft      EntryStatus = "draft"
	EntryStatusProcessing EntryStatus = "processing"
	EntryStatusReview     EntryStatus = "review"
	EntryStatusCompleted  EntryStatus = "completed"
	EntryStatusCancelled  EntryStatus = "cancelled"
	EntryStatusFailed     EntryStatus = "failed"
)

// JournalEntry is one raw narrative submitted by a user. The extraction
// worker mutates its status and attaches the raw model payload; the
// structured results live in events/action_items rows.
type JournalEntry struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	EventText       string          `json:"event_text"`
	ReferenceDate   string          `json:"reference_date,omitempty"`
	Timezone        string          `json:"timezone"`
	Status          EntryStatus     `json:"status"`
	RawExtraction   json.RawMessage `json:"raw_extraction,omitempty"`
	ProcessingError string          `json:"processing_error,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
