package domain

import "time"

type EvidenceStatus string

const (
	EvidenceStatusUploaded   EvidenceStatus = "uploaded"
	EvidenceStatusSummarized EvidenceStatus = "summarized"
	EvidenceStatusFailed     EvidenceStatus = "failed"
)

// Evidence is an uploaded file owned by one user. Cross-user sharing
// never happens; every repository query re-applies the user_id filter.
type Evidence struct {
	ID             string         `json:"id"`
	UserID         string         `json:"user_id"`
	JournalEntryID string         `json:"journal_entry_id,omitempty"`
	Filename       string         `json:"filename"`
	MimeType       string         `json:"mime_type"`
	StoragePath    string         `json:"storage_path"`
	Summary        string         `json:"summary,omitempty"`
	Tags           []string       `json:"tags,omitempty"`
	Status         EvidenceStatus `json:"status"`
	Error          string         `json:"error,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}
