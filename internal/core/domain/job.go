package domain

import "time"

type JobType string

const (
	JobTypeJournalExtraction JobType = "journal_extraction"
	JobTypeEvidenceSummarize JobType = "evidence_summarize"
)

type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// ResultSummary is recorded on job completion and drives both client
// progress display and redo cleanup (EventIDs is the delete list).
type ResultSummary struct {
	EventsCreated      int      `json:"events_created"`
	ActionItemsCreated int      `json:"action_items_created"`
	EventIDs           []string `json:"event_ids"`
	Warnings           []string `json:"warnings,omitempty"`
}

func (s ResultSummary) Degraded() bool {
	return len(s.Warnings) > 0
}

type Job struct {
	ID             string         `json:"id"`
	UserID         string         `json:"user_id"`
	JournalEntryID string         `json:"journal_entry_id"`
	Type           JobType        `json:"type"`
	Status         JobStatus      `json:"status"`
	Error          string         `json:"error,omitempty"`
	ResultSummary  *ResultSummary `json:"result_summary,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	StartedAt      *time.Time     `json:"started_at,omitempty"`
	FinishedAt     *time.Time     `json:"finished_at,omitempty"`
}

// ExtractionRequest is the queue payload for one extraction run.
type ExtractionRequest struct {
	JobID          string   `json:"job_id"`
	JournalEntryID string   `json:"journal_entry_id"`
	UserID         string   `json:"user_id"`
	EventText      string   `json:"event_text"`
	ReferenceDate  string   `json:"reference_date,omitempty"`
	Timezone       string   `json:"timezone,omitempty"`
	EvidenceIDs    []string `json:"evidence_ids,omitempty"`
}

// SummarizeRequest is the queue payload for one evidence summarization.
type SummarizeRequest struct {
	EvidenceID string `json:"evidence_id"`
	UserID     string `json:"user_id"`
}
