package ports

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/core/domain"
)

// JournalRepository persists and reads journal entry state.
type JournalRepository interface {
	CreateEntry(ctx context.Context, entry *domain.JournalEntry) error
	GetEntry(ctx context.Context, userID, id string) (*domain.JournalEntry, error)
	UpdateEntryStatus(ctx context.Context, id string, status domain.EntryStatus, processingError string) error
	SaveRawExtraction(ctx context.Context, id string, raw json.RawMessage) error
}

// JobRepository tracks extraction runs.
type JobRepository interface {
	CreateJob(ctx context.Context, job *domain.Job) error
	GetJob(ctx context.Context, userID, id string) (*domain.Job, error)
	// ClaimJob transitions pending -> processing. It reports false when
	// the job was already claimed, which makes queue redelivery a no-op.
	ClaimJob(ctx context.Context, id string) (bool, error)
	CompleteJob(ctx context.Context, id string, summary domain.ResultSummary) error
	FailJob(ctx context.Context, id string, errMessage string) error
	LastCompletedJob(ctx context.Context, userID, journalEntryID string) (*domain.Job, error)
}

// ExtractionBatch is everything one run writes to the timeline.
type ExtractionBatch struct {
	JournalEntryID string
	UserID         string
	Events         []domain.Event
	// EvidenceMentions and participants are indexed by position in Events.
	EvidenceMentions [][]string
	ActionItems      []domain.ActionItem
	// EvidenceIDs auto-link to the single created event, if exactly one.
	EvidenceIDs []string
}

// SaveReport names the sub-writes that failed inside an otherwise
// committed batch, so callers can mark a run degraded.
type SaveReport struct {
	EventIDs           []string
	ActionItemsCreated int
	Warnings           []string
}

// EventRepository writes extraction results and reads the timeline.
type EventRepository interface {
	SaveExtraction(ctx context.Context, batch ExtractionBatch) (SaveReport, error)
	DeleteEventsByID(ctx context.Context, userID string, eventIDs []string) error
	ListEventsByUser(ctx context.Context, userID string) ([]domain.Event, error)
}

// CaseRepository reads the prompt-assembly context.
type CaseRepository interface {
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
	LatestCase(ctx context.Context, userID string) (*domain.CaseFile, error)
}

// EvidenceRepository persists evidence rows and their AI summaries.
type EvidenceRepository interface {
	CreateEvidence(ctx context.Context, ev *domain.Evidence) error
	GetEvidence(ctx context.Context, userID, id string) (*domain.Evidence, error)
	// AttachToEntry scopes the caller's evidence to a journal entry;
	// unknown or foreign ids are silently dropped.
	AttachToEntry(ctx context.Context, userID, journalEntryID string, evidenceIDs []string) error
	SaveSummary(ctx context.Context, id, summary string, tags []string) error
	MarkSummarizeFailed(ctx context.Context, id, errMessage string) error
}

// ObjectStorage stores uploaded evidence files.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes pipeline triggers.
type MessageQueue interface {
	PublishExtractionRequested(ctx context.Context, req domain.ExtractionRequest) error
	PublishSummarizeRequested(ctx context.Context, req domain.SummarizeRequest) error
	SubscribeExtractionRequested(ctx context.Context, handler func(context.Context, domain.ExtractionRequest) error) error
	SubscribeSummarizeRequested(ctx context.Context, handler func(context.Context, domain.SummarizeRequest) error) error
}

// EventExtractor runs the schema-constrained model call. The returned
// raw payload is stored on the journal entry for audit/debugging.
type EventExtractor interface {
	ExtractEvents(ctx context.Context, systemPrompt, narrative string) (*domain.ExtractionPayload, json.RawMessage, error)
}

// EvidenceSummarizer produces a short summary plus tags for one piece
// of evidence text.
type EvidenceSummarizer interface {
	Summarize(ctx context.Context, text string) (string, []string, error)
}

// EvidenceTextExtractor pulls plain text out of a stored evidence file.
type EvidenceTextExtractor interface {
	ExtractText(ctx context.Context, ev *domain.Evidence) (string, error)
}

// TimestampCorrector is the single home for wall-clock/UTC conversions.
type TimestampCorrector interface {
	CorrectToUTC(raw, timezone string) string
	LocalDay(t time.Time, timezone string) string
}

// JurisdictionGuide looks up state-specific legal guidance.
type JurisdictionGuide interface {
	GuidanceFor(state string) (string, bool)
}

// TimelineExporter renders a user's events for legal use.
type TimelineExporter interface {
	WriteTimeline(events []domain.Event, w io.Writer) error
}
