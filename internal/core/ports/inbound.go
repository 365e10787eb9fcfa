package ports

import (
	"context"
	"io"

	"github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/core/domain"
)

// JournalSubmitter is the inbound contract for submitting a narrative
// and queueing its extraction run.
type JournalSubmitter interface {
	Submit(ctx context.Context, userID, eventText, referenceDate, timezone string, evidenceIDs []string) (*domain.JournalEntry, *domain.Job, error)
	Redo(ctx context.Context, userID, journalEntryID string) (*domain.Job, error)
}

// ExtractionRunner is the inbound contract for one asynchronous run.
type ExtractionRunner interface {
	Run(ctx context.Context, req domain.ExtractionRequest) error
}

// EvidenceIntake handles uploads and their summarization runs.
type EvidenceIntake interface {
	Upload(ctx context.Context, userID, journalEntryID, filename, mimeType string, body io.Reader) (*domain.Evidence, error)
	Summarize(ctx context.Context, req domain.SummarizeRequest) error
}

// TimelineExportService renders the export artifact.
type TimelineExportService interface {
	Export(ctx context.Context, userID string, w io.Writer) error
}
