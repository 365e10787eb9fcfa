package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/core/domain"
	"github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/core/ports"
)

const maxEventTextLen = 50_000

type SubmitJournalUseCase struct {
	journals ports.JournalRepository
	jobs     ports.JobRepository
	events   ports.EventRepository
	evidence ports.EvidenceRepository
	queue    ports.MessageQueue
}

func NewSubmitJournalUseCase(
	journals ports.JournalRepository,
	jobs ports.JobRepository,
	events ports.EventRepository,
	evidence ports.EvidenceRepository,
	queue ports.MessageQueue,
) *SubmitJournalUseCase {
	return &SubmitJournalUseCase{
		journals: journals,
		jobs:     jobs,
		events:   events,
		evidence: evidence,
		queue:    queue,
	}
}

// Submit records the narrative and queues its extraction run. The entry
// stays in draft until a worker claims the job.
func (uc *SubmitJournalUseCase) Submit(
	ctx context.Context,
	userID, eventText, referenceDate, timezone string,
	evidenceIDs []string,
) (*domain.JournalEntry, *domain.Job, error) {
	eventText = strings.TrimSpace(eventText)
	if eventText == "" {
		return nil, nil, domain.WrapError(domain.ErrInvalidInput, "submit journal entry", errors.New("empty event text"))
	}
	if len(eventText) > maxEventTextLen {
		return nil, nil, domain.WrapError(domain.ErrInvalidInput, "submit journal entry",
			fmt.Errorf("event text exceeds %d bytes", maxEventTextLen))
	}
	if timezone == "" {
		timezone = "UTC"
	}

	now := time.Now().UTC()
	entry := &domain.JournalEntry{
		ID:            uuid.NewString(),
		UserID:        userID,
		EventText:     eventText,
		ReferenceDate: referenceDate,
		Timezone:      timezone,
		Status:        domain.EntryStatusDraft,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.journals.CreateEntry(ctx, entry); err != nil {
		return nil, nil, fmt.Errorf("create journal entry: %w", err)
	}

	// Evidence uploaded before the entry existed gets scoped to it here;
	// without this link the files would hang off no entry at all when
	// extraction produces more than one event.
	if len(evidenceIDs) > 0 {
		if err := uc.evidence.AttachToEntry(ctx, userID, entry.ID, evidenceIDs); err != nil {
			return nil, nil, fmt.Errorf("attach evidence to entry: %w", err)
		}
	}

	job, err := uc.queueExtraction(ctx, entry, evidenceIDs)
	if err != nil {
		return nil, nil, err
	}
	return entry, job, nil
}

// Redo deletes the previous run's events and queues a fresh extraction
// for the same narrative. Entries with no completed run cannot be redone.
func (uc *SubmitJournalUseCase) Redo(ctx context.Context, userID, journalEntryID string) (*domain.Job, error) {
	entry, err := uc.journals.GetEntry(ctx, userID, journalEntryID)
	if err != nil {
		return nil, fmt.Errorf("load journal entry: %w", err)
	}

	last, err := uc.jobs.LastCompletedJob(ctx, userID, journalEntryID)
	if err != nil && !domain.IsKind(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("load last completed job: %w", err)
	}
	if last == nil || last.ResultSummary == nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "redo extraction",
			errors.New("entry has no completed extraction to redo"))
	}

	if len(last.ResultSummary.EventIDs) > 0 {
		if err := uc.events.DeleteEventsByID(ctx, userID, last.ResultSummary.EventIDs); err != nil {
			return nil, fmt.Errorf("delete previous events: %w", err)
		}
	}

	return uc.queueExtraction(ctx, entry, nil)
}

func (uc *SubmitJournalUseCase) queueExtraction(
	ctx context.Context,
	entry *domain.JournalEntry,
	evidenceIDs []string,
) (*domain.Job, error) {
	job := &domain.Job{
		ID:             uuid.NewString(),
		UserID:         entry.UserID,
		JournalEntryID: entry.ID,
		Type:           domain.JobTypeJournalExtraction,
		Status:         domain.JobStatusPending,
		CreatedAt:      time.Now().UTC(),
	}
	if err := uc.jobs.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("create extraction job: %w", err)
	}

	req := domain.ExtractionRequest{
		JobID:          job.ID,
		JournalEntryID: entry.ID,
		UserID:         entry.UserID,
		EventText:      entry.EventText,
		ReferenceDate:  entry.ReferenceDate,
		Timezone:       entry.Timezone,
		EvidenceIDs:    evidenceIDs,
	}
	if err := uc.queue.PublishExtractionRequested(ctx, req); err != nil {
		return nil, fmt.Errorf("publish extraction request: %w", err)
	}
	return job, nil
}
