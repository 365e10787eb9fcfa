package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/core/domain"
	"github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/core/ports"
)

type ExtractEventsUseCase struct {
	journals  ports.JournalRepository
	jobs      ports.JobRepository
	events    ports.EventRepository
	evidence  ports.EvidenceRepository
	extractor ports.EventExtractor
	corrector ports.TimestampCorrector
	prompts   *PromptAssembler
}

func NewExtractEventsUseCase(
	journals ports.JournalRepository,
	jobs ports.JobRepository,
	events ports.EventRepository,
	evidence ports.EvidenceRepository,
	extractor ports.EventExtractor,
	corrector ports.TimestampCorrector,
	prompts *PromptAssembler,
) *ExtractEventsUseCase {
	return &ExtractEventsUseCase{
		journals:  journals,
		jobs:      jobs,
		events:    events,
		evidence:  evidence,
		extractor: extractor,
		corrector: corrector,
		prompts:   prompts,
	}
}

// Run executes one extraction job end to end. Queue redelivery of an
// already-claimed job is a no-op; any pipeline failure marks both the
// job and the entry failed.
func (uc *ExtractEventsUseCase) Run(ctx context.Context, req domain.ExtractionRequest) error {
	claimed, err := uc.jobs.ClaimJob(ctx, req.JobID)
	if err != nil {
		return fmt.Errorf("claim job: %w", err)
	}
	if !claimed {
		return nil
	}

	if err := uc.journals.UpdateEntryStatus(ctx, req.JournalEntryID, domain.EntryStatusProcessing, ""); err != nil {
		return fmt.Errorf("set entry status=processing: %w", err)
	}

	summary, err := uc.pipeline(ctx, req)
	if err != nil {
		if failErr := uc.markFailed(ctx, req, err); failErr != nil {
			return fmt.Errorf("%w; mark failed: %v", err, failErr)
		}
		return err
	}

	if err := uc.jobs.CompleteJob(ctx, req.JobID, summary); err != nil {
		return fmt.Errorf("complete job: %w", err)
	}
	if err := uc.journals.UpdateEntryStatus(ctx, req.JournalEntryID, domain.EntryStatusReview, ""); err != nil {
		return fmt.Errorf("set entry status=review: %w", err)
	}
	return nil
}

func (uc *ExtractEventsUseCase) pipeline(ctx context.Context, req domain.ExtractionRequest) (domain.ResultSummary, error) {
	timezone := req.Timezone
	if timezone == "" {
		timezone = "UTC"
	}

	systemPrompt, referenceDate := uc.prompts.BuildSystemPrompt(ctx, req.UserID, req.ReferenceDate, timezone)
	narrative := uc.composeNarrative(ctx, req)

	payload, raw, err := uc.extractor.ExtractEvents(ctx, systemPrompt, narrative)
	if err != nil {
		return domain.ResultSummary{}, fmt.Errorf("extract events: %w", err)
	}

	// The raw payload is stored before persistence so a failed write can
	// still be debugged against what the model actually returned.
	if err := uc.journals.SaveRawExtraction(ctx, req.JournalEntryID, raw); err != nil {
		return domain.ResultSummary{}, fmt.Errorf("save raw extraction: %w", err)
	}

	batch := uc.buildBatch(req, payload, referenceDate, timezone)
	report, err := uc.events.SaveExtraction(ctx, batch)
	if err != nil {
		return domain.ResultSummary{}, fmt.Errorf("save extraction: %w", err)
	}

	return domain.ResultSummary{
		EventsCreated:      len(report.EventIDs),
		ActionItemsCreated: report.ActionItemsCreated,
		EventIDs:           report.EventIDs,
		Warnings:           report.Warnings,
	}, nil
}

// composeNarrative appends attached evidence summaries to the raw text
// so the model can tie mentions like "see the voicemail" to real files.
// Summaries load one at a time in the order the ids were supplied; a
// failed lookup skips that file rather than dropping the whole context.
func (uc *ExtractEventsUseCase) composeNarrative(ctx context.Context, req domain.ExtractionRequest) string {
	if len(req.EvidenceIDs) == 0 {
		return req.EventText
	}

	var b strings.Builder
	wrote := false
	for _, id := range req.EvidenceIDs {
		ev, err := uc.evidence.GetEvidence(ctx, req.UserID, id)
		if err != nil {
			continue
		}
		if !wrote {
			b.WriteString(req.EventText)
			b.WriteString("\n\nAttached evidence:\n")
			wrote = true
		}
		if ev.Summary != "" {
			fmt.Fprintf(&b, "- %s: %s\n", ev.Filename, ev.Summary)
		} else {
			fmt.Fprintf(&b, "- %s (not yet summarized)\n", ev.Filename)
		}
	}
	if !wrote {
		return req.EventText
	}
	return b.String()
}

func (uc *ExtractEventsUseCase) buildBatch(
	req domain.ExtractionRequest,
	payload *domain.ExtractionPayload,
	referenceDate, timezone string,
) ports.ExtractionBatch {
	now := time.Now().UTC()
	batch := ports.ExtractionBatch{
		JournalEntryID:   req.JournalEntryID,
		UserID:           req.UserID,
		Events:           make([]domain.Event, 0, len(payload.Events)),
		EvidenceMentions: make([][]string, 0, len(payload.Events)),
		EvidenceIDs:      req.EvidenceIDs,
	}

	for _, raw := range payload.Events {
		occurredAt, precision := uc.resolveTimestamp(raw.PrimaryTimestamp, raw.Precision, referenceDate, timezone)
		batch.Events = append(batch.Events, domain.Event{
			ID:             uuid.NewString(),
			UserID:         req.UserID,
			JournalEntryID: req.JournalEntryID,
			EventType:      domain.EventType(raw.EventType),
			Description:    raw.Description,
			OccurredAt:     occurredAt,
			Precision:      precision,
			DurationMins:   raw.DurationMins,
			Location:       raw.Location,
			Participants:   raw.Participants,
			ChildInvolved:  raw.ChildInvolved,
			ChildStatement: raw.ChildStatements,
			CoParentTone:   raw.CoParentTone,
			Patterns:       raw.Patterns,
			WelfareImpact:  raw.WelfareImpact,
			CreatedAt:      now,
		})
		batch.EvidenceMentions = append(batch.EvidenceMentions, raw.EvidenceMentions)
	}

	for _, raw := range payload.ActionItems {
		item := domain.ActionItem{
			ID:          uuid.NewString(),
			UserID:      req.UserID,
			Title:       raw.Title,
			Description: raw.Description,
			Priority:    actionPriority(raw.Priority),
			Type:        raw.Type,
			Status:      domain.ActionItemOpen,
			CreatedAt:   now,
		}
		if raw.Deadline != "" {
			if t, err := time.Parse(time.RFC3339, uc.corrector.CorrectToUTC(raw.Deadline, timezone)); err == nil {
				item.Deadline = &t
			}
		}
		batch.ActionItems = append(batch.ActionItems, item)
	}
	return batch
}

// resolveTimestamp runs the model's wall-clock timestamp through the
// corrector. An unparseable result falls back to the reference date with
// unknown precision rather than dropping the event.
func (uc *ExtractEventsUseCase) resolveTimestamp(
	rawTimestamp, rawPrecision, referenceDate, timezone string,
) (time.Time, domain.TimestampPrecision) {
	corrected := uc.corrector.CorrectToUTC(rawTimestamp, timezone)
	if t, err := time.Parse(time.RFC3339, corrected); err == nil {
		return t, timestampPrecision(rawPrecision)
	}

	fallback := uc.corrector.CorrectToUTC(referenceDate, timezone)
	if t, err := time.Parse(time.RFC3339, fallback); err == nil {
		return t, domain.PrecisionUnknown
	}
	return time.Now().UTC(), domain.PrecisionUnknown
}

func timestampPrecision(raw string) domain.TimestampPrecision {
	switch domain.TimestampPrecision(raw) {
	case domain.PrecisionExact, domain.PrecisionDay, domain.PrecisionApproximate:
		return domain.TimestampPrecision(raw)
	default:
		return domain.PrecisionUnknown
	}
}

func actionPriority(raw string) domain.ActionPriority {
	switch domain.ActionPriority(raw) {
	case domain.PriorityLow, domain.PriorityMedium, domain.PriorityHigh, domain.PriorityUrgent:
		return domain.ActionPriority(raw)
	default:
		return domain.PriorityMedium
	}
}

func (uc *ExtractEventsUseCase) markFailed(ctx context.Context, req domain.ExtractionRequest, runErr error) error {
	if err := uc.jobs.FailJob(ctx, req.JobID, runErr.Error()); err != nil {
		return err
	}
	return uc.journals.UpdateEntryStatus(ctx, req.JournalEntryID, domain.EntryStatusFailed, runErr.Error())
}
