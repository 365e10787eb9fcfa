package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/core/domain"
	"github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/core/ports"
)

type EvidenceIntakeUseCase struct {
	evidence   ports.EvidenceRepository
	storage    ports.ObjectStorage
	queue      ports.MessageQueue
	text       ports.EvidenceTextExtractor
	summarizer ports.EvidenceSummarizer
}

func NewEvidenceIntakeUseCase(
	evidence ports.EvidenceRepository,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
	text ports.EvidenceTextExtractor,
	summarizer ports.EvidenceSummarizer,
) *EvidenceIntakeUseCase {
	return &EvidenceIntakeUseCase{
		evidence:   evidence,
		storage:    storage,
		queue:      queue,
		text:       text,
		summarizer: summarizer,
	}
}

// Upload stores the file, records the evidence row, and queues its
// summarization. The row is usable immediately; the summary arrives
// asynchronously.
func (uc *EvidenceIntakeUseCase) Upload(
	ctx context.Context,
	userID, journalEntryID, filename, mimeType string,
	body io.Reader,
) (*domain.Evidence, error) {
	if filename == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload evidence", errors.New("empty filename"))
	}

	id := uuid.NewString()
	storageKey := fmt.Sprintf("%s/%s_%s", userID, id, sanitizeFilename(filename))
	now := time.Now().UTC()

	if err := uc.storage.Save(ctx, storageKey, body); err != nil {
		return nil, fmt.Errorf("save evidence file: %w", err)
	}

	ev := &domain.Evidence{
		ID:             id,
		UserID:         userID,
		JournalEntryID: journalEntryID,
		Filename:       filename,
		MimeType:       mimeType,
		StoragePath:    storageKey,
		Tags:           []string{},
		Status:         domain.EvidenceStatusUploaded,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.evidence.CreateEvidence(ctx, ev); err != nil {
		return nil, fmt.Errorf("create evidence row: %w", err)
	}

	req := domain.SummarizeRequest{EvidenceID: ev.ID, UserID: userID}
	if err := uc.queue.PublishSummarizeRequested(ctx, req); err != nil {
		return nil, fmt.Errorf("publish summarize request: %w", err)
	}
	return ev, nil
}

// Summarize runs one evidence summarization. Failures are recorded on
// the evidence row itself; there is no separate job row to update.
func (uc *EvidenceIntakeUseCase) Summarize(ctx context.Context, req domain.SummarizeRequest) error {
	ev, err := uc.evidence.GetEvidence(ctx, req.UserID, req.EvidenceID)
	if err != nil {
		return fmt.Errorf("load evidence: %w", err)
	}
	if ev.Status == domain.EvidenceStatusSummarized {
		return nil
	}

	summary, tags, err := uc.summarizePipeline(ctx, ev)
	if err != nil {
		if markErr := uc.evidence.MarkSummarizeFailed(ctx, ev.ID, err.Error()); markErr != nil {
			return fmt.Errorf("%w; mark failed: %v", err, markErr)
		}
		return err
	}

	if err := uc.evidence.SaveSummary(ctx, ev.ID, summary, tags); err != nil {
		return fmt.Errorf("save summary: %w", err)
	}
	return nil
}

func (uc *EvidenceIntakeUseCase) summarizePipeline(ctx context.Context, ev *domain.Evidence) (string, []string, error) {
	text, err := uc.text.ExtractText(ctx, ev)
	if err != nil {
		return "", nil, fmt.Errorf("extract evidence text: %w", err)
	}
	if text == "" {
		return "", nil, domain.WrapError(domain.ErrInvalidInput, "summarize evidence", errors.New("file contains no text"))
	}

	summary, tags, err := uc.summarizer.Summarize(ctx, text)
	if err != nil {
		return "", nil, fmt.Errorf("summarize evidence: %w", err)
	}
	return summary, tags, nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" {
		return "evidence.bin"
	}
	return base
}
