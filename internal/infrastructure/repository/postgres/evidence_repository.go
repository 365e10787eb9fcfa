package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/core/domain"
)

type EvidenceRepository struct {
	db *sql.DB
}

func NewEvidenceRepository(db *sql.DB) *EvidenceRepository {
	return &EvidenceRepository{db: db}
}

func (r *EvidenceRepository) CreateEvidence(ctx context.Context, ev *domain.Evidence) error {
	tagsJSON, err := json.Marshal(orEmptyStrings(ev.Tags))
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO evidence (id, user_id, journal_entry_id, filename, mime_type, storage_path, summary, tags, status, error_message, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
`,
		ev.ID, ev.UserID, nullableString(ev.JournalEntryID), ev.Filename, ev.MimeType,
		ev.StoragePath, ev.Summary, tagsJSON, string(ev.Status), ev.Error, ev.CreatedAt, ev.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert evidence: %w", err)
	}

	if ev.JournalEntryID != "" {
		_, err = r.db.ExecContext(ctx, `
INSERT INTO journal_entry_evidence (journal_entry_id, evidence_id, user_id)
VALUES ($1,$2,$3)
ON CONFLICT DO NOTHING
`, ev.JournalEntryID, ev.ID, ev.UserID)
		if err != nil {
			return fmt.Errorf("link evidence to entry: %w", err)
		}
	}
	return nil
}

// AttachToEntry scopes already-uploaded evidence to a journal entry at
// submit time. The SELECT keeps the link user-scoped, so ids owned by
// someone else are dropped instead of linked.
func (r *EvidenceRepository) AttachToEntry(ctx context.Context, userID, journalEntryID string, evidenceIDs []string) error {
	for _, evidenceID := range evidenceIDs {
		_, err := r.db.ExecContext(ctx, `
INSERT INTO journal_entry_evidence (journal_entry_id, evidence_id, user_id)
SELECT $1, id, user_id FROM evidence WHERE user_id = $2 AND id = $3
ON CONFLICT DO NOTHING
`, journalEntryID, userID, evidenceID)
		if err != nil {
			return fmt.Errorf("attach evidence %s: %w", evidenceID, err)
		}

		_, err = r.db.ExecContext(ctx, `
UPDATE evidence
SET journal_entry_id = $1, updated_at = $2
WHERE user_id = $3 AND id = $4 AND journal_entry_id IS NULL
`, journalEntryID, time.Now().UTC(), userID, evidenceID)
		if err != nil {
			return fmt.Errorf("scope evidence %s: %w", evidenceID, err)
		}
	}
	return nil
}

func (r *EvidenceRepository) GetEvidence(ctx context.Context, userID, id string) (*domain.Evidence, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, journal_entry_id, filename, mime_type, storage_path, summary, tags, status, error_message, created_at, updated_at
FROM evidence
WHERE user_id = $1 AND id = $2
`, userID, id)

	ev, err := scanEvidence(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "get evidence", fmt.Errorf("id=%s", id))
		}
		return nil, err
	}
	return ev, nil
}

func (r *EvidenceRepository) SaveSummary(ctx context.Context, id, summary string, tags []string) error {
	tagsJSON, err := json.Marshal(orEmptyStrings(tags))
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
UPDATE evidence
SET summary = $2, tags = $3, status = $4, error_message = '', updated_at = $5
WHERE id = $1
`, id, summary, tagsJSON, string(domain.EvidenceStatusSummarized), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save evidence summary: %w", err)
	}
	return nil
}

func (r *EvidenceRepository) MarkSummarizeFailed(ctx context.Context, id, errMessage string) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE evidence
SET status = $2, error_message = $3, updated_at = $4
WHERE id = $1
`, id, string(domain.EvidenceStatusFailed), errMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("mark evidence failed: %w", err)
	}
	return nil
}

func scanEvidence(row rowScanner) (*domain.Evidence, error) {
	var ev domain.Evidence
	var entryID, summary, errMessage sql.NullString
	var tagsRaw []byte
	var status string

	err := row.Scan(
		&ev.ID, &ev.UserID, &entryID, &ev.Filename, &ev.MimeType, &ev.StoragePath,
		&summary, &tagsRaw, &status, &errMessage, &ev.CreatedAt, &ev.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan evidence: %w", err)
	}

	ev.JournalEntryID = entryID.String
	ev.Summary = summary.String
	ev.Error = errMessage.String
	ev.Status = domain.EvidenceStatus(status)
	if err := json.Unmarshal(tagsRaw, &ev.Tags); err != nil {
		return nil, fmt.Errorf("unmarshal tags: %w", err)
	}
	return &ev, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
