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

type JournalRepository struct {
	db *sql.DB
}

func NewJournalRepository(db *sql.DB) *JournalRepository {
	return &JournalRepository{db: db}
}

func (r *JournalRepository) CreateEntry(ctx context.Context, entry *domain.JournalEntry) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO journal_entries (
	id, user_id, event_text, reference_date, timezone, status, raw_extraction, processing_error, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
`,
		entry.ID, entry.UserID, entry.EventText, entry.ReferenceDate, entry.Timezone,
		string(entry.Status), nullableJSON(entry.RawExtraction), entry.ProcessingError,
		entry.CreatedAt, entry.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert journal entry: %w", err)
	}
	return nil
}

func (r *JournalRepository) GetEntry(ctx context.Context, userID, id string) (*domain.JournalEntry, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, event_text, reference_date, timezone, status, raw_extraction, processing_error, created_at, updated_at
FROM journal_entries
WHERE user_id = $1 AND id = $2
`, userID, id)

	var entry domain.JournalEntry
	var referenceDate, processingError sql.NullString
	var raw []byte
	var status string

	err := row.Scan(
		&entry.ID, &entry.UserID, &entry.EventText, &referenceDate, &entry.Timezone,
		&status, &raw, &processingError, &entry.CreatedAt, &entry.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "get journal entry", fmt.Errorf("id=%s", id))
		}
		return nil, fmt.Errorf("scan journal entry: %w", err)
	}

	entry.ReferenceDate = referenceDate.String
	entry.ProcessingError = processingError.String
	entry.Status = domain.EntryStatus(status)
	if len(raw) > 0 {
		entry.RawExtraction = json.RawMessage(raw)
	}
	return &entry, nil
}

func (r *JournalRepository) UpdateEntryStatus(ctx context.Context, id string, status domain.EntryStatus, processingError string) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE journal_entries
SET status = $2, processing_error = $3, updated_at = $4
WHERE id = $1
`, id, string(status), processingError, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update journal entry status: %w", err)
	}
	return nil
}

func (r *JournalRepository) SaveRawExtraction(ctx context.Context, id string, raw json.RawMessage) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE journal_entries
SET raw_extraction = $2, updated_at = $3
WHERE id = $1
`, id, []byte(raw), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save raw extraction: %w", err)
	}
	return nil
}

func nullableJSON(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
