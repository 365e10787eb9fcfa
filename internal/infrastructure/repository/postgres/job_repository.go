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

type JobRepository struct {
	db *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) CreateJob(ctx context.Context, job *domain.Job) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO jobs (id, user_id, journal_entry_id, type, status, error_message, result_summary, created_at, started_at, finished_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
`,
		job.ID, job.UserID, job.JournalEntryID, string(job.Type), string(job.Status),
		job.Error, nil, job.CreatedAt, job.StartedAt, job.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

func (r *JobRepository) GetJob(ctx context.Context, userID, id string) (*domain.Job, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, journal_entry_id, type, status, error_message, result_summary, created_at, started_at, finished_at
FROM jobs
WHERE user_id = $1 AND id = $2
`, userID, id)

	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "get job", fmt.Errorf("id=%s", id))
		}
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

// ClaimJob moves a pending job to processing. A second delivery of the
// same queue message finds the row already claimed and reports false.
func (r *JobRepository) ClaimJob(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
UPDATE jobs
SET status = $2, started_at = $3
WHERE id = $1 AND status = $4
`, id, string(domain.JobStatusProcessing), time.Now().UTC(), string(domain.JobStatusPending))
	if err != nil {
		return false, fmt.Errorf("claim job: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("claim job rows affected: %w", err)
	}
	return rows == 1, nil
}

func (r *JobRepository) CompleteJob(ctx context.Context, id string, summary domain.ResultSummary) error {
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal result summary: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
UPDATE jobs
SET status = $2, result_summary = $3, error_message = '', finished_at = $4
WHERE id = $1
`, id, string(domain.JobStatusCompleted), summaryJSON, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("complete job: %w", err)
	}
	return nil
}

func (r *JobRepository) FailJob(ctx context.Context, id string, errMessage string) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE jobs
SET status = $2, error_message = $3, finished_at = $4
WHERE id = $1
`, id, string(domain.JobStatusFailed), errMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("fail job: %w", err)
	}
	return nil
}

func (r *JobRepository) LastCompletedJob(ctx context.Context, userID, journalEntryID string) (*domain.Job, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, journal_entry_id, type, status, error_message, result_summary, created_at, started_at, finished_at
FROM jobs
WHERE user_id = $1 AND journal_entry_id = $2 AND status = $3
ORDER BY finished_at DESC
LIMIT 1
`, userID, journalEntryID, string(domain.JobStatusCompleted))

	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "last completed job", fmt.Errorf("journal_entry_id=%s", journalEntryID))
		}
		return nil, fmt.Errorf("last completed job: %w", err)
	}
	return job, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*domain.Job, error) {
	var job domain.Job
	var jobType, status string
	var errMessage sql.NullString
	var summaryRaw []byte

	err := row.Scan(
		&job.ID, &job.UserID, &job.JournalEntryID, &jobType, &status,
		&errMessage, &summaryRaw, &job.CreatedAt, &job.StartedAt, &job.FinishedAt,
	)
	if err != nil {
		return nil, err
	}

	job.Type = domain.JobType(jobType)
	job.Status = domain.JobStatus(status)
	job.Error = errMessage.String
	if len(summaryRaw) > 0 {
		var summary domain.ResultSummary
		if err := json.Unmarshal(summaryRaw, &summary); err != nil {
			return nil, fmt.Errorf("unmarshal result summary: %w", err)
		}
		job.ResultSummary = &summary
	}
	return &job, nil
}
