package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

// EnsureSchema bootstraps DDL. The service connects with a privileged
// role that bypasses row-level security, so every repository query
// re-applies the user_id filter manually.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026052601)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS profiles (
	user_id TEXT PRIMARY KEY,
	display_name TEXT NOT NULL,
	timezone TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS cases (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	role TEXT NOT NULL,
	children JSONB NOT NULL DEFAULT '[]'::jsonb,
	jurisdiction TEXT,
	goals JSONB NOT NULL DEFAULT '[]'::jsonb,
	risk_flags JSONB NOT NULL DEFAULT '[]'::jsonb,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_cases_user_created ON cases(user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS journal_entries (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	event_text TEXT NOT NULL,
	reference_date TEXT,
	timezone TEXT NOT NULL DEFAULT 'UTC',
	status TEXT NOT NULL,
	raw_extraction JSONB,
	processing_error TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_journal_entries_user_created ON journal_entries(user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS jobs (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	journal_entry_id TEXT NOT NULL,
	type TEXT NOT NULL,
	status TEXT NOT NULL,
	error_message TEXT,
	result_summary JSONB,
	created_at TIMESTAMPTZ NOT NULL,
	started_at TIMESTAMPTZ,
	finished_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_jobs_entry ON jobs(journal_entry_id, created_at DESC);

CREATE TABLE IF NOT EXISTS events (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	journal_entry_id TEXT,
	event_type TEXT NOT NULL,
	legacy_type TEXT NOT NULL,
	description TEXT NOT NULL,
	occurred_at TIMESTAMPTZ NOT NULL,
	timestamp_precision TEXT NOT NULL,
	duration_minutes INTEGER,
	location TEXT,
	child_involved BOOLEAN NOT NULL DEFAULT FALSE,
	child_statements JSONB NOT NULL DEFAULT '[]'::jsonb,
	coparent_tone JSONB,
	patterns JSONB NOT NULL DEFAULT '[]'::jsonb,
	welfare_category TEXT,
	welfare_direction TEXT,
	welfare_severity TEXT,
	legacy_welfare_impact TEXT,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_events_user_occurred ON events(user_id, occurred_at);
CREATE INDEX IF NOT EXISTS idx_events_entry ON events(journal_entry_id);

CREATE TABLE IF NOT EXISTS event_participants (
	id TEXT PRIMARY KEY,
	event_id TEXT NOT NULL,
	user_id TEXT NOT NULL,
	name TEXT NOT NULL,
	participant_role TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_event_participants_event ON event_participants(event_id);

CREATE TABLE IF NOT EXISTS evidence_mentions (
	id TEXT PRIMARY KEY,
	event_id TEXT NOT NULL,
	user_id TEXT NOT NULL,
	mention TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_evidence_mentions_event ON evidence_mentions(event_id);

CREATE TABLE IF NOT EXISTS evidence (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	journal_entry_id TEXT,
	filename TEXT NOT NULL,
	mime_type TEXT NOT NULL,
	storage_path TEXT NOT NULL,
	summary TEXT,
	tags JSONB NOT NULL DEFAULT '[]'::jsonb,
	status TEXT NOT NULL,
	error_message TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS event_evidence (
	event_id TEXT NOT NULL,
	evidence_id TEXT NOT NULL,
	user_id TEXT NOT NULL,
	PRIMARY KEY (event_id, evidence_id)
);

CREATE TABLE IF NOT EXISTS journal_entry_evidence (
	journal_entry_id TEXT NOT NULL,
	evidence_id TEXT NOT NULL,
	user_id TEXT NOT NULL,
	PRIMARY KEY (journal_entry_id, evidence_id)
);

CREATE TABLE IF NOT EXISTS action_items (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	event_id TEXT NOT NULL,
	title TEXT NOT NULL,
	description TEXT,
	priority TEXT NOT NULL,
	item_type TEXT,
	deadline TIMESTAMPTZ,
	status TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_action_items_event ON action_items(event_id);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

// placeholders renders $from..$from+count-1 for IN clauses.
func placeholders(from, count int) string {
	parts := make([]string, 0, count)
	for i := 0; i < count; i++ {
		parts = append(parts, fmt.Sprintf("$%d", from+i))
	}
	return strings.Join(parts, ",")
}
