package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/core/domain"
	"github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/core/ports"
)

type EventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

// SaveExtraction writes one run's events and dependent rows in a single
// transaction serialized per journal entry, so concurrent redo runs for
// the same entry cannot interleave. An event insert failure aborts the
// whole batch; dependent-row failures are collected as warnings and the
// batch still commits.
func (r *EventRepository) SaveExtraction(ctx context.Context, batch ports.ExtractionBatch) (ports.SaveReport, error) {
	var report ports.SaveReport

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return report, fmt.Errorf("begin extraction tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, batch.JournalEntryID); err != nil {
		return report, fmt.Errorf("acquire entry lock: %w", err)
	}

	for idx := range batch.Events {
		event := &batch.Events[idx]
		if err := insertEvent(ctx, tx, event); err != nil {
			return ports.SaveReport{}, fmt.Errorf("insert event %d: %w", idx, err)
		}
		report.EventIDs = append(report.EventIDs, event.ID)
	}

	for idx := range batch.Events {
		event := &batch.Events[idx]

		if err := insertParticipants(ctx, tx, event); err != nil {
			report.Warnings = append(report.Warnings, fmt.Sprintf("participants for event %s: %v", event.ID, err))
		}

		var mentions []string
		if idx < len(batch.EvidenceMentions) {
			mentions = batch.EvidenceMentions[idx]
		}
		if err := insertMentions(ctx, tx, event, mentions); err != nil {
			report.Warnings = append(report.Warnings, fmt.Sprintf("evidence mentions for event %s: %v", event.ID, err))
		}
	}

	// Evidence auto-links only when the narrative produced exactly one
	// event; anything else would attach every file to every event.
	if len(batch.Events) == 1 {
		eventID := batch.Events[0].ID
		for _, evidenceID := range batch.EvidenceIDs {
			if err := insertEventEvidence(ctx, tx, eventID, evidenceID, batch.UserID); err != nil {
				report.Warnings = append(report.Warnings, fmt.Sprintf("link evidence %s: %v", evidenceID, err))
			}
		}
	}

	if len(batch.Events) > 0 {
		firstEventID := batch.Events[0].ID
		for _, item := range batch.ActionItems {
			item.EventID = firstEventID
			if err := insertActionItem(ctx, tx, &item); err != nil {
				report.Warnings = append(report.Warnings, fmt.Sprintf("action item %q: %v", item.Title, err))
				continue
			}
			report.ActionItemsCreated++
		}
	}

	if err := tx.Commit(); err != nil {
		return ports.SaveReport{}, fmt.Errorf("commit extraction tx: %w", err)
	}
	return report, nil
}

func insertEvent(ctx context.Context, tx *sql.Tx, event *domain.Event) error {
	statementsJSON, err := json.Marshal(orEmpty(event.ChildStatement))
	if err != nil {
		return fmt.Errorf("marshal child statements: %w", err)
	}
	patternsJSON, err := json.Marshal(orEmptyStrings(event.Patterns))
	if err != nil {
		return fmt.Errorf("marshal patterns: %w", err)
	}
	var toneJSON any
	if event.CoParentTone != nil {
		raw, err := json.Marshal(event.CoParentTone)
		if err != nil {
			return fmt.Errorf("marshal coparent tone: %w", err)
		}
		toneJSON = raw
	}

	var category, direction, severity, legacyWelfare any
	if event.WelfareImpact != nil {
		category = event.WelfareImpact.Category
		direction = string(event.WelfareImpact.Direction)
		if event.WelfareImpact.Severity != "" {
			severity = string(event.WelfareImpact.Severity)
		}
	}
	if legacy := domain.LegacyWelfareFor(event.WelfareImpact); legacy != nil {
		legacyWelfare = string(*legacy)
	}

	_, err = tx.ExecContext(ctx, `
INSERT INTO events (
	id, user_id, journal_entry_id, event_type, legacy_type, description, occurred_at, timestamp_precision,
	duration_minutes, location, child_involved, child_statements, coparent_tone, patterns,
	welfare_category, welfare_direction, welfare_severity, legacy_welfare_impact, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
`,
		event.ID, event.UserID, event.JournalEntryID, string(event.EventType),
		string(domain.LegacyTypeFor(event.EventType)), event.Description, event.OccurredAt,
		string(event.Precision), event.DurationMins, event.Location, event.ChildInvolved,
		statementsJSON, toneJSON, patternsJSON, category, direction, severity, legacyWelfare,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert event row: %w", err)
	}
	return nil
}

func insertParticipants(ctx context.Context, tx *sql.Tx, event *domain.Event) error {
	insert := func(name, role string) error {
		_, err := tx.ExecContext(ctx, `
INSERT INTO event_participants (id, event_id, user_id, name, participant_role)
VALUES ($1,$2,$3,$4,$5)
`, uuid.NewString(), event.ID, event.UserID, name, role)
		return err
	}

	for _, name := range event.Participants.Primary {
		if err := insert(name, "primary"); err != nil {
			return err
		}
	}
	for _, name := range event.Participants.Witnesses {
		if err := insert(name, "witness"); err != nil {
			return err
		}
	}
	for _, name := range event.Participants.Professionals {
		if err := insert(name, "professional"); err != nil {
			return err
		}
	}
	return nil
}

func insertMentions(ctx context.Context, tx *sql.Tx, event *domain.Event, mentions []string) error {
	for _, mention := range mentions {
		_, err := tx.ExecContext(ctx, `
INSERT INTO evidence_mentions (id, event_id, user_id, mention)
VALUES ($1,$2,$3,$4)
`, uuid.NewString(), event.ID, event.UserID, mention)
		if err != nil {
			return err
		}
	}
	return nil
}

func insertEventEvidence(ctx context.Context, tx *sql.Tx, eventID, evidenceID, userID string) error {
	_, err := tx.ExecContext(ctx, `
INSERT INTO event_evidence (event_id, evidence_id, user_id)
VALUES ($1,$2,$3)
ON CONFLICT DO NOTHING
`, eventID, evidenceID, userID)
	return err
}

func insertActionItem(ctx context.Context, tx *sql.Tx, item *domain.ActionItem) error {
	_, err := tx.ExecContext(ctx, `
INSERT INTO action_items (id, user_id, event_id, title, description, priority, item_type, deadline, status, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
`,
		item.ID, item.UserID, item.EventID, item.Title, item.Description,
		string(item.Priority), item.Type, item.Deadline, string(item.Status), item.CreatedAt,
	)
	return err
}

// DeleteEventsByID removes events and every dependent row, used by redo
// extraction to clear the prior run before a replacement is queued.
func (r *EventRepository) DeleteEventsByID(ctx context.Context, userID string, eventIDs []string) error {
	if len(eventIDs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	args := make([]any, 0, len(eventIDs)+1)
	args = append(args, userID)
	for _, id := range eventIDs {
		args = append(args, id)
	}
	in := placeholders(2, len(eventIDs))

	dependents := []string{
		"DELETE FROM event_participants WHERE user_id = $1 AND event_id IN (" + in + ")",
		"DELETE FROM evidence_mentions WHERE user_id = $1 AND event_id IN (" + in + ")",
		"DELETE FROM event_evidence WHERE user_id = $1 AND event_id IN (" + in + ")",
		"DELETE FROM action_items WHERE user_id = $1 AND event_id IN (" + in + ")",
		"DELETE FROM events WHERE user_id = $1 AND id IN (" + in + ")",
	}
	for _, query := range dependents {
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("delete prior events: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete tx: %w", err)
	}
	return nil
}

func (r *EventRepository) ListEventsByUser(ctx context.Context, userID string) ([]domain.Event, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, journal_entry_id, event_type, description, occurred_at, timestamp_precision,
	duration_minutes, location, child_involved, child_statements, coparent_tone, patterns,
	welfare_category, welfare_direction, welfare_severity, created_at
FROM events
WHERE user_id = $1
ORDER BY occurred_at ASC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return out, nil
}

func scanEvent(rows *sql.Rows) (domain.Event, error) {
	var event domain.Event
	var entryID, location sql.NullString
	var eventType, precision string
	var duration sql.NullInt64
	var statementsRaw, toneRaw, patternsRaw []byte
	var category, direction, severity sql.NullString

	err := rows.Scan(
		&event.ID, &event.UserID, &entryID, &eventType, &event.Description, &event.OccurredAt,
		&precision, &duration, &location, &event.ChildInvolved, &statementsRaw, &toneRaw,
		&patternsRaw, &category, &direction, &severity, &event.CreatedAt,
	)
	if err != nil {
		return domain.Event{}, fmt.Errorf("scan event: %w", err)
	}

	event.JournalEntryID = entryID.String
	event.EventType = domain.EventType(eventType)
	event.Precision = domain.TimestampPrecision(precision)
	event.Location = location.String
	if duration.Valid {
		minutes := int(duration.Int64)
		event.DurationMins = &minutes
	}
	if len(statementsRaw) > 0 {
		if err := json.Unmarshal(statementsRaw, &event.ChildStatement); err != nil {
			return domain.Event{}, fmt.Errorf("unmarshal child statements: %w", err)
		}
	}
	if len(toneRaw) > 0 {
		var tone domain.CoParentTone
		if err := json.Unmarshal(toneRaw, &tone); err != nil {
			return domain.Event{}, fmt.Errorf("unmarshal coparent tone: %w", err)
		}
		event.CoParentTone = &tone
	}
	if len(patternsRaw) > 0 {
		if err := json.Unmarshal(patternsRaw, &event.Patterns); err != nil {
			return domain.Event{}, fmt.Errorf("unmarshal patterns: %w", err)
		}
	}
	if direction.Valid {
		event.WelfareImpact = &domain.WelfareImpact{
			Category:  category.String,
			Direction: domain.ImpactDirection(direction.String),
			Severity:  domain.ImpactSeverity(severity.String),
		}
	}
	return event, nil
}

func orEmpty(statements []domain.ChildStatement) []domain.ChildStatement {
	if statements == nil {
		return []domain.ChildStatement{}
	}
	return statements
}

func orEmptyStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
