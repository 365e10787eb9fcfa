package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/core/domain"
)

type CaseRepository struct {
	db *sql.DB
}

func NewCaseRepository(db *sql.DB) *CaseRepository {
	return &CaseRepository{db: db}
}

func (r *CaseRepository) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT user_id, display_name, timezone, created_at, updated_at
FROM profiles
WHERE user_id = $1
`, userID)

	var profile domain.Profile
	var timezone sql.NullString
	err := row.Scan(&profile.UserID, &profile.DisplayName, &timezone, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "get profile", fmt.Errorf("user_id=%s", userID))
		}
		return nil, fmt.Errorf("scan profile: %w", err)
	}
	profile.Timezone = timezone.String
	return &profile, nil
}

func (r *CaseRepository) LatestCase(ctx context.Context, userID string) (*domain.CaseFile, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, role, children, jurisdiction, goals, risk_flags, created_at, updated_at
FROM cases
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT 1
`, userID)

	var caseFile domain.CaseFile
	var jurisdiction sql.NullString
	var childrenRaw, goalsRaw, riskFlagsRaw []byte

	err := row.Scan(
		&caseFile.ID, &caseFile.UserID, &caseFile.Role, &childrenRaw, &jurisdiction,
		&goalsRaw, &riskFlagsRaw, &caseFile.CreatedAt, &caseFile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "latest case", fmt.Errorf("user_id=%s", userID))
		}
		return nil, fmt.Errorf("scan case: %w", err)
	}

	caseFile.Jurisdiction = jurisdiction.String
	if err := json.Unmarshal(childrenRaw, &caseFile.Children); err != nil {
		return nil, fmt.Errorf("unmarshal children: %w", err)
	}
	if err := json.Unmarshal(goalsRaw, &caseFile.Goals); err != nil {
		return nil, fmt.Errorf("unmarshal goals: %w", err)
	}
	if err := json.Unmarshal(riskFlagsRaw, &caseFile.RiskFlags); err != nil {
		return nil, fmt.Errorf("unmarshal risk flags: %w", err)
	}
	return &caseFile, nil
}
