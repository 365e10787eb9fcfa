package domain

import "time"

type EventType string

const (
	EventTypeScheduleViolation EventType = "schedule_violation"
	EventTypeCommunication     EventType = "communication_issue"
	EventTypeCoParentConflict  EventType = "coparent_conflict"
	EventTypeChildWellbeing    EventType = "child_wellbeing"
	EventTypeGatekeeping       EventType = "gatekeeping"
	EventTypeCaregiving        EventType = "caregiving"
	EventTypeExchange          EventType = "exchange_logistics"
	EventTypeFinancialDispute  EventType = "financial_dispute"
	EventTypeLegalProceeding   EventType = "legal_proceeding"
)

type TimestampPrecision string

const (
	PrecisionExact       TimestampPrecision = "exact"
	PrecisionDay         TimestampPrecision = "day"
	PrecisionApproximate TimestampPrecision = "approximate"
	PrecisionUnknown     TimestampPrecision = "unknown"
)

type ImpactDirection string

const (
	ImpactPositive ImpactDirection = "positive"
	ImpactNeutral  ImpactDirection = "neutral"
	ImpactNegative ImpactDirection = "negative"
)

type ImpactSeverity string

const (
	SeverityMinimal     ImpactSeverity = "minimal"
	SeverityModerate    ImpactSeverity = "moderate"
	SeveritySignificant ImpactSeverity = "significant"
)

// WelfareImpact is the newer structured triple. The legacy single enum
// is never stored independently; it is derived via LegacyWelfareFor.
type WelfareImpact struct {
	Category  string          `json:"category"`
	Direction ImpactDirection `json:"direction"`
	Severity  ImpactSeverity  `json:"severity,omitempty"`
}

type Participants struct {
	Primary       []string `json:"primary"`
	Witnesses     []string `json:"witnesses,omitempty"`
	Professionals []string `json:"professionals,omitempty"`
}

type ChildStatement struct {
	ChildName string `json:"child_name"`
	Statement string `json:"statement"`
	Context   string `json:"context,omitempty"`
}

type CoParentTone struct {
	Tone       string   `json:"tone"`
	Indicators []string `json:"indicators,omitempty"`
}

// Event is one extracted incident on the timeline. OccurredAt is always
// a canonical UTC instant; the corrector owns the wall-clock math.
type Event struct {
	ID             string             `json:"id"`
	UserID         string             `json:"user_id"`
	JournalEntryID string             `json:"journal_entry_id,omitempty"`
	EventType      EventType          `json:"event_type"`
	Description    string             `json:"description"`
	OccurredAt     time.Time          `json:"occurred_at"`
	Precision      TimestampPrecision `json:"timestamp_precision"`
	DurationMins   *int               `json:"duration_minutes,omitempty"`
	Location       string             `json:"location,omitempty"`
	Participants   Participants       `json:"participants"`
	ChildInvolved  bool               `json:"child_involved"`
	ChildStatement []ChildStatement   `json:"child_statements,omitempty"`
	CoParentTone   *CoParentTone      `json:"coparent_tone,omitempty"`
	Patterns       []string           `json:"patterns,omitempty"`
	WelfareImpact  *WelfareImpact     `json:"welfare_impact,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
}
