package domain

// Legacy projections for the pre-migration schema. Older clients still
// read the 6-way enums, so every write derives them here; they are
// never stored as independently mutable state.

type LegacyEventType string

const (
	LegacyIncident      LegacyEventType = "incident"
	LegacyExchange      LegacyEventType = "exchange"
	LegacyCommunication LegacyEventType = "communication"
	LegacyFinancial     LegacyEventType = "financial"
	LegacyLegal         LegacyEventType = "legal"
	LegacyPositive      LegacyEventType = "positive"
)

type LegacyWelfareImpact string

const (
	WelfarePositive    LegacyWelfareImpact = "positive"
	WelfareNone        LegacyWelfareImpact = "none"
	WelfareMinor       LegacyWelfareImpact = "minor"
	WelfareModerate    LegacyWelfareImpact = "moderate"
	WelfareSignificant LegacyWelfareImpact = "significant"
	WelfareUnknown     LegacyWelfareImpact = "unknown"
)

var legacyTypeByEventType = map[EventType]LegacyEventType{
	EventTypeScheduleViolation: LegacyExchange,
	EventTypeCommunication:     LegacyCommunication,
	EventTypeCoParentConflict:  LegacyIncident,
	EventTypeChildWellbeing:    LegacyIncident,
	EventTypeGatekeeping:       LegacyIncident,
	EventTypeCaregiving:        LegacyPositive,
	EventTypeExchange:          LegacyExchange,
	EventTypeFinancialDispute:  LegacyFinancial,
	EventTypeLegalProceeding:   LegacyLegal,
}

// LegacyTypeFor is total: any unmapped or unexpected value falls back
// to "incident".
func LegacyTypeFor(t EventType) LegacyEventType {
	if legacy, ok := legacyTypeByEventType[t]; ok {
		return legacy
	}
	return LegacyIncident
}

// LegacyWelfareFor projects the structured triple onto the old enum.
// A nil impact maps to nil (stored as NULL), not to "unknown".
func LegacyWelfareFor(impact *WelfareImpact) *LegacyWelfareImpact {
	if impact == nil {
		return nil
	}
	var legacy LegacyWelfareImpact
	switch impact.Direction {
	case ImpactPositive:
		legacy = WelfarePositive
	case ImpactNeutral:
		legacy = WelfareNone
	case ImpactNegative:
		switch impact.Severity {
		case SeverityMinimal:
			legacy = WelfareMinor
		case SeverityModerate:
			legacy = WelfareModerate
		case SeveritySignificant:
			legacy = WelfareSignificant
		default:
			legacy = WelfareUnknown
		}
	default:
		legacy = WelfareUnknown
	}
	return &legacy
}
