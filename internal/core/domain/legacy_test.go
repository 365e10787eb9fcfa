package domain

import "testing"

func TestLegacyTypeForCoversAllEventTypes(t *testing.T) {
	cases := map[EventType]LegacyEventType{
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
	for eventType, want := range cases {
		if got := LegacyTypeFor(eventType); got != want {
			t.Fatalf("LegacyTypeFor(%s) = %s, want %s", eventType, got, want)
		}
	}
}

func TestLegacyTypeForDefaultsToIncident(t *testing.T) {
	if got := LegacyTypeFor(EventType("something_new")); got != LegacyIncident {
		t.Fatalf("expected incident fallback, got %s", got)
	}
	if got := LegacyTypeFor(EventType("")); got != LegacyIncident {
		t.Fatalf("expected incident fallback for empty type, got %s", got)
	}
}

func TestLegacyWelfareForDirections(t *testing.T) {
	cases := []struct {
		impact *WelfareImpact
		want   LegacyWelfareImpact
	}{
		{&WelfareImpact{Direction: ImpactPositive, Severity: SeveritySignificant}, WelfarePositive},
		{&WelfareImpact{Direction: ImpactNeutral}, WelfareNone},
		{&WelfareImpact{Direction: ImpactNegative, Severity: SeverityMinimal}, WelfareMinor},
		{&WelfareImpact{Direction: ImpactNegative, Severity: SeverityModerate}, WelfareModerate},
		{&WelfareImpact{Direction: ImpactNegative, Severity: SeveritySignificant}, WelfareSignificant},
		{&WelfareImpact{Direction: ImpactNegative}, WelfareUnknown},
		{&WelfareImpact{Direction: ImpactDirection("odd")}, WelfareUnknown},
	}
	for _, tc := range cases {
		got := LegacyWelfareFor(tc.impact)
		if got == nil {
			t.Fatalf("LegacyWelfareFor(%+v) = nil, want %s", tc.impact, tc.want)
		}
		if *got != tc.want {
			t.Fatalf("LegacyWelfareFor(%+v) = %s, want %s", tc.impact, *got, tc.want)
		}
	}
}

func TestLegacyWelfareForNilImpact(t *testing.T) {
	if got := LegacyWelfareFor(nil); got != nil {
		t.Fatalf("expected nil projection for missing impact, got %s", *got)
	}
}
