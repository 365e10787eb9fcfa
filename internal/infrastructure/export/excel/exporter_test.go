package excel

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/core/domain"
)

func TestWriteTimelineRows(t *testing.T) {
	events := []domain.Event{
		{
			OccurredAt:    time.Date(2026, 3, 5, 17, 45, 0, 0, time.UTC),
			Precision:     domain.PrecisionExact,
			EventType:     domain.EventType("exchange_issue"),
			Description:   "Pickup was 45 minutes late.",
			Location:      "school parking lot",
			Participants:  domain.Participants{Primary: []string{"Jordan", "Sam"}, Witnesses: []string{"teacher on duty"}},
			ChildInvolved: true,
			WelfareImpact: &domain.WelfareImpact{Category: "emotional", Direction: domain.ImpactNegative, Severity: domain.SeverityModerate},
			Patterns:      []string{"repeated lateness"},
		},
		{
			OccurredAt:  time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC),
			Precision:   domain.PrecisionDay,
			EventType:   domain.EventType("communication"),
			Description: "Text exchange about spring break.",
		},
	}

	var buf bytes.Buffer
	if err := NewExporter().WriteTimeline(events, &buf); err != nil {
		t.Fatalf("WriteTimeline() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	if got := f.GetSheetList(); len(got) != 1 || got[0] != "Timeline" {
		t.Fatalf("unexpected sheets: %v", got)
	}

	header, err := f.GetCellValue("Timeline", "A1")
	if err != nil {
		t.Fatalf("read header: %v", err)
	}
	if header != "Date (UTC)" {
		t.Fatalf("header A1 = %q", header)
	}

	checks := map[string]string{
		"A2": "2026-03-05",
		"B2": "17:45",
		"G2": "Jordan, Sam; witnesses: teacher on duty",
		"H2": "yes",
		"I2": "negative emotional (moderate)",
		"A3": "2026-03-06",
		"H3": "no",
	}
	for cell, want := range checks {
		got, err := f.GetCellValue("Timeline", cell)
		if err != nil {
			t.Fatalf("read %s: %v", cell, err)
		}
		if got != want {
			t.Errorf("cell %s = %q, want %q", cell, got, want)
		}
	}

	// Day-precision rows must not carry a fabricated midnight time.
	if got, _ := f.GetCellValue("Timeline", "B3"); got != "" {
		t.Errorf("day-precision time cell = %q, want empty", got)
	}
}

func TestWriteTimelineEmptyStillProducesHeaders(t *testing.T) {
	var buf bytes.Buffer
	if err := NewExporter().WriteTimeline(nil, &buf); err != nil {
		t.Fatalf("WriteTimeline() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	got, err := f.GetCellValue("Timeline", "J1")
	if err != nil {
		t.Fatalf("read header: %v", err)
	}
	if got != "Patterns" {
		t.Fatalf("header J1 = %q", got)
	}
}
