package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/core/domain"
)

func TestBuildSystemPromptIncludesCaseContext(t *testing.T) {
	cases := &caseRepoFake{
		profile: &domain.Profile{UserID: "user-1", DisplayName: "Jordan"},
		caseFile: &domain.CaseFile{
			Role:         "mother",
			Children:     []domain.Child{{Name: "Ava", Age: 7}},
			Jurisdiction: "VA",
			Goals:        []string{"document missed exchanges"},
		},
	}
	a := NewPromptAssembler(cases, &guideFake{text: "Virginia courts weigh factors under Va. Code 20-124.3.", known: true}, correctorFake{})

	prompt, refDate := a.BuildSystemPrompt(context.Background(), "user-1", "2026-03-05", "America/New_York")

	for _, want := range []string{"Jordan", "mother", "Ava (age 7)", "Va. Code 20-124.3", "2026-03-05", "America/New_York"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
	if refDate != "2026-03-05" {
		t.Fatalf("refDate = %s", refDate)
	}
}

func TestBuildSystemPromptDefaultsReferenceDateToLocalToday(t *testing.T) {
	a := NewPromptAssembler(&caseRepoFake{profile: &domain.Profile{DisplayName: "Jordan"}}, &guideFake{}, correctorFake{})

	_, refDate := a.BuildSystemPrompt(context.Background(), "user-1", "", "America/New_York")
	if refDate != "2026-03-05" {
		t.Fatalf("expected corrector's local day, got %s", refDate)
	}
}

func TestBuildSystemPromptDegradesWhenCaseLookupFails(t *testing.T) {
	cases := &caseRepoFake{profileErr: errors.New("db down")}
	a := NewPromptAssembler(cases, &guideFake{}, correctorFake{})

	prompt, _ := a.BuildSystemPrompt(context.Background(), "user-1", "2026-03-05", "UTC")
	if !strings.Contains(prompt, "Case context is unavailable") {
		t.Fatalf("expected neutral fallback, got:\n%s", prompt)
	}
}

func TestExportWritesTimeline(t *testing.T) {
	events := &eventRepoFake{listed: []domain.Event{{ID: "e-1"}, {ID: "e-2"}}}
	exporter := &exporterFake{}
	uc := NewExportTimelineUseCase(events, exporter)

	if err := uc.Export(context.Background(), "user-1", io.Discard); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if len(exporter.events) != 2 {
		t.Fatalf("expected 2 events handed to exporter, got %d", len(exporter.events))
	}
}
