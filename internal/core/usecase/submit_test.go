package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/core/domain"
)

func TestSubmitQueuesExtraction(t *testing.T) {
	journals := &journalRepoFake{}
	jobs := &jobRepoFake{}
	queue := &queueFake{}
	uc := NewSubmitJournalUseCase(journals, jobs, &eventRepoFake{}, &evidenceRepoFake{}, queue)

	entry, job, err := uc.Submit(context.Background(), "user-1",
		"Co-parent was 45 minutes late to pickup.", "2026-03-05", "America/New_York", []string{"ev-1"})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if entry.Status != domain.EntryStatusDraft {
		t.Fatalf("entry status = %s, want draft", entry.Status)
	}
	if job.Status != domain.JobStatusPending || job.Type != domain.JobTypeJournalExtraction {
		t.Fatalf("unexpected job: %+v", job)
	}
	if job.JournalEntryID != entry.ID {
		t.Fatalf("job not linked to entry")
	}
	if len(queue.extractions) != 1 {
		t.Fatalf("expected 1 published request, got %d", len(queue.extractions))
	}
	req := queue.extractions[0]
	if req.JobID != job.ID || req.Timezone != "America/New_York" || len(req.EvidenceIDs) != 1 {
		t.Fatalf("unexpected request: %+v", req)
	}
}

func TestSubmitAttachesEvidenceToEntry(t *testing.T) {
	journals := &journalRepoFake{}
	evidence := &evidenceRepoFake{}
	uc := NewSubmitJournalUseCase(journals, &jobRepoFake{}, &eventRepoFake{}, evidence, &queueFake{})

	entry, _, err := uc.Submit(context.Background(), "user-1",
		"Missed the scheduled call.", "2026-03-05", "UTC", []string{"ev-1", "ev-2"})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	// The ids must land on the entry itself, not just ride the queue
	// payload: pre-entry uploads have nothing else scoping them.
	if evidence.attachedEntryID != entry.ID {
		t.Fatalf("evidence attached to %q, want %q", evidence.attachedEntryID, entry.ID)
	}
	if len(evidence.attachedIDs) != 2 || evidence.attachedIDs[0] != "ev-1" || evidence.attachedIDs[1] != "ev-2" {
		t.Fatalf("attached ids = %v", evidence.attachedIDs)
	}
}

func TestSubmitWithoutEvidenceSkipsAttach(t *testing.T) {
	evidence := &evidenceRepoFake{attachErr: errors.New("must not be called")}
	uc := NewSubmitJournalUseCase(&journalRepoFake{}, &jobRepoFake{}, &eventRepoFake{}, evidence, &queueFake{})

	_, _, err := uc.Submit(context.Background(), "user-1", "text", "", "UTC", nil)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
}

func TestSubmitRejectsEmptyText(t *testing.T) {
	uc := NewSubmitJournalUseCase(&journalRepoFake{}, &jobRepoFake{}, &eventRepoFake{}, &evidenceRepoFake{}, &queueFake{})

	_, _, err := uc.Submit(context.Background(), "user-1", "   ", "", "UTC", nil)
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestSubmitDefaultsTimezoneToUTC(t *testing.T) {
	journals := &journalRepoFake{}
	uc := NewSubmitJournalUseCase(journals, &jobRepoFake{}, &eventRepoFake{}, &evidenceRepoFake{}, &queueFake{})

	entry, _, err := uc.Submit(context.Background(), "user-1", "text", "", "", nil)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if entry.Timezone != "UTC" {
		t.Fatalf("timezone = %s, want UTC", entry.Timezone)
	}
}

func TestRedoDeletesPreviousEventsAndQueuesNewJob(t *testing.T) {
	journals := &journalRepoFake{entry: &domain.JournalEntry{
		ID: "entry-1", UserID: "user-1", EventText: "text", Timezone: "America/Chicago",
	}}
	jobs := &jobRepoFake{last: &domain.Job{
		ID:            "job-old",
		Status:        domain.JobStatusCompleted,
		ResultSummary: &domain.ResultSummary{EventIDs: []string{"e-1", "e-2"}},
	}}
	events := &eventRepoFake{}
	queue := &queueFake{}
	uc := NewSubmitJournalUseCase(journals, jobs, events, &evidenceRepoFake{}, queue)

	job, err := uc.Redo(context.Background(), "user-1", "entry-1")
	if err != nil {
		t.Fatalf("Redo() error = %v", err)
	}
	if len(events.deletedIDs) != 2 {
		t.Fatalf("expected previous events deleted, got %v", events.deletedIDs)
	}
	if job.ID == "job-old" {
		t.Fatalf("redo must create a fresh job")
	}
	if len(queue.extractions) != 1 || queue.extractions[0].JournalEntryID != "entry-1" {
		t.Fatalf("expected new extraction request, got %+v", queue.extractions)
	}
}

func TestRedoWithoutCompletedJobFails(t *testing.T) {
	journals := &journalRepoFake{entry: &domain.JournalEntry{ID: "entry-1", UserID: "user-1"}}
	uc := NewSubmitJournalUseCase(journals, &jobRepoFake{}, &eventRepoFake{}, &evidenceRepoFake{}, &queueFake{})

	_, err := uc.Redo(context.Background(), "user-1", "entry-1")
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
