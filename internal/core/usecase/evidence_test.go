package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/core/domain"
)

func TestUploadStoresFileAndQueuesSummarize(t *testing.T) {
	evidence := &evidenceRepoFake{}
	storage := &storageFake{}
	queue := &queueFake{}
	uc := NewEvidenceIntakeUseCase(evidence, storage, queue, &textExtractorFake{}, &summarizerFake{})

	ev, err := uc.Upload(context.Background(), "user-1", "entry-1",
		"late pickup voicemail.mp3.txt", "text/plain", strings.NewReader("transcript"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	if ev.Status != domain.EvidenceStatusUploaded {
		t.Fatalf("status = %s, want uploaded", ev.Status)
	}
	if ev.JournalEntryID != "entry-1" {
		t.Fatalf("entry link lost: %+v", ev)
	}
	if !strings.HasPrefix(storage.savedKey, "user-1/") {
		t.Fatalf("storage key must be user scoped, got %s", storage.savedKey)
	}
	if strings.Contains(storage.savedKey, " ") {
		t.Fatalf("storage key must be sanitized, got %s", storage.savedKey)
	}
	if len(queue.summaries) != 1 || queue.summaries[0].EvidenceID != ev.ID {
		t.Fatalf("expected summarize request, got %+v", queue.summaries)
	}
}

func TestUploadRejectsEmptyFilename(t *testing.T) {
	uc := NewEvidenceIntakeUseCase(&evidenceRepoFake{}, &storageFake{}, &queueFake{}, &textExtractorFake{}, &summarizerFake{})

	_, err := uc.Upload(context.Background(), "user-1", "", "", "text/plain", strings.NewReader("x"))
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestSummarizeSavesSummaryAndTags(t *testing.T) {
	evidence := &evidenceRepoFake{got: &domain.Evidence{
		ID: "ev-1", UserID: "user-1", Filename: "voicemail.txt", Status: domain.EvidenceStatusUploaded,
	}}
	uc := NewEvidenceIntakeUseCase(evidence, &storageFake{}, &queueFake{},
		&textExtractorFake{text: "transcript of the voicemail"},
		&summarizerFake{summary: "Voicemail about a missed exchange.", tags: []string{"exchange", "voicemail"}})

	if err := uc.Summarize(context.Background(), domain.SummarizeRequest{EvidenceID: "ev-1", UserID: "user-1"}); err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if evidence.summary == "" || len(evidence.tags) != 2 {
		t.Fatalf("summary not saved: %q %v", evidence.summary, evidence.tags)
	}
}

func TestSummarizeAlreadySummarizedIsNoOp(t *testing.T) {
	evidence := &evidenceRepoFake{got: &domain.Evidence{
		ID: "ev-1", UserID: "user-1", Status: domain.EvidenceStatusSummarized, Summary: "done",
	}}
	summarizer := &summarizerFake{err: errors.New("must not be called")}
	uc := NewEvidenceIntakeUseCase(evidence, &storageFake{}, &queueFake{}, &textExtractorFake{text: "x"}, summarizer)

	if err := uc.Summarize(context.Background(), domain.SummarizeRequest{EvidenceID: "ev-1", UserID: "user-1"}); err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if evidence.summary != "" {
		t.Fatalf("no-op redelivery must not rewrite the summary")
	}
}

func TestSummarizeFailureMarksEvidenceFailed(t *testing.T) {
	evidence := &evidenceRepoFake{got: &domain.Evidence{
		ID: "ev-1", UserID: "user-1", Status: domain.EvidenceStatusUploaded,
	}}
	uc := NewEvidenceIntakeUseCase(evidence, &storageFake{}, &queueFake{},
		&textExtractorFake{err: errors.New("unsupported binary format")}, &summarizerFake{})

	err := uc.Summarize(context.Background(), domain.SummarizeRequest{EvidenceID: "ev-1", UserID: "user-1"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if evidence.failedMsg == "" {
		t.Fatalf("expected evidence marked failed")
	}
}
