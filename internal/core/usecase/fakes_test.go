package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/core/domain"
	"github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/core/ports"
)

type entryStatusCall struct {
	status domain.EntryStatus
	errMsg string
}

type journalRepoFake struct {
	entry       *domain.JournalEntry
	created     *domain.JournalEntry
	createErr   error
	getErr      error
	statusErr   error
	rawSaved    json.RawMessage
	rawErr      error
	statusCalls []entryStatusCall
}

func (f *journalRepoFake) CreateEntry(_ context.Context, entry *domain.JournalEntry) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = entry
	return nil
}

func (f *journalRepoFake) GetEntry(context.Context, string, string) (*domain.JournalEntry, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	copyEntry := *f.entry
	return &copyEntry, nil
}

func (f *journalRepoFake) UpdateEntryStatus(_ context.Context, _ string, status domain.EntryStatus, errMessage string) error {
	f.statusCalls = append(f.statusCalls, entryStatusCall{status: status, errMsg: errMessage})
	return f.statusErr
}

func (f *journalRepoFake) SaveRawExtraction(_ context.Context, _ string, raw json.RawMessage) error {
	if f.rawErr != nil {
		return f.rawErr
	}
	f.rawSaved = raw
	return nil
}

type jobRepoFake struct {
	created     *domain.Job
	createErr   error
	claimOK     bool
	claimErr    error
	completed   *domain.ResultSummary
	completeErr error
	failedMsg   string
	failErr     error
	last        *domain.Job
	lastErr     error
}

func (f *jobRepoFake) CreateJob(_ context.Context, job *domain.Job) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = job
	return nil
}

func (f *jobRepoFake) GetJob(context.Context, string, string) (*domain.Job, error) { return nil, nil }

func (f *jobRepoFake) ClaimJob(context.Context, string) (bool, error) {
	return f.claimOK, f.claimErr
}

func (f *jobRepoFake) CompleteJob(_ context.Context, _ string, summary domain.ResultSummary) error {
	if f.completeErr != nil {
		return f.completeErr
	}
	f.completed = &summary
	return nil
}

func (f *jobRepoFake) FailJob(_ context.Context, _ string, errMessage string) error {
	f.failedMsg = errMessage
	return f.failErr
}

func (f *jobRepoFake) LastCompletedJob(context.Context, string, string) (*domain.Job, error) {
	return f.last, f.lastErr
}

type eventRepoFake struct {
	batch      *ports.ExtractionBatch
	report     ports.SaveReport
	saveErr    error
	deletedIDs []string
	deleteErr  error
	listed     []domain.Event
	listErr    error
}

func (f *eventRepoFake) SaveExtraction(_ context.Context, batch ports.ExtractionBatch) (ports.SaveReport, error) {
	if f.saveErr != nil {
		return ports.SaveReport{}, f.saveErr
	}
	f.batch = &batch
	report := f.report
	if report.EventIDs == nil {
		for _, ev := range batch.Events {
			report.EventIDs = append(report.EventIDs, ev.ID)
		}
		report.ActionItemsCreated = len(batch.ActionItems)
	}
	return report, nil
}

func (f *eventRepoFake) DeleteEventsByID(_ context.Context, _ string, eventIDs []string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedIDs = eventIDs
	return nil
}

func (f *eventRepoFake) ListEventsByUser(context.Context, string) ([]domain.Event, error) {
	return f.listed, f.listErr
}

type evidenceRepoFake struct {
	created         *domain.Evidence
	createErr       error
	got             *domain.Evidence
	byID            map[string]*domain.Evidence
	getErr          error
	attachedEntryID string
	attachedIDs     []string
	attachErr       error
	summary         string
	tags            []string
	summaryErr      error
	failedMsg       string
	markFailErr     error
}

func (f *evidenceRepoFake) CreateEvidence(_ context.Context, ev *domain.Evidence) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = ev
	return nil
}

func (f *evidenceRepoFake) GetEvidence(_ context.Context, _ string, id string) (*domain.Evidence, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.byID != nil {
		ev, ok := f.byID[id]
		if !ok {
			return nil, domain.WrapError(domain.ErrNotFound, "get evidence", errors.New(id))
		}
		copyEv := *ev
		return &copyEv, nil
	}
	copyEv := *f.got
	return &copyEv, nil
}

func (f *evidenceRepoFake) AttachToEntry(_ context.Context, _ string, journalEntryID string, evidenceIDs []string) error {
	if f.attachErr != nil {
		return f.attachErr
	}
	f.attachedEntryID = journalEntryID
	f.attachedIDs = evidenceIDs
	return nil
}

func (f *evidenceRepoFake) SaveSummary(_ context.Context, _ string, summary string, tags []string) error {
	if f.summaryErr != nil {
		return f.summaryErr
	}
	f.summary = summary
	f.tags = tags
	return nil
}

func (f *evidenceRepoFake) MarkSummarizeFailed(_ context.Context, _ string, errMessage string) error {
	f.failedMsg = errMessage
	return f.markFailErr
}

type queueFake struct {
	extractions []domain.ExtractionRequest
	summaries   []domain.SummarizeRequest
	publishErr  error
}

func (f *queueFake) PublishExtractionRequested(_ context.Context, req domain.ExtractionRequest) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.extractions = append(f.extractions, req)
	return nil
}

func (f *queueFake) PublishSummarizeRequested(_ context.Context, req domain.SummarizeRequest) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.summaries = append(f.summaries, req)
	return nil
}

func (f *queueFake) SubscribeExtractionRequested(context.Context, func(context.Context, domain.ExtractionRequest) error) error {
	return nil
}

func (f *queueFake) SubscribeSummarizeRequested(context.Context, func(context.Context, domain.SummarizeRequest) error) error {
	return nil
}

type extractorFake struct {
	payload      *domain.ExtractionPayload
	raw          json.RawMessage
	err          error
	systemPrompt string
	narrative    string
}

func (f *extractorFake) ExtractEvents(_ context.Context, systemPrompt, narrative string) (*domain.ExtractionPayload, json.RawMessage, error) {
	f.systemPrompt = systemPrompt
	f.narrative = narrative
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.payload, f.raw, nil
}

// correctorFake mimics the real corrector closely enough for pipeline
// tests: naive layouts become literal-Z UTC strings, everything else
// passes through unchanged.
type correctorFake struct{}

func (correctorFake) CorrectToUTC(raw, _ string) string {
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC().Format("2006-01-02T15:04:05.000Z")
		}
	}
	return raw
}

func (correctorFake) LocalDay(time.Time, string) string { return "2026-03-05" }

type caseRepoFake struct {
	profile    *domain.Profile
	profileErr error
	caseFile   *domain.CaseFile
	caseErr    error
}

func (f *caseRepoFake) GetProfile(context.Context, string) (*domain.Profile, error) {
	return f.profile, f.profileErr
}

func (f *caseRepoFake) LatestCase(context.Context, string) (*domain.CaseFile, error) {
	return f.caseFile, f.caseErr
}

type guideFake struct {
	text  string
	known bool
}

func (f *guideFake) GuidanceFor(string) (string, bool) { return f.text, f.known }

type storageFake struct {
	savedKey string
	saveErr  error
}

func (f *storageFake) Save(_ context.Context, key string, data io.Reader) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.savedKey = key
	_, _ = io.Copy(io.Discard, data)
	return nil
}

func (f *storageFake) Open(context.Context, string) (io.ReadCloser, error) { return nil, nil }

type textExtractorFake struct {
	text string
	err  error
}

func (f *textExtractorFake) ExtractText(context.Context, *domain.Evidence) (string, error) {
	return f.text, f.err
}

type summarizerFake struct {
	summary string
	tags    []string
	err     error
}

func (f *summarizerFake) Summarize(context.Context, string) (string, []string, error) {
	if f.err != nil {
		return "", nil, f.err
	}
	return f.summary, f.tags, nil
}

type exporterFake struct {
	events []domain.Event
	err    error
}

func (f *exporterFake) WriteTimeline(events []domain.Event, _ io.Writer) error {
	if f.err != nil {
		return f.err
	}
	f.events = events
	return nil
}
