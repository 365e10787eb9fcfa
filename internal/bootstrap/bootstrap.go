package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/config"
	"github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/core/ports"
	"github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/core/usecase"
	"github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/infrastructure/export/excel"
	evidencetext "github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/infrastructure/extractor/evidence"
	"github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/infrastructure/guidance"
	"github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/infrastructure/llm/anthropic"
	"github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/infrastructure/queue/nats"
	"github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/infrastructure/repository/postgres"
	"github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/infrastructure/resilience"
	"github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/infrastructure/storage/localfs"
	"github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/infrastructure/timefix"
)

type App struct {
	Config config.Config

	Queue    ports.MessageQueue
	Journals ports.JournalRepository
	Jobs     ports.JobRepository
	Evidence ports.EvidenceRepository

	SubmitUC   ports.JournalSubmitter
	ExtractUC  ports.ExtractionRunner
	EvidenceUC ports.EvidenceIntake
	ExportUC   ports.TimelineExportService

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	journals := postgres.NewJournalRepository(db)
	jobs := postgres.NewJobRepository(db)
	events := postgres.NewEventRepository(db)
	cases := postgres.NewCaseRepository(db)
	evidenceRepo := postgres.NewEvidenceRepository(db)

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts:    cfg.RetryMaxAttempts,
		BreakerEnabled:      cfg.BreakerEnabled,
		BreakerMinRequests:  uint32(cfg.BreakerMinRequests),
		BreakerFailureRatio: cfg.BreakerFailureRatio,
		BreakerOpenTimeout:  time.Duration(cfg.BreakerOpenTimeoutMS) * time.Millisecond,
	})

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSExtractSubject, cfg.NATSSummarizeSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	llm := anthropic.NewWithOptions(cfg.AnthropicBaseURL, cfg.AnthropicAPIKey, cfg.AnthropicModel, anthropic.Options{
		MaxTokens:          cfg.LLMMaxTokens,
		RequestTimeout:     time.Duration(cfg.LLMTimeoutSecs) * time.Second,
		ResilienceExecutor: executor,
	})

	guide, err := guidance.Load()
	if err != nil {
		return nil, fmt.Errorf("load jurisdiction guidance: %w", err)
	}

	corrector := timefix.New()
	prompts := usecase.NewPromptAssembler(cases, guide, corrector)
	textExtractor := evidencetext.NewExtractor(storage)
	exporter := excel.NewExporter()

	submitUC := usecase.NewSubmitJournalUseCase(journals, jobs, events, evidenceRepo, queue)
	extractUC := usecase.NewExtractEventsUseCase(journals, jobs, events, evidenceRepo, llm, corrector, prompts)
	evidenceUC := usecase.NewEvidenceIntakeUseCase(evidenceRepo, storage, queue, textExtractor, llm)
	exportUC := usecase.NewExportTimelineUseCase(events, exporter)

	return &App{
		Config: cfg,

		Queue:    queue,
		Journals: journals,
		Jobs:     jobs,
		Evidence: evidenceRepo,

		SubmitUC:   submitUC,
		ExtractUC:  extractUC,
		EvidenceUC: evidenceUC,
		ExportUC:   exportUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
