package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/bootstrap"
	"github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/config"
	"github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/core/domain"
	"github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/observability/logging"
	"github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/observability/metrics"
)

const service = "daylight-worker"

func main() {
	cfg := config.Load()
	logging.Setup(service, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics(service)
	go serveMetrics(cfg.WorkerMetricsPort, workerMetrics)

	go func() {
		log.Printf("worker subscribed to %s", cfg.NATSSummarizeSubject)
		err := app.Queue.SubscribeSummarizeRequested(ctx, func(handlerCtx context.Context, req domain.SummarizeRequest) error {
			summarizeCtx, cancel := context.WithTimeout(handlerCtx, 5*time.Minute)
			defer cancel()

			err := app.EvidenceUC.Summarize(summarizeCtx, req)
			workerMetrics.RecordSummarize(service, err)
			return err
		})
		if err != nil {
			log.Fatalf("worker summarize subscribe error: %v", err)
		}
	}()

	log.Printf("worker subscribed to %s", cfg.NATSExtractSubject)
	err = app.Queue.SubscribeExtractionRequested(ctx, func(handlerCtx context.Context, req domain.ExtractionRequest) error {
		runCtx, cancel := context.WithTimeout(handlerCtx, 10*time.Minute)
		defer cancel()

		if job, jobErr := app.Jobs.GetJob(runCtx, req.UserID, req.JobID); jobErr == nil && job != nil {
			workerMetrics.ObserveQueueLag(service, time.Since(job.CreatedAt))
		}

		workerMetrics.StartExtraction()
		start := time.Now()
		runErr := app.ExtractUC.Run(runCtx, req)
		workerMetrics.FinishExtraction(service, time.Since(start), runErr)

		if runErr == nil {
			if job, jobErr := app.Jobs.GetJob(runCtx, req.UserID, req.JobID); jobErr == nil && job != nil && job.ResultSummary != nil {
				workerMetrics.ObserveRunResult(service, job.ResultSummary.EventsCreated, job.ResultSummary.Degraded())
			}
		}
		return runErr
	})
	if err != nil {
		log.Fatalf("worker extraction subscribe error: %v", err)
	}
}

func serveMetrics(port string, m *metrics.WorkerMetrics) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	log.Printf("worker metrics listening on :%s", port)
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		log.Printf("worker metrics server error: %v", err)
	}
}
