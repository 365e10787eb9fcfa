package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/adapters/http"
	"github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/bootstrap"
	"github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/config"
	"github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/observability/logging"
	"github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	logging.Setup("daylight-api", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	httpMetrics := metrics.NewHTTPServerMetrics("daylight-api")

	router := httpadapter.NewRouter(
		app.SubmitUC,
		app.EvidenceUC,
		app.ExportUC,
		app.Journals,
		app.Jobs,
		app.Evidence,
		cfg.RateLimitRPS,
		cfg.RateLimitBurst,
	).Handler()

	mux := http.NewServeMux()
	mux.Handle("/metrics", httpMetrics.Handler())
	mux.Handle("/", httpMetrics.Middleware("daylight-api", router))

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("api listening on :%s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("api server error: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("api shutdown error: %v", err)
	}
}
