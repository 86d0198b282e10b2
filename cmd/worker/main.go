package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/kirillkom/legal-clause-validator/internal/bootstrap"
	"github.com/kirillkom/legal-clause-validator/internal/config"
	"github.com/kirillkom/legal-clause-validator/internal/core/domain"
	"github.com/kirillkom/legal-clause-validator/internal/observability/logging"
	"github.com/kirillkom/legal-clause-validator/internal/observability/metrics"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger("clause-worker", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.NATSURL == "" {
		slog.Error("worker_requires_nats", "hint", "set NATS_URL")
		os.Exit(1)
	}

	workerMetrics := metrics.NewWorkerMetrics("clause-worker")
	app, err := bootstrap.New(ctx, cfg, bootstrap.Options{
		BreakerObserver: workerMetrics.Pipeline().ObserveBreaker,
	})
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	metricsServer := &http.Server{
		Addr:              ":" + cfg.WorkerMetricsPort,
		Handler:           metricsMux(workerMetrics),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		slog.Info("worker_metrics_listening", "port", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("worker_metrics_server_error", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	slog.Info("worker_subscribed", "subject", cfg.NATSRequestSubject)
	err = app.Bus.ServeAnalyze(ctx, cfg.AnalysisTimeout(), func(handlerCtx context.Context, filename string, content []byte) (*domain.Analysis, error) {
		return workerMetrics.Track(len(content), func() (*domain.Analysis, error) {
			return app.Analyzer.Analyze(handlerCtx, domain.NewDocument(filename, content))
		})
	})
	if err != nil {
		slog.Error("worker_serve_error", "error", err)
		os.Exit(1)
	}
}

func metricsMux(m *metrics.WorkerMetrics) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", m.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}
