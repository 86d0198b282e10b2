package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	mcpadapter "github.com/kirillkom/legal-clause-validator/internal/adapters/mcp"
	"github.com/kirillkom/legal-clause-validator/internal/bootstrap"
	"github.com/kirillkom/legal-clause-validator/internal/config"
	"github.com/kirillkom/legal-clause-validator/internal/observability/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLoggerTo(os.Stderr, "clause-mcp", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, bootstrap.Options{})
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	server := mcpadapter.New(app.Analyzer, app.Reports, app.Inspector, app.Labels, cfg.MaxUploadBytes)
	if err := server.Run(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
		slog.Error("mcp_server_error", "error", err)
		os.Exit(1)
	}
}
