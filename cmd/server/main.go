package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rent-reconciliation/internal/api"
	"rent-reconciliation/internal/config"
	"rent-reconciliation/internal/gateway"
	"rent-reconciliation/internal/observability"
	"rent-reconciliation/internal/usecase"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to config.yaml (falls back to environment)")
	flag.Parse()

	cfg, err := config.LoadOrEnvWithPath(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := observability.NewLogger(cfg.Observability.Logging)
	slog.SetDefault(logger)

	format, err := gateway.ParseReportFormat(cfg.Report.Format)
	if err != nil {
		logger.Error("invalid report format", "error", err)
		os.Exit(1)
	}

	reconciler := usecase.NewReconciliationUseCase(gateway.NewSheetRepository(), cfg.UseCaseConfig(),
		usecase.WithEventSink(observability.NewSlogSink(logger)),
	)
	server := api.NewServer(api.Config{
		Port:           cfg.Server.Port,
		MaxUploadMB:    cfg.Server.MaxUploadMB,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		ReportFormat:   format,
	}, reconciler, gateway.NewReportWriter(cfg.Report.Language), logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
	case sig := <-quit:
		logger.Info("received signal", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}
}
