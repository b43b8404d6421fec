// Package observability provides simple logging utilities.
//
// The reconciliation core never logs on its own. It emits events to an
// EventSink, and SlogSink turns those events into structured log records.
package observability

import (
	"io"
	"log/slog"
	"os"

	"rent-reconciliation/internal/config"
	"rent-reconciliation/internal/domain"
)

// NewLogger creates a structured logger based on config
func NewLogger(cfg config.LoggingConfig) *slog.Logger {
	return NewLoggerTo(os.Stdout, cfg)
}

// NewLoggerTo creates a structured logger writing to w
func NewLoggerTo(w io.Writer, cfg config.LoggingConfig) *slog.Logger {
	// Parse log level
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	// Create handler options
	opts := &slog.HandlerOptions{
		Level: level,
	}

	// Choose format
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// SlogSink routes reconciliation events to a slog.Logger.
type SlogSink struct {
	logger *slog.Logger
}

// NewSlogSink creates a sink. A nil logger uses slog.Default().
func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{logger: logger}
}

// Emit implements usecase.EventSink.
func (s *SlogSink) Emit(e domain.Event) {
	logger := s.logger.With("run_id", e.RunID)

	switch e.Kind {
	case domain.EventRunStarted:
		logger.Info("reconciliation started", "ledger_rows", e.Count)
	case domain.EventRowSkipped:
		logger.Warn("row skipped", "error", e.Err)
	case domain.EventNoCredits:
		logger.Warn("statement contains no incoming payments")
	case domain.EventCreditsFound:
		logger.Info("incoming payments found", "count", e.Count)
	case domain.EventDateClamped:
		logger.Debug("due day moved to end of month",
			"identifier", e.Identifier,
			"expected_date", e.ExpectedDate.Format("2006-01-02"))
	case domain.EventMatchFound:
		logger.Debug("payment found",
			"identifier", e.Identifier,
			"expected_date", e.ExpectedDate.Format("2006-01-02"),
			"payment_date", e.PaymentDate.Format("2006-01-02"))
	case domain.EventStatusAssigned:
		logger.Debug("status assigned",
			"identifier", e.Identifier,
			"expected_date", e.ExpectedDate.Format("2006-01-02"),
			"status", string(e.Status))
	case domain.EventRunFinished:
		logger.Info("reconciliation finished", "results", e.Count)
	default:
		logger.Debug("event", "kind", string(e.Kind))
	}
}
