package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"rent-reconciliation/internal/config"
	"rent-reconciliation/internal/domain"
	"rent-reconciliation/internal/gateway"
	"rent-reconciliation/internal/observability"
	"rent-reconciliation/internal/usecase"
)

func main() {
	// Define command-line flags
	ledgerFile := flag.String("ledger", "", "Path to the rent ledger workbook (required)")
	statementFile := flag.String("statement", "", "Path to the bank statement export (required)")
	outFile := flag.String("out", "", "Where to write the report (default stdout)")
	formatStr := flag.String("format", "", "Report format: xlsx, csv or json (default from config)")
	nowStr := flag.String("now", "", "Evaluate as of this date (YYYY-MM-DD) instead of today")
	configPath := flag.String("config", "", "Path to config.yaml (default ./config.yaml, then environment)")
	lang := flag.String("lang", "", "Report language: en or ru (default from config)")
	flag.Parse()

	// Validate required flags
	if *ledgerFile == "" || *statementFile == "" {
		fmt.Fprintln(os.Stderr, "Error: flags -ledger and -statement are required.")
		flag.Usage()
		os.Exit(1)
	}

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = config.LoadOrEnv()
	}
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	if *lang != "" {
		cfg.Report.Language = *lang
	}
	if *formatStr != "" {
		cfg.Report.Format = *formatStr
	}
	format, err := gateway.ParseReportFormat(cfg.Report.Format)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	clock := time.Now
	if *nowStr != "" {
		now, err := time.ParseInLocation(time.DateOnly, *nowStr, time.Local)
		if err != nil {
			log.Fatalf("Error parsing -now: %v", err)
		}
		clock = func() time.Time { return now }
	}

	ledger, err := gateway.LoadUpload(*ledgerFile)
	if err != nil {
		log.Fatalf("Error reading ledger: %v", err)
	}
	statement, err := gateway.LoadUpload(*statementFile)
	if err != nil {
		log.Fatalf("Error reading statement: %v", err)
	}

	// --- Dependency Injection (Wiring the application) ---
	// Logs go to stderr so a report written to stdout stays clean.

	// 1. Create the logger and the sink the core reports events to
	logger := observability.NewLoggerTo(os.Stderr, cfg.Observability.Logging)
	sink := observability.NewSlogSink(logger)

	// 2. Create the repository (the outermost layer)
	sheetRepo := gateway.NewSheetRepository()

	// 3. Create the usecase and inject the repository (the core logic layer)
	reconciliationUseCase := usecase.NewReconciliationUseCase(sheetRepo, cfg.UseCaseConfig(),
		usecase.WithClock(clock),
		usecase.WithEventSink(sink),
	)

	// --- Execute the Usecase ---
	report, err := reconciliationUseCase.Reconcile(context.Background(), ledger, statement)
	if err != nil {
		log.Fatalf("Reconciliation failed: %v", err)
	}

	// --- Present the Output ---
	writer := gateway.NewReportWriter(cfg.Report.Language)
	if err := writeReport(writer, *outFile, format, report); err != nil {
		log.Fatalf("Failed to write report: %v", err)
	}

	logger.Info("report written",
		"run_id", report.RunID,
		"period", report.Summary.Period,
		"received", report.Summary.Received,
		"overdue", report.Summary.Overdue,
		"not_yet_due", report.Summary.NotYetDue,
		"skipped", report.Summary.SkippedEntries)
}

// writeReport writes to path, or to stdout when path is empty. A failed close
// is reported because it can lose the tail of the file.
func writeReport(writer *gateway.ReportWriter, path string, format gateway.ReportFormat, report *domain.Report) error {
	if path == "" {
		return writer.Write(os.Stdout, format, report)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	if err := writer.Write(f, format, report); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close report file: %w", err)
	}
	return nil
}
