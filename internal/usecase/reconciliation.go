package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"rent-reconciliation/internal/domain"
)

// Config controls how ledgers are read and matched.
type Config struct {
	Columns  domain.LedgerColumns
	Matching MatchConfig
}

// DefaultConfig returns the garage ledger columns and rent tolerances.
func DefaultConfig() Config {
	return Config{
		Columns:  domain.DefaultLedgerColumns(),
		Matching: DefaultMatchConfig(),
	}
}

// Option customizes a ReconciliationUseCase.
type Option func(*ReconciliationUseCase)

// WithClock replaces the wall clock used to pick the evaluated month.
func WithClock(now func() time.Time) Option {
	return func(uc *ReconciliationUseCase) { uc.now = now }
}

// WithEventSink routes core events to sink.
func WithEventSink(sink EventSink) Option {
	return func(uc *ReconciliationUseCase) { uc.sink = sink }
}

// ReconciliationUseCase orchestrates the reconciliation process.
type ReconciliationUseCase struct {
	repo   TableRepository
	config Config
	sink   EventSink
	now    func() time.Time
}

// NewReconciliationUseCase creates a new instance of the usecase.
func NewReconciliationUseCase(repo TableRepository, config Config, opts ...Option) *ReconciliationUseCase {
	uc := &ReconciliationUseCase{
		repo:   repo,
		config: config,
		sink:   DiscardSink{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Reconcile reads both uploads and classifies every ledger entry for the
// current month. Read and schema failures abort the run; bad rows are skipped.
func (uc *ReconciliationUseCase) Reconcile(ctx context.Context, ledger, statement domain.Upload) (*domain.Report, error) {
	runID := uuid.NewString()
	sink := runSink{runID: runID, next: uc.sink}
	now := uc.now()

	// Step 1: Data Ingestion
	ledgerSheet, err := uc.repo.GetLedgerSheet(ctx, ledger)
	if err != nil {
		return nil, fmt.Errorf("could not get ledger: %w", asReadError(ctx, ledger, err))
	}
	statementSheet, err := uc.repo.GetStatementSheet(ctx, statement)
	if err != nil {
		return nil, fmt.Errorf("could not get statement: %w", asReadError(ctx, statement, err))
	}

	// Step 2: Schema validation
	rows, err := LoadLedger(ledgerSheet, uc.config.Columns)
	if err != nil {
		return nil, fmt.Errorf("could not load ledger: %w", err)
	}
	sink.Emit(domain.Event{Kind: domain.EventRunStarted, Count: len(rows)})

	// Step 3: Credit extraction and matching
	txs := ExtractTransactions(statementSheet, sink)
	engine := NewEngine(uc.config.Matching, sink)
	results, skipped := engine.Run(rows, txs, now)

	// Step 4: Report
	report := &domain.Report{
		RunID:       runID,
		GeneratedAt: now,
		Summary: domain.Summary{
			Period:         now.Format("2006-01"),
			Entries:        len(rows),
			SkippedEntries: len(skipped),
			Transactions:   len(txs),
		},
		Results: results,
	}
	if report.Results == nil {
		report.Results = make([]domain.ReconciliationResult, 0)
	}
	for _, r := range results {
		switch r.Status {
		case domain.StatusReceived:
			report.Summary.Received++
		case domain.StatusOverdue:
			report.Summary.Overdue++
		case domain.StatusNotYetDue:
			report.Summary.NotYetDue++
		}
	}

	sink.Emit(domain.Event{Kind: domain.EventRunFinished, Count: len(results)})
	return report, nil
}

// asReadError makes sure a repository failure surfaces as a ReadError,
// leaving context cancellation untouched.
func asReadError(ctx context.Context, upload domain.Upload, err error) error {
	var readErr *domain.ReadError
	if errors.As(err, &readErr) || ctx.Err() != nil {
		return err
	}
	return &domain.ReadError{Source: upload.Filename, Err: err}
}

// runSink stamps every event with the run it belongs to.
type runSink struct {
	runID string
	next  EventSink
}

func (s runSink) Emit(event domain.Event) {
	event.RunID = s.runID
	s.next.Emit(event)
}
