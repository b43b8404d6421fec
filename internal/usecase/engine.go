package usecase

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"rent-reconciliation/internal/domain"
)

// MatchConfig holds the matching tolerances.
type MatchConfig struct {
	AmountTolerance float64 `yaml:"amount_tolerance"` // exclusive, currency units
	DateWindowDays  int     `yaml:"date_window_days"` // inclusive, either side of the due date
	GraceDays       int     `yaml:"grace_days"`       // payment up to due date + GraceDays is on time
}

// DefaultMatchConfig returns the tolerances used for rent payments.
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{
		AmountTolerance: 1.0,
		DateWindowDays:  31,
		GraceDays:       3,
	}
}

// Engine classifies ledger entries against a set of credits.
// It holds no state between calls and may be shared between goroutines as
// long as the sink tolerates concurrent use.
type Engine struct {
	config    MatchConfig
	tolerance decimal.Decimal
	sink      EventSink
}

// NewEngine creates an engine. A nil sink discards events.
func NewEngine(config MatchConfig, sink EventSink) *Engine {
	if sink == nil {
		sink = DiscardSink{}
	}
	return &Engine{
		config:    config,
		tolerance: decimal.NewFromFloat(config.AmountTolerance),
		sink:      sink,
	}
}

// Run evaluates every ledger row for the month containing now. Rows that fail
// to convert or evaluate are reported and left out; the rest keep ledger order.
func (e *Engine) Run(rows []domain.LedgerRow, txs []domain.Transaction, now time.Time) ([]domain.ReconciliationResult, []error) {
	outcomes := make([]rowOutcome[domain.ReconciliationResult], 0, len(rows))
	for _, row := range rows {
		outcomes = append(outcomes, e.evaluateRow(row, txs, now))
	}

	skipped := failures(outcomes)
	for _, err := range skipped {
		e.sink.Emit(domain.Event{Kind: domain.EventRowSkipped, Err: err})
	}
	return successes(outcomes), skipped
}

func (e *Engine) evaluateRow(row domain.LedgerRow, txs []domain.Transaction, now time.Time) (out rowOutcome[domain.ReconciliationResult]) {
	defer func() {
		if r := recover(); r != nil {
			out = rowOutcome[domain.ReconciliationResult]{
				err: &domain.RowError{Source: "ledger", Row: row.Index, Err: fmt.Errorf("panic: %v", r)},
			}
		}
	}()

	entry, err := ToEntry(row)
	if err != nil {
		return rowOutcome[domain.ReconciliationResult]{
			err: &domain.RowError{Source: "ledger", Row: row.Index, Err: err},
		}
	}
	return rowOutcome[domain.ReconciliationResult]{value: e.Evaluate(entry, txs, now), ok: true}
}

// Evaluate computes the status of a single entry. Transactions are not
// consumed, so one credit may satisfy several entries with the same amount.
func (e *Engine) Evaluate(entry domain.LedgerEntry, txs []domain.Transaction, now time.Time) domain.ReconciliationResult {
	expected := ExpectedDate(entry.AnchorDate.Day(), now.Year(), now.Month())
	if expected.Day() != entry.AnchorDate.Day() {
		e.sink.Emit(domain.Event{
			Kind:         domain.EventDateClamped,
			Identifier:   entry.Identifier,
			ExpectedDate: expected,
		})
	}

	result := domain.ReconciliationResult{
		Identifier:     entry.Identifier,
		ExpectedDate:   expected,
		ExpectedAmount: entry.ExpectedAmount,
	}

	if match, ok := e.nearestMatch(entry.ExpectedAmount, expected, txs); ok {
		paid := match.Date
		result.PaymentDate = &paid
		if paid.After(expected.AddDate(0, 0, e.config.GraceDays)) {
			result.Status = domain.StatusOverdue
		} else {
			result.Status = domain.StatusReceived
		}
		e.sink.Emit(domain.Event{
			Kind:         domain.EventMatchFound,
			Identifier:   entry.Identifier,
			ExpectedDate: expected,
			PaymentDate:  paid,
		})
	} else {
		dueAt := time.Date(expected.Year(), expected.Month(), expected.Day(), 0, 0, 0, 0, now.Location())
		if now.Before(dueAt) {
			result.Status = domain.StatusNotYetDue
		} else {
			result.Status = domain.StatusOverdue
		}
	}

	e.sink.Emit(domain.Event{
		Kind:         domain.EventStatusAssigned,
		Identifier:   entry.Identifier,
		ExpectedDate: expected,
		Status:       result.Status,
	})
	return result
}

// nearestMatch returns the candidate closest to the expected date. Ties keep
// the first candidate in statement order.
func (e *Engine) nearestMatch(amount decimal.Decimal, expected time.Time, txs []domain.Transaction) (domain.Transaction, bool) {
	var best domain.Transaction
	bestDistance := -1

	for _, tx := range txs {
		if tx.Amount.Sub(amount).Abs().GreaterThanOrEqual(e.tolerance) {
			continue
		}
		distance := abs(DaysBetween(tx.Date, expected))
		if distance > e.config.DateWindowDays {
			continue
		}
		if bestDistance < 0 || distance < bestDistance {
			best = tx
			bestDistance = distance
		}
	}
	return best, bestDistance >= 0
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
