package usecase

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"rent-reconciliation/internal/domain"
)

// StatementDateLayout is the day.month.year layout of statement date cells.
const StatementDateLayout = "2.1.2006"

const (
	statementDateCol   = 0
	statementAmountCol = 4
)

var errNoDateToken = errors.New("no date token")

// rowOutcome is the result of evaluating one row. Exactly one of the value or
// err is meaningful. A row that is filtered out has neither.
type rowOutcome[T any] struct {
	value T
	err   error
	ok    bool
}

// successes keeps the values of successful outcomes in input order.
func successes[T any](outcomes []rowOutcome[T]) []T {
	var out []T
	for _, o := range outcomes {
		if o.ok {
			out = append(out, o.value)
		}
	}
	return out
}

// failures returns the errors of failed outcomes in input order.
func failures[T any](outcomes []rowOutcome[T]) []error {
	var out []error
	for _, o := range outcomes {
		if o.err != nil {
			out = append(out, o.err)
		}
	}
	return out
}

// ExtractTransactions scans raw statement rows and returns the incoming credits
// in row order. Rows that are not credits are ignored; credit rows that fail to
// parse are reported to sink and skipped.
func ExtractTransactions(sheet domain.Sheet, sink EventSink) []domain.Transaction {
	if sink == nil {
		sink = DiscardSink{}
	}

	outcomes := make([]rowOutcome[domain.Transaction], 0, len(sheet))
	for i, row := range sheet {
		outcomes = append(outcomes, extractRow(i, row))
	}

	for _, err := range failures(outcomes) {
		sink.Emit(domain.Event{Kind: domain.EventRowSkipped, Err: err})
	}

	txs := successes(outcomes)
	if len(txs) == 0 {
		sink.Emit(domain.Event{Kind: domain.EventNoCredits})
	} else {
		sink.Emit(domain.Event{Kind: domain.EventCreditsFound, Count: len(txs)})
	}
	return txs
}

func extractRow(index int, row domain.Row) rowOutcome[domain.Transaction] {
	if !isCreditRow(row) {
		return rowOutcome[domain.Transaction]{}
	}

	tx, err := parseCreditRow(row)
	if err != nil {
		return rowOutcome[domain.Transaction]{
			err: &domain.RowError{Source: "statement", Row: index, Err: err},
		}
	}
	return rowOutcome[domain.Transaction]{value: tx, ok: true}
}

// isCreditRow reports whether a row looks like an incoming payment: a date-ish
// first cell and a fifth cell carrying a plus sign.
func isCreditRow(row domain.Row) bool {
	if len(row) == 0 {
		return false
	}
	first, ok := row[statementDateCol].(string)
	if !ok || !strings.ContainsFunc(first, unicode.IsDigit) {
		return false
	}
	if len(row) <= statementAmountCol {
		return false
	}
	amount, ok := row[statementAmountCol].(string)
	return ok && strings.Contains(amount, "+")
}

func parseCreditRow(row domain.Row) (domain.Transaction, error) {
	fields := strings.Fields(row[statementDateCol].(string))
	if len(fields) == 0 {
		return domain.Transaction{}, errNoDateToken
	}
	date, err := time.Parse(StatementDateLayout, fields[0])
	if err != nil {
		return domain.Transaction{}, &domain.ParseError{Input: fields[0], Err: err}
	}

	amount, err := ParseAmount(row[statementAmountCol].(string))
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("amount: %w", err)
	}

	return domain.Transaction{Date: date, Amount: amount}, nil
}
