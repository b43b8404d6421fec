package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the payment state of a ledger entry for the evaluated month.
type Status string

const (
	StatusReceived  Status = "received"
	StatusOverdue   Status = "overdue"
	StatusNotYetDue Status = "not_yet_due"
)

// ReconciliationResult is one output row, in ledger order.
type ReconciliationResult struct {
	Identifier     string          `json:"identifier"`
	ExpectedDate   time.Time       `json:"-"`
	ExpectedAmount decimal.Decimal `json:"expected_amount"`
	Status         Status          `json:"status"`

	// PaymentDate is set when a matching credit was found.
	PaymentDate *time.Time `json:"-"`
}

// MarshalJSON renders dates as ISO 8601 days.
func (r ReconciliationResult) MarshalJSON() ([]byte, error) {
	out := struct {
		Identifier     string          `json:"identifier"`
		ExpectedDate   string          `json:"expected_date"`
		ExpectedAmount decimal.Decimal `json:"expected_amount"`
		Status         Status          `json:"status"`
		PaymentDate    string          `json:"payment_date,omitempty"`
	}{
		Identifier:     r.Identifier,
		ExpectedDate:   r.ExpectedDateISO(),
		ExpectedAmount: r.ExpectedAmount,
		Status:         r.Status,
	}
	if r.PaymentDate != nil {
		out.PaymentDate = r.PaymentDate.Format(time.DateOnly)
	}
	return json.Marshal(out)
}

// ExpectedDateISO renders the expected date as an ISO 8601 date.
func (r ReconciliationResult) ExpectedDateISO() string {
	return r.ExpectedDate.Format(time.DateOnly)
}

// Summary provides counts for a single run.
type Summary struct {
	Period         string `json:"period"`
	Entries        int    `json:"entries"`
	Received       int    `json:"received"`
	Overdue        int    `json:"overdue"`
	NotYetDue      int    `json:"not_yet_due"`
	SkippedEntries int    `json:"skipped_entries"`
	Transactions   int    `json:"transactions"`
}

// Report is the top-level result of a reconciliation run.
type Report struct {
	RunID       string                 `json:"run_id"`
	GeneratedAt time.Time              `json:"generated_at"`
	Summary     Summary                `json:"summary"`
	Results     []ReconciliationResult `json:"results"`
}
