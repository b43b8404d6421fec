package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cell is a single untyped spreadsheet value. Readers store string, float64,
// bool, time.Time or nil (empty cell).
type Cell = any

// Row is an ordered sequence of cells.
type Row []Cell

// Sheet is a raw table as read from an upload, header rows included.
type Sheet []Row

// Upload is a file handed over by the boundary layer.
type Upload struct {
	Filename string
	Data     []byte
}

// LedgerColumns names the header cells that carry the ledger fields.
type LedgerColumns struct {
	Identifier string `yaml:"identifier"`
	Amount     string `yaml:"amount"`
	AnchorDate string `yaml:"anchor_date"`
}

// DefaultLedgerColumns matches the headers of the garage rent workbook.
func DefaultLedgerColumns() LedgerColumns {
	return LedgerColumns{
		Identifier: "Гараж",
		Amount:     "Сумма",
		AnchorDate: "Первоначальная дата",
	}
}

// LedgerRow is a ledger data row before field conversion.
// Index is the zero-based position among data rows.
type LedgerRow struct {
	Index      int
	Identifier Cell
	Amount     Cell
	AnchorDate Cell
}

// LedgerEntry is one recurring rent obligation.
// Only the day component of AnchorDate is used.
type LedgerEntry struct {
	Identifier     string          `json:"identifier"`
	ExpectedAmount decimal.Decimal `json:"expected_amount"`
	AnchorDate     time.Time       `json:"anchor_date"`
}

// Transaction is an incoming credit extracted from a bank statement.
// Date carries no time component.
type Transaction struct {
	Date   time.Time       `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}
