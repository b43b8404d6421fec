package usecase

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"rent-reconciliation/internal/domain"
)

var (
	errEmptyCell      = errors.New("empty cell")
	errNegativeAmount = errors.New("negative expected amount")
	errBadSerial      = errors.New("date serial must be at least 1")
)

// anchorDateLayouts are tried in order for anchor dates stored as text.
var anchorDateLayouts = []string{
	time.DateOnly,
	time.DateTime,
	time.RFC3339,
	"02.01.2006",
	"02.01.2006 15:04:05",
	"01/02/2006",
	"2006/01/02",
}

// LoadLedger locates the required columns in the header row and returns the
// data rows unconverted. It fails with a SchemaError when a column is absent.
func LoadLedger(sheet domain.Sheet, cols domain.LedgerColumns) ([]domain.LedgerRow, error) {
	headerAt := -1
	for i, row := range sheet {
		if !isBlankRow(row) {
			headerAt = i
			break
		}
	}

	index := map[string]int{}
	if headerAt >= 0 {
		for i, cell := range sheet[headerAt] {
			name, ok := cellText(cell)
			if !ok {
				continue
			}
			if _, seen := index[name]; !seen {
				index[name] = i
			}
		}
	}

	var missing []string
	for _, name := range []string{cols.Identifier, cols.Amount, cols.AnchorDate} {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &domain.SchemaError{Missing: missing}
	}

	var rows []domain.LedgerRow
	for _, row := range sheet[headerAt+1:] {
		if isBlankRow(row) {
			continue
		}
		rows = append(rows, domain.LedgerRow{
			Index:      len(rows),
			Identifier: cellAt(row, index[cols.Identifier]),
			Amount:     cellAt(row, index[cols.Amount]),
			AnchorDate: cellAt(row, index[cols.AnchorDate]),
		})
	}
	return rows, nil
}

// ToEntry converts a raw ledger row into a typed entry.
func ToEntry(row domain.LedgerRow) (domain.LedgerEntry, error) {
	id, ok := cellText(row.Identifier)
	if !ok {
		return domain.LedgerEntry{}, fmt.Errorf("identifier: %w", errEmptyCell)
	}

	amount, err := cellAmount(row.Amount)
	if err != nil {
		return domain.LedgerEntry{}, fmt.Errorf("amount: %w", err)
	}
	if amount.IsNegative() {
		return domain.LedgerEntry{}, fmt.Errorf("amount: %w", errNegativeAmount)
	}

	anchor, err := cellDate(row.AnchorDate)
	if err != nil {
		return domain.LedgerEntry{}, fmt.Errorf("anchor date: %w", err)
	}

	return domain.LedgerEntry{
		Identifier:     id,
		ExpectedAmount: amount,
		AnchorDate:     anchor,
	}, nil
}

func cellAt(row domain.Row, i int) domain.Cell {
	if i < len(row) {
		return row[i]
	}
	return nil
}

func isBlankRow(row domain.Row) bool {
	for _, c := range row {
		if _, ok := cellText(c); ok {
			return false
		}
	}
	return true
}

// cellText renders a cell as trimmed text. It reports false for empty cells.
func cellText(c domain.Cell) (string, bool) {
	var s string
	switch v := c.(type) {
	case nil:
		return "", false
	case string:
		s = strings.TrimSpace(v)
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		s = strconv.Itoa(v)
	case bool:
		s = strconv.FormatBool(v)
	case time.Time:
		s = v.Format(time.DateOnly)
	default:
		s = strings.TrimSpace(fmt.Sprint(v))
	}
	return s, s != ""
}

func cellAmount(c domain.Cell) (decimal.Decimal, error) {
	switch v := c.(type) {
	case nil:
		return decimal.Zero, errEmptyCell
	case float64:
		return decimal.NewFromFloat(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case string:
		return ParseAmount(v)
	default:
		return decimal.Zero, &domain.ParseError{Input: fmt.Sprint(v)}
	}
}

func cellDate(c domain.Cell) (time.Time, error) {
	switch v := c.(type) {
	case nil:
		return time.Time{}, errEmptyCell
	case time.Time:
		return DateOnly(v), nil
	case float64:
		// Unformatted workbook cell holding a 1900-system date serial.
		if v < 1 {
			return time.Time{}, &domain.ParseError{Input: fmt.Sprint(v), Err: errBadSerial}
		}
		t, err := excelize.ExcelDateToTime(v, false)
		if err != nil {
			return time.Time{}, &domain.ParseError{Input: fmt.Sprint(v), Err: err}
		}
		return DateOnly(t), nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return time.Time{}, errEmptyCell
		}
		for _, layout := range anchorDateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return DateOnly(t), nil
			}
		}
		return time.Time{}, &domain.ParseError{Input: s}
	default:
		return time.Time{}, &domain.ParseError{Input: fmt.Sprint(v)}
	}
}
