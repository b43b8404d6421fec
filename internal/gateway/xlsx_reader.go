package gateway

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"rent-reconciliation/internal/domain"
)

var errNoSheets = errors.New("workbook has no sheets")

// Built-in number formats that render a serial number as a date.
var builtinDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true, 21: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true, 32: true, 33: true, 34: true, 35: true, 36: true,
	45: true, 46: true, 47: true,
	50: true, 51: true, 52: true, 53: true, 54: true, 55: true, 56: true, 57: true, 58: true,
}

// Quoted literals and bracketed sections ([Red], [$-409]) are not date tokens.
var numFmtNoise = regexp.MustCompile(`"[^"]*"|\[[^\]]*\]`)

// readXLSX reads the first worksheet. Numeric cells become float64, cells with
// a date number format become time.Time, text stays string, blanks are nil.
func readXLSX(data []byte) (domain.Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errNoSheets
	}
	name := sheets[0]

	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", name, err)
	}

	sheet := make(domain.Sheet, 0, len(rows))
	for r, values := range rows {
		row := make(domain.Row, len(values))
		for c, value := range values {
			if value == "" {
				continue
			}
			axis, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			row[c] = typedCell(f, name, axis, value)
		}
		sheet = append(sheet, row)
	}
	return sheet, nil
}

func typedCell(f *excelize.File, sheet, axis, value string) domain.Cell {
	typ, err := f.GetCellType(sheet, axis)
	if err != nil {
		return value
	}

	switch typ {
	case excelize.CellTypeBool:
		return value == "1" || strings.EqualFold(value, "true")
	case excelize.CellTypeDate:
		if t, err := time.Parse(time.RFC3339, value); err == nil {
			return t
		}
		return value
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return value
		}
		if isDateCell(f, sheet, axis) {
			if t, err := excelize.ExcelDateToTime(n, false); err == nil {
				return t
			}
		}
		return n
	default:
		return value
	}
}

func isDateCell(f *excelize.File, sheet, axis string) bool {
	styleID, err := f.GetCellStyle(sheet, axis)
	if err != nil || styleID == 0 {
		return false
	}
	style, err := f.GetStyle(styleID)
	if err != nil || style == nil {
		return false
	}
	if builtinDateFormats[style.NumFmt] {
		return true
	}
	if style.CustomNumFmt == nil {
		return false
	}
	code := strings.ToLower(numFmtNoise.ReplaceAllString(*style.CustomNumFmt, ""))
	return strings.ContainsAny(code, "dy")
}
