package gateway

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"rent-reconciliation/internal/domain"
)

var utf8BOM = []byte("\xEF\xBB\xBF")

// readCSV parses delimited text into string cells. Empty cells become nil so
// they behave like blank spreadsheet cells.
func readCSV(data []byte) (domain.Sheet, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var sheet domain.Sheet
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading record: %w", err)
		}

		row := make(domain.Row, len(record))
		for i, value := range record {
			if value != "" {
				row[i] = value
			}
		}
		sheet = append(sheet, row)
	}
	return sheet, nil
}

// delimiterSampleLines bounds how much of a file detectDelimiter looks at.
const delimiterSampleLines = 20

var delimiterCandidates = []byte{';', '\t', ','}

// detectDelimiter picks the candidate found on the most of the first non-blank
// lines. Ties go to the earlier candidate, so semicolons win over commas: comma
// is the decimal separator in the statements we read, and bank exports often
// open with a title line that has no separator at all.
func detectDelimiter(data []byte) rune {
	scores := make([]int, len(delimiterCandidates))
	sampled := 0
	for _, line := range bytes.Split(data, []byte("\n")) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		for i, delim := range delimiterCandidates {
			if hasDelimiter(line, delim) {
				scores[i]++
			}
		}
		sampled++
		if sampled == delimiterSampleLines {
			break
		}
	}

	best := 0
	for i := range scores {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return rune(delimiterCandidates[best])
}

// hasDelimiter reports whether line contains delim outside a decimal comma
// such as the one in "+3 000,00".
func hasDelimiter(line []byte, delim byte) bool {
	for i, b := range line {
		if b != delim {
			continue
		}
		if delim == ',' && isDecimalComma(line, i) {
			continue
		}
		return true
	}
	return false
}

// isDecimalComma reports whether the comma at i has a digit before it and
// exactly one or two digits after it.
func isDecimalComma(line []byte, i int) bool {
	if i == 0 || !isDigit(line[i-1]) {
		return false
	}
	n := 0
	for j := i + 1; j < len(line) && isDigit(line[j]); j++ {
		n++
	}
	return n == 1 || n == 2
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
