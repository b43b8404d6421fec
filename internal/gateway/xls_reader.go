package gateway

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/extrame/xls"

	"rent-reconciliation/internal/domain"
)

// readXLS reads the first worksheet of a legacy BIFF workbook. The library
// renders every cell as text, so all non-blank cells are strings.
func readXLS(data []byte) (sheet domain.Sheet, err error) {
	// The BIFF decoder panics on some truncated files.
	defer func() {
		if r := recover(); r != nil {
			sheet, err = nil, fmt.Errorf("corrupt workbook: %v", r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}
	if wb.NumSheets() == 0 {
		return nil, errNoSheets
	}
	ws := wb.GetSheet(0)
	if ws == nil {
		return nil, errNoSheets
	}

	for i := 0; i <= int(ws.MaxRow); i++ {
		xr := ws.Row(i)
		if xr == nil {
			sheet = append(sheet, domain.Row{})
			continue
		}
		row := make(domain.Row, xr.LastCol())
		for c := xr.FirstCol(); c < xr.LastCol(); c++ {
			if value := xr.Col(c); strings.TrimSpace(value) != "" {
				row[c] = value
			}
		}
		sheet = append(sheet, row)
	}
	return sheet, nil
}
