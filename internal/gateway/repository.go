package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"rent-reconciliation/internal/domain"
)

// Format is the file format of an upload.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
	FormatOFX  Format = "ofx"
)

var (
	errEmptyUpload     = errors.New("file is empty")
	errLedgerFormatOFX = errors.New("OFX files carry statements, not ledgers")
)

// SheetRepository implements the TableRepository interface for uploaded
// spreadsheet, CSV and OFX files.
type SheetRepository struct{}

// NewSheetRepository creates a new repository instance.
func NewSheetRepository() *SheetRepository {
	return &SheetRepository{}
}

// GetLedgerSheet reads the first sheet of a ledger workbook, header included.
func (r *SheetRepository) GetLedgerSheet(ctx context.Context, upload domain.Upload) (domain.Sheet, error) {
	format := DetectFormat(upload)
	if format == FormatOFX {
		return nil, &domain.ReadError{Source: upload.Filename, Err: errLedgerFormatOFX}
	}
	return r.read(ctx, upload, format)
}

// GetStatementSheet reads a bank statement as raw rows.
func (r *SheetRepository) GetStatementSheet(ctx context.Context, upload domain.Upload) (domain.Sheet, error) {
	return r.read(ctx, upload, DetectFormat(upload))
}

func (r *SheetRepository) read(ctx context.Context, upload domain.Upload, format Format) (domain.Sheet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(upload.Data) == 0 {
		return nil, &domain.ReadError{Source: upload.Filename, Err: errEmptyUpload}
	}

	var (
		sheet domain.Sheet
		err   error
	)
	switch format {
	case FormatXLSX:
		sheet, err = readXLSX(upload.Data)
	case FormatXLS:
		sheet, err = readXLS(upload.Data)
	case FormatOFX:
		sheet, err = readOFX(upload.Data)
	default:
		sheet, err = readCSV(upload.Data)
	}
	if err != nil {
		return nil, &domain.ReadError{Source: upload.Filename, Err: fmt.Errorf("%s: %w", format, err)}
	}
	return sheet, nil
}

// DetectFormat picks a reader from the file extension, falling back to the
// leading bytes when the extension is missing or unknown.
func DetectFormat(upload domain.Upload) Format {
	switch strings.ToLower(filepath.Ext(upload.Filename)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX
	case ".xls":
		return FormatXLS
	case ".ofx", ".qfx":
		return FormatOFX
	case ".csv", ".txt":
		return FormatCSV
	}

	data := upload.Data
	switch {
	case bytes.HasPrefix(data, []byte("PK\x03\x04")):
		return FormatXLSX
	case bytes.HasPrefix(data, []byte("\xD0\xCF\x11\xE0")):
		return FormatXLS
	case bytes.Contains(data[:min(len(data), 512)], []byte("OFX")):
		return FormatOFX
	default:
		return FormatCSV
	}
}

// LoadUpload reads a file from disk the way the boundary layer would receive it.
func LoadUpload(path string) (domain.Upload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Upload{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return domain.Upload{Filename: filepath.Base(path), Data: data}, nil
}
