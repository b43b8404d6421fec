package gateway

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"rent-reconciliation/internal/domain"
)

// ReportFormat is a serialization of a reconciliation report.
type ReportFormat string

const (
	ReportXLSX ReportFormat = "xlsx"
	ReportCSV  ReportFormat = "csv"
	ReportJSON ReportFormat = "json"
)

// ParseReportFormat validates a user supplied format name.
func ParseReportFormat(s string) (ReportFormat, error) {
	switch f := ReportFormat(s); f {
	case ReportXLSX, ReportCSV, ReportJSON:
		return f, nil
	case "":
		return ReportXLSX, nil
	default:
		return "", fmt.Errorf("unknown report format %q", s)
	}
}

// ContentType returns the MIME type of the format.
func (f ReportFormat) ContentType() string {
	switch f {
	case ReportCSV:
		return "text/csv; charset=utf-8"
	case ReportJSON:
		return "application/json"
	default:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
}

// Labels are the human readable column and status names of a report.
type Labels struct {
	Identifier   string
	ExpectedDate string
	Amount       string
	Status       string
	Statuses     map[domain.Status]string
}

var reportLabels = map[string]Labels{
	"en": {
		Identifier:   "Identifier",
		ExpectedDate: "Expected date",
		Amount:       "Amount",
		Status:       "Status",
		Statuses: map[domain.Status]string{
			domain.StatusReceived:  "received",
			domain.StatusOverdue:   "overdue",
			domain.StatusNotYetDue: "not yet due",
		},
	},
	"ru": {
		Identifier:   "Гараж",
		ExpectedDate: "Дата оплаты",
		Amount:       "Сумма",
		Status:       "Статус",
		Statuses: map[domain.Status]string{
			domain.StatusReceived:  "получен",
			domain.StatusOverdue:   "просрочен",
			domain.StatusNotYetDue: "срок не наступил",
		},
	},
}

// LabelsFor returns the labels of a language, defaulting to English.
func LabelsFor(language string) Labels {
	if l, ok := reportLabels[language]; ok {
		return l
	}
	return reportLabels["en"]
}

// ReportWriter serializes reports for download.
type ReportWriter struct {
	Labels Labels
}

// NewReportWriter creates a writer using the labels of language.
func NewReportWriter(language string) *ReportWriter {
	return &ReportWriter{Labels: LabelsFor(language)}
}

// Write serializes report to out in the given format.
func (w *ReportWriter) Write(out io.Writer, format ReportFormat, report *domain.Report) error {
	switch format {
	case ReportCSV:
		return w.writeCSV(out, report)
	case ReportJSON:
		return w.writeJSON(out, report)
	default:
		return w.writeXLSX(out, report)
	}
}

func (w *ReportWriter) header() []string {
	return []string{w.Labels.Identifier, w.Labels.ExpectedDate, w.Labels.Amount, w.Labels.Status}
}

func (w *ReportWriter) status(s domain.Status) string {
	if label, ok := w.Labels.Statuses[s]; ok {
		return label
	}
	return string(s)
}

func (w *ReportWriter) writeXLSX(out io.Writer, report *domain.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := w.header()
	row := make([]interface{}, len(header))
	for i, h := range header {
		row[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &row); err != nil {
		return fmt.Errorf("failed to write report header: %w", err)
	}

	for i, r := range report.Results {
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{
			r.Identifier,
			r.ExpectedDateISO(),
			r.ExpectedAmount.InexactFloat64(),
			w.status(r.Status),
		}
		if err := f.SetSheetRow(sheet, axis, &values); err != nil {
			return fmt.Errorf("failed to write report row %d: %w", i, err)
		}
	}

	if err := f.SetColWidth(sheet, "A", "D", 18); err != nil {
		return err
	}
	if err := f.Write(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func (w *ReportWriter) writeCSV(out io.Writer, report *domain.Report) error {
	writer := csv.NewWriter(out)

	if err := writer.Write(w.header()); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range report.Results {
		row := []string{
			r.Identifier,
			r.ExpectedDateISO(),
			r.ExpectedAmount.StringFixed(2),
			w.status(r.Status),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func (w *ReportWriter) writeJSON(out io.Writer, report *domain.Report) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
