package api

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"rent-reconciliation/internal/domain"
	"rent-reconciliation/internal/gateway"
)

const reportBaseName = "garage_payments_report"

// Form fields accepted for each upload, preferred name first.
var (
	ledgerFields    = []string{"ledger_file", "arenda_file"}
	statementFields = []string{"statement_file", "bank_file"}
)

var uploadPage = template.Must(template.New("upload").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Garage payments</title></head>
<body>
<h1>Garage payments</h1>
<form action="/analyze" method="post" enctype="multipart/form-data">
  <p><label>Ledger <input type="file" name="ledger_file" required></label></p>
  <p><label>Bank statement <input type="file" name="statement_file" required></label></p>
  <p><label>Format
    <select name="format">{{range .}}<option value="{{.}}">{{.}}</option>{{end}}</select>
  </label></p>
  <p><button type="submit">Analyze</button></p>
</form>
</body>
</html>
`))

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) uploadForm(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	formats := []gateway.ReportFormat{gateway.ReportXLSX, gateway.ReportCSV, gateway.ReportJSON}
	if err := uploadPage.Execute(w, formats); err != nil {
		s.logger.Error("failed to render upload form", "error", err)
	}
}

// analyze reconciles the uploaded ledger against the uploaded statement and
// returns the report as a download.
func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	limit := int64(s.config.MaxUploadMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		writeJSON(w, http.StatusBadRequest, BadRequestError("invalid multipart form: "+err.Error()))
		return
	}

	format, err := s.reportFormat(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, BadRequestError(err.Error()))
		return
	}

	ledger, err := formUpload(r, ledgerFields)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, BadRequestError(err.Error()))
		return
	}
	statement, err := formUpload(r, statementFields)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, BadRequestError(err.Error()))
		return
	}
	s.logger.Info("files received",
		"ledger", ledger.Filename, "ledger_bytes", len(ledger.Data),
		"statement", statement.Filename, "statement_bytes", len(statement.Data))

	report, err := s.reconciler.Reconcile(r.Context(), ledger, statement)
	if err != nil {
		status, body := classify(err)
		if status >= http.StatusInternalServerError {
			s.logger.Error("reconciliation failed", "error", err)
		} else {
			s.logger.Warn("rejected upload", "error", err)
		}
		writeJSON(w, status, body)
		return
	}

	var buf bytes.Buffer
	if err := s.writer.Write(&buf, format, report); err != nil {
		s.logger.Error("failed to write report", "run_id", report.RunID, "error", err)
		writeJSON(w, http.StatusInternalServerError, InternalError())
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%s.%s", reportBaseName, format))
	w.Header().Set("X-Run-ID", report.RunID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// reportFormat picks the format from the query string, then the form, then
// the server default.
func (s *Server) reportFormat(r *http.Request) (gateway.ReportFormat, error) {
	name := r.URL.Query().Get("format")
	if name == "" {
		name = r.FormValue("format")
	}
	if name == "" {
		return s.config.ReportFormat, nil
	}
	return gateway.ParseReportFormat(name)
}

var errMissingFile = errors.New("missing file")

// formUpload reads the first present file among fields.
func formUpload(r *http.Request, fields []string) (domain.Upload, error) {
	for _, field := range fields {
		file, header, err := r.FormFile(field)
		if errors.Is(err, http.ErrMissingFile) {
			continue
		}
		if err != nil {
			return domain.Upload{}, fmt.Errorf("%s: %w", field, err)
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return domain.Upload{}, fmt.Errorf("%s: %w", field, err)
		}
		return domain.Upload{Filename: header.Filename, Data: data}, nil
	}
	return domain.Upload{}, fmt.Errorf("%w: %s", errMissingFile, fields[0])
}
