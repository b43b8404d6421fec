package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"rent-reconciliation/internal/api"
	"rent-reconciliation/internal/domain"
	"rent-reconciliation/internal/gateway"
	"rent-reconciliation/internal/usecase"
)

const ledgerCSV = "Гараж;Сумма;Первоначальная дата\n" +
	"G1;3000;2023-01-15\n" +
	"G2;2500;2023-03-05\n" +
	"G3;1800;2022-07-28\n"

const statementCSV = "Дата;Операция;Описание;Валюта;Сумма\n" +
	"14.06.2024 09:12;Перевод;;RUB;+3 000,00\n" +
	"13.06.2024 10:00;Покупка;;RUB;-1 200,00\n"

func newTestServer(t *testing.T, reconciler api.Reconciler) *api.Server {
	t.Helper()
	if reconciler == nil {
		now := time.Date(2024, time.June, 20, 11, 0, 0, 0, time.UTC)
		reconciler = usecase.NewReconciliationUseCase(gateway.NewSheetRepository(), usecase.DefaultConfig(),
			usecase.WithClock(func() time.Time { return now }))
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
	return api.NewServer(api.DefaultConfig(), reconciler, gateway.NewReportWriter("ru"), logger)
}

type reconcilerFunc func(ctx context.Context, ledger, statement domain.Upload) (*domain.Report, error)

func (f reconcilerFunc) Reconcile(ctx context.Context, ledger, statement domain.Upload) (*domain.Report, error) {
	return f(ctx, ledger, statement)
}

// multipartBody builds a form with one file per field.
func multipartBody(t *testing.T, files map[string][2]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for field, file := range files {
		part, err := mw.CreateFormFile(field, file[0])
		require.NoError(t, err)
		_, err = part.Write([]byte(file[1]))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func postAnalyze(t *testing.T, server *api.Server, target string, files map[string][2]string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, files)
	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)
	return rec
}

func TestServer_HealthEndpoint(t *testing.T) {
	server := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	server.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var response map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, "ok", response["status"])
}

func TestServer_UploadForm(t *testing.T) {
	server := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	server.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), `name="ledger_file"`)
	assert.Contains(t, rec.Body.String(), `name="statement_file"`)
}

func TestServer_Analyze(t *testing.T) {
	t.Run("returns an xlsx report by default", func(t *testing.T) {
		server := newTestServer(t, nil)

		rec := postAnalyze(t, server, "/analyze", map[string][2]string{
			"ledger_file":    {"arenda.csv", ledgerCSV},
			"statement_file": {"print-2.csv", statementCSV},
		})

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, gateway.ReportXLSX.ContentType(), rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "garage_payments_report.xlsx")
		assert.NotEmpty(t, rec.Header().Get("X-Run-ID"))

		f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
		require.NoError(t, err)
		defer f.Close()
		rows, err := f.GetRows(f.GetSheetName(0))
		require.NoError(t, err)
		require.Len(t, rows, 4)
		assert.Equal(t, []string{"Гараж", "Дата оплаты", "Сумма", "Статус"}, rows[0])
		assert.Equal(t, "G1", rows[1][0])
		assert.Equal(t, "2024-06-15", rows[1][1])
		assert.Equal(t, "получен", rows[1][3])
		assert.Equal(t, "просрочен", rows[2][3])
		assert.Equal(t, "срок не наступил", rows[3][3])
	})

	t.Run("accepts legacy field names and trailing slash", func(t *testing.T) {
		server := newTestServer(t, nil)

		rec := postAnalyze(t, server, "/analyze/?format=json", map[string][2]string{
			"arenda_file": {"arenda.csv", ledgerCSV},
			"bank_file":   {"print-2.csv", statementCSV},
		})

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var report struct {
			Summary domain.Summary `json:"summary"`
			Results []struct {
				Identifier   string `json:"identifier"`
				ExpectedDate string `json:"expected_date"`
				Status       string `json:"status"`
				PaymentDate  string `json:"payment_date"`
			} `json:"results"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&report))
		assert.Equal(t, 3, report.Summary.Entries)
		assert.Equal(t, 1, report.Summary.Transactions)
		require.Len(t, report.Results, 3)
		assert.Equal(t, "received", report.Results[0].Status)
		assert.Equal(t, "2024-06-14", report.Results[0].PaymentDate)
		assert.Equal(t, "overdue", report.Results[1].Status)
		assert.Equal(t, "not_yet_due", report.Results[2].Status)
	})

	t.Run("returns csv when asked", func(t *testing.T) {
		server := newTestServer(t, nil)

		rec := postAnalyze(t, server, "/analyze?format=csv", map[string][2]string{
			"ledger_file":    {"arenda.csv", ledgerCSV},
			"statement_file": {"print-2.csv", statementCSV},
		})

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "garage_payments_report.csv")
		assert.Contains(t, rec.Body.String(), "G1,2024-06-15,3000.00,получен")
	})
}

func TestServer_AnalyzeErrors(t *testing.T) {
	tests := []struct {
		name       string
		reconciler api.Reconciler
		target     string
		files      map[string][2]string
		wantStatus int
		wantCode   string
	}{
		{
			name:   "missing statement file",
			target: "/analyze",
			files: map[string][2]string{
				"ledger_file": {"arenda.csv", ledgerCSV},
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   api.ErrCodeBadRequest,
		},
		{
			name:   "unknown report format",
			target: "/analyze?format=pdf",
			files: map[string][2]string{
				"ledger_file":    {"arenda.csv", ledgerCSV},
				"statement_file": {"print-2.csv", statementCSV},
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   api.ErrCodeBadRequest,
		},
		{
			name:   "ledger without required columns",
			target: "/analyze",
			files: map[string][2]string{
				"ledger_file":    {"arenda.csv", "Гараж;Сумма\nG1;3000\n"},
				"statement_file": {"print-2.csv", statementCSV},
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   api.ErrCodeSchema,
		},
		{
			name:   "unreadable workbook",
			target: "/analyze",
			files: map[string][2]string{
				"ledger_file":    {"arenda.xlsx", "not a zip archive"},
				"statement_file": {"print-2.csv", statementCSV},
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   api.ErrCodeUnreadable,
		},
		{
			name: "unexpected failure stays opaque",
			reconciler: reconcilerFunc(func(context.Context, domain.Upload, domain.Upload) (*domain.Report, error) {
				return nil, errors.New("disk on fire")
			}),
			target: "/analyze",
			files: map[string][2]string{
				"ledger_file":    {"arenda.csv", ledgerCSV},
				"statement_file": {"print-2.csv", statementCSV},
			},
			wantStatus: http.StatusInternalServerError,
			wantCode:   api.ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t, tt.reconciler)

			rec := postAnalyze(t, server, tt.target, tt.files)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var response api.APIError
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
			assert.Equal(t, tt.wantCode, response.Code)
			assert.NotContains(t, response.Message, "disk on fire")
		})
	}
}

func TestServer_AnalyzeRejectsNonMultipart(t *testing.T) {
	server := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewBufferString("{}"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	server.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCORS(t *testing.T) {
	handler := api.CORS([]string{"http://localhost:3000"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("allowed origin gets headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("other origin gets none", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://evil.example")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/analyze", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}
