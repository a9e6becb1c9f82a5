package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ndewijer/Fund-Investment-Results/internal/model"
	"github.com/ndewijer/Fund-Investment-Results/internal/service"
	"github.com/ndewijer/Fund-Investment-Results/internal/testutil"
)

func setupFundHandler(t *testing.T, client *testutil.MockAnalizyClient) (*FundHandler, *sql.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return NewFundHandler(
		testutil.NewTestFundService(t, db),
		testutil.NewTestQuotationService(t, db, client),
	), db
}

func TestFundHandler_Funds(t *testing.T) {
	t.Run("returns empty array when no funds exist", func(t *testing.T) {
		handler, _ := setupFundHandler(t, testutil.NewMockAnalizyClient())

		req := httptest.NewRequest(http.MethodGet, "/api/fund", nil)
		w := httptest.NewRecorder()

		handler.Funds(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if strings.TrimSpace(w.Body.String()) != "[]" {
			t.Errorf("Expected empty array, got %s", w.Body.String())
		}
	})

	t.Run("returns 500 when database is closed", func(t *testing.T) {
		handler, db := setupFundHandler(t, testutil.NewMockAnalizyClient())
		db.Close()

		req := httptest.NewRequest(http.MethodGet, "/api/fund", nil)
		w := httptest.NewRecorder()

		handler.Funds(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("Expected 500, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestFundHandler_RegisterFunds(t *testing.T) {
	t.Run("registers funds from URLs", func(t *testing.T) {
		handler, _ := setupFundHandler(t, testutil.NewMockAnalizyClient())

		body := `["https://www.analizy.pl/fundusze-inwestycyjne-otwarte/ALL01/allianz-akcji"]`
		req := testutil.NewJSONRequest(http.MethodPost, "/api/fund", body, nil)
		w := httptest.NewRecorder()

		handler.RegisterFunds(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var report model.FundRegistrationReport
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&report)

		if report.Status != service.ImportSuccess || len(report.Funds) != 1 || report.Funds[0].FundID != "ALL01" {
			t.Errorf("Unexpected report: %+v", report)
		}
	})

	t.Run("returns 206 when a URL fails", func(t *testing.T) {
		handler, _ := setupFundHandler(t, testutil.NewMockAnalizyClient())

		req := testutil.NewJSONRequest(http.MethodPost, "/api/fund", `["not a url"]`, nil)
		w := httptest.NewRecorder()

		handler.RegisterFunds(w, req)

		if w.Code != http.StatusPartialContent {
			t.Errorf("Expected 206, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 400 for malformed body", func(t *testing.T) {
		handler, _ := setupFundHandler(t, testutil.NewMockAnalizyClient())

		req := testutil.NewJSONRequest(http.MethodPost, "/api/fund", `{"url":`, nil)
		w := httptest.NewRecorder()

		handler.RegisterFunds(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 400 for empty list", func(t *testing.T) {
		handler, _ := setupFundHandler(t, testutil.NewMockAnalizyClient())

		req := testutil.NewJSONRequest(http.MethodPost, "/api/fund", `[]`, nil)
		w := httptest.NewRecorder()

		handler.RegisterFunds(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestFundHandler_Quotations(t *testing.T) {
	t.Run("returns quotations from start date", func(t *testing.T) {
		handler, db := setupFundHandler(t, testutil.NewMockAnalizyClient())
		fund := testutil.NewFund().Build(t, db)
		testutil.NewQuotations(fund.ID).From("2024-01-01").Through("2024-01-10").Build(t, db)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/fund/"+fund.ID+"/quotation?start_date=2024-01-08",
			map[string]string{"fundId": fund.ID})
		w := httptest.NewRecorder()

		handler.Quotations(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var quotations []model.Quotation
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&quotations)

		if len(quotations) != 3 {
			t.Errorf("Expected 3 quotations, got %d", len(quotations))
		}
	})

	t.Run("returns 404 for unknown fund", func(t *testing.T) {
		handler, _ := setupFundHandler(t, testutil.NewMockAnalizyClient())

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/fund/NOPE1/quotation",
			map[string]string{"fundId": "NOPE1"})
		w := httptest.NewRecorder()

		handler.Quotations(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 400 for invalid start date", func(t *testing.T) {
		handler, _ := setupFundHandler(t, testutil.NewMockAnalizyClient())

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/fund/ALL01/quotation?start_date=yesterday",
			map[string]string{"fundId": "ALL01"})
		w := httptest.NewRecorder()

		handler.Quotations(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestFundHandler_UpdateQuotations(t *testing.T) {
	t.Run("updates every fund", func(t *testing.T) {
		client := testutil.NewMockAnalizyClient()
		handler, db := setupFundHandler(t, client)
		fund := testutil.NewFund().Build(t, db)
		client.WithDailyPrices(fund.ID, "2024-01-01", "2024-01-05", func(_ time.Time, i int) float64 { return 10 + float64(i) })

		req := httptest.NewRequest(http.MethodPut, "/api/fund/quotation", nil)
		w := httptest.NewRecorder()

		handler.UpdateQuotations(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		testutil.AssertRowCount(t, db, "quotation", 5)
	})

	t.Run("returns 206 when a download fails", func(t *testing.T) {
		client := testutil.NewMockAnalizyClient().WithError(errors.New("connection reset"))
		handler, db := setupFundHandler(t, client)
		fund := testutil.NewFund().Build(t, db)

		req := testutil.NewRequestWithURLParams(http.MethodPut, "/api/fund/"+fund.ID+"/quotation",
			map[string]string{"fundId": fund.ID})
		w := httptest.NewRecorder()

		handler.UpdateFundQuotations(w, req)

		if w.Code != http.StatusPartialContent {
			t.Errorf("Expected 206, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 404 for unknown fund", func(t *testing.T) {
		handler, _ := setupFundHandler(t, testutil.NewMockAnalizyClient())

		req := testutil.NewRequestWithURLParams(http.MethodPut, "/api/fund/NOPE1/quotation",
			map[string]string{"fundId": "NOPE1"})
		w := httptest.NewRecorder()

		handler.UpdateFundQuotations(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})
}
