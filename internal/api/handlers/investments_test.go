package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/ndewijer/Fund-Investment-Results/internal/model"
	"github.com/ndewijer/Fund-Investment-Results/internal/testutil"
)

func setupInvestmentHandler(t *testing.T) (*InvestmentHandler, *sql.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return NewInvestmentHandler(
		testutil.NewTestInvestmentService(t, db),
		testutil.NewTestResultService(t, db, "2024-01-12"),
	), db
}

// seedInvestment creates a fund quoted on weekdays through 2024-01-12 and an
// investment buying it on 2024-01-02.
func seedInvestment(t *testing.T, db *sql.DB) model.Investment {
	t.Helper()
	fund := testutil.NewFund().Build(t, db)
	testutil.NewQuotations(fund.ID).From("2024-01-01").Through("2024-01-12").WeekdaysOnly().
		WithConstantPrice(100).
		Build(t, db)
	return testutil.NewInvestment().WithOrder(fund.ID, "2024-01-02", 1000).Build(t, db)
}

func idParam(id int64) map[string]string {
	return map[string]string{"investmentId": strconv.FormatInt(id, 10)}
}

// TestInvestmentHandler_CalculateResult tests the status code mapping of a calculation.
//
// WHY: Callers decide whether to retry from the HTTP status alone, so every
// calculation status must map to a distinct, stable code.
func TestInvestmentHandler_CalculateResult(t *testing.T) {
	t.Run("success then no_op both return 200", func(t *testing.T) {
		handler, db := setupInvestmentHandler(t)
		inv := seedInvestment(t, db)

		for _, want := range []model.CalculationStatus{model.StatusSuccess, model.StatusNoOp} {
			req := testutil.NewRequestWithURLParams(http.MethodPut, "/api/investment/1/result", idParam(inv.ID))
			w := httptest.NewRecorder()

			handler.CalculateResult(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
			}
			var outcome model.CalculationOutcome
			//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
			json.NewDecoder(w.Body).Decode(&outcome)
			if outcome.Status != want {
				t.Errorf("Expected status %s, got %s", want, outcome.Status)
			}
		}
	})

	t.Run("unknown investment returns 404", func(t *testing.T) {
		handler, _ := setupInvestmentHandler(t)

		req := testutil.NewRequestWithURLParams(http.MethodPut, "/api/investment/99/result", idParam(99))
		w := httptest.NewRecorder()

		handler.CalculateResult(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("insert failure returns 206", func(t *testing.T) {
		handler, db := setupInvestmentHandler(t)
		inv := seedInvestment(t, db)
		testutil.FailResultInserts(t, db)

		req := testutil.NewRequestWithURLParams(http.MethodPut, "/api/investment/1/result", idParam(inv.ID))
		w := httptest.NewRecorder()

		handler.CalculateResult(w, req)

		if w.Code != http.StatusPartialContent {
			t.Errorf("Expected 206, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("storage outage returns 500", func(t *testing.T) {
		handler, db := setupInvestmentHandler(t)
		db.Close()

		req := testutil.NewRequestWithURLParams(http.MethodPut, "/api/investment/1/result", idParam(1))
		w := httptest.NewRecorder()

		handler.CalculateResult(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("Expected 500, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestInvestmentHandler_CalculateAllResults(t *testing.T) {
	handler, db := setupInvestmentHandler(t)
	seedInvestment(t, db)

	req := httptest.NewRequest(http.MethodPut, "/api/investment/result", nil)
	w := httptest.NewRecorder()

	handler.CalculateAllResults(w, req)

	report := testutil.DecodeResponse[model.CalculationReport](t, w, http.StatusOK)

	if report.RunID == "" || len(report.Outcomes) != 1 {
		t.Errorf("Unexpected report: %+v", report)
	}
}

func TestInvestmentHandler_Results(t *testing.T) {
	t.Run("returns results in range", func(t *testing.T) {
		handler, db := setupInvestmentHandler(t)
		inv := seedInvestment(t, db)
		testutil.NewTestResultService(t, db, "2024-01-12").CalculateResult(t.Context(), inv.ID)

		req := testutil.NewRequestWithURLParams(http.MethodGet,
			"/api/investment/1/result?start_date=2024-01-08&end_date=2024-01-10", idParam(inv.ID))
		w := httptest.NewRecorder()

		handler.Results(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var results []model.InvestmentResult
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&results)

		if len(results) != 3 {
			t.Errorf("Expected 3 results, got %d", len(results))
		}
	})

	t.Run("returns 400 for inverted range", func(t *testing.T) {
		handler, _ := setupInvestmentHandler(t)

		req := testutil.NewRequestWithURLParams(http.MethodGet,
			"/api/investment/1/result?start_date=2024-02-01&end_date=2024-01-01", idParam(1))
		w := httptest.NewRecorder()

		handler.Results(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 404 for unknown investment", func(t *testing.T) {
		handler, _ := setupInvestmentHandler(t)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/investment/5/result", idParam(5))
		w := httptest.NewRecorder()

		handler.Results(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestInvestmentHandler_ImportInvestments(t *testing.T) {
	t.Run("imports orders", func(t *testing.T) {
		handler, db := setupInvestmentHandler(t)
		fund := testutil.NewFund().Build(t, db)

		body := `{"Owner":"Jan","Investments":{"Pension":{"Funds":{"` + fund.ID + `":[{"BuyDate":"2024-01-02","Money":100}]}}}}`
		req := testutil.NewJSONRequest(http.MethodPost, "/api/investment", body, nil)
		w := httptest.NewRecorder()

		handler.ImportInvestments(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		testutil.AssertRowCount(t, db, "investment_order", 1)
	})

	t.Run("returns 400 for unknown fields", func(t *testing.T) {
		handler, _ := setupInvestmentHandler(t)

		req := testutil.NewJSONRequest(http.MethodPost, "/api/investment", `{"Owner":"Jan","Portfolios":{}}`, nil)
		w := httptest.NewRecorder()

		handler.ImportInvestments(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 400 when validation fails", func(t *testing.T) {
		handler, _ := setupInvestmentHandler(t)

		req := testutil.NewJSONRequest(http.MethodPost, "/api/investment", `{"Owner":"","Investments":{}}`, nil)
		w := httptest.NewRecorder()

		handler.ImportInvestments(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestInvestmentHandler_Investment(t *testing.T) {
	t.Run("lists funds of an investment", func(t *testing.T) {
		handler, db := setupInvestmentHandler(t)
		inv := seedInvestment(t, db)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/investment/1", idParam(inv.ID))
		w := httptest.NewRecorder()

		handler.Investment(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var funds []model.InvestmentFund
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&funds)

		if len(funds) != 1 || funds[0].LastResultDate != nil {
			t.Errorf("Expected one uncalculated fund, got %+v", funds)
		}
	})

	t.Run("returns 404 for unknown investment", func(t *testing.T) {
		handler, _ := setupInvestmentHandler(t)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/investment/3", idParam(3))
		w := httptest.NewRecorder()

		handler.Investment(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})
}
