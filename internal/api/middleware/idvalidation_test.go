package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Fund-Investment-Results/internal/api/middleware"
)

func TestValidateInvestmentID(t *testing.T) {
	serve := func(id string) (bool, int) {
		handlerCalled := false
		next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			handlerCalled = true
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("investmentId", id)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

		w := httptest.NewRecorder()
		middleware.ValidateInvestmentID(next).ServeHTTP(w, req)
		return handlerCalled, w.Code
	}

	t.Run("passes through positive integer", func(t *testing.T) {
		called, code := serve("42")
		if !called {
			t.Error("Expected next handler to be called")
		}
		if code != http.StatusOK {
			t.Errorf("Expected 200, got %d", code)
		}
	})

	for _, id := range []string{"", "0", "-3", "abc", "1.5"} {
		t.Run("returns 400 for "+id, func(t *testing.T) {
			called, code := serve(id)
			if called {
				t.Error("Expected next handler NOT to be called")
			}
			if code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", code)
			}
		})
	}
}

func TestLogger(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/fund", nil)
	w := httptest.NewRecorder()
	middleware.Logger(next).ServeHTTP(w, req)

	if w.Code != http.StatusTeapot {
		t.Errorf("Expected wrapped status to pass through, got %d", w.Code)
	}
}
