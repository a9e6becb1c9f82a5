package testutil

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

// NewRequestWithURLParams builds a body-less request whose chi route context carries
// params, so handlers reading chi.URLParam can be called without a router.
// Query strings belong in target.
//
//	req := testutil.NewRequestWithURLParams(http.MethodGet,
//	    "/api/investment/3/result?start_date=2024-01-01",
//	    map[string]string{"investmentId": "3"})
func NewRequestWithURLParams(method, target string, params map[string]string) *http.Request {
	return withURLParams(httptest.NewRequest(method, target, nil), params)
}

// NewJSONRequest builds a request carrying body as application/json.
func NewJSONRequest(method, target, body string, params map[string]string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")
	return withURLParams(req, params)
}

func withURLParams(req *http.Request, params map[string]string) *http.Request {
	if len(params) == 0 {
		return req
	}
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// DecodeResponse asserts the recorded status code and decodes the JSON body into T.
func DecodeResponse[T any](t *testing.T, w *httptest.ResponseRecorder, wantStatus int) T {
	t.Helper()

	var v T
	if w.Code != wantStatus {
		t.Fatalf("Expected status %d, got %d: %s", wantStatus, w.Code, w.Body.String())
	}
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return v
}
