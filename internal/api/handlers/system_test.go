package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Fund-Investment-Results/internal/service"
	"github.com/ndewijer/Fund-Investment-Results/internal/testutil"
	"github.com/ndewijer/Fund-Investment-Results/internal/version"
)

// TestSystemHandler covers the probes used by the deployment to decide whether
// the process can serve calculations.
//
// WHY: An unreachable database must surface as a non-2xx probe, otherwise the
// process keeps receiving traffic it can only answer with retrieval failures.
func TestSystemHandler(t *testing.T) {
	tests := []struct {
		name       string
		closeDB    bool
		call       func(h *SystemHandler, w http.ResponseWriter, r *http.Request)
		wantStatus int
	}{
		{"health with open database", false, (*SystemHandler).Health, http.StatusOK},
		{"health with closed database", true, (*SystemHandler).Health, http.StatusServiceUnavailable},
		{"version with open database", false, (*SystemHandler).Version, http.StatusOK},
		{"version with closed database", true, (*SystemHandler).Version, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.SetupTestDB(t)
			handler := NewSystemHandler(testutil.NewTestSystemService(t, db))
			if tt.closeDB {
				db.Close()
			}

			w := httptest.NewRecorder()
			tt.call(handler, w, httptest.NewRequest(http.MethodGet, "/api/system", nil))

			if w.Code != tt.wantStatus {
				t.Errorf("Expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestSystemHandler_Bodies(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewSystemHandler(testutil.NewTestSystemService(t, db))

	t.Run("health reports the database", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Health(w, httptest.NewRequest(http.MethodGet, "/api/system/health", nil))

		health := testutil.DecodeResponse[HealthResponse](t, w, http.StatusOK)
		if health.Status != "healthy" || health.Database != "connected" {
			t.Errorf("Unexpected health response: %+v", health)
		}
	})

	t.Run("version reports build and schema", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Version(w, httptest.NewRequest(http.MethodGet, "/api/system/version", nil))

		info := testutil.DecodeResponse[service.VersionInfo](t, w, http.StatusOK)
		if info.AppVersion != version.Version {
			t.Errorf("Expected app version %q, got %q", version.Version, info.AppVersion)
		}
		if info.DbVersion != 1 {
			t.Errorf("Expected schema version 1, got %d", info.DbVersion)
		}
	})
}
