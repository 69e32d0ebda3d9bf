package application

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestBuildRootHandler(t *testing.T) {
	var apiPaths []string
	apiHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiPaths = append(apiPaths, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	handler := BuildRootHandler(apiHandler)

	t.Run("serves endpoint index", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "POST /api/quote") {
			t.Fatalf("expected endpoint index, got %s", rec.Body.String())
		}
	})

	t.Run("returns not found for unknown paths", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/unknown", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rec.Code)
		}
	})

	t.Run("forwards api and metrics traffic", func(t *testing.T) {
		for _, path := range []string{"/api/health", "/metrics"} {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusNoContent {
				t.Fatalf("expected status 204 for %s, got %d", path, rec.Code)
			}
		}
		if len(apiPaths) != 2 || apiPaths[0] != "/api/health" || apiPaths[1] != "/metrics" {
			t.Fatalf("unexpected forwarded paths: %v", apiPaths)
		}
	})
}
