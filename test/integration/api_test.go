package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/sizepack/internal/api"
	"github.com/eugenenazirov/sizepack/internal/metrics"
	"github.com/eugenenazirov/sizepack/internal/optimizer"
	"github.com/eugenenazirov/sizepack/internal/storage"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()

	m := metrics.New()
	logger := zaptest.NewLogger(t)
	handler := api.NewHandler(optimizer.New(), storage.NewMemoryStorage(), api.WithQuoteMetrics(m), api.WithLogger(logger))
	return api.NewRouter(handler, logger, api.WithMetrics(m))
}

func performRequest(t *testing.T, handler http.Handler, method, target string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestIntegrationFlow(t *testing.T) {
	handler := newRouter(t)
	jsonHeaders := map[string]string{"Content-Type": "application/json"}

	rec := performRequest(t, handler, http.MethodGet, "/api/health", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from health, got %d", rec.Code)
	}

	rec = performRequest(t, handler, http.MethodGet, "/api/prices", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from prices, got %d", rec.Code)
	}

	quotePayload := map[string]any{"quantities": map[string]any{"xxl": 4, "xs": 14, "m": "9", "l": "3"}}
	body, _ := json.Marshal(quotePayload)
	rec = performRequest(t, handler, http.MethodPost, "/api/quote", body, jsonHeaders)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from quote, got %d", rec.Code)
	}

	var response struct {
		Current struct {
			Items []struct {
				Size       string `json:"size"`
				Packs      int    `json:"packs"`
				LooseUnits int    `json:"looseUnits"`
			} `json:"items"`
			Total string `json:"total"`
		} `json:"current"`
		Optimized struct {
			Total string `json:"total"`
		} `json:"optimized"`
		Recommendations []struct {
			Size string `json:"size"`
		} `json:"recommendations"`
		TotalSavings string `json:"totalSavings"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	wantOrder := []string{"xs", "m", "l", "xxl"}
	if len(response.Current.Items) != len(wantOrder) {
		t.Fatalf("expected %d items, got %d", len(wantOrder), len(response.Current.Items))
	}
	for i, size := range wantOrder {
		item := response.Current.Items[i]
		if item.Size != size {
			t.Fatalf("expected %s at position %d, got %s", size, i, item.Size)
		}
	}

	// xs 14 = 2 packs + 4, m 9 = 1 pack + 4, l 3 loose, xxl 4 loose
	if response.Current.Total != "91.50" {
		t.Fatalf("unexpected current total %s", response.Current.Total)
	}
	if response.Optimized.Total != "87.15" {
		t.Fatalf("unexpected optimized total %s", response.Optimized.Total)
	}
	if response.TotalSavings != "4.35" {
		t.Fatalf("unexpected total savings %s", response.TotalSavings)
	}
	if len(response.Recommendations) != 3 {
		t.Fatalf("expected 3 recommendations, got %d", len(response.Recommendations))
	}

	rec = performRequest(t, handler, http.MethodGet, "/metrics", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from metrics, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `quote_recommendations_total{size="xs"} 1`) {
		t.Fatalf("expected recommendation counter for xs in metrics output")
	}
}
