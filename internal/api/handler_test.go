package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/sizepack/internal/metrics"
	"github.com/eugenenazirov/sizepack/internal/optimizer"
	"github.com/eugenenazirov/sizepack/internal/render"
	"github.com/eugenenazirov/sizepack/internal/storage"
)

type controllableClock struct {
	mu  sync.RWMutex
	now time.Time
}

func newControllableClock(initial time.Time) *controllableClock {
	return &controllableClock{now: initial}
}

func (c *controllableClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

func (c *controllableClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func setupTestRouter(t *testing.T) (http.Handler, *controllableClock, *metrics.Metrics) {
	t.Helper()

	store := storage.NewMemoryStorage()
	clock := newControllableClock(time.Date(2024, 11, 1, 12, 0, 0, 0, time.UTC))
	m := metrics.New()
	logger := zaptest.NewLogger(t)

	handler := NewHandler(optimizer.New(), store, WithClock(clock.Now), WithQuoteMetrics(m), WithLogger(logger))
	router := NewRouter(handler, logger, WithLogging(false), WithMetrics(m))

	return router, clock, m
}

func postQuote(t *testing.T, router http.Handler, target string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRequestIDHelpers(t *testing.T) {
	ctx := contextWithRequestID(context.Background(), "abc")
	if got := requestIDFromContext(ctx); got != "abc" {
		t.Fatalf("expected abc, got %s", got)
	}
	resp := httptest.NewRecorder()
	writeInternalError(resp, assertError("boom"))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 status, got %d", resp.Code)
	}
}

type assertError string

func (a assertError) Error() string { return string(a) }

func TestHealthEndpoint(t *testing.T) {
	router, clock, _ := setupTestRouter(t)
	clock.Advance(time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body struct {
		Status    string    `json:"status"`
		Timestamp time.Time `json:"timestamp"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if body.Status != "ok" {
		t.Fatalf("expected status ok, got %s", body.Status)
	}
	if !body.Timestamp.Equal(clock.Now()) {
		t.Fatalf("expected timestamp %s, got %s", clock.Now(), body.Timestamp)
	}
}

func TestGetPricesReturnsSchedule(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/prices", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body struct {
		PackPrice    string   `json:"packPrice"`
		UnitPrice    string   `json:"unitPrice"`
		UnitsPerPack int      `json:"unitsPerPack"`
		Sizes        []string `json:"sizes"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if body.PackPrice != "12.75" || body.UnitPrice != "3.55" || body.UnitsPerPack != 5 {
		t.Fatalf("unexpected schedule: %+v", body)
	}
	want := []string{"xs", "s", "m", "l", "xl", "xxl"}
	if len(body.Sizes) != len(want) {
		t.Fatalf("expected %d sizes, got %d", len(want), len(body.Sizes))
	}
	for i, size := range want {
		if body.Sizes[i] != size {
			t.Fatalf("expected size %s at position %d, got %s", size, i, body.Sizes[i])
		}
	}
}

func TestQuoteEndpointSuccess(t *testing.T) {
	router, _, m := setupTestRouter(t)

	rec := postQuote(t, router, "/api/quote", map[string]any{
		"quantities": map[string]any{"m": 9, "s": "2", "xl": 0},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body render.Document
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(body.Current.Items) != 2 {
		t.Fatalf("expected 2 current items, got %d", len(body.Current.Items))
	}
	if body.Current.Items[0].Size != "s" || body.Current.Items[1].Size != "m" {
		t.Fatalf("unexpected order: %+v", body.Current.Items)
	}
	if body.Current.Total != "34.05" {
		t.Fatalf("expected current total 34.05, got %s", body.Current.Total)
	}
	if body.Optimized.Total != "32.60" {
		t.Fatalf("expected optimized total 32.60, got %s", body.Optimized.Total)
	}
	if len(body.Recommendations) != 1 {
		t.Fatalf("expected 1 recommendation, got %d", len(body.Recommendations))
	}
	rec0 := body.Recommendations[0]
	if rec0.Size != "m" || rec0.UnitsToComplete != 1 || rec0.Savings != "1.45" {
		t.Fatalf("unexpected recommendation: %+v", rec0)
	}
	if body.TotalSavings != "1.45" {
		t.Fatalf("expected total savings 1.45, got %s", body.TotalSavings)
	}

	if got := testutil.ToFloat64(m.QuotesTotal.WithLabelValues("success")); got != 1 {
		t.Fatalf("expected 1 successful quote recorded, got %v", got)
	}
	if got := testutil.ToFloat64(m.RecommendationsTotal.WithLabelValues("m")); got != 1 {
		t.Fatalf("expected 1 recommendation recorded for m, got %v", got)
	}
}

func TestQuoteEndpointTreatsInvalidQuantitiesAsAbsent(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	rec := postQuote(t, router, "/api/quote", map[string]any{
		"quantities": map[string]any{"xs": "abc", "s": -3, "m": "", "l": 2.5, "xl": nil, "xxl": true},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body render.Document
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Current.Items) != 0 || len(body.Recommendations) != 0 {
		t.Fatalf("expected empty quote, got %+v", body)
	}
	if body.Current.Total != "0.00" {
		t.Fatalf("expected zero total, got %s", body.Current.Total)
	}
}

func TestQuoteEndpointRejectsUnknownSize(t *testing.T) {
	router, _, m := setupTestRouter(t)

	rec := postQuote(t, router, "/api/quote", map[string]any{
		"quantities": map[string]any{"xxxl": 3},
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var body struct {
		Error      string `json:"error"`
		Suggestion string `json:"suggestion"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Suggestion == "" {
		t.Fatalf("expected suggestion to be populated")
	}
	if got := testutil.ToFloat64(m.QuotesTotal.WithLabelValues("invalid")); got != 1 {
		t.Fatalf("expected 1 invalid quote recorded, got %v", got)
	}
}

func TestQuoteEndpointRejectsOverflowingQuantity(t *testing.T) {
	router, _, m := setupTestRouter(t)

	rec := postQuote(t, router, "/api/quote", map[string]any{
		"quantities": map[string]any{"m": "9223372036854775807", "M": "1"},
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Error != "Invalid quantity" {
		t.Fatalf("expected Invalid quantity error, got %q", body.Error)
	}
	if got := testutil.ToFloat64(m.QuotesTotal.WithLabelValues("invalid")); got != 1 {
		t.Fatalf("expected 1 invalid quote recorded, got %v", got)
	}
}

func TestQuoteEndpointRejectsMalformedJSON(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/quote", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestQuoteEndpointRejectsUnknownFormat(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	rec := postQuote(t, router, "/api/quote?format=html", map[string]any{
		"quantities": map[string]any{"m": 9},
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestQuoteEndpointTextFormat(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	rec := postQuote(t, router, "/api/quote?format=text", map[string]any{
		"quantities": map[string]any{"m": 9},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("expected text/plain content type, got %s", ct)
	}
	if body := rec.Body.String(); !strings.Contains(body, "TOTAL SAVINGS: 1.45") {
		t.Fatalf("expected savings line in body, got:\n%s", body)
	}
}

func TestQuoteEndpointUsesStoredSchedule(t *testing.T) {
	store := storage.NewMemoryStorage()
	if err := store.SetPriceSchedule(optimizer.PriceSchedule{
		PackPrice:    decimal.RequireFromString("10"),
		UnitPrice:    decimal.RequireFromString("1.5"),
		UnitsPerPack: 10,
	}); err != nil {
		t.Fatalf("SetPriceSchedule returned error: %v", err)
	}
	router := NewRouter(NewHandler(optimizer.New(), store), zaptest.NewLogger(t), WithLogging(false))

	rec := postQuote(t, router, "/api/quote", map[string]any{
		"quantities": map[string]any{"s": 18, "m": 19},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body render.Document
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Current.Total != "45.50" || body.Optimized.Total != "42.00" {
		t.Fatalf("unexpected totals: %s / %s", body.Current.Total, body.Optimized.Total)
	}
}

func TestQuoteEndpointIsIdempotent(t *testing.T) {
	router, _, _ := setupTestRouter(t)
	payload := map[string]any{"quantities": map[string]any{"xs": 14, "m": 9, "xxl": 3}}

	first := postQuote(t, router, "/api/quote", payload)
	second := postQuote(t, router, "/api/quote", payload)

	if first.Body.String() != second.Body.String() {
		t.Fatalf("expected identical responses:\n%s\n%s", first.Body.String(), second.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	postQuote(t, router, "/api/quote", map[string]any{"quantities": map[string]any{"m": 4}})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"quotes_total", `path="POST /api/quote"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in metrics output", want)
		}
	}
}

func TestCorsPreflight(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/quote", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Fatalf("expected Access-Control-Allow-Origin header to be set")
	}
}

func TestRequestIDPropagation(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "test-request-id")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "test-request-id" {
		t.Fatalf("expected X-Request-ID header to be echoed, got %s", got)
	}
}

func TestRequestIDGenerated(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); len(got) != 36 {
		t.Fatalf("expected generated UUID request ID, got %q", got)
	}
}
