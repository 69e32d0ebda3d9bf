package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/eugenenazirov/sizepack/internal/metrics"
	"github.com/eugenenazirov/sizepack/internal/optimizer"
	"github.com/eugenenazirov/sizepack/internal/render"
	"github.com/eugenenazirov/sizepack/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// Handler wires optimizer and storage dependencies into HTTP handlers.
type Handler struct {
	optimizer optimizer.Optimizer
	storage   storage.Storage
	metrics   *metrics.Metrics
	logger    *zap.Logger

	clock func() time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithQuoteMetrics records quote outcomes on m.
func WithQuoteMetrics(m *metrics.Metrics) HandlerOption {
	return func(h *Handler) {
		h.metrics = m
	}
}

// WithLogger sets the logger used for quote diagnostics.
func WithLogger(logger *zap.Logger) HandlerOption {
	return func(h *Handler) {
		h.logger = logger
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(opt optimizer.Optimizer, store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		optimizer: opt,
		storage:   store,
		logger:    zap.NewNop(),
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetPrices(w http.ResponseWriter, r *http.Request) {
	_ = r
	prices, err := h.storage.GetPriceSchedule()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	sizes := optimizer.Sizes()
	labels := make([]string, 0, len(sizes))
	for _, size := range sizes {
		labels = append(labels, string(size))
	}

	resp := pricesResponse{
		PackPrice:    prices.PackPrice.StringFixed(2),
		UnitPrice:    prices.UnitPrice.StringFixed(2),
		UnitsPerPack: prices.UnitsPerPack,
		Sizes:        labels,
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleQuote(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format != "" && format != render.FormatText && format != render.FormatJSON {
		h.metrics.RecordQuote("invalid")
		writeError(w, http.StatusBadRequest, "Invalid request", render.ErrUnknownFormat.Error())
		return
	}

	var req quoteRequest
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&req); err != nil {
		h.metrics.RecordQuote("invalid")
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	quantities, err := optimizer.NormalizeQuantities(rawQuantities(req.Quantities))
	if err != nil {
		h.metrics.RecordQuote("invalid")
		if errors.Is(err, optimizer.ErrUnknownSize) {
			writeError(w, http.StatusBadRequest, "Invalid size", err.Error(), "Use one of the sizes listed by GET /api/prices")
			return
		}
		if errors.Is(err, optimizer.ErrQuantityOverflow) {
			writeError(w, http.StatusBadRequest, "Invalid quantity", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	prices, err := h.storage.GetPriceSchedule()
	if err != nil {
		h.metrics.RecordQuote("error")
		writeInternalError(w, err)
		return
	}

	result := h.optimizer.Compute(quantities, prices)

	recommended := make([]string, 0, len(result.Recommendations))
	for _, rec := range result.Recommendations {
		recommended = append(recommended, string(rec.Size))
	}
	h.metrics.RecordQuote("success", recommended...)
	h.logger.Debug("quote computed",
		zap.String("request_id", requestIDFromContext(r.Context())),
		zap.Int("sizes", len(result.Current.Items)),
		zap.Strings("recommended", recommended),
		zap.String("current_total", result.Current.Total.String()),
		zap.String("optimized_total", result.Optimized.Total.String()),
	)

	if format == render.FormatText {
		out, err := render.NewTextRenderer(prices).Render(result)
		if err != nil {
			writeInternalError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(out))
		return
	}

	writeJSON(w, http.StatusOK, render.NewDocument(result))
}

// rawQuantities flattens decoded JSON values into strings. Values that are neither numbers
// nor strings become blank and are therefore treated as absent.
func rawQuantities(in map[string]any) map[string]string {
	out := make(map[string]string, len(in))
	for label, value := range in {
		switch v := value.(type) {
		case json.Number:
			out[label] = v.String()
		case string:
			out[label] = v
		default:
			out[label] = ""
		}
	}
	return out
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type quoteRequest struct {
	Quantities map[string]any `json:"quantities"`
}

type pricesResponse struct {
	PackPrice    string   `json:"packPrice"`
	UnitPrice    string   `json:"unitPrice"`
	UnitsPerPack int      `json:"unitsPerPack"`
	Sizes        []string `json:"sizes"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
