package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/af-corp/scribe/internal/auth"
	"github.com/af-corp/scribe/internal/generator"
	"github.com/af-corp/scribe/internal/httputil"
	"github.com/af-corp/scribe/internal/provider"
	"github.com/af-corp/scribe/internal/ratelimit"
	"github.com/af-corp/scribe/internal/sanitize"
	"github.com/af-corp/scribe/internal/template"
	"github.com/af-corp/scribe/internal/types"
)

// SpendRecorder accrues provider cost against the calling API key for
// daily budget enforcement.
type SpendRecorder interface {
	RecordSpend(ctx context.Context, keyID string, costMicro int64) error
}

// Handler holds dependencies for the Scribe HTTP handlers.
type Handler struct {
	gen    *generator.Generator
	logger *slog.Logger

	// Spend, when non-nil, records generation cost against the
	// authenticated key's daily budget.
	Spend SpendRecorder
}

func NewHandler(gen *generator.Generator, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{gen: gen, logger: logger}
}

// Generate handles POST /v1/generate
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	reqID := w.Header().Get("X-Request-ID")

	var req types.GenerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequestError(w, reqID, "Invalid JSON: "+err.Error())
		return
	}
	defer r.Body.Close()

	if req.TemplateName == "" {
		httputil.WriteBadRequestError(w, reqID, "template is required")
		return
	}
	req.RequestID = reqID
	req.ReceivedAt = time.Now()

	result, err := h.gen.Generate(r.Context(), req)
	if err != nil {
		h.writeDomainError(w, reqID, err)
		return
	}
	// Cache hits report the original cost but made no provider call, so
	// nothing is charged.
	if !result.Cached {
		h.recordSpend(r, result.CostUSD)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// Variations handles POST /v1/variations
func (h *Handler) Variations(w http.ResponseWriter, r *http.Request) {
	reqID := w.Header().Get("X-Request-ID")

	var req types.VariationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequestError(w, reqID, "Invalid JSON: "+err.Error())
		return
	}
	defer r.Body.Close()

	if req.TemplateName == "" {
		httputil.WriteBadRequestError(w, reqID, "template is required")
		return
	}
	req.RequestID = reqID

	results, err := h.gen.GenerateVariations(r.Context(), req)
	if err != nil {
		h.writeDomainError(w, reqID, err)
		return
	}
	var total float64
	for _, result := range results {
		total += result.CostUSD
	}
	h.recordSpend(r, total)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"variations": results,
		"count":      len(results),
	})
}

// Estimate handles POST /v1/estimate
func (h *Handler) Estimate(w http.ResponseWriter, r *http.Request) {
	reqID := w.Header().Get("X-Request-ID")

	var req types.GenerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequestError(w, reqID, "Invalid JSON: "+err.Error())
		return
	}
	defer r.Body.Close()

	estimate, err := h.gen.EstimateCost(req)
	if err != nil {
		h.writeDomainError(w, reqID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(estimate)
}

// ListTemplates handles GET /v1/templates
func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	infos := h.gen.Templates()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"templates": infos,
		"count":     len(infos),
	})
}

// GetTemplate handles GET /v1/templates/{name}
func (h *Handler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	reqID := w.Header().Get("X-Request-ID")

	name := chi.URLParam(r, "name")
	info, err := h.gen.Template(name)
	if err != nil {
		h.writeDomainError(w, reqID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(info)
}

// RegisterTemplate handles POST /v1/templates
func (h *Handler) RegisterTemplate(w http.ResponseWriter, r *http.Request) {
	reqID := w.Header().Get("X-Request-ID")

	var tmpl template.Template
	if err := json.NewDecoder(r.Body).Decode(&tmpl); err != nil {
		httputil.WriteBadRequestError(w, reqID, "Invalid JSON: "+err.Error())
		return
	}
	defer r.Body.Close()

	if strings.TrimSpace(tmpl.Name) == "" {
		httputil.WriteBadRequestError(w, reqID, "name is required")
		return
	}
	if strings.TrimSpace(tmpl.SystemInstructions) == "" {
		httputil.WriteBadRequestError(w, reqID, "system_instructions is required")
		return
	}

	h.gen.RegisterTemplate(tmpl)
	h.logger.Info("template registered", "template", tmpl.Name, "request_id", reqID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(tmpl.Info())
}

// Statistics handles GET /v1/statistics
func (h *Handler) Statistics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.gen.Statistics())
}

// History handles GET /v1/history?template=<name>&limit=<n>
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	reqID := w.Header().Get("X-Request-ID")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			httputil.WriteBadRequestError(w, reqID, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	entries := h.gen.History(r.URL.Query().Get("template"), limit)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"history": entries,
		"count":   len(entries),
	})
}

// ClearCache handles DELETE /v1/cache
func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	reqID := w.Header().Get("X-Request-ID")

	dropped := h.gen.ClearCache()
	h.logger.Info("cache cleared via API", "entries_dropped", dropped, "request_id", reqID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"entries_dropped": dropped})
}

// ClearHistory handles DELETE /v1/history
func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	reqID := w.Header().Get("X-Request-ID")

	dropped := h.gen.ClearHistory()
	h.logger.Info("history cleared via API", "entries_dropped", dropped, "request_id", reqID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"entries_dropped": dropped})
}

// ResetStatistics handles DELETE /v1/statistics
func (h *Handler) ResetStatistics(w http.ResponseWriter, r *http.Request) {
	reqID := w.Header().Get("X-Request-ID")

	h.gen.ResetStatistics()
	h.logger.Info("statistics reset via API", "request_id", reqID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "reset"})
}

// recordSpend accrues cost against the caller's daily budget. Unauthenticated
// requests are not charged.
func (h *Handler) recordSpend(r *http.Request, costUSD float64) {
	if h.Spend == nil || costUSD <= 0 {
		return
	}
	info, ok := auth.InfoFromContext(r.Context())
	if !ok {
		return
	}
	if err := h.Spend.RecordSpend(r.Context(), info.KeyID, ratelimit.MicroUSD(costUSD)); err != nil {
		h.logger.Warn("failed to record spend", "key", info.KeyID, "error", err)
	}
}

// writeDomainError maps orchestrator errors to HTTP responses.
func (h *Handler) writeDomainError(w http.ResponseWriter, reqID string, err error) {
	var (
		notFound  *types.NotFoundError
		validator *types.ValidationError
		blocked   *sanitize.BlockedError
		genErr    *types.GenerationError
	)
	switch {
	case errors.As(err, &notFound):
		httputil.WriteNotFoundError(w, reqID, err.Error())
	case errors.As(err, &validator):
		httputil.WriteBadRequestError(w, reqID, err.Error())
	case errors.As(err, &blocked):
		h.logger.Warn("request blocked by sanitizer", "request_id", reqID, "error", err)
		httputil.WriteContentBlockedError(w, reqID, err.Error())
	case errors.As(err, &genErr):
		h.logger.Error("generation failed", "request_id", reqID, "template", genErr.Template, "error", err)
		var terminal *provider.NonTransientError
		if errors.As(err, &terminal) {
			httputil.WriteUpstreamError(w, reqID, "Provider rejected the request")
			return
		}
		httputil.WriteServiceUnavailableError(w, reqID, "Provider unavailable after retries")
	default:
		h.logger.Error("unhandled error", "request_id", reqID, "error", err)
		httputil.WriteInternalError(w, reqID, "Internal error")
	}
}
