package generator

import (
	"context"
	"log/slog"
	"time"

	"github.com/af-corp/scribe/internal/cache"
	"github.com/af-corp/scribe/internal/pricing"
	"github.com/af-corp/scribe/internal/provider"
	"github.com/af-corp/scribe/internal/sanitize"
	"github.com/af-corp/scribe/internal/telemetry"
	"github.com/af-corp/scribe/internal/template"
	"github.com/af-corp/scribe/internal/types"
)

// Options are the tunables for a Generator. Zero values fall back to the
// documented defaults; in particular a DefaultTemperature of 0 means unset,
// so a temperature of exactly 0 must be requested per call.
type Options struct {
	Model              string
	DefaultTemperature float64
	DefaultMaxTokens   int
	CacheEnabled       bool
	CacheCapacity      int
	HistoryCapacity    int
}

const (
	defaultModel       = "gpt-3.5-turbo"
	defaultTemperature = 0.7
	defaultMaxTokens   = 500
)

// Generator is the orchestration facade: it renders templates, screens
// variable content, consults the response cache, calls the provider, prices
// the result and maintains aggregate statistics and a bounded run history.
// Safe for concurrent use; each Generate call runs to completion
// independently.
type Generator struct {
	store   *template.Store
	client  provider.Completer
	prices  *pricing.Table
	cache   *cache.LRU
	scanner *sanitize.Scanner
	metrics *telemetry.Metrics
	logger  *slog.Logger
	opts    Options

	stats   *stats
	history *history

	now func() time.Time
}

// Option adjusts a Generator at construction.
type Option func(*Generator)

// WithScanner attaches a dangerous-content scanner applied to merged
// variables before any provider call.
func WithScanner(s *sanitize.Scanner) Option {
	return func(g *Generator) { g.scanner = s }
}

// WithMetrics attaches Prometheus instrumentation.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(g *Generator) { g.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

func New(store *template.Store, client provider.Completer, prices *pricing.Table, opts Options, options ...Option) *Generator {
	if opts.Model == "" {
		opts.Model = defaultModel
	}
	if opts.DefaultTemperature == 0 {
		opts.DefaultTemperature = defaultTemperature
	}
	if opts.DefaultMaxTokens == 0 {
		opts.DefaultMaxTokens = defaultMaxTokens
	}

	g := &Generator{
		store:   store,
		client:  client,
		prices:  prices,
		cache:   cache.NewLRU(opts.CacheCapacity),
		logger:  slog.Default(),
		opts:    opts,
		stats:   newStats(),
		history: newHistory(opts.HistoryCapacity),
		now:     time.Now,
	}
	for _, opt := range options {
		opt(g)
	}
	return g
}

// Generate runs the full pipeline for one request. Failures leave
// statistics and history untouched.
func (g *Generator) Generate(ctx context.Context, req types.GenerationRequest) (*types.GenerationResult, error) {
	tmpl, err := g.store.Get(req.TemplateName)
	if err != nil {
		return nil, err
	}

	prompt, merged, err := tmpl.Render(req.Variables)
	if err != nil {
		return nil, err
	}
	if err := g.screen(merged); err != nil {
		return nil, err
	}

	temperature, err := g.resolveTemperature(req.Temperature, tmpl)
	if err != nil {
		return nil, err
	}
	maxTokens, err := g.resolveMaxTokens(req.MaxTokens, tmpl)
	if err != nil {
		return nil, err
	}

	useCache := g.opts.CacheEnabled && (req.UseCache == nil || *req.UseCache)
	key := cache.Fingerprint(req.TemplateName, merged, temperature, maxTokens)

	if useCache {
		if hit, ok := g.cache.Get(key); ok {
			hit.Cached = true
			hit.GenerationTime = 0
			hit.RequestID = req.RequestID
			hit.Timestamp = g.now()

			g.stats.recordHit(req.TemplateName)
			g.history.append(hit)
			if g.metrics != nil {
				g.metrics.RecordCacheEvent("hit")
				g.metrics.RecordGeneration(telemetry.GenerationLabels{
					Template: req.TemplateName, Model: hit.Model, Status: "cached",
				})
			}
			g.logger.Debug("generation served from cache",
				"template", req.TemplateName, "request_id", req.RequestID)
			return &hit, nil
		}
	}

	result, err := g.callProvider(ctx, req.TemplateName, prompt, temperature, maxTokens)
	if err != nil {
		return nil, err
	}
	result.RequestID = req.RequestID

	if useCache {
		g.cache.Put(key, *result)
		if g.metrics != nil {
			g.metrics.RecordCacheEvent("miss")
		}
	}
	g.stats.recordMiss(req.TemplateName, result.CostUSD, result.GenerationTime, useCache)
	g.history.append(*result)

	g.logger.Info("generation completed",
		"template", req.TemplateName,
		"model", result.Model,
		"tokens", result.TokensUsed.TotalTokens,
		"cost_usd", result.CostUSD,
		"duration_s", result.GenerationTime,
		"request_id", req.RequestID)
	return result, nil
}

// GenerateVariations renders once and generates count completions with
// temperature swept evenly across the inclusive range, in ascending order.
// The cache is bypassed: every variation hits the provider. The first
// provider failure aborts the batch.
func (g *Generator) GenerateVariations(ctx context.Context, req types.VariationsRequest) ([]types.GenerationResult, error) {
	if req.Count < 1 {
		return nil, types.Validationf("variation count must be at least 1, got %d", req.Count)
	}
	if req.TemperatureMin < 0 || req.TemperatureMax > 2 || req.TemperatureMin > req.TemperatureMax {
		return nil, types.Validationf("invalid temperature range [%v, %v]",
			req.TemperatureMin, req.TemperatureMax)
	}

	tmpl, err := g.store.Get(req.TemplateName)
	if err != nil {
		return nil, err
	}
	prompt, merged, err := tmpl.Render(req.Variables)
	if err != nil {
		return nil, err
	}
	if err := g.screen(merged); err != nil {
		return nil, err
	}
	maxTokens, err := g.resolveMaxTokens(req.MaxTokens, tmpl)
	if err != nil {
		return nil, err
	}

	results := make([]types.GenerationResult, 0, req.Count)
	for i := 0; i < req.Count; i++ {
		temperature := variationTemperature(req.TemperatureMin, req.TemperatureMax, i, req.Count)

		result, err := g.callProvider(ctx, req.TemplateName, prompt, temperature, maxTokens)
		if err != nil {
			return nil, err
		}
		result.RequestID = req.RequestID

		g.stats.recordMiss(req.TemplateName, result.CostUSD, result.GenerationTime, false)
		g.history.append(*result)
		results = append(results, *result)
	}

	g.logger.Info("variations completed",
		"template", req.TemplateName, "count", req.Count, "request_id", req.RequestID)
	return results, nil
}

// variationTemperature spreads count samples evenly across [min, max],
// endpoints included. A single variation lands on the midpoint.
func variationTemperature(min, max float64, i, count int) float64 {
	if count == 1 {
		return (min + max) / 2
	}
	return min + (max-min)*float64(i)/float64(count-1)
}

// callProvider performs the timed completion call and prices the result.
func (g *Generator) callProvider(ctx context.Context, templateName, prompt string, temperature float64, maxTokens int) (*types.GenerationResult, error) {
	creq := provider.CompletionRequest{
		Model:       g.opts.Model,
		Messages:    []types.Message{{Role: "user", Content: prompt}},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	start := g.now()
	completion, err := g.client.Complete(ctx, creq)
	elapsed := g.now().Sub(start).Seconds()
	if err != nil {
		if g.metrics != nil {
			g.metrics.RecordGeneration(telemetry.GenerationLabels{
				Template: templateName, Model: g.opts.Model, Status: "error",
			})
		}
		g.logger.Error("provider call failed",
			"template", templateName, "model", g.opts.Model, "error", err)
		return nil, &types.GenerationError{Template: templateName, Err: err}
	}

	cost := g.prices.Cost(g.opts.Model, completion.PromptTokens, completion.CompletionTokens)
	result := &types.GenerationResult{
		Content: sanitize.CleanOutput(completion.Content),
		TokensUsed: types.Usage{
			PromptTokens:     completion.PromptTokens,
			CompletionTokens: completion.CompletionTokens,
			TotalTokens:      completion.PromptTokens + completion.CompletionTokens,
		},
		CostUSD:        cost,
		Cached:         false,
		GenerationTime: elapsed,
		TemplateName:   templateName,
		Model:          g.opts.Model,
		Temperature:    temperature,
		FinishReason:   completion.FinishReason,
		Timestamp:      g.now(),
	}

	if g.metrics != nil {
		g.metrics.RecordGeneration(telemetry.GenerationLabels{
			Template:         templateName,
			Model:            g.opts.Model,
			Status:           "ok",
			DurationMs:       elapsed * 1000,
			PromptTokens:     completion.PromptTokens,
			CompletionTokens: completion.CompletionTokens,
			CostUSD:          cost,
		})
	}
	return result, nil
}

// EstimateCost previews the cost of a generation without calling the
// provider. Validation mirrors Generate.
func (g *Generator) EstimateCost(req types.GenerationRequest) (*types.CostEstimate, error) {
	tmpl, err := g.store.Get(req.TemplateName)
	if err != nil {
		return nil, err
	}
	prompt, _, err := tmpl.Render(req.Variables)
	if err != nil {
		return nil, err
	}
	maxTokens, err := g.resolveMaxTokens(req.MaxTokens, tmpl)
	if err != nil {
		return nil, err
	}
	est := g.prices.Estimate(g.opts.Model, prompt, maxTokens)
	return &est, nil
}

func (g *Generator) screen(variables map[string]string) error {
	if g.scanner == nil {
		return nil
	}
	err := g.scanner.ScanVariables(variables)
	if err == nil {
		return nil
	}
	if g.metrics != nil {
		if blocked, ok := err.(*sanitize.BlockedError); ok && len(blocked.Detections) > 0 {
			g.metrics.RecordSanitizerBlock(blocked.Detections[0].Category)
		}
	}
	return err
}

func (g *Generator) resolveTemperature(requested *float64, tmpl template.Template) (float64, error) {
	if requested != nil {
		if *requested < 0 || *requested > 2 {
			return 0, types.Validationf("temperature must be in [0, 2], got %v", *requested)
		}
		return *requested, nil
	}
	if tmpl.TemperatureRecommendation > 0 {
		return tmpl.TemperatureRecommendation, nil
	}
	return g.opts.DefaultTemperature, nil
}

func (g *Generator) resolveMaxTokens(requested *int, tmpl template.Template) (int, error) {
	if requested != nil {
		if *requested <= 0 {
			return 0, types.Validationf("max_tokens must be positive, got %d", *requested)
		}
		return *requested, nil
	}
	if tmpl.MaxTokensRecommendation > 0 {
		return tmpl.MaxTokensRecommendation, nil
	}
	return g.opts.DefaultMaxTokens, nil
}

// RegisterTemplate adds or replaces a template at runtime.
func (g *Generator) RegisterTemplate(t template.Template) {
	g.store.Register(t)
}

// Templates lists registered template metadata in registration order.
func (g *Generator) Templates() []types.TemplateInfo {
	return g.store.List()
}

// Template returns the metadata for a single registered template.
func (g *Generator) Template(name string) (types.TemplateInfo, error) {
	t, err := g.store.Get(name)
	if err != nil {
		return types.TemplateInfo{}, err
	}
	return t.Info(), nil
}

// Statistics returns a snapshot of the aggregate counters.
func (g *Generator) Statistics() Statistics {
	return g.stats.snapshot()
}

// History returns retained results, most recent last. templateName filters
// when non-empty; limit truncates to the most recent entries when positive.
func (g *Generator) History(templateName string, limit int) []types.GenerationResult {
	return g.history.snapshot(templateName, limit)
}

// ClearCache empties the response cache and returns the number of entries
// dropped.
func (g *Generator) ClearCache() int {
	n := g.cache.Clear()
	g.logger.Info("response cache cleared", "entries_dropped", n)
	return n
}

// ClearHistory drops all retained history entries and returns the number
// dropped.
func (g *Generator) ClearHistory() int {
	n := g.history.clear()
	g.logger.Info("history cleared", "entries_dropped", n)
	return n
}

// ResetStatistics zeroes every aggregate counter. Prometheus counters stay
// cumulative and are not touched.
func (g *Generator) ResetStatistics() {
	g.stats.reset()
	g.logger.Info("statistics reset")
}

// CacheSize returns the current entry count and capacity of the cache.
func (g *Generator) CacheSize() (entries, capacity int) {
	return g.cache.Len(), g.cache.Capacity()
}
