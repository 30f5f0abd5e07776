package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the Scribe service.
type Metrics struct {
	GenerationTotal      *prometheus.CounterVec
	GenerationDurationMs *prometheus.HistogramVec
	TokensTotal          *prometheus.CounterVec
	CostUSDTotal         *prometheus.CounterVec
	CacheEventTotal      *prometheus.CounterVec
	SanitizerBlockTotal  *prometheus.CounterVec
	RateLimitTotal       *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		GenerationTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "scribe_generation_total",
			Help: "Total number of generation calls handled.",
		}, []string{"template", "model", "status"}),

		GenerationDurationMs: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "scribe_generation_duration_ms",
			Help:    "Provider call duration in milliseconds.",
			Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000},
		}, []string{"template", "model"}),

		TokensTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "scribe_tokens_total",
			Help: "Total tokens consumed, by direction.",
		}, []string{"model", "direction"}),

		CostUSDTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "scribe_cost_usd_total",
			Help: "Estimated total provider cost in USD.",
		}, []string{"template", "model"}),

		CacheEventTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "scribe_cache_event_total",
			Help: "Response cache lookups, by outcome.",
		}, []string{"event"}),

		SanitizerBlockTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "scribe_sanitizer_block_total",
			Help: "Requests blocked by the content sanitizer.",
		}, []string{"category"}),

		RateLimitTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "scribe_ratelimit_total",
			Help: "Rate limiter decisions.",
		}, []string{"result"}),
	}
}

// GenerationLabels holds the label values for recording one generation.
type GenerationLabels struct {
	Template         string
	Model            string
	Status           string // "ok", "cached", "error"
	DurationMs       float64
	PromptTokens     int
	CompletionTokens int
	CostUSD          float64
}

// RecordGeneration records metrics for a completed generation call.
func (m *Metrics) RecordGeneration(labels GenerationLabels) {
	m.GenerationTotal.WithLabelValues(labels.Template, labels.Model, labels.Status).Inc()

	if labels.DurationMs > 0 {
		m.GenerationDurationMs.WithLabelValues(labels.Template, labels.Model).Observe(labels.DurationMs)
	}
	if labels.PromptTokens > 0 {
		m.TokensTotal.WithLabelValues(labels.Model, "prompt").Add(float64(labels.PromptTokens))
	}
	if labels.CompletionTokens > 0 {
		m.TokensTotal.WithLabelValues(labels.Model, "completion").Add(float64(labels.CompletionTokens))
	}
	if labels.CostUSD > 0 {
		m.CostUSDTotal.WithLabelValues(labels.Template, labels.Model).Add(labels.CostUSD)
	}
}

// RecordCacheEvent records a cache lookup outcome ("hit" or "miss").
func (m *Metrics) RecordCacheEvent(event string) {
	m.CacheEventTotal.WithLabelValues(event).Inc()
}

// RecordSanitizerBlock records a sanitizer block by rule category.
func (m *Metrics) RecordSanitizerBlock(category string) {
	m.SanitizerBlockTotal.WithLabelValues(category).Inc()
}

// RecordRateLimit records a rate limiter decision ("allowed" or "limited").
func (m *Metrics) RecordRateLimit(result string) {
	m.RateLimitTotal.WithLabelValues(result).Inc()
}
