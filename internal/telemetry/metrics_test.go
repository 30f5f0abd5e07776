package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestNewMetrics(t *testing.T) {
	m := NewMetrics()

	if m.GenerationTotal == nil {
		t.Error("GenerationTotal should not be nil")
	}
	if m.GenerationDurationMs == nil {
		t.Error("GenerationDurationMs should not be nil")
	}
	if m.TokensTotal == nil {
		t.Error("TokensTotal should not be nil")
	}
	if m.CostUSDTotal == nil {
		t.Error("CostUSDTotal should not be nil")
	}
	if m.CacheEventTotal == nil {
		t.Error("CacheEventTotal should not be nil")
	}
	if m.SanitizerBlockTotal == nil {
		t.Error("SanitizerBlockTotal should not be nil")
	}
	if m.RateLimitTotal == nil {
		t.Error("RateLimitTotal should not be nil")
	}
}

func TestRecordGeneration(t *testing.T) {
	// Use a fresh registry to avoid polluting the default one
	reg := prometheus.NewRegistry()

	generationTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "test_scribe_generation_total",
		Help: "Test counter",
	}, []string{"template", "model", "status"})

	durationMs := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "test_scribe_generation_duration_ms",
		Help:    "Test histogram",
		Buckets: []float64{100, 500, 1000},
	}, []string{"template", "model"})

	tokensTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "test_scribe_tokens_total",
		Help: "Test counter",
	}, []string{"model", "direction"})

	costTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "test_scribe_cost_usd_total",
		Help: "Test counter",
	}, []string{"template", "model"})

	reg.MustRegister(generationTotal, durationMs, tokensTotal, costTotal)

	m := &Metrics{
		GenerationTotal:      generationTotal,
		GenerationDurationMs: durationMs,
		TokensTotal:          tokensTotal,
		CostUSDTotal:         costTotal,
	}

	m.RecordGeneration(GenerationLabels{
		Template:         "product_description",
		Model:            "gpt-4",
		Status:           "ok",
		DurationMs:       350,
		PromptTokens:     100,
		CompletionTokens: 50,
		CostUSD:          0.006,
	})

	counter, err := generationTotal.GetMetricWithLabelValues("product_description", "gpt-4", "ok")
	if err != nil {
		t.Fatalf("failed to get metric: %v", err)
	}
	var metric dto.Metric
	counter.Write(&metric)
	if *metric.Counter.Value != 1 {
		t.Errorf("expected generation count 1, got %v", *metric.Counter.Value)
	}

	promptCounter, _ := tokensTotal.GetMetricWithLabelValues("gpt-4", "prompt")
	promptCounter.Write(&metric)
	if *metric.Counter.Value != 100 {
		t.Errorf("expected 100 prompt tokens, got %v", *metric.Counter.Value)
	}

	costCounter, _ := costTotal.GetMetricWithLabelValues("product_description", "gpt-4")
	costCounter.Write(&metric)
	if *metric.Counter.Value != 0.006 {
		t.Errorf("expected cost 0.006, got %v", *metric.Counter.Value)
	}
}

func TestRecordCacheEvent(t *testing.T) {
	cacheTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "test_cache_event",
		Help: "Test",
	}, []string{"event"})

	m := &Metrics{CacheEventTotal: cacheTotal}
	m.RecordCacheEvent("hit")
	m.RecordCacheEvent("hit")
	m.RecordCacheEvent("miss")

	counter, _ := cacheTotal.GetMetricWithLabelValues("hit")
	var metric dto.Metric
	counter.Write(&metric)
	if *metric.Counter.Value != 2 {
		t.Errorf("expected 2 hits, got %v", *metric.Counter.Value)
	}
}

func TestRecordSanitizerBlock(t *testing.T) {
	blockTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "test_sanitizer_block",
		Help: "Test",
	}, []string{"category"})

	m := &Metrics{SanitizerBlockTotal: blockTotal}
	m.RecordSanitizerBlock("sql_injection")

	counter, _ := blockTotal.GetMetricWithLabelValues("sql_injection")
	var metric dto.Metric
	counter.Write(&metric)
	if *metric.Counter.Value != 1 {
		t.Errorf("expected sanitizer block count 1, got %v", *metric.Counter.Value)
	}
}
