package pricing

import (
	"log/slog"
	"math"
	"sync"
)

// Rate is the per-1K-token price pair for one model, in USD.
type Rate struct {
	Input  float64 `yaml:"input" json:"input"`
	Output float64 `yaml:"output" json:"output"`
}

// DefaultRates covers the models the service ships with. A pricing file can
// replace or extend these at load time.
func DefaultRates() map[string]Rate {
	return map[string]Rate{
		"gpt-4":             {Input: 0.03, Output: 0.06},
		"gpt-4-turbo":       {Input: 0.01, Output: 0.03},
		"gpt-3.5-turbo":     {Input: 0.0005, Output: 0.0015},
		"gpt-3.5-turbo-16k": {Input: 0.003, Output: 0.004},
	}
}

// DefaultModel is the rate applied when a model has no entry. Costing must
// never fail a generation that already succeeded, so unknown models are
// charged at this model's rates and logged.
const DefaultModel = "gpt-3.5-turbo"

// Table maps model names to token rates. Safe for concurrent use; Update
// swaps the whole rate set, which is how config hot reload applies new
// pricing without disturbing in-flight generations.
type Table struct {
	mu     sync.RWMutex
	rates  map[string]Rate
	logger *slog.Logger
}

func NewTable(rates map[string]Rate, logger *slog.Logger) *Table {
	if logger == nil {
		logger = slog.Default()
	}
	t := &Table{logger: logger}
	t.Update(rates)
	return t
}

// Update replaces the rate set. A nil or empty map falls back to the
// built-in defaults.
func (t *Table) Update(rates map[string]Rate) {
	if len(rates) == 0 {
		rates = DefaultRates()
	}
	copied := make(map[string]Rate, len(rates))
	for model, rate := range rates {
		copied[model] = rate
	}
	t.mu.Lock()
	t.rates = copied
	t.mu.Unlock()
}

// Rate returns the rate pair for the model, falling back to DefaultModel
// for unknown names.
func (t *Table) Rate(model string) Rate {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if rate, ok := t.rates[model]; ok {
		return rate
	}
	t.logger.Warn("no pricing entry for model, using default rates",
		"model", model, "default_model", DefaultModel)
	if rate, ok := t.rates[DefaultModel]; ok {
		return rate
	}
	return DefaultRates()[DefaultModel]
}

// Cost computes the USD cost of a completed generation, rounded to six
// decimal places. Rates are quoted per 1000 tokens.
func (t *Table) Cost(model string, promptTokens, completionTokens int) float64 {
	rate := t.Rate(model)
	cost := float64(promptTokens)/1000*rate.Input + float64(completionTokens)/1000*rate.Output
	return round6(cost)
}

// Models returns the model names with an explicit rate entry.
func (t *Table) Models() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.rates))
	for model := range t.rates {
		names = append(names, model)
	}
	return names
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
