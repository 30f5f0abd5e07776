package types

import "time"

// Usage is the token accounting for a single completion.
type Usage struct {
	PromptTokens     int `json:"prompt"`
	CompletionTokens int `json:"completion"`
	TotalTokens      int `json:"total"`
}

// GenerationResult is the structured outcome of one generation. Immutable
// once produced; the orchestrator retains copies in cache and history, the
// caller owns the returned value.
type GenerationResult struct {
	Content        string    `json:"content"`
	TokensUsed     Usage     `json:"tokens_used"`
	CostUSD        float64   `json:"cost_usd"`
	Cached         bool      `json:"cached"`
	GenerationTime float64   `json:"generation_time"` // seconds spent in the provider call
	TemplateName   string    `json:"template"`
	Model          string    `json:"model"`
	Temperature    float64   `json:"temperature"`
	FinishReason   string    `json:"finish_reason,omitempty"`
	RequestID      string    `json:"request_id,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// CostEstimate previews the approximate cost of a generation without calling
// the provider. Token counts are heuristic.
type CostEstimate struct {
	Model                     string  `json:"model"`
	EstimatedPromptTokens     int     `json:"estimated_prompt_tokens"`
	EstimatedCompletionTokens int     `json:"estimated_completion_tokens"`
	EstimatedTotalTokens      int     `json:"estimated_total_tokens"`
	EstimatedCostUSD          float64 `json:"estimated_cost_usd"`
}

// TemplateInfo is the metadata surface returned by template listings.
type TemplateInfo struct {
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	Category          string   `json:"category"`
	RequiredVariables []string `json:"required_variables"`
	OptionalVariables []string `json:"optional_variables"`
}
