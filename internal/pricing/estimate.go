package pricing

import "github.com/af-corp/scribe/internal/types"

// Token heuristics for estimates. Roughly four characters per token for
// English prose, and completions tend to land around 60% of the budget.
const (
	charsPerToken      = 4
	completionRatioPct = 60
)

// Estimate previews the cost of generating against the rendered prompt
// without calling the provider.
func (t *Table) Estimate(model, prompt string, maxTokens int) types.CostEstimate {
	promptTokens := len(prompt) / charsPerToken
	completionTokens := maxTokens * completionRatioPct / 100
	return types.CostEstimate{
		Model:                     model,
		EstimatedPromptTokens:     promptTokens,
		EstimatedCompletionTokens: completionTokens,
		EstimatedTotalTokens:      promptTokens + completionTokens,
		EstimatedCostUSD:          t.Cost(model, promptTokens, completionTokens),
	}
}
