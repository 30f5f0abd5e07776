package types

import "time"

// GenerationRequest is the canonical internal representation of a content
// generation call. All inbound surfaces (HTTP, CLI) convert to this type.
type GenerationRequest struct {
	TemplateName string            `json:"template"`
	Variables    map[string]string `json:"variables,omitempty"`

	// Sampling parameters. Nil means "use the template recommendation,
	// falling back to the configured default".
	Temperature *float64 `json:"temperature,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`

	// UseCache defaults to true when caching is enabled.
	UseCache *bool `json:"use_cache,omitempty"`

	// Internal tracking (set by the transport layer)
	RequestID  string    `json:"-"`
	ReceivedAt time.Time `json:"-"`
}

// VariationsRequest asks for several renditions of the same template, with
// temperature swept evenly across the inclusive range.
type VariationsRequest struct {
	TemplateName   string            `json:"template"`
	Variables      map[string]string `json:"variables,omitempty"`
	Count          int               `json:"count"`
	TemperatureMin float64           `json:"temperature_min"`
	TemperatureMax float64           `json:"temperature_max"`
	MaxTokens      *int              `json:"max_tokens,omitempty"`

	RequestID string `json:"-"`
}

// Message is one turn of the chat-completion payload sent to the provider.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
