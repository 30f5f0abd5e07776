package provider

import (
	"context"
	"fmt"
	"sync"
)

// Mock is a scriptable Completer for tests and for running the service
// without upstream credentials. Responses are served in order; once the
// script is exhausted the last entry repeats. With no script, Mock echoes
// a deterministic completion derived from the request.
type Mock struct {
	mu     sync.Mutex
	script []MockResponse
	calls  []CompletionRequest
	served int
}

// MockResponse is one scripted reply. Err, when set, wins over Completion.
type MockResponse struct {
	Completion *Completion
	Err        error
}

func NewMock(script ...MockResponse) *Mock {
	return &Mock{script: script}
}

func (m *Mock) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, req)

	if len(m.script) == 0 {
		prompt := ""
		if len(req.Messages) > 0 {
			prompt = req.Messages[len(req.Messages)-1].Content
		}
		return &Completion{
			Content:          fmt.Sprintf("[mock %s t=%.2f] %s", req.Model, req.Temperature, prompt),
			FinishReason:     "stop",
			PromptTokens:     len(prompt) / 4,
			CompletionTokens: 20,
		}, nil
	}

	idx := m.served
	if idx >= len(m.script) {
		idx = len(m.script) - 1
	}
	m.served++

	r := m.script[idx]
	if r.Err != nil {
		return nil, r.Err
	}
	out := *r.Completion
	return &out, nil
}

// Calls returns a copy of every request received so far.
func (m *Mock) Calls() []CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]CompletionRequest, len(m.calls))
	copy(out, m.calls)
	return out
}
