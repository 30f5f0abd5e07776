package generator

import (
	"sync"

	"github.com/af-corp/scribe/internal/types"
)

const DefaultHistoryCapacity = 1000

// history is a bounded append-order buffer of past results: most recent
// last, oldest evicted first once the cap is reached.
type history struct {
	mu       sync.Mutex
	capacity int
	entries  []types.GenerationResult
}

func newHistory(capacity int) *history {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &history{capacity: capacity}
}

func (h *history) append(result types.GenerationResult) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) >= h.capacity {
		drop := len(h.entries) - h.capacity + 1
		h.entries = append(h.entries[:0], h.entries[drop:]...)
	}
	h.entries = append(h.entries, result)
}

// snapshot returns a copy of the retained entries, optionally filtered by
// template name and truncated to the most recent limit entries. A limit of
// zero or less means no truncation.
func (h *history) snapshot(templateName string, limit int) []types.GenerationResult {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]types.GenerationResult, 0, len(h.entries))
	for _, e := range h.entries {
		if templateName != "" && e.TemplateName != templateName {
			continue
		}
		out = append(out, e)
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

// clear drops all retained entries and reports how many were dropped.
func (h *history) clear() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := len(h.entries)
	h.entries = nil
	return n
}

func (h *history) len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
