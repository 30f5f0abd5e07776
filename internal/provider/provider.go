package provider

import (
	"context"
	"fmt"

	"github.com/af-corp/scribe/internal/types"
)

// CompletionRequest is the payload handed to a Completer.
type CompletionRequest struct {
	Model       string
	Messages    []types.Message
	Temperature float64
	MaxTokens   int
}

// Completion is the provider's answer, already reduced to the fields the
// orchestrator consumes.
type Completion struct {
	Content          string
	FinishReason     string
	PromptTokens     int
	CompletionTokens int
}

// Completer performs a single chat completion. Implementations must honor
// ctx cancellation and classify failures as TransientError or
// NonTransientError so callers can decide whether to retry.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)
}

// TransientError marks a failure worth retrying: rate limits, upstream
// 5xx responses, network errors, timeouts.
type TransientError struct {
	StatusCode int
	Err        error
}

func (e *TransientError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("transient provider error (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("transient provider error: %v", e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// NonTransientError marks a failure retrying cannot fix: bad requests,
// invalid credentials, forbidden models.
type NonTransientError struct {
	StatusCode int
	Err        error
}

func (e *NonTransientError) Error() string {
	return fmt.Sprintf("provider rejected request (status %d): %v", e.StatusCode, e.Err)
}

func (e *NonTransientError) Unwrap() error { return e.Err }

// MaxRetriesError is returned when every attempt of a retried call failed.
// It wraps the final attempt's error.
type MaxRetriesError struct {
	Attempts int
	Err      error
}

func (e *MaxRetriesError) Error() string {
	return fmt.Sprintf("all %d attempts failed: %v", e.Attempts, e.Err)
}

func (e *MaxRetriesError) Unwrap() error { return e.Err }
