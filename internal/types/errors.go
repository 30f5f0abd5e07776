package types

import "fmt"

// NotFoundError reports a reference to a template that was never registered.
// Caller mistake; never retried.
type NotFoundError struct {
	Template string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("template not found: %s", e.Template)
}

// ValidationError reports a missing or empty required variable, or an
// out-of-range sampling parameter. Caller mistake; never retried.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validationf builds a ValidationError with a formatted message.
func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// GenerationError wraps a terminal provider failure surfaced by the
// orchestrator. Statistics and history are not touched when one is returned.
type GenerationError struct {
	Template string
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed for template %q: %v", e.Template, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
