package llm

import (
	"fmt"

	"ai-resume-be/pkg/ai/router"
)

// StructuredOutputError means no provider produced a schema-valid object.
// Callers catch it to substitute static defaults.
type StructuredOutputError struct {
	Schema string
	Err    error
}

func (e *StructuredOutputError) Error() string {
	return fmt.Sprintf("structured output %q failed on all providers: %v", e.Schema, e.Err)
}

func (e *StructuredOutputError) Unwrap() error {
	return e.Err
}

// ExhaustedError means a text call failed on the primary and the fallback.
type ExhaustedError struct {
	Tier     router.ModelSize
	Primary  error
	Fallback error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%s call failed on all providers: primary: %v; fallback: %v", e.Tier, e.Primary, e.Fallback)
}

func (e *ExhaustedError) Unwrap() []error {
	return []error{e.Primary, e.Fallback}
}
