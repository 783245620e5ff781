package llm

import (
	"context"
)

// DefaultTemperature applies when a caller does not override it.
const DefaultTemperature = 0.7

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

// ApplyOptions resolves options over the package defaults.
func ApplyOptions(opts ...Option) Options {
	o := Options{Temperature: DefaultTemperature}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ProviderClient is one model-serving backend. Implementations own all
// vendor-specific request and response shaping; retry and fallback live in
// the Orchestrator.
type ProviderClient interface {
	// Name identifies the backend in logs and traces.
	Name() string

	// Complete returns the raw text of one completion.
	Complete(ctx context.Context, prompt, systemInstruction string, opts ...Option) (string, error)

	// CompleteStructured requests a completion constrained to schema and
	// returns its raw JSON text. Validation happens in the caller.
	CompleteStructured(ctx context.Context, prompt, systemInstruction string, schema *Schema, opts ...Option) (string, error)
}
