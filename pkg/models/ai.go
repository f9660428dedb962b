// Package models contains shared data models used across the medconsensus codebase.
package models

import "context"

// CompletionProvider is the core interface that all text-completion
// integrations must implement. Never call a specific provider directly;
// always go through ai.Gateway, which owns timeouts and error classification.
type CompletionProvider interface {
	// Complete sends a single prompt and returns the raw completion text.
	// An empty string with a nil error means the provider produced no candidates.
	Complete(ctx context.Context, prompt string) (string, error)
	// Name returns the provider identifier (e.g., "gemini", "openai").
	Name() string
	// Model returns the model the provider was configured with.
	Model() string
}
