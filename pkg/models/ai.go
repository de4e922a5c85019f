// Package models contains shared data models used across the CareerAI codebase.
package models

import "context"

// AIProvider is the core interface that all AI integrations must implement.
// Never call specific AI providers directly; always inject this interface.
type AIProvider interface {
	// Complete sends a single prompt and returns the model's text reply.
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	// Name returns the provider identifier (e.g., "ollama", "openai").
	Name() string
	// Model returns the model the provider was configured with.
	Model() string
}

// CompletionRequest is the input to a single completion call.
type CompletionRequest struct {
	Prompt      string
	JSON        bool // ask the provider for a JSON-only reply
	MaxTokens   int
	Temperature float64
}
