package vllm

import (
	"fmt"
	"strings"

	"github.com/careerai/careerai/internal/ai/llm"
	"github.com/careerai/careerai/internal/config"
	"github.com/tmc/langchaingo/llms/openai"
)

// vLLM ignores the bearer token unless started with --api-key, but the
// OpenAI client refuses to build without one.
const placeholderToken = "EMPTY"

// NewProvider returns an AI provider talking to a vLLM server through its
// OpenAI-compatible endpoint.
func NewProvider(cfg config.VLLMConfig) (*llm.Provider, error) {
	client, err := openai.New(
		openai.WithToken(placeholderToken),
		openai.WithBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")+"/v1"),
		openai.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("vllm client: %w", err)
	}
	return llm.NewProvider("vllm", cfg.Model, client), nil
}
