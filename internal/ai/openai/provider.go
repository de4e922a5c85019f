package openai

import (
	"fmt"

	"github.com/careerai/careerai/internal/ai/llm"
	"github.com/careerai/careerai/internal/config"
	lcopenai "github.com/tmc/langchaingo/llms/openai"
)

// NewProvider returns an AI provider backed by the OpenAI chat API.
func NewProvider(cfg config.OpenAIConfig) (*llm.Provider, error) {
	client, err := lcopenai.New(
		lcopenai.WithToken(cfg.APIKey),
		lcopenai.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("openai client: %w", err)
	}
	return llm.NewProvider("openai", cfg.Model, client), nil
}
