package anthropic

import (
	"fmt"

	"github.com/careerai/careerai/internal/ai/llm"
	"github.com/careerai/careerai/internal/config"
	lcanthropic "github.com/tmc/langchaingo/llms/anthropic"
)

// NewProvider returns an AI provider backed by the Anthropic messages API.
func NewProvider(cfg config.AnthropicConfig) (*llm.Provider, error) {
	client, err := lcanthropic.New(
		lcanthropic.WithToken(cfg.APIKey),
		lcanthropic.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("anthropic client: %w", err)
	}
	return llm.NewProvider("anthropic", cfg.Model, client), nil
}
