package googleai

import (
	"context"
	"fmt"

	"github.com/careerai/careerai/internal/ai/llm"
	"github.com/careerai/careerai/internal/config"
	lcgoogleai "github.com/tmc/langchaingo/llms/googleai"
)

// NewProvider returns an AI provider backed by the Gemini API.
func NewProvider(ctx context.Context, cfg config.GoogleAIConfig) (*llm.Provider, error) {
	client, err := lcgoogleai.New(ctx,
		lcgoogleai.WithAPIKey(cfg.APIKey),
		lcgoogleai.WithDefaultModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("googleai client: %w", err)
	}
	return llm.NewProvider("googleai", cfg.Model, client), nil
}
