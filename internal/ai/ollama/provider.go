package ollama

import (
	"fmt"

	"github.com/careerai/careerai/internal/ai/llm"
	"github.com/careerai/careerai/internal/config"
	lcollama "github.com/tmc/langchaingo/llms/ollama"
)

// NewProvider returns an AI provider backed by a local Ollama server.
func NewProvider(cfg config.OllamaConfig) (*llm.Provider, error) {
	client, err := lcollama.New(
		lcollama.WithServerURL(cfg.BaseURL),
		lcollama.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("ollama client: %w", err)
	}
	return llm.NewProvider("ollama", cfg.Model, client), nil
}
