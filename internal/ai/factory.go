package ai

import (
	"context"
	"fmt"

	"github.com/careerai/careerai/internal/ai/anthropic"
	"github.com/careerai/careerai/internal/ai/googleai"
	"github.com/careerai/careerai/internal/ai/llm"
	"github.com/careerai/careerai/internal/ai/ollama"
	"github.com/careerai/careerai/internal/ai/openai"
	"github.com/careerai/careerai/internal/ai/vllm"
	"github.com/careerai/careerai/internal/config"
	"github.com/careerai/careerai/pkg/models"
)

// NewProvider constructs the appropriate AI provider based on config.
// Called once at server startup.
func NewProvider(ctx context.Context, cfg config.AIConfig) (models.AIProvider, error) {
	var (
		p   *llm.Provider
		err error
	)
	switch cfg.Provider {
	case "ollama":
		p, err = ollama.NewProvider(cfg.Ollama)
	case "vllm":
		p, err = vllm.NewProvider(cfg.VLLM)
	case "openai":
		p, err = openai.NewProvider(cfg.OpenAI)
	case "anthropic":
		p, err = anthropic.NewProvider(cfg.Anthropic)
	case "googleai":
		p, err = googleai.NewProvider(ctx, cfg.GoogleAI)
	default:
		return nil, fmt.Errorf("unknown AI provider %q: must be one of ollama, vllm, openai, anthropic, googleai", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}
