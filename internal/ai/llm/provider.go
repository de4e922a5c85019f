// Package llm adapts a langchaingo model to models.AIProvider. The vendor
// subpackages only build the underlying client; request handling lives here.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/careerai/careerai/pkg/models"
	"github.com/tmc/langchaingo/llms"
)

// Provider implements models.AIProvider on top of any llms.Model.
type Provider struct {
	name   string
	model  string
	client llms.Model
}

func NewProvider(name, model string, client llms.Model) *Provider {
	return &Provider{name: name, model: model, client: client}
}

func (p *Provider) Name() string  { return p.name }
func (p *Provider) Model() string { return p.model }

// Complete sends req.Prompt as a single human message and returns the trimmed
// reply text.
func (p *Provider) Complete(ctx context.Context, req models.CompletionRequest) (string, error) {
	var opts []llms.CallOption
	if req.Temperature > 0 {
		opts = append(opts, llms.WithTemperature(req.Temperature))
	}
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}
	if req.JSON {
		opts = append(opts, llms.WithJSONMode())
	}

	out, err := llms.GenerateFromSinglePrompt(ctx, p.client, req.Prompt, opts...)
	if err != nil {
		return "", fmt.Errorf("%s completion: %w", p.name, err)
	}
	return strings.TrimSpace(out), nil
}

var _ models.AIProvider = (*Provider)(nil)
