package llm

import (
	"context"

	"github.com/al-mudeer/inbox-agent/pkg/anthropic"
)

const defaultAnthropicMaxTokens = 1024

// anthropicProvider adapts pkg/anthropic to the gateway Provider
// interface. Image attachments are not forwarded; the secondary
// provider answers from text alone.
type anthropicProvider struct {
	client anthropic.Client
	model  string
}

// NewAnthropicProvider wraps an Anthropic client as the secondary
// provider in the failover chain.
func NewAnthropicProvider(client anthropic.Client, modelName string) Provider {
	return &anthropicProvider{client: client, model: modelName}
}

func (p *anthropicProvider) Name() string { return "anthropic" }

func (p *anthropicProvider) Generate(ctx context.Context, req Request) (string, error) {
	system := req.System
	if req.JSONMode {
		// The messages API has no response_format; enforce via the
		// system prompt instead.
		if system != "" {
			system += "\n\n"
		}
		system += "Respond with a single valid JSON object and nothing else."
	}

	maxTokens := int64(req.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}

	apiReq := anthropic.MessageRequest{
		Model:     p.model,
		MaxTokens: maxTokens,
		System:    system,
		Messages:  []anthropic.Message{{Role: "user", Content: req.Prompt}},
	}
	if req.Temperature > 0 {
		apiReq.Temperature = &req.Temperature
	}

	resp, err := p.client.CreateMessage(ctx, apiReq)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}
