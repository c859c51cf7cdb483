package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/al-mudeer/inbox-agent/internal/model"
	"github.com/al-mudeer/inbox-agent/internal/resilience"
	"github.com/al-mudeer/inbox-agent/pkg/openai"
)

// openAIProvider adapts pkg/openai to the gateway Provider interface.
type openAIProvider struct {
	client openai.Client
	model  string
}

// NewOpenAIProvider wraps an OpenAI-compatible client as the primary
// provider in the failover chain.
func NewOpenAIProvider(client openai.Client, modelName string) Provider {
	return &openAIProvider{client: client, model: modelName}
}

func (p *openAIProvider) Name() string { return "openai" }

func (p *openAIProvider) Generate(ctx context.Context, req Request) (string, error) {
	var messages []openai.Message
	if req.System != "" {
		messages = append(messages, openai.TextMessage("system", req.System))
	}

	user := openai.TextMessage("user", req.Prompt)
	for _, att := range req.Attachments {
		part, ok := imagePart(att)
		if !ok {
			continue
		}
		user.Content = append(user.Content, part)
	}
	messages = append(messages, user)

	apiReq := openai.ChatCompletionRequest{
		Model:    p.model,
		Messages: messages,
	}
	if req.Temperature > 0 {
		apiReq.Temperature = &req.Temperature
	}
	if req.MaxTokens > 0 {
		apiReq.MaxTokens = &req.MaxTokens
	}
	if req.JSONMode {
		apiReq.ResponseFormat = &openai.ResponseFormat{Type: "json_object"}
	}

	resp, err := p.client.ChatCompletion(ctx, apiReq)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && resilience.RetryableStatus(apiErr.StatusCode) {
			return "", resilience.Retryable(err, apiErr.StatusCode)
		}
		return "", err
	}

	return resp.Text(), nil
}

// imagePart converts an image attachment into a chat content part.
// Non-image attachments are skipped; the pipeline summarizes their
// presence in the prompt instead.
func imagePart(att model.MediaRef) (openai.ContentPart, bool) {
	if att.Kind != model.MediaImage {
		return openai.ContentPart{}, false
	}

	url := att.URL
	if url == "" && att.Data != "" {
		mime := att.MIMEType
		if mime == "" {
			mime = "image/jpeg"
		}
		url = fmt.Sprintf("data:%s;base64,%s", mime, att.Data)
	}
	if url == "" {
		return openai.ContentPart{}, false
	}

	return openai.ContentPart{Type: "image_url", ImageURL: &openai.ImageURL{URL: url}}, true
}
