package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/al-mudeer/inbox-agent/pkg/anthropic"
)

type fakeMessageClient struct {
	lastReq anthropic.MessageRequest
	resp    *anthropic.MessageResponse
	err     error
}

func (c *fakeMessageClient) CreateMessage(_ context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	c.lastReq = req
	if c.err != nil {
		return nil, c.err
	}
	return c.resp, nil
}

func TestAnthropicProvider_BuildsRequest(t *testing.T) {
	client := &fakeMessageClient{
		resp: &anthropic.MessageResponse{Content: []anthropic.ContentBlock{{Type: "text", Text: "ok"}}},
	}
	p := NewAnthropicProvider(client, "claude-haiku-4-5-20251001")

	text, err := p.Generate(context.Background(), Request{
		System:    "be concise",
		Prompt:    "hi",
		MaxTokens: 300,
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, "claude-haiku-4-5-20251001", client.lastReq.Model)
	assert.Equal(t, "be concise", client.lastReq.System)
	assert.Equal(t, int64(300), client.lastReq.MaxTokens)
	require.Len(t, client.lastReq.Messages, 1)
	assert.Equal(t, "user", client.lastReq.Messages[0].Role)
	assert.Equal(t, "hi", client.lastReq.Messages[0].Content)
}

func TestAnthropicProvider_JSONModeInstruction(t *testing.T) {
	client := &fakeMessageClient{
		resp: &anthropic.MessageResponse{Content: []anthropic.ContentBlock{{Type: "text", Text: "{}"}}},
	}
	p := NewAnthropicProvider(client, "claude-haiku-4-5-20251001")

	_, err := p.Generate(context.Background(), Request{System: "classify", Prompt: "hi", JSONMode: true})

	require.NoError(t, err)
	assert.Contains(t, client.lastReq.System, "classify")
	assert.Contains(t, client.lastReq.System, "valid JSON object")
}

func TestAnthropicProvider_DefaultMaxTokens(t *testing.T) {
	client := &fakeMessageClient{
		resp: &anthropic.MessageResponse{Content: []anthropic.ContentBlock{{Type: "text", Text: "ok"}}},
	}
	p := NewAnthropicProvider(client, "claude-haiku-4-5-20251001")

	_, err := p.Generate(context.Background(), Request{Prompt: "hi"})

	require.NoError(t, err)
	assert.Equal(t, int64(defaultAnthropicMaxTokens), client.lastReq.MaxTokens)
}
