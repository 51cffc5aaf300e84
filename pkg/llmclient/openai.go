package llmclient

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIClient adapts the Chat Completions API to Client.
type OpenAIClient struct {
	client openai.Client
	model  openai.ChatModel
}

// NewOpenAIClient builds a Client backed by the given API key and model.
func NewOpenAIClient(apiKey string, model openai.ChatModel) *OpenAIClient {
	return &OpenAIClient{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

// Complete sends a single-turn chat completion request and returns the
// first choice's message content.
func (c *OpenAIClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai completion: no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}
