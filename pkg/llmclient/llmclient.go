// Package llmclient declares the external collaborator seam for LLM
// completions, plus thin reference adapters over the Anthropic and OpenAI
// SDKs. The engine only ever depends on the Client interface.
package llmclient

import "context"

// Client completes a single prompt turn given a system prompt and a user
// message, returning the model's raw text response.
type Client interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
