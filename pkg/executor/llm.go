package executor

import (
	"fmt"

	"github.com/yesoreyeram/thaiyyal/backend/pkg/types"
)

// llmExecutor issues a single completion through the configured LLM client.
type llmExecutor struct{}

// NewLLMExecutor returns the executor for the "llm" node type.
func NewLLMExecutor() NodeExecutor { return &llmExecutor{} }

func (e *llmExecutor) NodeType() types.NodeType { return types.NodeTypeLLM }

func (e *llmExecutor) Validate(ctx ExecutionContext, node types.Node) error {
	return nil
}

func (e *llmExecutor) Execute(ctx ExecutionContext, node types.Node) (Output, error) {
	client := ctx.LLM()
	if client == nil {
		return Output{}, fmt.Errorf("llm node %s: no LLM client configured", node.ID)
	}

	systemPrompt := types.GetString(node.Data, "systemPrompt", "")
	input, bySource := ctx.GetNodeInputs(node.ID)

	prompt := types.GetString(node.Data, "prompt", "")
	if prompt == "" {
		if s, ok := input.(string); ok {
			prompt = s
		} else {
			flat := flattenInputs(bySource)
			if s, ok := flat["prompt"].(string); ok {
				prompt = s
			}
		}
	}

	resp, err := client.Complete(ctx.Context(), systemPrompt, prompt)
	if err != nil {
		return Output{}, fmt.Errorf("llm node %s: %w", node.ID, err)
	}

	return Output{Value: map[string]interface{}{"response": resp}}, nil
}
