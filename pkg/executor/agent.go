package executor

import (
	"fmt"

	"github.com/yesoreyeram/thaiyyal/backend/pkg/types"
)

// agentExecutor drives a ReAct tool-calling loop via the engine's
// ToolCallingService, treating other nodes (resource edges) as callable
// tools. The loop itself, tool discovery, and wire-format parsing live in
// pkg/agent; this executor is just the node-type adapter.
type agentExecutor struct{}

// NewAgentExecutor returns the executor for the "aiAgent" node type.
func NewAgentExecutor() NodeExecutor { return &agentExecutor{} }

func (e *agentExecutor) NodeType() types.NodeType { return types.NodeTypeAIAgent }

func (e *agentExecutor) Validate(ctx ExecutionContext, node types.Node) error {
	return nil
}

func (e *agentExecutor) Execute(ctx ExecutionContext, node types.Node) (Output, error) {
	svc := ctx.ToolCalling()
	if svc == nil {
		return Output{}, fmt.Errorf("aiAgent node %s: no tool-calling service configured", node.ID)
	}

	goal := types.GetString(node.Data, "goal", "")
	if goal == "" {
		input, bySource := ctx.GetNodeInputs(node.ID)
		if s, ok := input.(string); ok {
			goal = s
		} else {
			flat := flattenInputs(bySource)
			if s, ok := flat["goal"].(string); ok {
				goal = s
			}
		}
	}

	response, trace, err := svc.Run(ctx.Context(), node.ID, goal)
	if err != nil {
		return Output{}, fmt.Errorf("aiAgent node %s: %w", node.ID, err)
	}

	return Output{Value: map[string]interface{}{
		"response": response,
		"trace":    trace,
	}}, nil
}
