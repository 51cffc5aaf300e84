package executor

import "github.com/yesoreyeram/thaiyyal/backend/pkg/types"

// terminalExecutor implements end/output: both pass their (already
// singular-unwrapped) input straight through as their result.
type terminalExecutor struct {
	nodeType types.NodeType
}

// NewEndExecutor returns the executor for the "end" node type.
func NewEndExecutor() NodeExecutor { return &terminalExecutor{nodeType: types.NodeTypeEnd} }

// NewOutputExecutor returns the executor for the "output" node type.
func NewOutputExecutor() NodeExecutor { return &terminalExecutor{nodeType: types.NodeTypeOutput} }

func (e *terminalExecutor) NodeType() types.NodeType { return e.nodeType }

func (e *terminalExecutor) Validate(ctx ExecutionContext, node types.Node) error {
	return nil
}

func (e *terminalExecutor) Execute(ctx ExecutionContext, node types.Node) (Output, error) {
	input, _ := ctx.GetNodeInputs(node.ID)
	return Output{Value: input}, nil
}
