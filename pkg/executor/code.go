package executor

import (
	"fmt"

	"github.com/yesoreyeram/thaiyyal/backend/pkg/expression"
	"github.com/yesoreyeram/thaiyyal/backend/pkg/types"
)

// codeExecutor evaluates a node's "code" expression through the sandboxed
// expr-lang VM: no network or filesystem surface is exposed to the
// evaluation environment, only inputs/variables/context.
type codeExecutor struct {
	engine *expression.ExprEngine
}

// NewCodeExecutor returns the executor for the "codeExecutor" node type.
func NewCodeExecutor() NodeExecutor {
	return &codeExecutor{engine: expression.NewExprEngine()}
}

func (e *codeExecutor) NodeType() types.NodeType { return types.NodeTypeCodeExecutor }

func (e *codeExecutor) Validate(ctx ExecutionContext, node types.Node) error {
	if types.GetString(node.Data, "code", "") == "" {
		return types.ErrMissingRequiredField("code")
	}
	return nil
}

func (e *codeExecutor) Execute(ctx ExecutionContext, node types.Node) (Output, error) {
	code := types.GetString(node.Data, "code", "")
	input, bySource := ctx.GetNodeInputs(node.ID)

	flattened := flattenInputs(bySource)
	exprCtx := &expression.Context{
		NodeResults: ctx.GetAllNodeResults(),
		Variables: map[string]interface{}{
			"inputs": input,
		},
		ContextVars: map[string]interface{}{},
	}
	for k, v := range flattened {
		exprCtx.Variables[k] = v
	}

	result, err := e.engine.EvaluateValue(code, input, exprCtx)
	if err != nil {
		return Output{}, fmt.Errorf("codeExecutor node %s: %w", node.ID, err)
	}

	// expr-lang yields int for integer literals and integer arithmetic;
	// convert to float64 so results share the number type of values decoded
	// from workflow JSON.
	if n, ok := result.(int); ok {
		result = float64(n)
	}

	return Output{Value: result}, nil
}
