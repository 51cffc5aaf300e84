package executor

import (
	"github.com/yesoreyeram/thaiyyal/backend/pkg/types"
)

// mergeExecutor combines the outputs of every upstream branch feeding a
// merge node. Readiness (whether all required upstreams have completed) is
// the engine's responsibility (pkg/engine tracks per-merge-node readiness
// and schedules a merge node at most once per run); by the time Execute
// runs, every required input is already present.
type mergeExecutor struct{}

// NewMergeExecutor returns the executor for the "merge" node type.
func NewMergeExecutor() NodeExecutor { return &mergeExecutor{} }

func (e *mergeExecutor) NodeType() types.NodeType { return types.NodeTypeMerge }

func (e *mergeExecutor) Validate(ctx ExecutionContext, node types.Node) error {
	strategy := types.GetString(node.Data, "mergeStrategy", "object")
	switch strategy {
	case "object", "array", "concat", "first":
		return nil
	default:
		return types.ErrInvalidFieldValue("mergeStrategy", strategy, "must be one of object, array, concat, first")
	}
}

func (e *mergeExecutor) Execute(ctx ExecutionContext, node types.Node) (Output, error) {
	_, bySource := ctx.GetNodeInputs(node.ID)
	strategy := types.GetString(node.Data, "mergeStrategy", "object")

	switch strategy {
	case "object":
		result := make(map[string]interface{}, len(bySource))
		for src, val := range bySource {
			result[src] = val
		}
		return Output{Value: result}, nil

	case "array":
		values := make([]interface{}, 0, len(bySource))
		for _, val := range bySource {
			values = append(values, val)
		}
		return Output{Value: values}, nil

	case "concat":
		var flat []interface{}
		for _, val := range bySource {
			if arr, ok := val.([]interface{}); ok {
				flat = append(flat, arr...)
			} else {
				flat = append(flat, val)
			}
		}
		return Output{Value: flat}, nil

	case "first":
		for _, val := range bySource {
			return Output{Value: val}, nil
		}
		return Output{Value: nil}, nil

	default:
		return Output{}, types.ErrInvalidFieldValue("mergeStrategy", strategy, "must be one of object, array, concat, first")
	}
}
