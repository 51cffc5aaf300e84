package executor

import (
	"fmt"

	"github.com/yesoreyeram/thaiyyal/backend/pkg/types"
)

// switchExecutor implements branch/switch: resolve switchKey against the
// incoming inputs, match against the configured cases, and activate the
// single outgoing handle for whichever case matched (or "default").
type switchExecutor struct{}

// NewSwitchExecutor returns the executor for the "switch" node type. The
// "ifElse" node type is handled by the condition executor.
func NewSwitchExecutor() NodeExecutor { return &switchExecutor{} }

func (e *switchExecutor) NodeType() types.NodeType { return types.NodeTypeSwitch }

func (e *switchExecutor) Validate(ctx ExecutionContext, node types.Node) error {
	if types.GetString(node.Data, "switchKey", "") == "" {
		return types.ErrMissingRequiredField("switchKey")
	}
	return nil
}

func (e *switchExecutor) Execute(ctx ExecutionContext, node types.Node) (Output, error) {
	switchKey := types.GetString(node.Data, "switchKey", "")
	_, bySource := ctx.GetNodeInputs(node.ID)

	inputs := flattenInputs(bySource)
	raw, ok := inputs[switchKey]
	value := ""
	if ok {
		value = coerceToString(raw)
	}

	cases := types.GetSlice(node.Data, "cases")
	match := ""
	for _, c := range cases {
		cs, ok := c.(string)
		if !ok {
			continue
		}
		if cs == value {
			match = cs
			break
		}
	}
	if match == "" {
		for _, c := range cases {
			if cs, ok := c.(string); ok && cs == "default" {
				match = "default"
				break
			}
		}
	}

	output := map[string]interface{}{
		"switchKey": switchKey,
		"value":     value,
		"matched":   match,
	}

	if match == "" {
		return Output{Value: output}, nil
	}
	return Output{
		Value:         output,
		ActiveHandles: []string{fmt.Sprintf("%s-case-%s", node.ID, match)},
	}, nil
}

// flattenInputs merges a merge-style sourceID->value map into a single flat
// map for key lookups like switchKey/field resolution. When a value is
// itself a map, its keys are promoted (later sources win on collision).
func flattenInputs(bySource map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{})
	for _, val := range bySource {
		if m, ok := val.(map[string]interface{}); ok {
			for k, v := range m {
				out[k] = v
			}
		}
	}
	return out
}

func coerceToString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}
