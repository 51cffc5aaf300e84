package executor

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/yesoreyeram/thaiyyal/backend/pkg/types"
)

var templateVarPattern = regexp.MustCompile(`\{\{\s*(\w+)\s*\}\}`)

// transformExecutor implements the four transformType variants: parsing and
// re-serializing JSON, extracting a single key, and rendering a {{var}}
// template against the flattened input map. An unrecognized transformType
// passes the input through unchanged rather than erroring, since the
// executor can't know whether a caller added a new type deliberately.
type transformExecutor struct{}

// NewTransformExecutor returns the executor for the "transform" node type.
func NewTransformExecutor() NodeExecutor { return &transformExecutor{} }

func (e *transformExecutor) NodeType() types.NodeType { return types.NodeTypeTransform }

func (e *transformExecutor) Validate(ctx ExecutionContext, node types.Node) error {
	return nil
}

func (e *transformExecutor) Execute(ctx ExecutionContext, node types.Node) (Output, error) {
	transformType := types.GetString(node.Data, "transformType", "")
	input, bySource := ctx.GetNodeInputs(node.ID)

	switch transformType {
	case "json-parse":
		s, ok := input.(string)
		if !ok {
			return Output{}, types.ErrInvalidFieldValue("input", input, "json-parse requires a string input")
		}
		var parsed interface{}
		if err := json.Unmarshal([]byte(s), &parsed); err != nil {
			return Output{}, fmt.Errorf("transform node %s: json-parse: %w", node.ID, err)
		}
		return Output{Value: parsed}, nil

	case "json-stringify":
		b, err := json.Marshal(input)
		if err != nil {
			return Output{}, fmt.Errorf("transform node %s: json-stringify: %w", node.ID, err)
		}
		return Output{Value: string(b)}, nil

	case "extract":
		key := types.GetString(node.Data, "key", "")
		inputs := flattenInputs(bySource)
		if v, ok := inputs[key]; ok {
			return Output{Value: v}, nil
		}
		if m, ok := input.(map[string]interface{}); ok {
			return Output{Value: m[key]}, nil
		}
		return Output{Value: nil}, nil

	case "template":
		tmpl := types.GetString(node.Data, "template", "")
		inputs := flattenInputs(bySource)
		rendered := templateVarPattern.ReplaceAllStringFunc(tmpl, func(match string) string {
			name := templateVarPattern.FindStringSubmatch(match)[1]
			if v, ok := inputs[name]; ok {
				return coerceToString(v)
			}
			return match
		})
		return Output{Value: rendered}, nil

	default:
		return Output{Value: input}, nil
	}
}
