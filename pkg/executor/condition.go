package executor

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/yesoreyeram/thaiyyal/backend/pkg/types"
)

// conditionExecutor implements condition/ifElse: evaluate a single
// field/operator/value comparison and gate exactly one of two handles.
// Evaluation failures (bad regex, non-numeric compare) resolve to false and
// are logged, never surfaced as a node error — spec semantics treat a
// condition node as always succeeding.
type conditionExecutor struct{}

// NewConditionExecutor returns the executor for the "ifElse" node type.
func NewConditionExecutor() NodeExecutor { return &conditionExecutor{} }

func (e *conditionExecutor) NodeType() types.NodeType { return types.NodeTypeBranch }

func (e *conditionExecutor) Validate(ctx ExecutionContext, node types.Node) error {
	op := types.GetString(node.Data, "operator", "")
	switch op {
	case "equals", "notEquals", "contains", "greaterThan", "lessThan", "regex":
		return nil
	default:
		return types.ErrInvalidFieldValue("operator", op, "must be one of equals, notEquals, contains, greaterThan, lessThan, regex")
	}
}

func (e *conditionExecutor) Execute(ctx ExecutionContext, node types.Node) (Output, error) {
	field := types.GetString(node.Data, "field", "")
	operator := types.GetString(node.Data, "operator", "equals")
	expected := node.Data["value"]

	_, bySource := ctx.GetNodeInputs(node.ID)
	inputs := flattenInputs(bySource)
	actual, ok := inputs[field]

	result := false
	if !ok {
		ctx.Log("warn", fmt.Sprintf("condition node %s: field %q not present in inputs", node.ID, field))
	} else {
		var err error
		result, err = evaluateCondition(operator, actual, expected)
		if err != nil {
			ctx.Log("warn", fmt.Sprintf("condition node %s: %v", node.ID, err))
			result = false
		}
	}

	handle := "false"
	if result {
		handle = "true"
	}

	return Output{
		Value:         map[string]interface{}{"result": result},
		ActiveHandles: []string{fmt.Sprintf("%s-%s", node.ID, handle)},
	}, nil
}

func evaluateCondition(operator string, actual, expected interface{}) (bool, error) {
	switch operator {
	case "equals":
		return coerceToString(actual) == coerceToString(expected), nil
	case "notEquals":
		return coerceToString(actual) != coerceToString(expected), nil
	case "contains":
		return strings.Contains(coerceToString(actual), coerceToString(expected)), nil
	case "greaterThan":
		a, b, err := coerceNumbers(actual, expected)
		if err != nil {
			return false, err
		}
		return a > b, nil
	case "lessThan":
		a, b, err := coerceNumbers(actual, expected)
		if err != nil {
			return false, err
		}
		return a < b, nil
	case "regex":
		re, err := regexp.Compile(coerceToString(expected))
		if err != nil {
			return false, fmt.Errorf("invalid regex %q: %w", coerceToString(expected), err)
		}
		return re.MatchString(coerceToString(actual)), nil
	default:
		return false, fmt.Errorf("unknown operator %q", operator)
	}
}

func coerceNumbers(a, b interface{}) (float64, float64, error) {
	af, err := toFloat(a)
	if err != nil {
		return 0, 0, err
	}
	bf, err := toFloat(b)
	if err != nil {
		return 0, 0, err
	}
	return af, bf, nil
}

func toFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot coerce %q to number: %w", n, err)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("cannot coerce %v (%T) to number", v, v)
	}
}
