package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"

	"github.com/yesoreyeram/thaiyyal/backend/pkg/types"
)

// PythonRunner abstracts the concrete interpreter invocation so the
// executor doesn't hard-code a specific binary or calling convention.
type PythonRunner interface {
	// Run executes code with inputs JSON-encoded on stdin and returns the
	// raw stdout bytes.
	Run(ctx context.Context, code string, inputs interface{}) ([]byte, error)
}

// execPythonRunner shells out to a python3 interpreter, passing the code on
// the command line and the JSON-encoded inputs on stdin.
type execPythonRunner struct {
	binary string
}

// NewExecPythonRunner returns a PythonRunner that invokes the named
// interpreter binary (e.g. "python3") via os/exec.
func NewExecPythonRunner(binary string) PythonRunner {
	if binary == "" {
		binary = "python3"
	}
	return &execPythonRunner{binary: binary}
}

func (r *execPythonRunner) Run(ctx context.Context, code string, inputs interface{}) ([]byte, error) {
	payload, err := json.Marshal(inputs)
	if err != nil {
		return nil, fmt.Errorf("encoding inputs: %w", err)
	}

	cmd := exec.CommandContext(ctx, r.binary, "-c", code)
	cmd.Stdin = bytes.NewReader(payload)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("python interpreter failed: %w: %s", err, stderr.String())
	}
	return stdout.Bytes(), nil
}

// pythonExecutor runs a node's "code" through a pluggable interpreter,
// persisting non-trivial results as a JSON artifact.
type pythonExecutor struct {
	runner PythonRunner
}

// NewPythonExecutor returns the executor for the "python" node type.
func NewPythonExecutor(runner PythonRunner) NodeExecutor {
	if runner == nil {
		runner = NewExecPythonRunner("")
	}
	return &pythonExecutor{runner: runner}
}

func (e *pythonExecutor) NodeType() types.NodeType { return types.NodeTypePython }

func (e *pythonExecutor) Validate(ctx ExecutionContext, node types.Node) error {
	if types.GetString(node.Data, "code", "") == "" {
		return types.ErrMissingRequiredField("code")
	}
	return nil
}

func (e *pythonExecutor) Execute(ctx ExecutionContext, node types.Node) (Output, error) {
	code := types.GetString(node.Data, "code", "")
	input, _ := ctx.GetNodeInputs(node.ID)

	out, err := e.runner.Run(ctx.Context(), code, input)
	if err != nil {
		return Output{}, fmt.Errorf("python node %s: %w", node.ID, err)
	}

	var parsed interface{}
	if json.Unmarshal(out, &parsed) != nil {
		// Not JSON: return the raw trimmed string value.
		return Output{Value: string(bytes.TrimSpace(out))}, nil
	}

	switch parsed.(type) {
	case map[string]interface{}, []interface{}:
		store := ctx.Artifacts()
		if store == nil {
			return Output{Value: parsed}, nil
		}
		id, err := store.Save(ctx.Context(), out, fmt.Sprintf("%s.json", node.ID), "python-output")
		if err != nil {
			return Output{}, fmt.Errorf("python node %s: persisting artifact: %w", node.ID, err)
		}
		return Output{Value: map[string]interface{}{"artifactId": id, "type": "json"}}, nil
	default:
		return Output{Value: parsed}, nil
	}
}
