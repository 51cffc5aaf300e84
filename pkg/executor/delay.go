package executor

import (
	"fmt"
	"time"

	"github.com/yesoreyeram/thaiyyal/backend/pkg/types"
)

// delayExecutor waits for a configured duration before passing its input
// through unchanged. It must observe run cancellation promptly rather than
// sleeping through it.
type delayExecutor struct{}

// NewDelayExecutor returns the executor for the "delay" node type.
func NewDelayExecutor() NodeExecutor { return &delayExecutor{} }

func (e *delayExecutor) NodeType() types.NodeType { return types.NodeTypeDelay }

func (e *delayExecutor) Validate(ctx ExecutionContext, node types.Node) error {
	ms := types.GetFloat(node.Data, "durationMs", 0)
	if ms < 0 {
		return types.ErrInvalidFieldValue("durationMs", ms, "must be non-negative")
	}
	return nil
}

func (e *delayExecutor) Execute(ctx ExecutionContext, node types.Node) (Output, error) {
	ms := types.GetFloat(node.Data, "durationMs", 0)
	input, _ := ctx.GetNodeInputs(node.ID)

	if ms <= 0 {
		return Output{Value: input}, nil
	}

	timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
	defer timer.Stop()

	select {
	case <-timer.C:
		return Output{Value: input}, nil
	case <-ctx.Context().Done():
		return Output{}, fmt.Errorf("delay node %s: %w", node.ID, ctx.Context().Err())
	}
}
