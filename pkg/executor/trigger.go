package executor

import (
	"time"

	"github.com/yesoreyeram/thaiyyal/backend/pkg/types"
)

// triggerExecutor implements start/manualTrigger/scheduleTrigger: all three
// take no inputs and simply mark the run as begun.
type triggerExecutor struct {
	nodeType types.NodeType
}

// NewStartExecutor returns the executor for the "start" node type.
func NewStartExecutor() NodeExecutor { return &triggerExecutor{nodeType: types.NodeTypeStart} }

// NewManualTriggerExecutor returns the executor for "manualTrigger".
func NewManualTriggerExecutor() NodeExecutor {
	return &triggerExecutor{nodeType: types.NodeTypeManualTrigger}
}

// NewScheduleTriggerExecutor returns the executor for "scheduleTrigger".
// Its cronExpression is not validated here; pkg/scheduler is the
// component that actually fires runs against it.
func NewScheduleTriggerExecutor() NodeExecutor {
	return &triggerExecutor{nodeType: types.NodeTypeScheduleTrigger}
}

func (e *triggerExecutor) NodeType() types.NodeType { return e.nodeType }

func (e *triggerExecutor) Validate(ctx ExecutionContext, node types.Node) error {
	return nil
}

func (e *triggerExecutor) Execute(ctx ExecutionContext, node types.Node) (Output, error) {
	return Output{
		Value: map[string]interface{}{
			"triggered": true,
			"timestamp": time.Now().Unix(),
		},
	}, nil
}
