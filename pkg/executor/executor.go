// Package executor defines the per-node-type execution strategy interface
// and the services an executor can reach back into the engine for.
package executor

import (
	"context"
	"time"

	"github.com/yesoreyeram/thaiyyal/backend/pkg/types"
)

// ArtifactStore is the subset of pkg/artifact.Store an executor needs,
// declared here to avoid executor importing artifact directly (artifact
// has no reason to depend on executor, but the interface keeps the
// compile-time dependency one-directional and mockable in tests).
type ArtifactStore interface {
	Save(ctx context.Context, data []byte, filename, category string) (string, error)
	Get(ctx context.Context, id string) ([]byte, map[string]interface{}, error)
}

// LLMClient is the subset of pkg/llmclient.Client an executor needs.
type LLMClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ToolCallingService is the subset of pkg/agent.Service an aiAgent executor
// drives its ReAct loop through. Tool discovery (which upstream nodes are
// resource edges of agentNodeID) and schema synthesis are the service's
// responsibility, since it alone holds the graph model needed to walk
// edges; the executor only supplies the node ID and the goal text.
type ToolCallingService interface {
	Run(ctx context.Context, agentNodeID, goal string) (response string, trace []string, err error)
}

// NodeCaller is the re-entrant seam back into the engine: an executor (most
// notably the agent's tool dispatcher) can invoke another node's executor
// mid-run without disturbing the parent run's status tracking.
type NodeCaller interface {
	ExecuteNode(ctx context.Context, nodeID string, inputs interface{}) (interface{}, error)
}

// ExecutionContext is the façade an executor sees into the running engine.
// It exists so pkg/executor never imports pkg/engine (which imports
// pkg/executor to dispatch), breaking the cycle.
type ExecutionContext interface {
	// Node and edge introspection
	GetNode(nodeID string) *types.Node
	GetNodeInputs(nodeID string) (interface{}, map[string]interface{})

	// Workflow-scoped variable/accumulator/counter/cache state
	GetVariable(name string) (interface{}, error)
	SetVariable(name string, value interface{}) error
	GetAccumulator() interface{}
	SetAccumulator(value interface{})
	GetCounter() float64
	SetCounter(value float64)
	GetCache(key string) (interface{}, bool, error)
	SetCache(key string, value interface{}, ttl time.Duration) error

	// Template interpolation context
	GetContextVariable(name string) (interface{}, bool)
	SetContextVariable(name string, value interface{})
	GetContextConstant(name string) (interface{}, bool)
	InterpolateTemplate(template string) string

	// Prior node results, keyed by node ID
	GetNodeResult(nodeID string) (interface{}, bool)
	SetNodeResult(nodeID string, value interface{})
	GetAllNodeResults() map[string]interface{}

	// Configuration
	GetConfig() types.Config

	// Structured logging at the run's action level
	Log(level, message string)

	// Services reachable from within an executor
	Artifacts() ArtifactStore
	LLM() LLMClient
	ToolCalling() ToolCallingService
	Engine() NodeCaller

	// IncrementHTTPCall counts one more outbound HTTP call against the run's
	// MaxHTTPCallsPerExec budget, rejecting it once the cap is reached.
	IncrementHTTPCall() error

	// Context carries deadline/cancellation for the node's execution.
	Context() context.Context
}

// Output is what an executor's Execute returns: the value to hand to
// downstream nodes, plus the set of outgoing handle names the executor left
// active. A nil ActiveHandles means "all outgoing edges are eligible" —
// most node types don't discriminate by handle, only ifElse and switch do.
type Output struct {
	Value         interface{}
	ActiveHandles []string
}

// NodeExecutor is the strategy interface every node type implements.
// Validate checks a node's Data; the engine calls it each time the node is
// about to run, right before Execute. Execute performs the work.
type NodeExecutor interface {
	Validate(ctx ExecutionContext, node types.Node) error
	Execute(ctx ExecutionContext, node types.Node) (Output, error)
	NodeType() types.NodeType
}
