// Package engine provides workflow snapshot and restore functionality.
// This enables workflows to be paused, serialized, and resumed later.
package engine

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/yesoreyeram/thaiyyal/backend/pkg/agent"
	"github.com/yesoreyeram/thaiyyal/backend/pkg/executor"
	"github.com/yesoreyeram/thaiyyal/backend/pkg/graph"
	"github.com/yesoreyeram/thaiyyal/backend/pkg/logging"
	"github.com/yesoreyeram/thaiyyal/backend/pkg/observer"
	"github.com/yesoreyeram/thaiyyal/backend/pkg/state"
	"github.com/yesoreyeram/thaiyyal/backend/pkg/types"
)

// Snapshot represents a complete snapshot of a workflow execution state.
// It contains all information needed to restore and resume execution from a specific point.
type Snapshot struct {
	// Metadata
	Version      string    `json:"version"`       // Snapshot format version
	SnapshotTime time.Time `json:"snapshot_time"` // When snapshot was created
	WorkflowID   string    `json:"workflow_id"`   // Workflow definition ID
	ExecutionID  string    `json:"execution_id"`  // Unique execution ID

	// Workflow Definition
	Nodes []types.Node `json:"nodes"` // Node definitions
	Edges []types.Edge `json:"edges"` // Edge definitions

	// Execution State
	Results        map[string]interface{} `json:"results"`         // Node execution results
	NodeStatuses   map[string]string      `json:"node_statuses"`   // Per-node run status
	ActiveHandles  map[string][]string    `json:"active_handles"`  // Per-node activated handles

	// State Manager Data
	Variables     map[string]interface{}       `json:"variables"`      // Workflow variables
	Accumulator   interface{}                  `json:"accumulator"`    // Accumulator value
	Counter       float64                      `json:"counter"`        // Counter value
	Cache         map[string]*types.CacheEntry `json:"cache"`          // Cached entries
	ContextVars   map[string]interface{}       `json:"context_vars"`   // Context variables
	ContextConsts map[string]interface{}       `json:"context_consts"` // Context constants

	// Runtime Protection Counters
	NodeExecutionCount int `json:"node_execution_count"` // Number of nodes executed
	HTTPCallCount      int `json:"http_call_count"`      // Number of HTTP calls made

	// Configuration
	Config types.Config `json:"config"` // Engine configuration
}

// snapshotVersion is the current snapshot format version
const snapshotVersion = "1.0.0"

// SaveSnapshot creates a snapshot of the current execution state.
// This captures all state needed to resume execution from this point.
//
// The snapshot includes:
//   - Workflow metadata (IDs, timestamps)
//   - Node execution results and per-node run status/active handles
//   - State manager data (variables, cache, counters, accumulators)
//   - Runtime protection counters
//   - Engine configuration
//
// Returns:
//   - *Snapshot: Complete execution state snapshot
//   - error: If snapshot creation fails
func (e *Engine) SaveSnapshot() (*Snapshot, error) {
	e.resultsMu.RLock()
	e.countersMu.RLock()
	defer e.resultsMu.RUnlock()
	defer e.countersMu.RUnlock()

	results := make(map[string]interface{}, len(e.results))
	for k, v := range e.results {
		results[k] = v
	}

	statuses := e.runState.AllStatuses()
	nodeStatuses := make(map[string]string, len(statuses))
	for k, v := range statuses {
		nodeStatuses[k] = string(v)
	}

	activeHandles := make(map[string][]string)
	for _, n := range e.nodes {
		if handles, ok := e.runState.ActiveHandles(n.ID); ok {
			activeHandles[n.ID] = handles
		}
	}

	snapshot := &Snapshot{
		Version:            snapshotVersion,
		SnapshotTime:       time.Now(),
		WorkflowID:         e.workflowID,
		ExecutionID:        e.executionID,
		Nodes:              e.nodes,
		Edges:              e.edges,
		Results:            results,
		NodeStatuses:       nodeStatuses,
		ActiveHandles:      activeHandles,
		Variables:          e.stateMgr.ListVariables(),
		Accumulator:        e.stateMgr.GetAccumulator(),
		Counter:            e.stateMgr.GetCounter(),
		Cache:              e.stateMgr.GetAllCache(),
		ContextVars:        e.stateMgr.GetContextVariables(),
		ContextConsts:      e.stateMgr.GetContextConstants(),
		NodeExecutionCount: e.nodeExecutionCount,
		HTTPCallCount:      e.httpCallCount,
		Config:             e.config,
	}

	return snapshot, nil
}

// LoadSnapshot restores a workflow execution from a snapshot.
// This creates a new Engine instance with state restored from the snapshot,
// wired with deps (or DefaultDependencies if deps is the zero value).
//
// Parameters:
//   - snapshot: Previously saved snapshot
//   - registry: Executor registry (can be nil to use the default registry over deps)
//   - deps: Dependencies to wire the restored engine's registry/agent against
//
// Returns:
//   - *Engine: Restored engine ready for execution
//   - error: If snapshot is invalid or restoration fails
func LoadSnapshot(snapshot *Snapshot, registry *executor.Registry, deps Dependencies) (*Engine, error) {
	if snapshot == nil {
		return nil, fmt.Errorf("snapshot cannot be nil")
	}

	if snapshot.Version != snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version: %s (expected %s)", snapshot.Version, snapshotVersion)
	}

	if registry == nil {
		registry = DefaultRegistry(deps)
	}

	structuredLogger := logging.New(logging.DefaultConfig()).
		WithWorkflowID(snapshot.WorkflowID).
		WithExecutionID(snapshot.ExecutionID)

	runState := state.NewRunState()
	for nodeID, status := range snapshot.NodeStatuses {
		runState.SetStatus(nodeID, state.NodeStatus(status))
	}
	for nodeID, handles := range snapshot.ActiveHandles {
		runState.SetActiveHandles(nodeID, handles)
	}

	nodeByID := make(map[string]types.Node, len(snapshot.Nodes))
	for _, n := range snapshot.Nodes {
		nodeByID[n.ID] = n
	}

	e := &Engine{
		model:            graph.NewModel(snapshot.Nodes, snapshot.Edges),
		nodes:            snapshot.Nodes,
		edges:            snapshot.Edges,
		nodeByID:         nodeByID,
		stateMgr:         state.New(),
		runState:         runState,
		registry:         registry,
		config:           snapshot.Config,
		results:          make(map[string]interface{}),
		executionID:      snapshot.ExecutionID,
		workflowID:       snapshot.WorkflowID,
		nodeExecutionCount: snapshot.NodeExecutionCount,
		httpCallCount:      snapshot.HTTPCallCount,
		artifacts:        deps.Artifacts,
		llm:              deps.LLM,
		observerMgr:      observer.NewManager(),
		logger:           &observer.NoOpLogger{},
		structuredLogger: structuredLogger,
	}

	maxIter := deps.MaxAgentIterations
	if maxIter <= 0 {
		maxIter = snapshot.Config.MaxAgentIterations
	}
	stepTimeout := deps.AgentStepTimeout
	if stepTimeout <= 0 {
		stepTimeout = snapshot.Config.AgentStepTimeout
	}
	e.toolSvc = agent.New(snapshot.Nodes, snapshot.Edges, deps.LLM, e, maxIter, stepTimeout, structuredLogger)
	e.middlewareChain, e.metricsCollector = defaultMiddlewareChain(snapshot.Config, structuredLogger)

	for nodeID, result := range snapshot.Results {
		e.results[nodeID] = result
	}

	for name, value := range snapshot.Variables {
		e.stateMgr.SetVariable(name, value)
	}

	if snapshot.Accumulator != nil {
		e.stateMgr.SetAccumulator(snapshot.Accumulator)
	}
	e.stateMgr.SetCounter(snapshot.Counter)

	now := time.Now()
	for key, entry := range snapshot.Cache {
		if now.Before(entry.Expiration) {
			e.stateMgr.SetCache(key, entry.Value, entry.Expiration.Sub(now))
		}
	}

	for name, value := range snapshot.ContextVars {
		e.stateMgr.SetContextVariable(name, value)
	}
	for name, value := range snapshot.ContextConsts {
		e.stateMgr.SetContextConstant(name, value)
	}

	return e, nil
}

// SerializeSnapshot converts a snapshot to JSON bytes.
func SerializeSnapshot(snapshot *Snapshot) ([]byte, error) {
	if snapshot == nil {
		return nil, fmt.Errorf("snapshot cannot be nil")
	}
	return json.MarshalIndent(snapshot, "", "  ")
}

// DeserializeSnapshot converts JSON bytes to a Snapshot.
func DeserializeSnapshot(data []byte) (*Snapshot, error) {
	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to deserialize snapshot: %w", err)
	}

	if snapshot.Version == "" {
		return nil, fmt.Errorf("invalid snapshot: missing version")
	}
	if snapshot.ExecutionID == "" {
		return nil, fmt.Errorf("invalid snapshot: missing execution_id")
	}

	return &snapshot, nil
}

// ExecuteFromSnapshot loads a snapshot and resumes execution in one call.
// Nodes already recorded as success/error in the snapshot are not
// re-executed: the restored run state makes them ineligible for the level
// scheduler, so only unresolved downstream work proceeds.
func ExecuteFromSnapshot(snapshot *Snapshot, registry *executor.Registry, deps Dependencies) (*types.Result, error) {
	e, err := LoadSnapshot(snapshot, registry, deps)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	return e.Execute()
}
