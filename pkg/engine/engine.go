// Package engine executes a workflow graph: level-by-level parallel
// scheduling, conditional routing via activeHandles, merge synchronization,
// and a re-entrant ExecuteNode seam that lets the agent tool-calling loop
// invoke other nodes mid-run without disturbing the parent run's state.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/yesoreyeram/thaiyyal/backend/pkg/agent"
	"github.com/yesoreyeram/thaiyyal/backend/pkg/artifact"
	"github.com/yesoreyeram/thaiyyal/backend/pkg/config"
	"github.com/yesoreyeram/thaiyyal/backend/pkg/executor"
	"github.com/yesoreyeram/thaiyyal/backend/pkg/graph"
	"github.com/yesoreyeram/thaiyyal/backend/pkg/imagegen"
	"github.com/yesoreyeram/thaiyyal/backend/pkg/llmclient"
	"github.com/yesoreyeram/thaiyyal/backend/pkg/logging"
	"github.com/yesoreyeram/thaiyyal/backend/pkg/middleware"
	"github.com/yesoreyeram/thaiyyal/backend/pkg/observer"
	"github.com/yesoreyeram/thaiyyal/backend/pkg/security"
	"github.com/yesoreyeram/thaiyyal/backend/pkg/state"
	"github.com/yesoreyeram/thaiyyal/backend/pkg/tts"
	"github.com/yesoreyeram/thaiyyal/backend/pkg/types"
)

// Dependencies bundles the external collaborators a Registry and an Engine
// need. Each field has a safe zero-value fallback so partially-configured
// Dependencies (e.g. in tests) still produce a working, if limited, engine.
type Dependencies struct {
	HTTPClient   *http.Client
	SSRFGuard    *security.SSRFProtection
	PythonRunner executor.PythonRunner
	TTS          tts.Synthesizer
	ImageGen     imagegen.Generator
	Artifacts    executor.ArtifactStore
	LLM          llmclient.Client

	MaxAgentIterations int
	AgentStepTimeout   time.Duration
}

// DefaultDependencies returns Dependencies wired with the package's
// in-process, no-external-call implementations: an in-memory artifact
// store, noop TTS/image generators, and a python3 subprocess runner. LLM is
// left nil; callers that need agent/llm nodes to actually talk to a model
// supply their own llmclient.Client.
func DefaultDependencies() Dependencies {
	return Dependencies{
		HTTPClient:         &http.Client{Timeout: 30 * time.Second},
		SSRFGuard:          security.NewSSRFProtection(),
		PythonRunner:       executor.NewExecPythonRunner("python3"),
		TTS:                tts.NoopSynthesizer{},
		ImageGen:           imagegen.NoopGenerator{},
		Artifacts:          artifact.NewInMemoryStore(25*1024*1024, 10000),
		MaxAgentIterations: 10,
		AgentStepTimeout:   30 * time.Second,
	}
}

// DefaultRegistry builds a Registry with every node type this engine
// understands, wired against deps.
func DefaultRegistry(deps Dependencies) *executor.Registry {
	r := executor.NewRegistry()

	r.MustRegister(executor.NewStartExecutor())
	r.MustRegister(executor.NewManualTriggerExecutor())
	r.MustRegister(executor.NewScheduleTriggerExecutor())
	r.MustRegister(executor.NewEndExecutor())
	r.MustRegister(executor.NewOutputExecutor())
	r.MustRegister(executor.NewMergeExecutor())
	r.MustRegister(executor.NewSwitchExecutor())
	r.MustRegister(executor.NewConditionExecutor())
	r.MustRegister(executor.NewDelayExecutor())
	r.MustRegister(executor.NewTransformExecutor())
	r.MustRegister(executor.NewCodeExecutor())
	r.MustRegister(executor.NewHTTPExecutor(deps.HTTPClient, deps.SSRFGuard))
	r.MustRegister(executor.NewPythonExecutor(deps.PythonRunner))
	r.MustRegister(executor.NewTextToSpeechExecutor(deps.TTS))
	r.MustRegister(executor.NewImageGenerationExecutor(deps.ImageGen))
	r.MustRegister(executor.NewLLMExecutor())
	r.MustRegister(executor.NewAgentExecutor())

	return r
}

// Engine runs a single workflow definition. One Engine executes one run; to
// run the same workflow again, construct a new Engine (or call
// LoadSnapshot, for the snapshot/replay path).
type Engine struct {
	model    *graph.GraphModel
	nodes    []types.Node
	edges    []types.Edge
	nodeByID map[string]types.Node

	stateMgr *state.Manager
	runState *state.RunState

	registry *executor.Registry
	config   types.Config

	results   map[string]interface{}
	resultsMu sync.RWMutex

	executionID string
	workflowID  string

	nodeExecutionCount int
	httpCallCount      int
	countersMu         sync.RWMutex

	artifacts executor.ArtifactStore
	llm       executor.LLMClient
	toolSvc   executor.ToolCallingService

	observerMgr      *observer.Manager
	logger           observer.Logger
	structuredLogger *logging.Logger

	middlewareChain  *middleware.Chain
	metricsCollector *middleware.InMemoryMetricsCollector

	mu     sync.Mutex
	cancel context.CancelFunc
}

// defaultMiddlewareChain builds the chain of cross-cutting concerns every
// node execution passes through: size limits, a global rate limit, structured logging, metrics, a conditional retry for
// transient-looking failures, and a per-node execution timeout.
func defaultMiddlewareChain(cfg types.Config, structuredLogger *logging.Logger) (*middleware.Chain, *middleware.InMemoryMetricsCollector) {
	collector := middleware.NewInMemoryMetricsCollector()

	sizeCfg := middleware.DefaultSizeLimitConfig()
	if cfg.MaxInputSize > 0 {
		sizeCfg.MaxInputSize = int64(cfg.MaxInputSize)
	}
	if cfg.MaxStringLength > 0 {
		sizeCfg.MaxStringLength = cfg.MaxStringLength
	}
	if cfg.MaxArrayLength > 0 {
		sizeCfg.MaxArrayLength = cfg.MaxArrayLength
	}
	if cfg.MaxNodes > 0 {
		sizeCfg.MaxNodeCount = cfg.MaxNodes
	}
	if cfg.MaxEdges > 0 {
		sizeCfg.MaxEdgeCount = cfg.MaxEdges
	}

	nodeTimeout := cfg.MaxNodeExecutionTime
	if nodeTimeout <= 0 {
		nodeTimeout = 30 * time.Second
	}

	chain := middleware.NewChain().
		Use(middleware.NewSizeLimitMiddlewareWithConfig(sizeCfg)).
		Use(middleware.NewRateLimitMiddleware()).
		Use(middleware.NewLoggingMiddleware(structuredLogger)).
		Use(middleware.NewMetricsMiddleware(collector)).
		Use(middleware.NewConditionalRetryMiddleware([]string{"timeout", "temporarily unavailable", "connection reset"})).
		Use(middleware.NewTimeoutMiddlewareWithContext(nodeTimeout))

	return chain, collector
}

// Metrics returns the in-memory execution metrics collected across this
// run's middleware chain, keyed by node type.
func (e *Engine) Metrics() *middleware.InMemoryMetricsCollector {
	return e.metricsCollector
}

// New parses payloadJSON and builds an Engine with default configuration,
// the default registry, and default dependencies.
func New(payloadJSON []byte) (*Engine, error) {
	return NewWithConfig(payloadJSON, *config.Default())
}

// NewWithConfig is New with caller-supplied configuration.
func NewWithConfig(payloadJSON []byte, cfg types.Config) (*Engine, error) {
	deps := DefaultDependencies()
	return NewWithDependencies(payloadJSON, cfg, DefaultRegistry(deps), deps)
}

// NewWithRegistry is NewWithConfig with a caller-supplied executor registry,
// for callers that register custom node types alongside the built-ins.
func NewWithRegistry(payloadJSON []byte, cfg types.Config, registry *executor.Registry) (*Engine, error) {
	return NewWithDependencies(payloadJSON, cfg, registry, DefaultDependencies())
}

// NewWithDependencies is the fully-explicit constructor every other
// constructor funnels into: it parses the payload, builds the graph model,
// and wires an agent.Service (with the Engine itself as the tool-call
// seam) so aiAgent nodes can dispatch to other nodes.
func NewWithDependencies(payloadJSON []byte, cfg types.Config, registry *executor.Registry, deps Dependencies) (*Engine, error) {
	var payload types.Payload
	if err := json.Unmarshal(payloadJSON, &payload); err != nil {
		return nil, fmt.Errorf("parsing workflow payload: %w", err)
	}
	if len(payload.Nodes) == 0 {
		return nil, ErrNoNodes
	}
	if cfg.MaxNodes > 0 && len(payload.Nodes) > cfg.MaxNodes {
		return nil, fmt.Errorf("%w: %d nodes (limit %d)", ErrMaxNodesExceeded, len(payload.Nodes), cfg.MaxNodes)
	}
	if cfg.MaxEdges > 0 && len(payload.Edges) > cfg.MaxEdges {
		return nil, fmt.Errorf("%w: %d edges (limit %d)", ErrMaxEdgesExceeded, len(payload.Edges), cfg.MaxEdges)
	}

	executionID := types.GenerateExecutionID()
	structuredLogger := logging.New(logging.DefaultConfig()).
		WithWorkflowID(payload.WorkflowID).
		WithExecutionID(executionID)

	nodeByID := make(map[string]types.Node, len(payload.Nodes))
	for _, n := range payload.Nodes {
		nodeByID[n.ID] = n
	}

	maxIter := deps.MaxAgentIterations
	if maxIter <= 0 {
		maxIter = cfg.MaxAgentIterations
	}
	stepTimeout := deps.AgentStepTimeout
	if stepTimeout <= 0 {
		stepTimeout = cfg.AgentStepTimeout
	}

	e := &Engine{
		model:            graph.NewModel(payload.Nodes, payload.Edges),
		nodes:            payload.Nodes,
		edges:            payload.Edges,
		nodeByID:         nodeByID,
		stateMgr:         state.New(),
		runState:         state.NewRunState(),
		registry:         registry,
		config:           cfg,
		results:          make(map[string]interface{}),
		executionID:      executionID,
		workflowID:       payload.WorkflowID,
		artifacts:        deps.Artifacts,
		llm:              deps.LLM,
		observerMgr:      observer.NewManager(),
		logger:           &observer.NoOpLogger{},
		structuredLogger: structuredLogger,
	}

	e.toolSvc = agent.New(payload.Nodes, payload.Edges, deps.LLM, e, maxIter, stepTimeout, structuredLogger)
	e.middlewareChain, e.metricsCollector = defaultMiddlewareChain(cfg, structuredLogger)

	return e, nil
}

// RegisterObserver adds an observer that will receive workflow/node events.
func (e *Engine) RegisterObserver(o observer.Observer) {
	e.observerMgr.Register(o)
}

// SetLogger replaces the engine's observer.Logger (used for console/debug
// output distinct from the structured slog-backed logger).
func (e *Engine) SetLogger(l observer.Logger) {
	if l != nil {
		e.logger = l
	}
}

// ExecutionID returns this run's unique identifier.
func (e *Engine) ExecutionID() string { return e.executionID }

// RunState exposes the per-run status/handle tracker, e.g. for a caller
// polling node status mid-run.
func (e *Engine) RunState() *state.RunState { return e.runState }

// Execute runs the workflow to completion (or until MaxExecutionTime
// elapses, or Abort is called), using context.Background as the root.
func (e *Engine) Execute() (*types.Result, error) {
	return e.ExecuteContext(context.Background())
}

// ExecuteContext runs the workflow under the given parent context.
func (e *Engine) ExecuteContext(parent context.Context) (*types.Result, error) {
	levels, err := e.model.Levels()
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	timeout := e.config.MaxExecutionTime
	var ctx context.Context
	var cancel context.CancelFunc
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(parent, timeout)
	} else {
		ctx, cancel = context.WithCancel(parent)
	}
	defer cancel()

	e.mu.Lock()
	e.cancel = cancel
	e.mu.Unlock()

	ctx = context.WithValue(ctx, types.ContextKeyExecutionID, e.executionID)
	ctx = context.WithValue(ctx, types.ContextKeyWorkflowID, e.workflowID)

	runStart := time.Now()
	e.notifyWorkflowStart(ctx, runStart)

	result := &types.Result{
		ExecutionID: e.executionID,
		WorkflowID:  e.workflowID,
	}

	var runErr error
	for _, level := range levels {
		if ctx.Err() != nil {
			runErr = e.abortedError(ctx)
			break
		}

		eligible := make([]types.Node, 0, len(level))
		for _, nodeID := range level {
			node := e.nodeByID[nodeID]
			if e.isEligible(node) {
				eligible = append(eligible, node)
			}
		}
		if len(eligible) == 0 {
			continue
		}

		var wg sync.WaitGroup
		errs := make([]error, len(eligible))
		for i, node := range eligible {
			wg.Add(1)
			go func(i int, node types.Node) {
				defer wg.Done()
				errs[i] = e.runNode(ctx, node)
			}(i, node)
		}
		wg.Wait()

		for _, err := range errs {
			if err != nil {
				runErr = err
			}
		}
		if ctx.Err() != nil {
			if runErr == nil {
				runErr = e.abortedError(ctx)
			}
			break
		}
	}

	e.runState.Finish()

	e.resultsMu.RLock()
	result.NodeResults = make(map[string]interface{}, len(e.results))
	for k, v := range e.results {
		result.NodeResults[k] = v
	}
	e.resultsMu.RUnlock()

	result.FinalOutput = e.getFinalOutput()
	if runErr != nil {
		result.Errors = []string{runErr.Error()}
	}

	e.notifyWorkflowEnd(ctx, runStart, result, runErr)

	return result, runErr
}

// Abort cancels the run in progress. In-flight nodes observe their context
// as Done and surface "Execution aborted"; pending nodes (not yet
// scheduled) stay pending.
func (e *Engine) Abort() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		e.cancel()
	}
}

func (e *Engine) abortedError(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrExecutionTimeout, ctx.Err())
	}
	return ErrExecutionCanceled
}

// runNode executes one node to a terminal per-run status (success or
// error), recording its result and activated handles.
func (e *Engine) runNode(ctx context.Context, node types.Node) error {
	e.runState.SetStatus(node.ID, state.NodeStatusRunning)

	startTime := time.Now()
	e.notifyNodeStart(ctx, node, startTime)

	if err := e.checkNodeExecutionLimit(); err != nil {
		e.runState.SetStatus(node.ID, state.NodeStatusError)
		e.notifyNodeFailure(ctx, node, startTime, nil, err)
		return err
	}
	e.IncrementNodeExecution()

	value, err := e.executeNode(ctx, node, nil)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			err = errors.New("Execution aborted")
		}
		e.runState.SetStatus(node.ID, state.NodeStatusError)
		e.notifyNodeFailure(ctx, node, startTime, nil, err)
		return fmt.Errorf("%w: node %s: %v", ErrNodeExecutionFailed, node.ID, err)
	}

	e.SetNodeResult(node.ID, value)
	e.runState.SetStatus(node.ID, state.NodeStatusSuccess)
	e.notifyNodeSuccess(ctx, node, startTime, value)
	return nil
}

// executeNode dispatches to the registered executor for node.Type. When
// override is non-nil, GetNodeInputs for this node returns override.input
// instead of graph-derived inputs — the re-entrant ExecuteNode path.
func (e *Engine) executeNode(ctx context.Context, node types.Node, override *inputOverride) (interface{}, error) {
	ec := &execContext{engine: e, ctx: ctx, override: override}

	if err := e.registry.Validate(ec, node); err != nil {
		return nil, fmt.Errorf("validating node %s: %w", node.ID, err)
	}

	handler := func(ctx executor.ExecutionContext, node types.Node) (interface{}, error) {
		return e.registry.Execute(ctx, node)
	}

	raw, err := e.middlewareChain.Execute(ec, node, handler)
	if err != nil {
		return nil, err
	}
	out, ok := raw.(executor.Output)
	if !ok {
		return nil, fmt.Errorf("executor for node %s returned unexpected result type %T", node.ID, raw)
	}

	if out.ActiveHandles != nil {
		e.runState.SetActiveHandles(node.ID, out.ActiveHandles)
	}
	return out.Value, nil
}

// ExecuteNode is the re-entrant seam: it runs nodeID's executor with
// inputs substituted for its normal graph-derived inputs, without touching
// the parent run's node status. Used by the agent tool-calling loop to
// invoke tool nodes, and available to any ExecutionContext via Engine().
func (e *Engine) ExecuteNode(ctx context.Context, nodeID string, inputs interface{}) (interface{}, error) {
	node, ok := e.nodeByID[nodeID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrExecutorNotFound, nodeID)
	}

	e.logAction(nodeID, "inline tool call")

	if err := e.checkNodeExecutionLimit(); err != nil {
		return nil, err
	}
	e.IncrementNodeExecution()

	return e.executeNode(ctx, node, &inputOverride{nodeID: nodeID, input: inputs})
}

func (e *Engine) logAction(nodeID, message string) {
	e.structuredLogger.WithNodeID(nodeID).Info(message)
}

// inputOverride substitutes a single node's inputs for a re-entrant call.
type inputOverride struct {
	nodeID string
	input  interface{}
}

// ----------------------------------------------------------------------
// Eligibility and input gathering
// ----------------------------------------------------------------------

// edgeActive reports whether edge should be treated as live this run: its
// source must have reached a terminal status, and if the source gated its
// outgoing handles, the edge's own handle must be among them.
func (e *Engine) edgeActive(edge types.Edge) bool {
	status := e.runState.Status(edge.Source)
	if status != state.NodeStatusSuccess && status != state.NodeStatusError {
		return false
	}

	handles, ok := e.runState.ActiveHandles(edge.Source)
	if !ok || handles == nil {
		return true
	}
	handle := ""
	if edge.SourceHandle != nil {
		handle = *edge.SourceHandle
	}
	return containsString(handles, handle)
}

// edgeGated reports whether edge's source has reached a terminal status
// (success or error) yet, independent of handle gating.
func (e *Engine) edgeGated(edge types.Edge) bool {
	status := e.runState.Status(edge.Source)
	return status == state.NodeStatusSuccess || status == state.NodeStatusError
}

// isEligible decides whether node should run this level. Nodes with no
// incoming edges are eligible exactly once (while still pending). Merge
// nodes apply their configured strategy; every other node type is eligible
// once any relevant upstream edge is active with a successful source.
func (e *Engine) isEligible(node types.Node) bool {
	if e.runState.Status(node.ID) != state.NodeStatusPending {
		return false
	}

	incoming := e.model.IncomingEdges(node.ID)
	if len(incoming) == 0 {
		return true
	}

	if node.Type == types.NodeTypeMerge {
		return e.mergeEligible(node, incoming)
	}

	for _, edge := range incoming {
		if !e.edgeGated(edge) {
			continue
		}
		if e.runState.Status(edge.Source) == state.NodeStatusSuccess && e.edgeActive(edge) {
			return true
		}
	}
	return false
}

// mergeEligible applies the node's mergeStrategy to decide readiness.
// "first" fires once any relevant incoming edge's source has succeeded;
// the remaining strategies ("object", "array", "concat") wait for every
// incoming edge to settle - reaching a terminal status, or being proven
// dead because a branch upstream of it was pruned by conditional routing
// and can now never reach this node - before firing once.
func (e *Engine) mergeEligible(node types.Node, incoming []types.Edge) bool {
	strategy := types.GetString(node.Data, "mergeStrategy", "object")

	if strategy == "first" {
		for _, edge := range incoming {
			if e.edgeGated(edge) && e.runState.Status(edge.Source) == state.NodeStatusSuccess && e.edgeActive(edge) {
				return true
			}
		}
		return false
	}

	haveRelevant := false
	for _, edge := range incoming {
		if e.edgeGated(edge) {
			haveRelevant = true
			continue
		}
		if !e.edgeDead(edge, make(map[string]bool)) {
			return false
		}
	}
	return haveRelevant
}

// edgeDead reports whether edge can never become active: its source has
// already reached a terminal status on an inactive handle, or its source
// is itself pending but every path that could make it run has been pruned.
// visited guards against revisiting a node within one determination.
func (e *Engine) edgeDead(edge types.Edge, visited map[string]bool) bool {
	status := e.runState.Status(edge.Source)
	switch status {
	case state.NodeStatusSuccess, state.NodeStatusError:
		return !e.edgeActive(edge)
	case state.NodeStatusRunning:
		return false
	default:
		return e.nodeDead(edge.Source, visited)
	}
}

// nodeDead reports whether a still-pending node will never become eligible
// to run because every one of its incoming edges is dead. A node with no
// incoming edges, or one that has already run, is never considered dead.
func (e *Engine) nodeDead(nodeID string, visited map[string]bool) bool {
	if e.runState.Status(nodeID) != state.NodeStatusPending {
		return false
	}
	if visited[nodeID] {
		return false
	}
	visited[nodeID] = true

	incoming := e.model.IncomingEdges(nodeID)
	if len(incoming) == 0 {
		return false
	}
	for _, edge := range incoming {
		if !e.edgeDead(edge, visited) {
			return false
		}
	}
	return true
}

// gatherInputs builds a node's input value and its by-source breakdown
// from every active, successful incoming edge. Exactly one relevant source
// unwraps to that source's bare value; zero or multiple sources return the
// breakdown map as the value too, so callers can use either return shape
// uniformly.
func (e *Engine) gatherInputs(nodeID string) (interface{}, map[string]interface{}) {
	bySource := make(map[string]interface{})
	for _, edge := range e.model.IncomingEdges(nodeID) {
		if e.runState.Status(edge.Source) != state.NodeStatusSuccess {
			continue
		}
		if !e.edgeActive(edge) {
			continue
		}
		value, _ := e.GetNodeResult(edge.Source)
		bySource[edge.Source] = value
	}

	if len(bySource) == 1 {
		for _, v := range bySource {
			return v, bySource
		}
	}
	return bySource, bySource
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// ----------------------------------------------------------------------
// State passthroughs (variables/accumulator/counter/cache/context)
// ----------------------------------------------------------------------

// GetVariable returns a workflow-scoped variable's value.
func (e *Engine) GetVariable(name string) (interface{}, error) {
	v, ok := e.stateMgr.GetVariable(name)
	if !ok {
		return nil, fmt.Errorf("variable not found: %s", name)
	}
	return v, nil
}

// SetVariable stores a workflow-scoped variable, enforcing resource limits.
func (e *Engine) SetVariable(name string, value interface{}) error {
	if err := types.ValidateValue(value, e.config); err != nil {
		return err
	}
	if e.config.MaxVariables > 0 {
		if _, exists := e.stateMgr.GetVariable(name); !exists {
			if len(e.stateMgr.GetAllVariables()) >= e.config.MaxVariables {
				return fmt.Errorf("%w: %d variables", ErrMaxIterationsExceeded, e.config.MaxVariables)
			}
		}
	}
	e.stateMgr.SetVariable(name, value)
	return nil
}

func (e *Engine) GetAccumulator() interface{}      { return e.stateMgr.GetAccumulator() }
func (e *Engine) SetAccumulator(value interface{}) { e.stateMgr.SetAccumulator(value) }
func (e *Engine) GetCounter() float64              { return e.stateMgr.GetCounter() }
func (e *Engine) SetCounter(value float64)         { e.stateMgr.SetCounter(value) }

func (e *Engine) GetCache(key string) (interface{}, bool, error) {
	v, ok := e.stateMgr.GetCache(key)
	return v, ok, nil
}

func (e *Engine) SetCache(key string, value interface{}, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = e.config.DefaultCacheTTL
	}
	e.stateMgr.SetCache(key, value, ttl)
	return nil
}

func (e *Engine) GetContextVariable(name string) (interface{}, bool) {
	return e.stateMgr.GetContextVariable(name)
}

func (e *Engine) SetContextVariable(name string, value interface{}) {
	e.stateMgr.SetContextVariable(name, value)
}

func (e *Engine) GetContextConstant(name string) (interface{}, bool) {
	return e.stateMgr.GetContextConstant(name)
}

func (e *Engine) SetContextConstant(name string, value interface{}) {
	e.stateMgr.SetContextConstant(name, value)
}

// ----------------------------------------------------------------------
// Node results
// ----------------------------------------------------------------------

func (e *Engine) GetNodeResult(nodeID string) (interface{}, bool) {
	e.resultsMu.RLock()
	defer e.resultsMu.RUnlock()
	v, ok := e.results[nodeID]
	return v, ok
}

func (e *Engine) SetNodeResult(nodeID string, value interface{}) {
	if err := types.ValidateValue(value, e.config); err != nil {
		e.structuredLogger.WithNodeID(nodeID).Warnf("node result exceeds resource limits: %v", err)
	}
	e.resultsMu.Lock()
	defer e.resultsMu.Unlock()
	e.results[nodeID] = value
}

func (e *Engine) GetAllNodeResults() map[string]interface{} {
	e.resultsMu.RLock()
	defer e.resultsMu.RUnlock()
	out := make(map[string]interface{}, len(e.results))
	for k, v := range e.results {
		out[k] = v
	}
	return out
}

// GetNode returns a node by ID, or nil if not found.
func (e *Engine) GetNode(nodeID string) *types.Node {
	if n, ok := e.nodeByID[nodeID]; ok {
		return &n
	}
	return nil
}

// GetNodeInputs returns nodeID's resolved input value and its by-source
// breakdown, honoring an inline override if one is in play for this call.
func (e *Engine) GetNodeInputs(nodeID string, override *inputOverride) (interface{}, map[string]interface{}) {
	if override != nil && override.nodeID == nodeID {
		if m, ok := override.input.(map[string]interface{}); ok {
			return override.input, m
		}
		return override.input, map[string]interface{}{"input": override.input}
	}
	return e.gatherInputs(nodeID)
}

func (e *Engine) GetConfig() types.Config { return e.config }

// ----------------------------------------------------------------------
// Protection counters
// ----------------------------------------------------------------------

func (e *Engine) checkNodeExecutionLimit() error {
	if e.config.MaxNodeExecutions <= 0 {
		return nil
	}
	e.countersMu.RLock()
	count := e.nodeExecutionCount
	e.countersMu.RUnlock()
	if count >= e.config.MaxNodeExecutions {
		return fmt.Errorf("%w: %d executions", ErrMaxExecutionsExceeded, e.config.MaxNodeExecutions)
	}
	return nil
}

// IncrementNodeExecution counts one more node execution against the run's
// protection limit.
func (e *Engine) IncrementNodeExecution() {
	e.countersMu.Lock()
	e.nodeExecutionCount++
	e.countersMu.Unlock()
}

// IncrementHTTPCall counts one more outbound HTTP call, rejecting it if the
// run's per-execution cap is already reached.
func (e *Engine) IncrementHTTPCall() error {
	e.countersMu.Lock()
	defer e.countersMu.Unlock()
	if e.config.MaxHTTPCallsPerExec > 0 && e.httpCallCount >= e.config.MaxHTTPCallsPerExec {
		return fmt.Errorf("%w: %d HTTP calls", ErrMaxExecutionsExceeded, e.config.MaxHTTPCallsPerExec)
	}
	e.httpCallCount++
	return nil
}

func (e *Engine) GetNodeExecutionCount() int {
	e.countersMu.RLock()
	defer e.countersMu.RUnlock()
	return e.nodeExecutionCount
}

func (e *Engine) GetHTTPCallCount() int {
	e.countersMu.RLock()
	defer e.countersMu.RUnlock()
	return e.httpCallCount
}

// ----------------------------------------------------------------------
// Template interpolation ({{variable.x}} / {{const.x}})
// ----------------------------------------------------------------------

var templateRegex = regexp.MustCompile(`\{\{\s*(variable|const)\.(\w+)\s*\}\}`)

// InterpolateTemplate substitutes {{variable.name}}/{{const.name}} tokens
// with their stored values; an unresolved token is left as-is.
func (e *Engine) InterpolateTemplate(text string) string {
	return templateRegex.ReplaceAllStringFunc(text, func(match string) string {
		groups := templateRegex.FindStringSubmatch(match)
		kind, name := groups[1], groups[2]

		var value interface{}
		var ok bool
		switch kind {
		case "variable":
			value, ok = e.stateMgr.GetContextVariable(name)
		case "const":
			value, ok = e.stateMgr.GetContextConstant(name)
		}
		if !ok {
			return match
		}
		return coerceToTemplateString(value)
	})
}

func coerceToTemplateString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

// interpolateValue recursively applies InterpolateTemplate across a value's
// string leaves, leaving other scalar types untouched.
func (e *Engine) interpolateValue(value interface{}) interface{} {
	switch v := value.(type) {
	case string:
		return e.InterpolateTemplate(v)
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, val := range v {
			out[k] = e.interpolateValue(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, val := range v {
			out[i] = e.interpolateValue(val)
		}
		return out
	default:
		return value
	}
}

// ----------------------------------------------------------------------
// Final output
// ----------------------------------------------------------------------

// getFinalOutput picks a deterministic terminal node's result: among the
// graph's terminal nodes (no outgoing edges), prefer an output/end node
// that actually ran, falling back to any terminal node with a result.
func (e *Engine) getFinalOutput() interface{} {
	terminals := e.model.Graph().GetTerminalNodes()
	sort.Strings(terminals)

	for _, id := range terminals {
		node := e.nodeByID[id]
		if node.Type != types.NodeTypeOutput && node.Type != types.NodeTypeEnd {
			continue
		}
		if result, ok := e.GetNodeResult(id); ok {
			return result
		}
	}
	for _, id := range terminals {
		if result, ok := e.GetNodeResult(id); ok {
			return result
		}
	}
	return nil
}

// ----------------------------------------------------------------------
// Observer notifications
// ----------------------------------------------------------------------

func (e *Engine) notifyWorkflowStart(ctx context.Context, startTime time.Time) {
	if !e.observerMgr.HasObservers() {
		return
	}
	e.observerMgr.Notify(ctx, observer.Event{
		Type:        observer.EventWorkflowStart,
		Status:      observer.StatusStarted,
		Timestamp:   time.Now(),
		ExecutionID: e.executionID,
		WorkflowID:  e.workflowID,
		StartTime:   startTime,
	})
}

func (e *Engine) notifyWorkflowEnd(ctx context.Context, startTime time.Time, result *types.Result, err error) {
	if !e.observerMgr.HasObservers() {
		return
	}
	status := observer.StatusSuccess
	if err != nil {
		status = observer.StatusFailure
	}
	e.observerMgr.Notify(ctx, observer.Event{
		Type:        observer.EventWorkflowEnd,
		Status:      status,
		Timestamp:   time.Now(),
		ExecutionID: e.executionID,
		WorkflowID:  e.workflowID,
		StartTime:   startTime,
		ElapsedTime: time.Since(startTime),
		Result:      result,
		Error:       err,
	})
}

func (e *Engine) notifyNodeStart(ctx context.Context, node types.Node, startTime time.Time) {
	if !e.observerMgr.HasObservers() {
		return
	}
	e.observerMgr.Notify(ctx, observer.Event{
		Type:        observer.EventNodeStart,
		Status:      observer.StatusStarted,
		Timestamp:   time.Now(),
		ExecutionID: e.executionID,
		WorkflowID:  e.workflowID,
		NodeID:      node.ID,
		NodeType:    node.Type,
		StartTime:   startTime,
	})
}

func (e *Engine) notifyNodeSuccess(ctx context.Context, node types.Node, startTime time.Time, result interface{}) {
	if !e.observerMgr.HasObservers() {
		return
	}
	e.observerMgr.Notify(ctx, observer.Event{
		Type:        observer.EventNodeSuccess,
		Status:      observer.StatusSuccess,
		Timestamp:   time.Now(),
		ExecutionID: e.executionID,
		WorkflowID:  e.workflowID,
		NodeID:      node.ID,
		NodeType:    node.Type,
		StartTime:   startTime,
		ElapsedTime: time.Since(startTime),
		Result:      result,
	})
}

func (e *Engine) notifyNodeFailure(ctx context.Context, node types.Node, startTime time.Time, result interface{}, err error) {
	if !e.observerMgr.HasObservers() {
		return
	}
	e.observerMgr.Notify(ctx, observer.Event{
		Type:        observer.EventNodeFailure,
		Status:      observer.StatusFailure,
		Timestamp:   time.Now(),
		ExecutionID: e.executionID,
		WorkflowID:  e.workflowID,
		NodeID:      node.ID,
		NodeType:    node.Type,
		StartTime:   startTime,
		ElapsedTime: time.Since(startTime),
		Result:      result,
		Error:       err,
	})
}

// ----------------------------------------------------------------------
// execContext: the ExecutionContext façade handed to executors
// ----------------------------------------------------------------------

type execContext struct {
	engine   *Engine
	ctx      context.Context
	override *inputOverride
}

func (c *execContext) GetNode(nodeID string) *types.Node { return c.engine.GetNode(nodeID) }

func (c *execContext) GetNodeInputs(nodeID string) (interface{}, map[string]interface{}) {
	return c.engine.GetNodeInputs(nodeID, c.override)
}

func (c *execContext) GetVariable(name string) (interface{}, error) { return c.engine.GetVariable(name) }
func (c *execContext) SetVariable(name string, value interface{}) error {
	return c.engine.SetVariable(name, value)
}
func (c *execContext) GetAccumulator() interface{}      { return c.engine.GetAccumulator() }
func (c *execContext) SetAccumulator(value interface{}) { c.engine.SetAccumulator(value) }
func (c *execContext) GetCounter() float64              { return c.engine.GetCounter() }
func (c *execContext) SetCounter(value float64)         { c.engine.SetCounter(value) }

func (c *execContext) GetCache(key string) (interface{}, bool, error) { return c.engine.GetCache(key) }
func (c *execContext) SetCache(key string, value interface{}, ttl time.Duration) error {
	return c.engine.SetCache(key, value, ttl)
}

func (c *execContext) GetContextVariable(name string) (interface{}, bool) {
	return c.engine.GetContextVariable(name)
}
func (c *execContext) SetContextVariable(name string, value interface{}) {
	c.engine.SetContextVariable(name, value)
}
func (c *execContext) GetContextConstant(name string) (interface{}, bool) {
	return c.engine.GetContextConstant(name)
}
func (c *execContext) InterpolateTemplate(template string) string {
	return c.engine.InterpolateTemplate(template)
}

func (c *execContext) GetNodeResult(nodeID string) (interface{}, bool) {
	return c.engine.GetNodeResult(nodeID)
}
func (c *execContext) SetNodeResult(nodeID string, value interface{}) {
	c.engine.SetNodeResult(nodeID, value)
}
func (c *execContext) GetAllNodeResults() map[string]interface{} { return c.engine.GetAllNodeResults() }

func (c *execContext) GetConfig() types.Config { return c.engine.GetConfig() }

func (c *execContext) Log(level, message string) {
	logger := c.engine.structuredLogger.WithNodeID("")
	switch level {
	case "debug":
		logger.Debug(message)
	case "warn":
		logger.Warn(message)
	case "error":
		logger.Error(message)
	default:
		logger.Info(message)
	}
}

func (c *execContext) Artifacts() executor.ArtifactStore       { return c.engine.artifacts }
func (c *execContext) LLM() executor.LLMClient                 { return c.engine.llm }
func (c *execContext) ToolCalling() executor.ToolCallingService { return c.engine.toolSvc }
func (c *execContext) Engine() executor.NodeCaller              { return c.engine }
func (c *execContext) Context() context.Context                 { return c.ctx }
func (c *execContext) IncrementHTTPCall() error                 { return c.engine.IncrementHTTPCall() }
