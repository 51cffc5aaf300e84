// Package agent implements a ReAct-style tool-calling loop that treats
// other workflow nodes as callable tools, discovered by walking an
// aiAgent node's resource edges.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/yesoreyeram/thaiyyal/backend/pkg/graph"
	"github.com/yesoreyeram/thaiyyal/backend/pkg/llmclient"
	"github.com/yesoreyeram/thaiyyal/backend/pkg/logging"
	"github.com/yesoreyeram/thaiyyal/backend/pkg/types"
)

// NodeCaller is the re-entrant seam back into the engine: the agent
// dispatches a parsed tool call by invoking the tool node's own executor
// without disturbing the parent run's node-status tracking.
type NodeCaller interface {
	ExecuteNode(ctx context.Context, nodeID string, inputs interface{}) (interface{}, error)
}

// Service runs the ReAct loop for aiAgent nodes in a single workflow.
type Service struct {
	nodes         map[string]types.Node
	model         *graph.GraphModel
	llm           llmclient.Client
	caller        NodeCaller
	maxIterations int
	stepTimeout   time.Duration
	logger        *logging.Logger
}

// New builds a Service over a workflow's nodes/edges. logger may be nil, in
// which case MaxIterations warnings are dropped silently.
func New(nodes []types.Node, edges []types.Edge, llm llmclient.Client, caller NodeCaller, maxIterations int, stepTimeout time.Duration, logger *logging.Logger) *Service {
	byID := make(map[string]types.Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}
	if maxIterations <= 0 {
		maxIterations = 10
	}
	return &Service{
		nodes:         byID,
		model:         graph.NewModel(nodes, edges),
		llm:           llm,
		caller:        caller,
		maxIterations: maxIterations,
		stepTimeout:   stepTimeout,
		logger:        logger,
	}
}

// discoverTools returns every tool the agent node can call, keyed by
// invocation name, by walking incoming edges whose target handle marks a
// resource slot.
func (s *Service) discoverTools(agentNodeID string) map[string]types.ToolSchema {
	tools := make(map[string]types.ToolSchema)
	for _, e := range s.model.IncomingEdges(agentNodeID) {
		handle := ""
		if e.TargetHandle != nil {
			handle = *e.TargetHandle
		}
		if !isResourceHandle(handle) {
			continue
		}
		src, ok := s.nodes[e.Source]
		if !ok {
			continue
		}
		schema := synthesizeSchema(src)
		tools[schema.Name] = schema
	}
	return tools
}

func (s *Service) systemPrompt(goal string, tools map[string]types.ToolSchema) string {
	var b strings.Builder
	b.WriteString("You are a workflow agent. Solve the user's goal by reasoning step by step.\n")
	b.WriteString("At each turn emit exactly one of:\n")
	b.WriteString("  Thought: <reasoning>\n  Action: <tool name>\n  Action Input: <JSON arguments>\n")
	b.WriteString("or:\n  Thought: <reasoning>\n  Final Answer: <answer>\n")
	if len(tools) > 0 {
		b.WriteString("Available tools:\n")
		for _, t := range tools {
			b.WriteString(fmt.Sprintf("  %s: %s\n", t.Name, t.Description))
		}
	}
	return b.String()
}

// Run drives the ReAct loop to completion, returning the final answer text
// and a flat trace of the turns taken (one entry per thought/action/
// observation/final-answer event, per the wire format's own cadence: a
// turn that ends in Final Answer contributes only that single entry, since
// its thought is not separately material once the loop has concluded).
func (s *Service) Run(ctx context.Context, agentNodeID, goal string) (string, []string, error) {
	if s.llm == nil {
		return "", nil, ErrNoLLMClient
	}

	tools := s.discoverTools(agentNodeID)
	sysPrompt := s.systemPrompt(goal, tools)

	var trace []string
	var lastThought string
	conversation := goal

	for i := 0; i < s.maxIterations; i++ {
		stepCtx := ctx
		var cancel context.CancelFunc
		if s.stepTimeout > 0 {
			stepCtx, cancel = context.WithTimeout(ctx, s.stepTimeout)
		}
		raw, err := s.llm.Complete(stepCtx, sysPrompt, conversation)
		if cancel != nil {
			cancel()
		}
		if err != nil {
			return "", trace, fmt.Errorf("agent %s: llm call failed: %w", agentNodeID, err)
		}

		parsed := parseStep(raw)

		if parsed.HasFinal {
			trace = append(trace, "Final Answer: "+parsed.FinalAnswer)
			return parsed.FinalAnswer, trace, nil
		}

		if !parsed.HasAction {
			return "", trace, fmt.Errorf("agent %s: %w: turn had neither an action nor a final answer", agentNodeID, ErrMaxIterationsExceeded)
		}

		if parsed.Thought != "" {
			lastThought = parsed.Thought
			trace = append(trace, "Thought: "+parsed.Thought)
		}
		trace = append(trace, "Action: "+parsed.Action)

		tool, ok := tools[parsed.Action]
		if !ok {
			return "", trace, fmt.Errorf("agent %s: %w: %s", agentNodeID, ErrUnknownTool, parsed.Action)
		}

		args, err := parseActionInput(parsed.ActionInput)
		if err != nil {
			return "", trace, fmt.Errorf("agent %s: parsing action input: %w", agentNodeID, err)
		}

		if err := validateArguments(tool.Parameters, args); err != nil {
			return "", trace, fmt.Errorf("agent %s: %w", agentNodeID, err)
		}

		result, err := s.caller.ExecuteNode(ctx, tool.NodeID, args)
		if err != nil {
			return "", trace, fmt.Errorf("agent %s: tool %s failed: %w", agentNodeID, parsed.Action, err)
		}

		observation := formatObservation(result)
		trace = append(trace, "Observation: "+observation)

		conversation = fmt.Sprintf("%s\nThought: %s\nAction: %s\nAction Input: %s\nObservation: %s\n",
			conversation, parsed.Thought, parsed.Action, parsed.ActionInput, observation)
	}

	// Exhausting the iteration budget does not fail the agent node: synthesize
	// a truncated final answer from the last Thought and surface a warning
	// instead of an error, so the caller still gets a usable result and trace.
	answer := lastThought
	if answer == "" {
		answer = "no final answer reached"
	}
	if s.logger != nil {
		s.logger.WithField("node_id", agentNodeID).
			WithField("max_iterations", s.maxIterations).
			Warn("agent exceeded max iterations without a final answer, returning truncated answer")
	}
	trace = append(trace, "Final Answer (truncated): "+answer)
	return answer, trace, nil
}

// parseActionInput decodes the Action Input line as JSON; on failure it
// falls back to wrapping the raw text as {"input": <raw>}.
func parseActionInput(raw string) (map[string]interface{}, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return map[string]interface{}{}, nil
	}
	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
		return parsed, nil
	}
	return map[string]interface{}{"input": raw}, nil
}

func formatObservation(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
