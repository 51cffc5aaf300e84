// Package types provides shared type definitions for the workflow engine.
// All core data structures used across packages are defined here to avoid
// circular dependencies between graph, state, executor, engine and agent.
package types

import (
	"context"
	"time"

	"github.com/yesoreyeram/thaiyyal/backend/pkg/config"
)

// ============================================================================
// Context Keys
// ============================================================================

type contextKey string

const (
	// ContextKeyExecutionID is the context key for the unique execution ID.
	ContextKeyExecutionID contextKey = "execution_id"
	// ContextKeyWorkflowID is the context key for the workflow ID.
	ContextKeyWorkflowID contextKey = "workflow_id"
)

// GetExecutionID extracts the execution ID from context, or "" if absent.
func GetExecutionID(ctx context.Context) string {
	if id, ok := ctx.Value(ContextKeyExecutionID).(string); ok {
		return id
	}
	return ""
}

// GetWorkflowID extracts the workflow ID from context, or "" if absent.
func GetWorkflowID(ctx context.Context) string {
	if id, ok := ctx.Value(ContextKeyWorkflowID).(string); ok {
		return id
	}
	return ""
}

// ============================================================================
// Node Types
// ============================================================================

// NodeType is the closed set of node type tags the engine understands.
type NodeType string

const (
	NodeTypeStart           NodeType = "start"
	NodeTypeEnd             NodeType = "end"
	NodeTypeOutput          NodeType = "output"
	NodeTypeManualTrigger   NodeType = "manualTrigger"
	NodeTypeScheduleTrigger NodeType = "scheduleTrigger"
	NodeTypeMerge           NodeType = "merge"
	NodeTypeBranch          NodeType = "ifElse"
	NodeTypeSwitch          NodeType = "switch"
	NodeTypeDelay           NodeType = "delay"
	NodeTypeTransform       NodeType = "transform"
	NodeTypeCodeExecutor    NodeType = "codeExecutor"
	NodeTypeHTTPRequest     NodeType = "httpRequest"
	NodeTypePython          NodeType = "python"
	NodeTypeTextToSpeech    NodeType = "textToSpeech"
	NodeTypeImageGeneration NodeType = "imageGeneration"
	NodeTypeLLM             NodeType = "llm"
	NodeTypeAIAgent         NodeType = "aiAgent"
)

// ============================================================================
// Core Data Structures
// ============================================================================

// Node is an immutable-identity workflow node with type-specific, free-form
// configuration. Position is UI-only and is preserved on round-trip but
// ignored by the engine.
type Node struct {
	ID       string                 `json:"id"`
	Type     NodeType               `json:"type"`
	Position map[string]float64     `json:"position,omitempty"`
	Data     map[string]interface{} `json:"data,omitempty"`
}

// Edge connects a source node's output handle to a target node's input handle.
type Edge struct {
	ID           string  `json:"id"`
	Source       string  `json:"source"`
	Target       string  `json:"target"`
	SourceHandle *string `json:"sourceHandle,omitempty"`
	TargetHandle *string `json:"targetHandle,omitempty"`
	Type         *string `json:"type,omitempty"`
	Animated     *bool   `json:"animated,omitempty"`
}

// Workflow is the complete graph definition: nodes plus the edges connecting
// them. Acyclicity is not enforced structurally; see graph.GraphModel.Levels.
type Workflow struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Payload is the JSON envelope accepted by the engine's constructors.
type Payload struct {
	WorkflowID string `json:"workflow_id,omitempty"`
	Nodes      []Node `json:"nodes"`
	Edges      []Edge `json:"edges"`
}

// Result is the outcome of a single workflow run.
type Result struct {
	ExecutionID string                 `json:"execution_id"`
	WorkflowID  string                 `json:"workflow_id,omitempty"`
	NodeResults map[string]interface{} `json:"node_results"`
	FinalOutput interface{}            `json:"final_output"`
	Errors      []string               `json:"errors,omitempty"`
}

// CacheEntry represents a cached value with expiration.
type CacheEntry struct {
	Value      interface{}
	Expiration time.Time
}

// ToolSchema is a JSON-Schema-shaped description of a callable tool,
// advertised to an LLM during agent execution.
type ToolSchema struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  ToolParameters `json:"parameters"`
	NodeID      string         `json:"-"`
	NodeType    NodeType       `json:"-"`
}

// ToolParameters is the JSON-Schema "object" shape for a tool's arguments.
type ToolParameters struct {
	Type       string                  `json:"type"`
	Properties map[string]PropertySpec `json:"properties"`
	Required   []string                `json:"required,omitempty"`
}

// PropertySpec describes a single tool parameter.
type PropertySpec struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// Config is a type alias so callers needn't import pkg/config directly.
type Config = config.Config

// DefaultConfig returns the default engine configuration (config.Default()).
func DefaultConfig() Config {
	return *config.Default()
}
