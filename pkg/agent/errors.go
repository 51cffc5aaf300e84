package agent

import "errors"

var (
	// ErrMaxIterationsExceeded is returned when an LLM turn contains neither
	// an Action nor a Final Answer. Exhausting the iteration budget itself is
	// not an error: Run then returns a truncated answer built from the last
	// Thought.
	ErrMaxIterationsExceeded = errors.New("agent exceeded max iterations without a final answer")
	// ErrUnknownTool is returned when a parsed Action names a tool the
	// agent node has no resource edge for.
	ErrUnknownTool = errors.New("agent referenced an unknown tool")
	// ErrNoLLMClient is returned when the agent has no LLM client configured.
	ErrNoLLMClient = errors.New("agent has no LLM client configured")
)
