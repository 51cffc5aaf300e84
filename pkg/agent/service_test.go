package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yesoreyeram/thaiyyal/backend/pkg/types"
)

// stubLLM replays a fixed sequence of completions, one per call.
type stubLLM struct {
	responses []string
	calls     int
}

func (s *stubLLM) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if s.calls >= len(s.responses) {
		return "Final Answer: out of script", nil
	}
	r := s.responses[s.calls]
	s.calls++
	return r, nil
}

type stubCaller struct {
	results map[string]interface{}
	calls   []string
}

func (c *stubCaller) ExecuteNode(ctx context.Context, nodeID string, inputs interface{}) (interface{}, error) {
	c.calls = append(c.calls, nodeID)
	return c.results[nodeID], nil
}

func resourceHandle(h string) *string { return &h }

func TestAgentToolCallRoundTrip(t *testing.T) {
	nodes := []types.Node{
		{ID: "A", Type: types.NodeTypeAIAgent},
		{ID: "P", Type: types.NodeTypePython, Data: map[string]interface{}{"code": "return inputs['x']*2"}},
	}
	edges := []types.Edge{
		{ID: "e1", Source: "P", Target: "A", TargetHandle: resourceHandle("resource-1")},
	}

	llm := &stubLLM{responses: []string{
		"Thought: I must call python.\nAction: python_P\nAction Input: {\"x\":21}\n",
		"Thought: Got 42.\nFinal Answer: 42",
	}}
	caller := &stubCaller{results: map[string]interface{}{"P": 42}}

	svc := New(nodes, edges, llm, caller, 10, 0, nil)
	response, trace, err := svc.Run(context.Background(), "A", "Double 21 then give the final answer.")

	require.NoError(t, err)
	assert.Equal(t, "42", response)
	assert.Len(t, trace, 4)
	assert.Equal(t, []string{"P"}, caller.calls)
}

func TestAgentUnknownToolErrors(t *testing.T) {
	nodes := []types.Node{{ID: "A", Type: types.NodeTypeAIAgent}}
	llm := &stubLLM{responses: []string{
		"Thought: calling a ghost.\nAction: nonexistent_tool\nAction Input: {}\n",
	}}
	caller := &stubCaller{}

	svc := New(nodes, nil, llm, caller, 10, 0, nil)
	_, _, err := svc.Run(context.Background(), "A", "do something")
	assert.ErrorIs(t, err, ErrUnknownTool)
}

func TestAgentMaxIterationsExceeded(t *testing.T) {
	// Reaching the iteration budget does not fail the agent node: it returns
	// a truncated final answer built from the last Thought, not an error.
	nodes := []types.Node{
		{ID: "A", Type: types.NodeTypeAIAgent},
		{ID: "P", Type: types.NodeTypePython},
	}
	edges := []types.Edge{{ID: "e1", Source: "P", Target: "A", TargetHandle: resourceHandle("resource")}}
	llm := &stubLLM{responses: []string{
		"Thought: loop one.\nAction: python_P\nAction Input: {}\n",
		"Thought: loop two.\nAction: python_P\nAction Input: {}\n",
	}}
	caller := &stubCaller{results: map[string]interface{}{"P": nil}}

	svc := New(nodes, edges, llm, caller, 2, 0, nil)
	answer, trace, err := svc.Run(context.Background(), "A", "loop forever")

	require.NoError(t, err)
	assert.Equal(t, "loop two", answer)
	assert.Contains(t, trace, "Final Answer (truncated): loop two")
}
