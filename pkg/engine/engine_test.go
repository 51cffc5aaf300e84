package engine

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/yesoreyeram/thaiyyal/backend/pkg/state"
)

// fanOutFanInPayload builds: start -> {A, B} -> merge(object) -> end.
func fanOutFanInPayload(t *testing.T) []byte {
	t.Helper()
	payload := map[string]interface{}{
		"workflow_id": "wf-fanout",
		"nodes": []map[string]interface{}{
			{"id": "start", "type": "start"},
			{"id": "A", "type": "codeExecutor", "data": map[string]interface{}{"code": "10"}},
			{"id": "B", "type": "codeExecutor", "data": map[string]interface{}{"code": "5"}},
			{"id": "merge", "type": "merge", "data": map[string]interface{}{"mergeStrategy": "object"}},
			{"id": "end", "type": "end"},
		},
		"edges": []map[string]interface{}{
			{"id": "e1", "source": "start", "target": "A"},
			{"id": "e2", "source": "start", "target": "B"},
			{"id": "e3", "source": "A", "target": "merge"},
			{"id": "e4", "source": "B", "target": "merge"},
			{"id": "e5", "source": "merge", "target": "end"},
		},
	}
	b, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return b
}

func TestExecuteFanOutFanIn(t *testing.T) {
	eng, err := New(fanOutFanInPayload(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	result, err := eng.Execute()
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	final, ok := result.FinalOutput.(map[string]interface{})
	if !ok {
		t.Fatalf("expected map final output, got %T: %v", result.FinalOutput, result.FinalOutput)
	}
	if final["A"] != float64(10) {
		t.Errorf("expected merged A=10, got %v", final["A"])
	}
	if final["B"] != float64(5) {
		t.Errorf("expected merged B=5, got %v", final["B"])
	}

	for _, id := range []string{"start", "A", "B", "merge", "end"} {
		if eng.runState.Status(id) != state.NodeStatusSuccess {
			t.Errorf("expected node %s to succeed, got %s", id, eng.runState.Status(id))
		}
	}
}

// conditionalRoutingPayload builds: start -> setField -> cond(ifElse) -> {onTrue, onFalse}.
// Only the "true" branch is wired active since setField always emits x="yes".
func conditionalRoutingPayload(t *testing.T) []byte {
	t.Helper()
	payload := map[string]interface{}{
		"workflow_id": "wf-cond",
		"nodes": []map[string]interface{}{
			{"id": "start", "type": "start"},
			{"id": "setField", "type": "codeExecutor", "data": map[string]interface{}{"code": `{x: "yes"}`}},
			{"id": "cond", "type": "ifElse", "data": map[string]interface{}{
				"field": "x", "operator": "equals", "value": "yes",
			}},
			{"id": "onTrue", "type": "codeExecutor", "data": map[string]interface{}{"code": `"took true branch"`}},
			{"id": "onFalse", "type": "codeExecutor", "data": map[string]interface{}{"code": `"took false branch"`}},
		},
		"edges": []map[string]interface{}{
			{"id": "e1", "source": "start", "target": "setField"},
			{"id": "e2", "source": "setField", "target": "cond"},
			{"id": "e3", "source": "cond", "target": "onTrue", "sourceHandle": "cond-true"},
			{"id": "e4", "source": "cond", "target": "onFalse", "sourceHandle": "cond-false"},
		},
	}
	b, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return b
}

func TestConditionalRoutingSkipsInactiveBranch(t *testing.T) {
	eng, err := New(conditionalRoutingPayload(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := eng.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if eng.runState.Status("onTrue") != state.NodeStatusSuccess {
		t.Errorf("expected onTrue to run, got %s", eng.runState.Status("onTrue"))
	}
	if eng.runState.Status("onFalse") != state.NodeStatusPending {
		t.Errorf("expected onFalse to remain pending, got %s", eng.runState.Status("onFalse"))
	}
}

// mergeFirstPayload builds: start -> {A, B} -> merge(first).
func mergeFirstPayload(t *testing.T) []byte {
	t.Helper()
	payload := map[string]interface{}{
		"workflow_id": "wf-merge-first",
		"nodes": []map[string]interface{}{
			{"id": "start", "type": "start"},
			{"id": "A", "type": "codeExecutor", "data": map[string]interface{}{"code": "1"}},
			{"id": "B", "type": "codeExecutor", "data": map[string]interface{}{"code": "2"}},
			{"id": "merge", "type": "merge", "data": map[string]interface{}{"mergeStrategy": "first"}},
		},
		"edges": []map[string]interface{}{
			{"id": "e1", "source": "start", "target": "A"},
			{"id": "e2", "source": "start", "target": "B"},
			{"id": "e3", "source": "A", "target": "merge"},
			{"id": "e4", "source": "B", "target": "merge"},
		},
	}
	b, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return b
}

func TestMergeFirstStrategyFiresOnce(t *testing.T) {
	eng, err := New(mergeFirstPayload(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	result, err := eng.Execute()
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if eng.runState.Status("merge") != state.NodeStatusSuccess {
		t.Fatalf("expected merge to succeed, got %s", eng.runState.Status("merge"))
	}
	v := result.FinalOutput
	if v != float64(1) && v != float64(2) {
		t.Errorf("expected merge output to be either branch's value, got %v", v)
	}
}

// delayPayload builds a single long delay node reachable from start.
func delayPayload(t *testing.T, durationMs int) []byte {
	t.Helper()
	payload := map[string]interface{}{
		"workflow_id": "wf-delay",
		"nodes": []map[string]interface{}{
			{"id": "start", "type": "start"},
			{"id": "wait", "type": "delay", "data": map[string]interface{}{"durationMs": durationMs}},
		},
		"edges": []map[string]interface{}{
			{"id": "e1", "source": "start", "target": "wait"},
		},
	}
	b, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return b
}

func TestAbortSurfacesExecutionAborted(t *testing.T) {
	eng, err := New(delayPayload(t, 5000))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	type outcome struct {
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		_, runErr := eng.ExecuteContext(context.Background())
		done <- outcome{err: runErr}
	}()

	time.Sleep(20 * time.Millisecond)
	eng.Abort()

	select {
	case o := <-done:
		if o.err == nil {
			t.Fatal("expected an error after abort, got nil")
		}
		if !strings.Contains(o.err.Error(), "Execution aborted") {
			t.Errorf("expected error to mention Execution aborted, got: %v", o.err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("execution did not return after Abort")
	}
}

// reentrantPayload builds a node with no incoming edges, callable only via
// ExecuteNode (the agent tool-calling seam).
func reentrantPayload(t *testing.T) []byte {
	t.Helper()
	payload := map[string]interface{}{
		"workflow_id": "wf-reentrant",
		"nodes": []map[string]interface{}{
			{"id": "start", "type": "start"},
			{"id": "tool", "type": "codeExecutor", "data": map[string]interface{}{"code": `inputs["x"] * 2`}},
		},
		"edges": []map[string]interface{}{},
	}
	b, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return b
}

func TestExecuteNodeReentrantCall(t *testing.T) {
	eng, err := New(reentrantPayload(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	result, err := eng.ExecuteNode(context.Background(), "tool", map[string]interface{}{"x": 21})
	if err != nil {
		t.Fatalf("ExecuteNode: %v", err)
	}
	if result != float64(42) {
		t.Errorf("expected 42, got %v", result)
	}

	// The re-entrant call must not perturb the node's run status.
	if eng.runState.Status("tool") != state.NodeStatusPending {
		t.Errorf("expected tool node to remain pending after re-entrant call, got %s", eng.runState.Status("tool"))
	}
}
