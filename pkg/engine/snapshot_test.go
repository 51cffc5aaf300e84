package engine

import (
	"encoding/json"
	"testing"

	"github.com/yesoreyeram/thaiyyal/backend/pkg/state"
)

func chainPayload(t *testing.T) []byte {
	t.Helper()
	payload := map[string]interface{}{
		"workflow_id": "wf-snapshot",
		"nodes": []map[string]interface{}{
			{"id": "start", "type": "start"},
			{"id": "A", "type": "codeExecutor", "data": map[string]interface{}{"code": "10"}},
			{"id": "B", "type": "codeExecutor", "data": map[string]interface{}{"code": `inputs + 1`}},
		},
		"edges": []map[string]interface{}{
			{"id": "e1", "source": "start", "target": "A"},
			{"id": "e2", "source": "A", "target": "B"},
		},
	}
	b, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return b
}

func TestSnapshotRoundTrip(t *testing.T) {
	eng, err := New(chainPayload(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := eng.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	snap, err := eng.SaveSnapshot()
	if err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	data, err := SerializeSnapshot(snap)
	if err != nil {
		t.Fatalf("SerializeSnapshot: %v", err)
	}

	restored, err := DeserializeSnapshot(data)
	if err != nil {
		t.Fatalf("DeserializeSnapshot: %v", err)
	}

	deps := DefaultDependencies()
	restoredEngine, err := LoadSnapshot(restored, nil, deps)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}

	if restoredEngine.ExecutionID() != eng.ExecutionID() {
		t.Errorf("expected execution ID to survive restore, got %s vs %s", restoredEngine.ExecutionID(), eng.ExecutionID())
	}
	for _, id := range []string{"start", "A", "B"} {
		if restoredEngine.runState.Status(id) != state.NodeStatusSuccess {
			t.Errorf("expected node %s to be restored as success, got %s", id, restoredEngine.runState.Status(id))
		}
	}
	if v, ok := restoredEngine.GetNodeResult("B"); !ok || v != float64(11) {
		t.Errorf("expected restored node B result 11, got %v (ok=%v)", v, ok)
	}

	// Re-executing a fully-resolved restored run should be a no-op: every
	// node is already a terminal status, so nothing becomes eligible.
	result, err := restoredEngine.Execute()
	if err != nil {
		t.Fatalf("Execute after restore: %v", err)
	}
	if result.FinalOutput != float64(11) {
		t.Errorf("expected final output 11 from restored run, got %v", result.FinalOutput)
	}
}
