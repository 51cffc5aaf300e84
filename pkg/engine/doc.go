// Package engine provides the core workflow execution engine for Thaiyyal.
//
// # Overview
//
// The engine package runs a DAG-based workflow: nodes are grouped into
// levels (the longest-path-from-start distance of each node), and each
// level is scheduled in parallel. Within a level, a node only actually
// runs once its relevant incoming edges have become active — conditional
// nodes (ifElse/switch) narrow which outgoing edges fire via activeHandles,
// and merge nodes apply one of four synchronization strategies
// (object/array/concat wait for every relevant edge; first fires on the
// first one).
//
// # Key Features
//
//   - Level-based parallel scheduling with dynamic per-node eligibility
//   - Conditional routing via executor-emitted activeHandles
//   - Merge synchronization with four strategies
//   - A re-entrant ExecuteNode seam so the ReAct tool-calling agent loop
//     can invoke other nodes mid-run without disturbing the parent run
//   - Snapshot/restore for pausing and resuming a run
//   - Observer pattern for workflow/node lifecycle events
//
// # Basic Usage
//
//	import (
//	    "github.com/yesoreyeram/thaiyyal/backend/pkg/engine"
//	)
//
//	eng, err := engine.New(payloadJSON)
//	if err != nil {
//	    log.Fatalf("invalid workflow: %v", err)
//	}
//
//	result, err := eng.Execute()
//	if err != nil {
//	    log.Fatalf("execution failed: %v", err)
//	}
//	fmt.Println(result.FinalOutput)
//
// # Custom Dependencies
//
// New uses default configuration and in-process dependencies (an
// in-memory artifact store, noop TTS/image generation, a python3
// subprocess runner, no LLM client). Callers that need agent/llm nodes to
// reach a real model, or want a custom executor registry, use
// NewWithDependencies directly:
//
//	deps := engine.DefaultDependencies()
//	deps.LLM = myLLMClient
//	eng, err := engine.NewWithDependencies(payloadJSON, cfg, engine.DefaultRegistry(deps), deps)
//
// # Error Handling
//
// Sentinel errors in errors.go distinguish validation failures
// (ErrNoNodes, ErrMaxNodesExceeded, ...), execution failures
// (ErrNodeExecutionFailed, ErrExecutionTimeout, ErrExecutionCanceled), and
// resource-limit failures (ErrMaxExecutionsExceeded). A node canceled
// mid-run surfaces as "Execution aborted" regardless of which node it was.
//
// # Thread Safety
//
// One Engine executes one run. Node executions within a level run
// concurrently; the Engine's own state (results, counters, run state) is
// synchronized internally. To run the same workflow again, construct a
// new Engine or restore one via LoadSnapshot.
package engine
