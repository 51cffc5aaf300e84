// Package observer provides an event-driven observer pattern for workflow execution.
//
// # Overview
//
// The observer package implements the observer pattern to enable monitoring,
// logging, and reacting to workflow execution events. Observers can track
// workflow lifecycle, node execution, state changes, and errors without
// coupling to the engine implementation.
//
// # Features
//
//   - Event-driven: React to workflow and node events
//   - Multiple observers: Register multiple observers simultaneously
//   - Lifecycle events: workflow start/end, node start/success/failure
//   - Error events: failed nodes and workflows carry the error
//   - Timing: events carry timestamps and elapsed time
//   - Non-blocking: each observer is notified in its own goroutine
//
// # Observer Interface
//
//	type Observer interface {
//	    OnEvent(ctx context.Context, event Event)
//	}
//
// An Event carries its Type and Status, the execution and workflow IDs, the
// node ID and type for node events, timestamps, the elapsed time, the node's
// result, an error and free-form metadata.
//
// # Event Types
//
// Workflow events:
//   - EventWorkflowStart ("workflow_start"): emitted when execution begins
//   - EventWorkflowEnd ("workflow_end"): emitted when execution finishes,
//     successfully or not; Error is set on failure
//
// Node events:
//   - EventNodeStart ("node_start"): emitted before a node executes
//   - EventNodeSuccess ("node_success"): emitted after a node succeeds, with
//     its Result
//   - EventNodeFailure ("node_failure"): emitted when a node fails, with its
//     Error
//   - EventNodeEnd ("node_end"): defined for observers; the engine does not
//     emit it
//
// # Basic Usage
//
//	import "github.com/yesoreyeram/thaiyyal/backend/pkg/observer"
//
//	eng, err := engine.New(payloadJSON)
//	if err != nil {
//	    return err
//	}
//
//	// Register with engine
//	eng.RegisterObserver(observer.NewConsoleObserver())
//
//	// Execute workflow - observer receives events
//	result, err := eng.Execute()
//
// # Custom Observer Example
//
//	type CountingObserver struct {
//	    mu      sync.Mutex
//	    started int
//	    failed  int
//	}
//
//	func (o *CountingObserver) OnEvent(ctx context.Context, event observer.Event) {
//	    o.mu.Lock()
//	    defer o.mu.Unlock()
//	    switch event.Type {
//	    case observer.EventNodeStart:
//	        o.started++
//	    case observer.EventNodeFailure:
//	        o.failed++
//	    }
//	}
//
// # Built-in Observers
//
// NoOpObserver:
//   - Ignores all events
//
// ConsoleObserver (NewConsoleObserver, NewConsoleObserverWithLogger):
//   - Writes each event with its IDs, status and elapsed time through a Logger
//   - The default logger writes to stdout, and error events to stderr
//
// The telemetry package adds TelemetryObserver, which records OpenTelemetry
// spans and metrics.
//
// # Observer Composition
//
// Multiple observers can be registered:
//
//	eng.RegisterObserver(consoleObserver)
//	eng.RegisterObserver(telemetryObserver)
//
// Every registered observer receives every event. Each observer is called in
// its own goroutine for each event, so the order in which observers, and the
// events of one observer, are handled is not guaranteed.
//
// # Event Timing
//
// Events are emitted at specific points in execution:
//
//	Workflow Lifecycle:
//	  workflow_start
//	    → Node Execution (for each node)
//	       node_start
//	         → Execute Node
//	       node_success or node_failure
//	  workflow_end
//
// # Context Propagation
//
// Events receive the execution context containing:
//
//   - Execution ID
//   - Workflow ID
//   - Cancellation of the context passed to ExecuteContext
//
// Observers can extract context values:
//
//	executionID := types.GetExecutionID(ctx)
//	workflowID := types.GetWorkflowID(ctx)
//
// # Performance Considerations
//
//   - Observers should not block
//   - Use buffered channels for async processing
//   - Minimize allocations in hot paths
//   - Consider observer overhead for high-throughput
//
// # Error Handling
//
// Observers don't stop execution:
//
//   - Observer panics are recovered and not logged
//   - Execution continues normally
//   - Other observers still receive events
//
// # Use Cases
//
//   - Logging and auditing
//   - Metrics collection and monitoring
//   - Real-time dashboards
//   - Debugging and troubleshooting
//   - Performance profiling
//   - Event streaming to external systems
//   - Workflow analytics
//   - Alerting and notifications
//
// # Testing
//
// For testing, use a mock observer:
//
//	type MockObserver struct {
//	    mu     sync.Mutex
//	    events []observer.Event
//	}
//
//	func (o *MockObserver) OnEvent(ctx context.Context, event observer.Event) {
//	    o.mu.Lock()
//	    defer o.mu.Unlock()
//	    o.events = append(o.events, event)
//	}
//
// Notify returns before the observers run, so events can arrive after
// Execute has returned.
//
// # Best Practices
//
//   - Keep observer logic simple and fast
//   - Use async processing for expensive operations
//   - Don't modify workflow or node state
//   - Handle errors gracefully (don't panic)
//   - Use structured logging for consistency
//   - Consider observer overhead in production
//
// # Thread Safety
//
// Observer methods may be called concurrently from multiple goroutines.
// Implementations must be thread-safe using appropriate synchronization.
package observer
