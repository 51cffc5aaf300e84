// Package middleware provides request/response middleware for the workflow engine.
//
// # Overview
//
// The middleware package implements an interceptor pattern for node execution,
// allowing pre-processing, post-processing, and wrapping of each node's
// execution. This enables cross-cutting concerns like logging, metrics, rate
// limiting, retries and size checks. There is no workflow-level middleware.
//
// # Features
//
//   - Node middleware: Intercept individual node execution
//   - Chain composition: Stack multiple middleware
//   - Order control: Explicit middleware ordering
//   - Error handling: Intercept and transform errors
//
// # Middleware Interface
//
//	type Handler func(ctx executor.ExecutionContext, node types.Node) (interface{}, error)
//
//	type Middleware interface {
//	    Process(ctx executor.ExecutionContext, node types.Node, next Handler) (interface{}, error)
//	    Name() string
//	}
//
// # Basic Usage
//
//	import "github.com/yesoreyeram/thaiyyal/backend/pkg/middleware"
//
//	chain := middleware.NewChain().
//	    Use(middleware.NewLoggingMiddleware(logger)).
//	    Use(middleware.NewMetricsMiddleware(middleware.NewInMemoryMetricsCollector()))
//
//	result, err := chain.Execute(ctx, node, handler)
//
// # Custom Middleware Example
//
//	type TimingMiddleware struct{}
//
//	func (m *TimingMiddleware) Process(ctx executor.ExecutionContext, node types.Node, next middleware.Handler) (interface{}, error) {
//	    start := time.Now()
//	    result, err := next(ctx, node)
//	    log.Printf("Node %s took %v", node.ID, time.Since(start))
//	    return result, err
//	}
//
//	func (m *TimingMiddleware) Name() string { return "Timing" }
//
// # Built-in Middleware
//
// Logging Middleware (NewLoggingMiddleware):
//   - Logs node execution
//   - Includes timing information
//   - Captures errors
//
// Metrics Middleware (NewMetricsMiddleware):
//   - Collects execution metrics through a MetricsCollector
//   - Tracks success/failure counts
//   - Measures execution duration
//
// Retry Middleware (NewRetryMiddleware, NewConditionalRetryMiddleware):
//   - Automatic retry on failure
//   - Exponential backoff
//   - Configurable retry limits
//
// Rate Limit Middleware (NewRateLimitMiddleware):
//   - Token-bucket limits, global and optionally per node type or workflow
//
// Size Limit Middleware (NewSizeLimitMiddleware):
//   - Limits on input and result sizes, string and array lengths
//
// Timeout Middleware (NewTimeoutMiddleware, NewTimeoutMiddlewareWithContext):
//   - Returns a timeout error when a node runs past the limit
//   - Does not cancel the node's execution, which runs on in its goroutine
//
// Validation Middleware (NewValidationMiddleware, NewInputValidationMiddleware):
//   - Node configuration and input checks before execution
//
// # Middleware Chain
//
// Middleware executes in the order it was added: the first middleware added
// is the outermost, so it runs first on the way in and last on the way out:
//
//	Chain:  [Logging] → [Metrics] → [Retry] → [Handler]
//	        ↓           ↓           ↓          ↓
//	Request →→→→→→→→→→→→→→→→→→→→→→→→→→→→→→→→→→ Execute
//	        ←←←←←←←←←←←←←←←←←←←←←←←←←←←←←←←←←← Response
//	        ↑           ↑           ↑          ↑
//	        [Logging]   [Metrics]   [Retry]   [Handler]
//
// # Short-Circuiting
//
// Middleware can return without calling next:
//
//	func (m *SkipMiddleware) Process(ctx executor.ExecutionContext, node types.Node, next middleware.Handler) (interface{}, error) {
//	    if m.skip[node.ID] {
//	        return nil, nil
//	    }
//	    return next(ctx, node)
//	}
//
// # Error Handling
//
// Middleware can intercept and transform errors:
//
//	func (m *ErrorMiddleware) Process(ctx executor.ExecutionContext, node types.Node, next middleware.Handler) (interface{}, error) {
//	    result, err := next(ctx, node)
//	    if err != nil {
//	        // Transform error
//	        return nil, fmt.Errorf("node %s failed: %w", node.ID, err)
//	    }
//	    return result, nil
//	}
//
// # Performance Considerations
//
//   - Minimize allocations in hot paths
//   - Use context for request-scoped data
//   - Avoid blocking operations in middleware
//   - Consider middleware overhead for high-throughput scenarios
//
// # Use Cases
//
//   - Authentication and authorization
//   - Request/response logging
//   - Metrics collection and monitoring
//   - Caching and memoization
//   - Rate limiting and throttling
//   - Input validation and sanitization
//   - Error handling and recovery
//   - Request tracing and correlation
//
// # Best Practices
//
//   - Keep middleware focused on a single concern
//   - Avoid modifying workflow/node state in middleware
//   - Use context for passing request-scoped data
//   - Always call next() unless explicitly stopping the chain
//   - Handle errors appropriately (wrap, transform, or log)
//   - Document middleware ordering requirements
//
// # Thread Safety
//
// Middleware implementations should be stateless and thread-safe.
// The same middleware instance may be used concurrently by multiple
// goroutines.
package middleware
