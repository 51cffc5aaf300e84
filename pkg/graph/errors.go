package graph

import "errors"

// ErrCycleDetected is returned when the graph contains a circular dependency.
var ErrCycleDetected = errors.New("workflow contains cycles (circular dependencies)")
