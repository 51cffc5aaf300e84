package executor

import (
	"fmt"
	"sort"
	"sync"

	"github.com/yesoreyeram/thaiyyal/backend/pkg/types"
)

// Registry maps a NodeType to the executor that implements it. Safe for
// concurrent use: the engine executes a level's nodes concurrently and each
// goroutine looks up its executor independently.
type Registry struct {
	mu        sync.RWMutex
	executors map[types.NodeType]NodeExecutor
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		executors: make(map[types.NodeType]NodeExecutor),
	}
}

// Register adds an executor for its NodeType(). Returns an error if a
// different executor already owns that type.
func (r *Registry) Register(e NodeExecutor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	nt := e.NodeType()
	if _, exists := r.executors[nt]; exists {
		return fmt.Errorf("executor already registered for node type %q", nt)
	}
	r.executors[nt] = e
	return nil
}

// MustRegister is Register but panics on error; used in package init/New
// wiring where a duplicate registration is a programming error, not a
// runtime condition.
func (r *Registry) MustRegister(e NodeExecutor) {
	if err := r.Register(e); err != nil {
		panic(err)
	}
}

// GetExecutor returns the executor registered for nt, or an error wrapping
// types.ErrUnknownNodeType if none is registered.
func (r *Registry) GetExecutor(nt types.NodeType) (NodeExecutor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.executors[nt]
	if !ok {
		return nil, types.ErrUnknownNodeType(nt)
	}
	return e, nil
}

// Validate looks up node.Type's executor and runs its Validate.
func (r *Registry) Validate(ctx ExecutionContext, node types.Node) error {
	e, err := r.GetExecutor(node.Type)
	if err != nil {
		return err
	}
	return e.Validate(ctx, node)
}

// Execute looks up node.Type's executor and runs its Execute.
func (r *Registry) Execute(ctx ExecutionContext, node types.Node) (Output, error) {
	e, err := r.GetExecutor(node.Type)
	if err != nil {
		return Output{}, err
	}
	return e.Execute(ctx, node)
}

// ListRegisteredTypes returns every registered NodeType in sorted order.
func (r *Registry) ListRegisteredTypes() []types.NodeType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]types.NodeType, 0, len(r.executors))
	for nt := range r.executors {
		out = append(out, nt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
