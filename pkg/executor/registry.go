package executor

import (
	"fmt"
	"sync"

	"github.com/nodeflow/engine/pkg/types"
)

// Registry manages node executor registration and lookup, dispatching
// by node kind in the Strategy pattern.
type Registry struct {
	mu        sync.RWMutex
	executors map[types.NodeKind]NodeExecutor
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{executors: make(map[types.NodeKind]NodeExecutor)}
}

// DefaultRegistry returns a Registry with all five built-in node kinds
// registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(&ValueExecutor{})
	r.MustRegister(&DeviceTriggerExecutor{})
	r.MustRegister(&TimerExecutor{})
	r.MustRegister(&CounterExecutor{})
	r.MustRegister(&AddExecutor{})
	return r
}

// Register adds an executor to the registry. Returns an error if an
// executor for this kind is already registered.
func (r *Registry) Register(exec NodeExecutor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kind := exec.Kind()
	if _, exists := r.executors[kind]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, kind)
	}
	r.executors[kind] = exec
	return nil
}

// MustRegister registers an executor and panics on error. Used during
// registry construction, where registration must succeed.
func (r *Registry) MustRegister(exec NodeExecutor) {
	if err := r.Register(exec); err != nil {
		panic(err)
	}
}

// Get returns the executor registered for kind, or (nil, false).
func (r *Registry) Get(kind types.NodeKind) (NodeExecutor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exec, ok := r.executors[kind]
	return exec, ok
}

// Execute dispatches execution to the registered executor for the
// node's kind.
func (r *Registry) Execute(kind types.NodeKind, ctx ExecutionContext) (types.Value, error) {
	exec, ok := r.Get(kind)
	if !ok {
		return types.Value{}, fmt.Errorf("%w: %s", ErrNoExecutorForKind, kind)
	}
	return exec.Execute(ctx)
}
