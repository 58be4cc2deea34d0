package executor

import (
	"github.com/nodeflow/engine/pkg/state"
	"github.com/nodeflow/engine/pkg/types"
)

// ExecutionContext gives a node executor access to its own inputs and
// per-node-kind state without the executor package depending on the
// engine package.
type ExecutionContext interface {
	// Inputs returns the node's input values in declared order, each
	// already coerced to ComputeType.
	Inputs() []types.Value

	// ComputeType returns the node's compute type: the declared type
	// of its first output.
	ComputeType() types.DataType

	// Params returns the node's parameter bag.
	Params() types.ParamBag

	// Timer returns the node's Timer-kind state. Only meaningful (and
	// only called) when the node's kind is Timer.
	Timer() *state.TimerState

	// Counter returns the node's Counter-kind state. Only meaningful
	// (and only called) when the node's kind is Counter.
	Counter() *state.CounterState
}

// NodeExecutor computes a node's output during evaluate().
// It returns the single value to be written, coerced to ComputeType, to
// every one of the node's declared outputs.
type NodeExecutor interface {
	Kind() types.NodeKind
	Execute(ctx ExecutionContext) (types.Value, error)
}

// Ticker is implemented by node kinds with time-driven behavior distinct
// from data-driven evaluation. The scheduler's
// tick(Δt) calls Tick instead of Execute for every Timer-kind node whose
// executor implements Ticker; nodes of other kinds are never ticked.
type Ticker interface {
	Tick(ctx ExecutionContext, deltaMs float64) (types.Value, error)
}
