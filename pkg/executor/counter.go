package executor

import "github.com/nodeflow/engine/pkg/types"

// counterHighThreshold is the strictly-greater-than threshold an input
// must cross to be read as "high".
const counterHighThreshold = 0.5

// CounterExecutor is a rising-edge counter on its first input. An input
// is "high" if strictly greater than 0.5, else "low"; the running total
// increments by one on every low-to-high transition.
type CounterExecutor struct{}

func (e *CounterExecutor) Kind() types.NodeKind { return types.KindCounter }

func (e *CounterExecutor) Execute(ctx ExecutionContext) (types.Value, error) {
	inputs := ctx.Inputs()

	var current float64
	if len(inputs) > 0 {
		current = inputs[0].AsF64()
	}
	high := current > counterHighThreshold

	cs := ctx.Counter()
	if high && !cs.PrevHigh {
		cs.Total++
	}
	cs.PrevHigh = high

	return types.F64Value(cs.Total).CoerceTo(ctx.ComputeType()), nil
}
