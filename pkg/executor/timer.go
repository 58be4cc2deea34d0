package executor

import "github.com/nodeflow/engine/pkg/types"

// TimerExecutor is a time-driven pulse generator advanced by Tick, not
// by Execute. Execute only re-emits the current pulse state — it is
// exercised on cold start, where every node is evaluated once before
// any tick has occurred, so the output is simply whatever the
// accumulator's pulse flag currently says (zero, absent a prior tick).
type TimerExecutor struct{}

func (e *TimerExecutor) Kind() types.NodeKind { return types.KindTimer }

func (e *TimerExecutor) Execute(ctx ExecutionContext) (types.Value, error) {
	ct := ctx.ComputeType()
	if ctx.Timer().Pulse {
		return types.One(ct), nil
	}
	return types.Zero(ct), nil
}

// Tick advances the Timer's accumulator by deltaMs. When the
// accumulator reaches or exceeds interval_ms, it is reduced by
// interval_ms (residual time carries over) and the output becomes one
// for exactly this tick; otherwise it is zero. A missing or
// non-positive interval_ms holds the output at zero and leaves the
// accumulator untouched.
//
// Only one pulse is emitted per Tick call regardless of how many
// intervals deltaMs spans (see DESIGN.md).
func (e *TimerExecutor) Tick(ctx ExecutionContext, deltaMs float64) (types.Value, error) {
	ct := ctx.ComputeType()
	ts := ctx.Timer()

	interval, ok := ctx.Params().Float64("interval_ms")
	if !ok || interval <= 0 {
		ts.Pulse = false
		return types.Zero(ct), nil
	}

	if deltaMs > 0 {
		ts.Accumulator += deltaMs
	}

	if ts.Accumulator >= interval {
		ts.Accumulator -= interval
		ts.Pulse = true
	} else {
		ts.Pulse = false
	}

	if ts.Pulse {
		return types.One(ct), nil
	}
	return types.Zero(ct), nil
}
