package executor

import (
	"github.com/nodeflow/engine/pkg/state"
	"github.com/nodeflow/engine/pkg/types"
)

// testContext is a minimal ExecutionContext for exercising a single
// executor in isolation, without a real engine or graph.
type testContext struct {
	inputs  []types.Value
	ct      types.DataType
	params  types.ParamBag
	timer   state.TimerState
	counter state.CounterState
}

func newTestContext(ct types.DataType) *testContext {
	return &testContext{ct: ct, params: types.ParamBag{}}
}

func (c *testContext) Inputs() []types.Value         { return c.inputs }
func (c *testContext) ComputeType() types.DataType   { return c.ct }
func (c *testContext) Params() types.ParamBag        { return c.params }
func (c *testContext) Timer() *state.TimerState      { return &c.timer }
func (c *testContext) Counter() *state.CounterState  { return &c.counter }
