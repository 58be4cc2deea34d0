package executor

import "github.com/nodeflow/engine/pkg/types"

// DeviceTriggerExecutor is an externally-driven source whose "value"
// parameter holds the last value written by an external set_input
// call. It is the only node kind external agents may write to
// directly.
type DeviceTriggerExecutor struct{}

func (e *DeviceTriggerExecutor) Kind() types.NodeKind { return types.KindDeviceTrigger }

func (e *DeviceTriggerExecutor) Execute(ctx ExecutionContext) (types.Value, error) {
	ct := ctx.ComputeType()
	v, ok := ctx.Params().Value("value")
	if !ok {
		return types.Zero(ct), nil
	}
	return v.CoerceTo(ct), nil
}
