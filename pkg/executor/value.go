package executor

import "github.com/nodeflow/engine/pkg/types"

// ValueExecutor is a pure constant: its output is the node's "value"
// parameter coerced to the compute type. A missing "value" parameter
// holds the output at zero rather than failing load.
type ValueExecutor struct{}

func (e *ValueExecutor) Kind() types.NodeKind { return types.KindValue }

func (e *ValueExecutor) Execute(ctx ExecutionContext) (types.Value, error) {
	ct := ctx.ComputeType()
	v, ok := ctx.Params().Value("value")
	if !ok {
		return types.Zero(ct), nil
	}
	return v.CoerceTo(ct), nil
}
