package executor

import "github.com/nodeflow/engine/pkg/types"

// AddExecutor sums all inputs in the compute type. With no inputs the
// output is zero. Inputs arrive from ExecutionContext.Inputs already
// coerced to the compute type, so the sum is computed directly in that
// type rather than detouring through float64 and losing i32/f32
// precision characteristics.
type AddExecutor struct{}

func (e *AddExecutor) Kind() types.NodeKind { return types.KindAdd }

func (e *AddExecutor) Execute(ctx ExecutionContext) (types.Value, error) {
	inputs := ctx.Inputs()
	ct := ctx.ComputeType()

	switch ct {
	case types.TypeI32:
		var sum int32
		for _, in := range inputs {
			sum += in.I32()
		}
		return types.I32Value(sum), nil
	case types.TypeF32:
		var sum float32
		for _, in := range inputs {
			sum += in.F32()
		}
		return types.F32Value(sum), nil
	default:
		var sum float64
		for _, in := range inputs {
			sum += in.F64()
		}
		return types.F64Value(sum), nil
	}
}
