package executor

import (
	"testing"

	"github.com/nodeflow/engine/pkg/types"
)

func TestValueExecutorReturnsCoercedParam(t *testing.T) {
	ctx := newTestContext(types.TypeF64)
	ctx.params["value"] = types.I32Value(7)

	v, err := (&ValueExecutor{}).Execute(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Type() != types.TypeF64 || v.F64() != 7 {
		t.Fatalf("got %#v, want f64(7)", v)
	}
}

func TestValueExecutorMissingParamHoldsZero(t *testing.T) {
	ctx := newTestContext(types.TypeI32)

	v, err := (&ValueExecutor{}).Execute(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Type() != types.TypeI32 || v.I32() != 0 {
		t.Fatalf("got %#v, want i32(0)", v)
	}
}

func TestValueExecutorKind(t *testing.T) {
	if (&ValueExecutor{}).Kind() != types.KindValue {
		t.Fatalf("wrong kind")
	}
}
