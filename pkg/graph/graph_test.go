package graph

import (
	"errors"
	"testing"

	"github.com/nodeflow/engine/pkg/types"
)

func numPort(id string, t types.DataType) types.PortDecl {
	return types.PortDecl{ID: id, Type: t}
}

func addChainDescription() types.Description {
	return types.Description{
		Nodes: []types.NodeDecl{
			{ID: "a", Type: types.KindDeviceTrigger, Outputs: []types.PortDecl{numPort("out1", types.TypeF32)}},
			{ID: "b", Type: types.KindDeviceTrigger, Outputs: []types.PortDecl{numPort("out1", types.TypeF32)}},
			{ID: "c", Type: types.KindDeviceTrigger, Outputs: []types.PortDecl{numPort("out1", types.TypeF32)}},
			{
				ID:      "sum",
				Type:    types.KindAdd,
				Inputs:  []types.PortDecl{numPort("in1", types.TypeF32), numPort("in2", types.TypeF32), numPort("in3", types.TypeF32)},
				Outputs: []types.PortDecl{numPort("out1", types.TypeF32)},
			},
		},
		Connections: []types.ConnectionDecl{
			{FromNode: "a", FromPort: "out1", ToNode: "sum", ToPort: "in1"},
			{FromNode: "b", FromPort: "out1", ToNode: "sum", ToPort: "in2"},
			{FromNode: "c", FromPort: "out1", ToNode: "sum", ToPort: "in3"},
		},
	}
}

func TestLoadDeterministicHandles(t *testing.T) {
	desc := addChainDescription()

	g1, err := Load(desc)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	g2, err := Load(desc)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}

	for _, nodeID := range []string{"a", "b", "c", "sum"} {
		h1, ok1 := g1.PortHandleFor(nodeID, "out1", types.DirectionOutput)
		h2, ok2 := g2.PortHandleFor(nodeID, "out1", types.DirectionOutput)
		if ok1 != ok2 || h1 != h2 {
			t.Fatalf("handle mismatch for %s: (%v,%v) vs (%v,%v)", nodeID, h1, ok1, h2, ok2)
		}
	}
	if g1.TotalPorts() != g2.TotalPorts() {
		t.Fatalf("total ports differ: %d vs %d", g1.TotalPorts(), g2.TotalPorts())
	}
}

func TestInputsHandledBeforeOutputs(t *testing.T) {
	desc := addChainDescription()
	g, err := Load(desc)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	sumIdx, ok := g.NodeIndexFor("sum")
	if !ok {
		t.Fatal("sum node not found")
	}
	sum := g.Nodes()[sumIdx]
	for _, inHandle := range sum.Inputs {
		for _, outHandle := range sum.Outputs {
			if inHandle >= outHandle {
				t.Fatalf("expected input handle %d < output handle %d", inHandle, outHandle)
			}
		}
	}
}

func TestTopologicalOrderRespectsEdges(t *testing.T) {
	g, err := Load(addChainDescription())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	order := g.TopologicalOrder()
	if len(order) != 4 {
		t.Fatalf("expected 4 nodes in order, got %d", len(order))
	}

	sumIdx, _ := g.NodeIndexFor("sum")
	sumPos := -1
	for pos, idx := range order {
		if idx == sumIdx {
			sumPos = pos
		}
	}
	for _, producer := range []string{"a", "b", "c"} {
		pIdx, _ := g.NodeIndexFor(producer)
		pPos := -1
		for pos, idx := range order {
			if idx == pIdx {
				pPos = pos
			}
		}
		if pPos >= sumPos {
			t.Fatalf("producer %s (pos %d) must precede sum (pos %d)", producer, pPos, sumPos)
		}
	}
}

func TestCycleDetected(t *testing.T) {
	desc := types.Description{
		Nodes: []types.NodeDecl{
			{ID: "x", Type: types.KindAdd,
				Inputs:  []types.PortDecl{numPort("in1", types.TypeF32)},
				Outputs: []types.PortDecl{numPort("out1", types.TypeF32)}},
			{ID: "y", Type: types.KindAdd,
				Inputs:  []types.PortDecl{numPort("in1", types.TypeF32)},
				Outputs: []types.PortDecl{numPort("out1", types.TypeF32)}},
		},
		Connections: []types.ConnectionDecl{
			{FromNode: "x", FromPort: "out1", ToNode: "y", ToPort: "in1"},
			{FromNode: "y", FromPort: "out1", ToNode: "x", ToPort: "in1"},
		},
	}

	_, err := Load(desc)
	if !errors.Is(err, ErrCycleDetected) {
		t.Fatalf("expected ErrCycleDetected, got %v", err)
	}
}

func TestUnknownReference(t *testing.T) {
	desc := types.Description{
		Nodes: []types.NodeDecl{
			{ID: "a", Type: types.KindDeviceTrigger, Outputs: []types.PortDecl{numPort("out1", types.TypeF32)}},
		},
		Connections: []types.ConnectionDecl{
			{FromNode: "a", FromPort: "out1", ToNode: "missing", ToPort: "in1"},
		},
	}

	_, err := Load(desc)
	if !errors.Is(err, ErrUnknownReference) {
		t.Fatalf("expected ErrUnknownReference, got %v", err)
	}
}

func TestTypeMismatchNumericToString(t *testing.T) {
	desc := types.Description{
		Nodes: []types.NodeDecl{
			{ID: "a", Type: types.KindDeviceTrigger, Outputs: []types.PortDecl{numPort("out1", types.TypeF32)}},
			{ID: "b", Type: types.KindAdd,
				Inputs:  []types.PortDecl{numPort("in1", types.TypeString)},
				Outputs: []types.PortDecl{numPort("out1", types.TypeString)}},
		},
		Connections: []types.ConnectionDecl{
			{FromNode: "a", FromPort: "out1", ToNode: "b", ToPort: "in1"},
		},
	}

	_, err := Load(desc)
	if !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}
}

func TestDuplicateNodeID(t *testing.T) {
	desc := types.Description{
		Nodes: []types.NodeDecl{
			{ID: "a", Type: types.KindDeviceTrigger, Outputs: []types.PortDecl{numPort("out1", types.TypeF32)}},
			{ID: "a", Type: types.KindDeviceTrigger, Outputs: []types.PortDecl{numPort("out1", types.TypeF32)}},
		},
	}

	_, err := Load(desc)
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}

func TestMultipleEdgesToSameInputRejected(t *testing.T) {
	desc := types.Description{
		Nodes: []types.NodeDecl{
			{ID: "a", Type: types.KindDeviceTrigger, Outputs: []types.PortDecl{numPort("out1", types.TypeF32)}},
			{ID: "b", Type: types.KindDeviceTrigger, Outputs: []types.PortDecl{numPort("out1", types.TypeF32)}},
			{ID: "c", Type: types.KindAdd,
				Inputs:  []types.PortDecl{numPort("in1", types.TypeF32)},
				Outputs: []types.PortDecl{numPort("out1", types.TypeF32)}},
		},
		Connections: []types.ConnectionDecl{
			{FromNode: "a", FromPort: "out1", ToNode: "c", ToPort: "in1"},
			{FromNode: "b", FromPort: "out1", ToNode: "c", ToPort: "in1"},
		},
	}

	_, err := Load(desc)
	if !errors.Is(err, ErrMultipleEdgesToInput) {
		t.Fatalf("expected ErrMultipleEdgesToInput, got %v", err)
	}
}

func TestReverseAdjacencyAndForwardDependents(t *testing.T) {
	g, err := Load(addChainDescription())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	aOut, _ := g.PortHandleFor("a", "out1", types.DirectionOutput)
	sumIn1, _ := g.PortHandleFor("sum", "in1", types.DirectionInput)

	adj := g.ReverseAdjacency(aOut)
	if len(adj) != 1 || adj[0] != sumIn1 {
		t.Fatalf("expected reverse adjacency [sum.in1], got %v", adj)
	}

	aIdx, _ := g.NodeIndexFor("a")
	sumIdx, _ := g.NodeIndexFor("sum")
	deps := g.ForwardDependents(aIdx)
	if len(deps) != 1 || deps[0] != sumIdx {
		t.Fatalf("expected forward dependents [sum], got %v", deps)
	}
}

func TestParamsFromRawNumericAndString(t *testing.T) {
	desc := types.Description{
		Nodes: []types.NodeDecl{
			{
				ID:      "timer1",
				Type:    types.KindTimer,
				Outputs: []types.PortDecl{numPort("out1", types.TypeF64)},
				Parameters: map[string]any{
					"interval_ms": float64(3000),
					"key":         "vestigial",
				},
			},
		},
	}

	g, err := Load(desc)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	idx, _ := g.NodeIndexFor("timer1")
	node := g.Nodes()[idx]
	iv, ok := node.Params.Float64("interval_ms")
	if !ok || iv != 3000 {
		t.Fatalf("expected interval_ms=3000, got %v ok=%v", iv, ok)
	}
	key, ok := node.Params.String("key")
	if !ok || key != "vestigial" {
		t.Fatalf("expected key=vestigial, got %v ok=%v", key, ok)
	}
}
