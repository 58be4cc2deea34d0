package codegen

import (
	"go/parser"
	"go/token"
	"strconv"
	"strings"
	"testing"

	"github.com/nodeflow/engine/pkg/graph"
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

func timerCounterDescription() types.Description {
	return types.Description{
		Nodes: []types.NodeDecl{
			{
				ID:         "timer",
				Type:       types.KindTimer,
				Outputs:    []types.PortDecl{numPort("out1", types.TypeF64)},
				Parameters: map[string]any{"interval_ms": 1000.0},
			},
			{
				ID:      "counter",
				Type:    types.KindCounter,
				Inputs:  []types.PortDecl{numPort("in1", types.TypeF64)},
				Outputs: []types.PortDecl{numPort("out1", types.TypeF64)},
			},
		},
		Connections: []types.ConnectionDecl{
			{FromNode: "timer", FromPort: "out1", ToNode: "counter", ToPort: "in1"},
		},
	}
}

// sinkTimerAndValueDescription exercises a Timer and a Value node that
// are BOTH their own sink (no downstream consumer), the scenario that
// previously produced duplicate switch cases in GetOutput.
func sinkTimerAndValueDescription() types.Description {
	return types.Description{
		Nodes: []types.NodeDecl{
			{
				ID:         "timer",
				Type:       types.KindTimer,
				Outputs:    []types.PortDecl{numPort("out1", types.TypeF64)},
				Parameters: map[string]any{"interval_ms": 500.0},
			},
			{
				ID:         "const",
				Type:       types.KindValue,
				Outputs:    []types.PortDecl{numPort("out1", types.TypeF64)},
				Parameters: map[string]any{"value": 42.0},
			},
		},
	}
}

func mustLoad(t *testing.T, desc types.Description) *graph.Graph {
	t.Helper()
	g, err := graph.Load(desc)
	if err != nil {
		t.Fatalf("graph.Load: %v", err)
	}
	return g
}

func TestGenerateProducesParsableGo(t *testing.T) {
	g := mustLoad(t, addChainDescription())

	src, err := Generate(g, "generated")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	fset := token.NewFileSet()
	if _, err := parser.ParseFile(fset, "generated.go", src, parser.AllErrors); err != nil {
		t.Fatalf("generated source failed to parse: %v\n--- source ---\n%s", err, src)
	}
}

func TestGenerateContainsExpectedOperations(t *testing.T) {
	g := mustLoad(t, addChainDescription())

	src, err := Generate(g, "generated")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	want := []string{
		"func Init(state *State)",
		"func Reset(state *State)",
		"func SetInput(handle int, value float64",
		"func Tick(deltaMs float64",
		"func Step(inputs *Inputs, outputs *Outputs, state *State)",
		"func GetOutput(handle int",
		"type Inputs struct",
		"type Outputs struct",
		"type State struct",
	}
	s := string(src)
	for _, w := range want {
		if !strings.Contains(s, w) {
			t.Errorf("generated source missing %q\n--- source ---\n%s", w, s)
		}
	}
}

func TestGenerateNoDuplicateSwitchCasesForSinkTimerAndValue(t *testing.T) {
	g := mustLoad(t, sinkTimerAndValueDescription())

	src, err := Generate(g, "generated")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	fset := token.NewFileSet()
	if _, err := parser.ParseFile(fset, "generated.go", src, parser.AllErrors); err != nil {
		t.Fatalf("generated source failed to parse: %v\n--- source ---\n%s", err, src)
	}

	// Both the Timer and the Value node are sinks here, so their
	// handles must appear in GetOutput's switch exactly once each
	// (via the Outputs-backed case), not twice (once more via the
	// Timer/Value-specific case lists).
	s := string(src)
	getOutputBody := s[strings.Index(s, "func GetOutput"):]
	for _, handle := range []string{"case 0:", "case 1:"} {
		if n := strings.Count(getOutputBody, handle); n > 1 {
			t.Errorf("GetOutput has %d occurrences of %q, want at most 1:\n%s", n, handle, getOutputBody)
		}
	}
}

func TestGenerateNoUnsafeImportWithoutDeviceTrigger(t *testing.T) {
	g := mustLoad(t, timerCounterDescription())

	src, err := Generate(g, "generated")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if strings.Contains(string(src), `"unsafe"`) {
		t.Errorf("generated source imports unsafe with no DeviceTrigger nodes present:\n%s", src)
	}
}

func TestGenerateDeviceTriggerOffsetsUseUnsafeOffsetof(t *testing.T) {
	g := mustLoad(t, addChainDescription())

	src, err := Generate(g, "generated")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	s := string(src)
	if !strings.Contains(s, `"unsafe"`) {
		t.Errorf("expected unsafe import with DeviceTrigger nodes present:\n%s", s)
	}
	if !strings.Contains(s, "unsafe.Offsetof(Inputs{}") {
		t.Errorf("expected DeviceTriggerOffsets to use unsafe.Offsetof:\n%s", s)
	}
}

func TestGenerateTopologicalOrderMatchesGraph(t *testing.T) {
	g := mustLoad(t, addChainDescription())

	m, err := buildModule(g, "generated")
	if err != nil {
		t.Fatalf("buildModule: %v", err)
	}

	want := g.TopologicalOrder()
	if len(m.TopologicalHandles) != len(want) {
		t.Fatalf("topological handle count mismatch: got %d, want %d", len(m.TopologicalHandles), len(want))
	}
	for i := range want {
		if m.TopologicalHandles[i] != want[i] {
			t.Fatalf("topological order mismatch at %d: got %d, want %d", i, m.TopologicalHandles[i], want[i])
		}
	}
}

func TestGenerateInputsOutputsFollowLoadOrder(t *testing.T) {
	g := mustLoad(t, addChainDescription())

	m, err := buildModule(g, "generated")
	if err != nil {
		t.Fatalf("buildModule: %v", err)
	}

	wantInputOrder := []string{"a", "b", "c"}
	if len(m.Inputs) != len(wantInputOrder) {
		t.Fatalf("got %d inputs, want %d", len(m.Inputs), len(wantInputOrder))
	}
	for i, id := range wantInputOrder {
		if m.Inputs[i].NodeID != id {
			t.Errorf("input %d: got node %q, want %q", i, m.Inputs[i].NodeID, id)
		}
	}

	if len(m.Outputs) != 1 || m.Outputs[0].NodeID != "sum" {
		t.Fatalf("got outputs %#v, want single sink field for node sum", m.Outputs)
	}
}

func TestFormatFloatLiteralRoundTrips(t *testing.T) {
	cases := []float64{0, 1, -1, 3.5, 1000, 0.001}
	for _, v := range cases {
		lit := formatFloatLiteral(v)
		if lit == "" {
			t.Errorf("formatFloatLiteral(%v) returned empty string", v)
		}
		back, err := strconv.ParseFloat(lit, 64)
		if err != nil || back != v {
			t.Errorf("formatFloatLiteral(%v) = %q, parses back as %v (err %v)", v, lit, back, err)
		}
	}
}

func TestBuildModuleMarksCounterFedByTimer(t *testing.T) {
	g := mustLoad(t, timerCounterDescription())

	m, err := buildModule(g, "generated")
	if err != nil {
		t.Fatalf("buildModule: %v", err)
	}
	if len(m.Counters) != 1 {
		t.Fatalf("got %d counters, want 1", len(m.Counters))
	}
	if m.Counters[0].FedByTimer == "" {
		t.Fatalf("counter directly wired to a Timer output was not marked FedByTimer")
	}
}

func TestGenerateResetsTimerFedCounterEdgeOnDecay(t *testing.T) {
	g := mustLoad(t, timerCounterDescription())

	src, err := Generate(g, "generated")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	s := string(src)
	stepBody := s[strings.Index(s, "func Step("):strings.Index(s, "func GetOutput(")]

	pulseIdx := strings.Index(stepBody, "Pulse = ")
	edgeIdx := strings.Index(stepBody, "PrevEdge = 0")
	if pulseIdx == -1 || edgeIdx == -1 || edgeIdx < pulseIdx {
		t.Fatalf("expected a PrevEdge reset after the Timer pulse decay in Step:\n%s", stepBody)
	}
}

func TestGoTypeRejectsUnknownDataType(t *testing.T) {
	if _, err := goType(types.DataType("unknown")); err == nil {
		t.Fatal("expected error for unknown data type")
	}
}
