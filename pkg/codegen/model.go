package codegen

import (
	"fmt"
	"strings"

	"github.com/nodeflow/engine/pkg/graph"
	"github.com/nodeflow/engine/pkg/types"
)

// goType maps a declared data type to its Go-native representation in
// generated source.
func goType(t types.DataType) (string, error) {
	switch t {
	case types.TypeI32:
		return "int32", nil
	case types.TypeF32:
		return "float32", nil
	case types.TypeF64:
		return "float64", nil
	case types.TypeString:
		return "string", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDataType, t)
	}
}

// coerceFunc names the generated coercion helper for a destination type.
func coerceFunc(t types.DataType) string {
	switch t {
	case types.TypeI32:
		return "coerceToI32"
	case types.TypeF32:
		return "coerceToF32"
	case types.TypeF64:
		return "coerceToF64"
	default:
		return "coerceToString"
	}
}

// portField describes one field of a generated fixed-layout record.
type portField struct {
	Handle int
	GoName string
	NodeID string
	PortID string
	GoType string
	DType  types.DataType
	IsSink bool
}

// timerField describes one Timer node's slot in the generated State record.
type timerField struct {
	Handle          int
	GoName          string
	NodeID          string
	ComputeType     string
	IntervalLiteral string
}

// counterField describes one Counter node's slot in the generated State record.
type counterField struct {
	Handle      int
	GoName      string
	NodeID      string
	ComputeType string

	// FedByTimer is the GoName of the Timer node directly wired into
	// this Counter's first input, or "" if it isn't fed directly by
	// one. A Counter fed directly by a Timer has its rising-edge state
	// reset every Step, matching the one-Step-wide pulse visibility
	// decayTimerPulses gives the interpreter (see template.go's Step).
	FedByTimer string
}

// valueConstant describes one Value node's baked constant, readable
// via get_output by its output port handle.
type valueConstant struct {
	Handle  int
	Literal string
}

// genNode is one node's fully-resolved generation model: how to
// compute its result during step(), in terms of the Go variable names
// holding its predecessors' results.
type genNode struct {
	GoName      string
	ID          string
	Kind        types.NodeKind
	ComputeType string
	DType       types.DataType

	// ValueLiteral is the baked constant for a Value node, and
	// ValueDisplay its locale-pinned decimal rendering for the
	// accompanying source comment.
	ValueLiteral string
	ValueDisplay string

	// InputExprs are already-coerced Go expressions, one per
	// declared input, evaluated in topological order so every
	// predecessor's temp variable already exists.
	InputExprs []string

	// Outputs are this node's declared output ports, each carrying
	// its own (possibly distinct) declared type for the final
	// coercing write.
	Outputs []portField
}

// module is the complete data model fed to the source template.
type module struct {
	PackageName string

	Inputs   []portField // one per DeviceTrigger
	Outputs  []portField // one per sink output port
	Timers   []timerField
	Counters []counterField

	Nodes []genNode // in topological order

	// ValueConstants, GetOutputTimers and GetOutputCounters feed
	// get_output's switch. A Timer/Counter/Value node that is also a
	// sink is read back through the sink case built from Outputs
	// instead, to avoid two case clauses sharing one handle.
	ValueConstants    []valueConstant
	GetOutputTimers   []timerField
	GetOutputCounters []counterField

	PortDescriptors      []portDescriptor
	TopologicalHandles   []int
	DeviceTriggerOffsets []deviceTriggerOffset
}

type portDescriptor struct {
	Handle   int
	NodeID   string
	PortID   string
	IsOutput bool
	DType    types.DataType
}

type deviceTriggerOffset struct {
	Handle int
	NodeID string
	GoName string
	DType  types.DataType
}

// identSet tracks Go identifiers already assigned, for collision-free
// sanitization of arbitrary node/port IDs.
type identSet struct {
	used map[string]bool
}

func newIdentSet() *identSet { return &identSet{used: make(map[string]bool)} }

// toGoIdent converts an arbitrary string into a capitalized, exported
// Go identifier, disambiguating collisions (which can arise when two
// IDs differ only in characters stripped during sanitization) with a
// numeric suffix.
func (s *identSet) toGoIdent(raw string) string {
	var b strings.Builder
	for i, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteRune('_')
			}
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	base := b.String()
	if base == "" {
		base = "Field"
	}
	base = strings.ToUpper(base[:1]) + base[1:]

	name := base
	n := 2
	for s.used[name] {
		name = fmt.Sprintf("%s_%d", base, n)
		n++
	}
	s.used[name] = true
	return name
}

// buildModule resolves a loaded graph into the template-ready model.
func buildModule(g *graph.Graph, packageName string) (*module, error) {
	nodes := g.Nodes()
	ports := g.Ports()
	topo := g.TopologicalOrder()

	srcOf := make(map[types.PortHandle]types.PortHandle)
	for _, p := range ports {
		if p.Direction != types.DirectionOutput {
			continue
		}
		for _, dst := range g.ReverseAdjacency(p.Handle) {
			srcOf[dst] = p.Handle
		}
	}

	ids := newIdentSet()
	goNameByIdx := make([]string, len(nodes))
	for _, idx := range topo {
		goNameByIdx[idx] = ids.toGoIdent(nodes[idx].ID)
	}

	resultVar := make([]string, len(nodes)) // Go variable name holding node idx's result
	for idx := range nodes {
		resultVar[idx] = "v" + goNameByIdx[idx]
	}

	m := &module{PackageName: packageName}

	// gnByIdx and sinkFieldsByIdx are populated while walking nodes in
	// topological order (the order Step's straight-line body must
	// use, so every predecessor's temp variable already exists), then
	// read back out in node-load order below: the Inputs and Outputs
	// records are specified (§6.3) to follow load order, not
	// topological order.
	gnByIdx := make([]*genNode, len(nodes))
	sinkFieldsByIdx := make([][]portField, len(nodes))

	for _, idx := range topo {
		node := nodes[idx]
		goName := goNameByIdx[idx]

		computeType, hasOutput := node.ComputeType(ports)
		if !hasOutput {
			continue
		}
		cGoType, err := goType(computeType)
		if err != nil {
			return nil, err
		}

		gn := &genNode{
			GoName:      goName,
			ID:          node.ID,
			Kind:        node.Kind,
			ComputeType: cGoType,
			DType:       computeType,
		}

		for _, inHandle := range node.Inputs {
			srcHandle, ok := srcOf[inHandle]
			if !ok {
				gn.InputExprs = append(gn.InputExprs, fmt.Sprintf("%s(0)", coerceFunc(computeType)))
				continue
			}
			srcNodeIdx, _ := g.NodeIndexFor(ports[srcHandle].NodeID)
			gn.InputExprs = append(gn.InputExprs, fmt.Sprintf("%s(float64(%s))", coerceFunc(computeType), resultVar[srcNodeIdx]))
		}

		isSink := true
		for _, outHandle := range node.Outputs {
			if len(g.ReverseAdjacency(outHandle)) > 0 {
				isSink = false
			}
		}

		for _, outHandle := range node.Outputs {
			p := ports[outHandle]
			pgType, err := goType(p.DataType)
			if err != nil {
				return nil, err
			}
			pf := portField{
				Handle: int(outHandle),
				GoName: ids.toGoIdent(node.ID + "_" + p.PortID),
				NodeID: node.ID,
				PortID: p.PortID,
				GoType: pgType,
				DType:  p.DataType,
				IsSink: isSink,
			}
			gn.Outputs = append(gn.Outputs, pf)
			if isSink {
				sinkFieldsByIdx[idx] = append(sinkFieldsByIdx[idx], pf)
			}
		}

		switch node.Kind {
		case types.KindValue:
			v, _ := node.Params.Float64("value")
			gn.ValueLiteral = formatFloatLiteral(v)
			gn.ValueDisplay = formatFloatDisplay(v)
			if !isSink {
				m.ValueConstants = append(m.ValueConstants, valueConstant{
					Handle: int(node.Outputs[0]), Literal: gn.ValueLiteral,
				})
			}
		case types.KindTimer:
			interval, _ := node.Params.Float64("interval_ms")
			tf := timerField{
				Handle: int(node.Outputs[0]), GoName: goName, NodeID: node.ID, ComputeType: cGoType,
				IntervalLiteral: formatFloatLiteral(interval),
			}
			m.Timers = append(m.Timers, tf)
			if !isSink {
				m.GetOutputTimers = append(m.GetOutputTimers, tf)
			}
		case types.KindCounter:
			cf := counterField{
				Handle: int(node.Outputs[0]), GoName: goName, NodeID: node.ID, ComputeType: cGoType,
			}
			if len(node.Inputs) > 0 {
				if srcHandle, ok := srcOf[node.Inputs[0]]; ok {
					srcNodeIdx, _ := g.NodeIndexFor(ports[srcHandle].NodeID)
					if nodes[srcNodeIdx].Kind == types.KindTimer {
						cf.FedByTimer = goNameByIdx[srcNodeIdx]
					}
				}
			}
			m.Counters = append(m.Counters, cf)
			if !isSink {
				m.GetOutputCounters = append(m.GetOutputCounters, cf)
			}
		}

		gnByIdx[idx] = gn
		m.Nodes = append(m.Nodes, *gn)
	}

	for idx := range nodes {
		if gnByIdx[idx] == nil {
			continue
		}

		node := nodes[idx]
		if node.Kind == types.KindDeviceTrigger {
			computeType := gnByIdx[idx].DType
			dtGoType, _ := goType(computeType)
			goName := gnByIdx[idx].GoName
			handle := int(node.Outputs[0])
			pf := portField{Handle: handle, GoName: goName, NodeID: node.ID, GoType: dtGoType, DType: computeType}
			m.Inputs = append(m.Inputs, pf)
			m.DeviceTriggerOffsets = append(m.DeviceTriggerOffsets, deviceTriggerOffset{
				Handle: handle, NodeID: node.ID, GoName: goName, DType: computeType,
			})
		}
		m.Outputs = append(m.Outputs, sinkFieldsByIdx[idx]...)
	}

	for _, p := range ports {
		m.PortDescriptors = append(m.PortDescriptors, portDescriptor{
			Handle:   int(p.Handle),
			NodeID:   p.NodeID,
			PortID:   p.PortID,
			IsOutput: p.Direction == types.DirectionOutput,
			DType:    p.DataType,
		})
	}
	m.TopologicalHandles = append(m.TopologicalHandles, topo...)

	return m, nil
}
