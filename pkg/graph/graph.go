package graph

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/nodeflow/engine/pkg/types"
)

// Graph is the immutable-after-load store of a loaded dataflow graph.
// A zero Graph is not usable; obtain one from Load.
type Graph struct {
	loadID uuid.UUID

	nodes []types.Node // load order; Node.Index holds topological position
	ports []types.Port // handle-indexed

	order []int // node table indices in topological order

	// reverseAdjacency[h] lists the input port handles fed by output
	// port handle h, in declared-edge order.
	reverseAdjacency [][]types.PortHandle
	edgeCount        int

	// forwardDependents[i] lists the node table indices downstream of
	// node i, in topological order, deduplicated.
	forwardDependents [][]int

	portHandleByKey map[portKey]types.PortHandle
	nodeIndexByID map[string]int
}

type portKey struct {
	nodeID string
	portID string
	direction types.Direction
}

// Load builds a Graph from an external Description document. Failure leaves the caller's prior graph, if any, untouched —
// Load never returns a partially-built Graph.
func Load(desc types.Description) (*Graph, error) {
	g := &Graph{
		loadID: uuid.New(),
		portHandleByKey: make(map[portKey]types.PortHandle),
		nodeIndexByID: make(map[string]int, len(desc.Nodes)),
	}

	if err := g.internNodesAndPorts(desc.Nodes); err != nil {
		return nil, err
	}
	if err := g.internEdges(desc.Connections); err != nil {
		return nil, err
	}
	order, err := g.topologicalSort()
	if err != nil {
		return nil, err
	}
	g.order = order
	for pos, nodeIdx := range order {
		g.nodes[nodeIdx].Index = pos
	}
	g.buildForwardDependents()

	return g, nil
}

func (g *Graph) internNodesAndPorts(decls []types.NodeDecl) error {
	g.nodes = make([]types.Node, 0, len(decls))

	var handleCounter types.PortHandle
	for i, decl := range decls {
		if _, exists := g.nodeIndexByID[decl.ID]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateID, decl.ID)
		}

		node := types.Node{
			ID: decl.ID,
			Kind: decl.Type,
			Params: paramsFromRaw(decl.Parameters),
		}

		seen := make(map[string]bool, len(decl.Inputs)+len(decl.Outputs))
		for _, in := range decl.Inputs {
			if seen[in.ID] {
				return fmt.Errorf("%w: node %s port %s", ErrDuplicatePortID, decl.ID, in.ID)
			}
			seen[in.ID] = true
			h := handleCounter
			handleCounter++
			g.ports = append(g.ports, types.Port{
				Handle: h, NodeID: decl.ID, PortID: in.ID,
				Direction: types.DirectionInput, DataType: in.Type,
			})
			g.portHandleByKey[portKey{decl.ID, in.ID, types.DirectionInput}] = h
			node.Inputs = append(node.Inputs, h)
		}
		for _, out := range decl.Outputs {
			if seen[out.ID] {
				return fmt.Errorf("%w: node %s port %s", ErrDuplicatePortID, decl.ID, out.ID)
			}
			seen[out.ID] = true
			h := handleCounter
			handleCounter++
			g.ports = append(g.ports, types.Port{
				Handle: h, NodeID: decl.ID, PortID: out.ID,
				Direction: types.DirectionOutput, DataType: out.Type,
			})
			g.portHandleByKey[portKey{decl.ID, out.ID, types.DirectionOutput}] = h
			node.Outputs = append(node.Outputs, h)
		}

		g.nodeIndexByID[decl.ID] = i
		g.nodes = append(g.nodes, node)
	}

	return nil
}

func paramsFromRaw(raw map[string]any) types.ParamBag {
	bag := make(types.ParamBag, len(raw))
	for name, v := range raw {
		switch val := v.(type) {
		case float64:
			bag[name] = types.F64Value(val)
		case int:
			bag[name] = types.F64Value(float64(val))
		case string:
			bag[name] = types.StringValue(val)
		case bool:
			if val {
				bag[name] = types.F64Value(1)
			} else {
				bag[name] = types.F64Value(0)
			}
		}
	}
	return bag
}

func (g *Graph) internEdges(decls []types.ConnectionDecl) error {
	targetUsed := make(map[types.PortHandle]bool, len(decls))

	for _, c := range decls {
		srcHandle, ok := g.portHandleByKey[portKey{c.FromNode, c.FromPort, types.DirectionOutput}]
		if !ok {
			return fmt.Errorf("%w: source %s:%s", ErrUnknownReference, c.FromNode, c.FromPort)
		}
		dstHandle, ok := g.portHandleByKey[portKey{c.ToNode, c.ToPort, types.DirectionInput}]
		if !ok {
			return fmt.Errorf("%w: target %s:%s", ErrUnknownReference, c.ToNode, c.ToPort)
		}

		srcType := g.ports[srcHandle].DataType
		dstType := g.ports[dstHandle].DataType
		if srcType.IsNumeric() != dstType.IsNumeric() {
			return fmt.Errorf("%w: %s:%s (%s) -> %s:%s (%s)",
				ErrTypeMismatch, c.FromNode, c.FromPort, srcType, c.ToNode, c.ToPort, dstType)
		}
		if !srcType.IsNumeric() && srcType != dstType {
			return fmt.Errorf("%w: %s:%s (%s) -> %s:%s (%s)",
				ErrTypeMismatch, c.FromNode, c.FromPort, srcType, c.ToNode, c.ToPort, dstType)
		}

		if targetUsed[dstHandle] {
			return fmt.Errorf("%w: %s:%s", ErrMultipleEdgesToInput, c.ToNode, c.ToPort)
		}
		targetUsed[dstHandle] = true

		if cap(g.reverseAdjacency) == 0 {
			g.reverseAdjacency = make([][]types.PortHandle, len(g.ports))
		}
		g.reverseAdjacency[srcHandle] = append(g.reverseAdjacency[srcHandle], dstHandle)
		g.edgeCount++
	}

	if g.reverseAdjacency == nil {
		g.reverseAdjacency = make([][]types.PortHandle, len(g.ports))
	}

	return nil
}

// topologicalSort runs Kahn's algorithm over the node-level dependency
// graph implied by the port-level edges, returning node table indices in
// dependency order, using a ring-buffer queue over integer node table
// indices rather than string node IDs.
func (g *Graph) topologicalSort() ([]int, error) {
	numNodes := len(g.nodes)
	if numNodes == 0 {
		return []int{}, nil
	}

	inDegree := make([]int, numNodes)
	adjacency := make([][]int, numNodes)

	for srcHandle, targets := range g.reverseAdjacency {
		if len(targets) == 0 {
			continue
		}
		srcNode := g.nodeIndexByID[g.ports[srcHandle].NodeID]
		for _, dstHandle := range targets {
			dstNode := g.nodeIndexByID[g.ports[dstHandle].NodeID]
			adjacency[srcNode] = append(adjacency[srcNode], dstNode)
			inDegree[dstNode]++
		}
	}

	queue := make([]int, numNodes)
	queueEnd := 0
	for i := 0; i < numNodes; i++ {
		if inDegree[i] == 0 {
			queue[queueEnd] = i
			queueEnd++
		}
	}

	order := make([]int, 0, numNodes)
	queueStart := 0
	for queueStart < queueEnd {
		current := queue[queueStart]
		queueStart++
		order = append(order, current)

		for _, neighbor := range adjacency[current] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue[queueEnd] = neighbor
				queueEnd++
			}
		}
	}

	if len(order) != numNodes {
		return nil, ErrCycleDetected
	}

	return order, nil
}

func (g *Graph) buildForwardDependents() {
	g.forwardDependents = make([][]int, len(g.nodes))

	for i := range g.nodes {
		seen := make(map[int]bool)
		var deps []int
		for _, outHandle := range g.nodes[i].Outputs {
			for _, inHandle := range g.reverseAdjacency[outHandle] {
				dstNode := g.nodeIndexByID[g.ports[inHandle].NodeID]
				if dstNode == i || seen[dstNode] {
					continue
				}
				seen[dstNode] = true
				deps = append(deps, dstNode)
			}
		}
		// Stable by topological index, consistent with the ready
		// queue's own (topological index, node identifier) ordering.
		insertionSortByTopoIndex(deps, g.nodes)
		g.forwardDependents[i] = deps
	}
}

func insertionSortByTopoIndex(deps []int, nodes []types.Node) {
	for i := 1; i < len(deps); i++ {
		key := deps[i]
		j := i - 1
		for j >= 0 && less(nodes, key, deps[j]) {
			deps[j+1] = deps[j]
			j--
		}
		deps[j+1] = key
	}
}

func less(nodes []types.Node, a, b int) bool {
	if nodes[a].Index != nodes[b].Index {
		return nodes[a].Index < nodes[b].Index
	}
	return nodes[a].ID < nodes[b].ID
}

// LoadID returns the unique identifier assigned to this Graph at load
// time, used for log/telemetry correlation and snapshot tagging only —
// it plays no part in evaluation semantics.
func (g *Graph) LoadID() uuid.UUID { return g.loadID }

// Nodes returns the node table in load order. Callers must not mutate
// the returned slice's elements.
func (g *Graph) Nodes() []types.Node { return g.nodes }

// Ports returns the handle-indexed port table. Callers must not mutate
// the returned slice's elements.
func (g *Graph) Ports() []types.Port { return g.ports }

// TotalPorts returns the total number of ports across every node —
// the size the port-value and port-generation-stamp arenas must be
// allocated to.
func (g *Graph) TotalPorts() int { return len(g.ports) }

// TotalEdges returns the number of connections interned at load.
func (g *Graph) TotalEdges() int { return g.edgeCount }

// TopologicalOrder returns node table indices in dependency order.
func (g *Graph) TopologicalOrder() []int { return g.order }

// ReverseAdjacency returns the ordered list of input port handles fed by
// output port handle h.
func (g *Graph) ReverseAdjacency(h types.PortHandle) []types.PortHandle {
	if int(h) < 0 || int(h) >= len(g.reverseAdjacency) {
		return nil
	}
	return g.reverseAdjacency[h]
}

// ForwardDependents returns the node table indices downstream of node
// table index i, ordered by (topological index, node identifier).
func (g *Graph) ForwardDependents(i int) []int {
	if i < 0 || i >= len(g.forwardDependents) {
		return nil
	}
	return g.forwardDependents[i]
}

// PortHandleFor looks up the handle for (node_id, port_id, direction),
// if one was assigned at load time. It hashes on a string key and is
// intended for load-time or host-facing lookups, never for the
// scheduler's hot path.
func (g *Graph) PortHandleFor(nodeID, portID string, dir types.Direction) (types.PortHandle, bool) {
	h, ok := g.portHandleByKey[portKey{nodeID, portID, dir}]
	return h, ok
}

// NodeIndexFor returns the node table index of nodeID.
func (g *Graph) NodeIndexFor(nodeID string) (int, bool) {
	i, ok := g.nodeIndexByID[nodeID]
	return i, ok
}
