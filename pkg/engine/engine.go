// Package engine implements the scheduler described in doc.go: the
// ready-queue-driven evaluator that keeps a loaded graph's port state
// consistent with its declared node semantics.
package engine

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/nodeflow/engine/pkg/config"
	"github.com/nodeflow/engine/pkg/executor"
	"github.com/nodeflow/engine/pkg/graph"
	"github.com/nodeflow/engine/pkg/logging"
	"github.com/nodeflow/engine/pkg/observer"
	"github.com/nodeflow/engine/pkg/state"
	"github.com/nodeflow/engine/pkg/telemetry"
	"github.com/nodeflow/engine/pkg/types"
)

// timerBinding pairs a Timer node's table index with the Ticker
// implementation advancing it, resolved once at Load so Tick never
// needs a registry lookup or type assertion on its hot path.
type timerBinding struct {
	idx    int
	ticker executor.Ticker
}

// Engine is the dataflow evaluation engine. It owns the loaded graph,
// the port-value/port-generation arena, per-node-kind side state, and
// the ready queue driving steady-state evaluation.
//
// Engine is not safe for concurrent use; see doc.go.
type Engine struct {
	graph     *graph.Graph
	ports     *state.PortArena
	sideState *state.Manager
	registry  *executor.Registry
	cfg       *config.Config

	generation         uint64
	snapshotGeneration uint64
	coldStart          bool

	ready           []int
	lastEnqueuedGen []uint64

	timers []timerBinding

	observerMgr *observer.Manager
	logger      *logging.Logger
	telemetry   *telemetry.Provider
}

// Option configures an Engine at Load time.
type Option func(*engineOptions)

type engineOptions struct {
	cfg       *config.Config
	registry  *executor.Registry
	observers []observer.Observer
	telemetry *telemetry.Provider
	logger    *logging.Logger
}

// WithConfig overrides the default Config (limits on node/edge count
// and the default tick interval).
func WithConfig(cfg *config.Config) Option {
	return func(o *engineOptions) { o.cfg = cfg }
}

// WithRegistry overrides the default executor registry, allowing
// custom node kinds to be registered alongside or instead of the five
// built-in kinds.
func WithRegistry(reg *executor.Registry) Option {
	return func(o *engineOptions) { o.registry = reg }
}

// WithObserver registers an observer to receive load/evaluate/tick/
// node-evaluation lifecycle events.
func WithObserver(obs observer.Observer) Option {
	return func(o *engineOptions) { o.observers = append(o.observers, obs) }
}

// WithTelemetry attaches a telemetry.Provider recording evaluation,
// tick, and per-node-kind metrics.
func WithTelemetry(p *telemetry.Provider) Option {
	return func(o *engineOptions) { o.telemetry = p }
}

// WithLogger overrides the default structured logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *engineOptions) { o.logger = l }
}

// Load builds a graph from desc and returns an Engine ready to
// evaluate it. A failed Load never returns a partially-built Engine.
func Load(desc types.Description, opts ...Option) (*Engine, error) {
	built := &engineOptions{
		cfg:      config.Default(),
		registry: executor.DefaultRegistry(),
	}
	for _, opt := range opts {
		opt(built)
	}
	if built.registry == nil {
		return nil, ErrNilRegistry
	}

	if built.cfg.MaxNodes > 0 && len(desc.Nodes) > built.cfg.MaxNodes {
		return nil, fmt.Errorf("%w: %d nodes (limit %d)", ErrMaxNodesExceeded, len(desc.Nodes), built.cfg.MaxNodes)
	}
	if built.cfg.MaxEdges > 0 && len(desc.Connections) > built.cfg.MaxEdges {
		return nil, fmt.Errorf("%w: %d connections (limit %d)", ErrMaxEdgesExceeded, len(desc.Connections), built.cfg.MaxEdges)
	}

	g, err := graph.Load(desc)
	if err != nil {
		return nil, err
	}

	logger := built.logger
	if logger == nil {
		logger = logging.New(logging.DefaultConfig())
	}
	logger = logger.WithLoadID(g.LoadID())

	nodeCount := len(g.Nodes())
	eng := &Engine{
		graph:           g,
		ports:           state.NewPortArena(g.Ports()),
		sideState:       state.New(nodeCount),
		registry:        built.registry,
		cfg:             built.cfg,
		coldStart:       true,
		lastEnqueuedGen: make([]uint64, nodeCount),
		observerMgr:     observer.NewManagerWithObservers(built.observers...),
		logger:          logger,
		telemetry:       built.telemetry,
	}

	for idx, node := range g.Nodes() {
		if node.Kind != types.KindTimer {
			continue
		}
		exec, ok := eng.registry.Get(node.Kind)
		if !ok {
			continue
		}
		if ticker, ok := exec.(executor.Ticker); ok {
			eng.timers = append(eng.timers, timerBinding{idx: idx, ticker: ticker})
		}
	}

	eng.logger.WithField("node_count", nodeCount).
		WithField("port_count", g.TotalPorts()).
		Info("graph loaded")
	eng.notifyLoad()

	return eng, nil
}

// RegisterObserver adds an observer to receive lifecycle events.
// Returns the engine for method chaining.
func (e *Engine) RegisterObserver(obs observer.Observer) *Engine {
	e.observerMgr.Register(obs)
	return e
}

// LoadID returns the identifier assigned to the loaded graph.
func (e *Engine) LoadID() string { return e.graph.LoadID().String() }

// CurrentEvaluationGeneration returns the generation last stamped by
// Evaluate, or 0 if Evaluate has never been called.
func (e *Engine) CurrentEvaluationGeneration() uint64 { return e.generation }

// BeginSnapshotGeneration advances and returns the snapshot-generation
// counter, a monotonic sequence independent of the evaluation
// generation that observers use to tag the snapshots they compose.
func (e *Engine) BeginSnapshotGeneration() uint64 {
	e.snapshotGeneration++
	return e.snapshotGeneration
}

// PortHandleFor looks up the handle of (nodeID, portID, dir) in the
// loaded graph.
func (e *Engine) PortHandleFor(nodeID, portID string, dir types.Direction) (types.PortHandle, bool) {
	return e.graph.PortHandleFor(nodeID, portID, dir)
}

// Evaluate drives the scheduler: on the first call after Load, every
// node is evaluated once in topological order (the cold-start sweep);
// every subsequent call drains the ready queue accumulated by prior
// SetInput/Tick calls and by change-propagation within this call.
func (e *Engine) Evaluate() {
	start := time.Now()
	e.generation++
	gen := e.generation

	log := e.logger.WithGeneration(gen)
	log.Debug("evaluate started")
	e.notifyEvaluateStart(gen, start)

	nodesEvaluated := 0
	readyQueueDepth := len(e.ready)

	if e.coldStart {
		for _, idx := range e.graph.TopologicalOrder() {
			e.evaluateNode(idx, gen, false)
			nodesEvaluated++
		}
		e.ready = e.ready[:0]
		e.coldStart = false
	} else {
		if e.cfg.MaxReadyQueueDepth > 0 && readyQueueDepth > e.cfg.MaxReadyQueueDepth {
			log.WithField("ready_queue_depth", readyQueueDepth).
				WithField("limit", e.cfg.MaxReadyQueueDepth).
				Warn("ready queue depth exceeds configured soft limit")
		}
		for len(e.ready) > 0 {
			idx := e.ready[0]
			e.ready = e.ready[1:]
			e.evaluateNode(idx, gen, true)
			nodesEvaluated++
		}
	}

	nodesEvaluated += e.decayTimerPulses(gen)

	if e.telemetry != nil {
		e.telemetry.RecordEvaluation(context.Background(), e.LoadID(), time.Since(start), nodesEvaluated, readyQueueDepth)
	}
	log.WithField("nodes_evaluated", nodesEvaluated).
		WithField("duration_us", time.Since(start).Microseconds()).
		Debug("evaluate completed")
	e.notifyEvaluateEnd(gen, start, readyQueueDepth)
}

// evaluateNode executes one node's kind-specific semantics, writes its
// output(s) to the port arena, propagates the written value to every
// fed-in input port, and — unless suppressed for the cold-start sweep
// — enqueues forward dependents when the node's primary output
// changed. It reports whether the primary output changed, so callers
// driving their own cascade (decayTimerPulses) can react without
// touching the generation-deduplicated ready queue.
func (e *Engine) evaluateNode(idx int, gen uint64, mayEnqueue bool) bool {
	nodes := e.graph.Nodes()
	node := &nodes[idx]
	ports := e.graph.Ports()

	if len(node.Outputs) == 0 {
		return false
	}

	computeType := ports[node.Outputs[0]].DataType
	entryPrimary := e.ports.Value(node.Outputs[0])

	ctx := &executionContext{eng: e, node: node, nodeIdx: idx, computeType: computeType}
	result, err := e.registry.Execute(node.Kind, ctx)
	if err != nil {
		e.logger.WithGeneration(gen).WithNodeID(node.ID).WithNodeKind(node.Kind).WithError(err).
			Error("node evaluation failed, outputs held at previous value")
		e.notifyNodeEvaluated(node, gen, false, err)
		return false
	}

	for _, outHandle := range node.Outputs {
		coerced := result.CoerceTo(ports[outHandle].DataType)
		e.ports.Set(outHandle, coerced, gen)
		e.propagate(outHandle, coerced, gen)
	}

	changed := !entryPrimary.Equal(e.ports.Value(node.Outputs[0]))

	if e.telemetry != nil {
		e.telemetry.RecordNodeEvaluation(context.Background(), node.ID, node.Kind, changed)
	}
	e.notifyNodeEvaluated(node, gen, changed, nil)

	if mayEnqueue && changed {
		for _, dep := range e.graph.ForwardDependents(idx) {
			e.enqueue(dep, gen)
		}
	}
	return changed
}

// decayTimerPulses resets every Timer whose pulse this generation has
// just been observed back to low, then settles whatever that decay
// newly affects. A Timer's high output is visible for exactly the one
// Evaluate() that follows the Tick producing it: without this decay, a
// Counter fed directly by a Timer could never register two separate
// rising edges for two Tick calls that each land exactly on an
// interval boundary with nothing in between, since the port would
// read "high" continuously across both. The decay cascade uses its
// own local wave, not the generation-deduplicated e.ready queue, since
// a node already drained once this generation (on the way up) must
// still be allowed to run again (on the way back down to low).
func (e *Engine) decayTimerPulses(gen uint64) int {
	nodes := e.graph.Nodes()
	ports := e.graph.Ports()

	var wave []int
	queued := make(map[int]bool)
	push := func(idx int) {
		if queued[idx] {
			return
		}
		queued[idx] = true
		pos := sort.Search(len(wave), func(i int) bool { return nodeLess(nodes, idx, wave[i]) })
		wave = append(wave, 0)
		copy(wave[pos+1:], wave[pos:])
		wave[pos] = idx
	}

	for _, tb := range e.timers {
		ts := e.sideState.Timer(tb.idx)
		if !ts.Pulse {
			continue
		}
		ts.Pulse = false

		node := &nodes[tb.idx]
		for _, outHandle := range node.Outputs {
			zero := types.Zero(ports[outHandle].DataType)
			e.ports.Set(outHandle, zero, gen)
			e.propagate(outHandle, zero, gen)
		}
		for _, dep := range e.graph.ForwardDependents(tb.idx) {
			push(dep)
		}
	}

	evaluated := 0
	for len(wave) > 0 {
		idx := wave[0]
		wave = wave[1:]
		if e.evaluateNode(idx, gen, false) {
			for _, dep := range e.graph.ForwardDependents(idx) {
				push(dep)
			}
		}
		evaluated++
	}
	return evaluated
}

// propagate writes value, coerced to each destination's declared
// type, to every input port fed by outHandle, stamping each at gen —
// a port's generation stamp advances whenever its value is re-written,
// whether the write originates from the producing node or from
// propagation.
func (e *Engine) propagate(outHandle types.PortHandle, value types.Value, gen uint64) {
	ports := e.graph.Ports()
	for _, dstHandle := range e.graph.ReverseAdjacency(outHandle) {
		coerced := value.CoerceTo(ports[dstHandle].DataType)
		e.ports.Set(dstHandle, coerced, gen)
	}
}

// Tick advances every Timer node by deltaMs. Δt ≤ 0 is a no-op. A
// Timer's output is written directly (bypassing Execute, which only
// re-emits the current pulse state) and stamped at the generation the
// upcoming Evaluate will assign. The Timer's forward dependents are
// enqueued for that same generation whenever this call produces a
// pulse — not merely when the port's value differs from its prior
// value, since a pulse is a momentary event: two consecutive Tick
// calls that each land exactly on an interval boundary both fire, even
// though the output reads "high" both times, and a downstream Counter
// must see two rising edges, not one. The Timer itself is not
// enqueued, since Tick already wrote its output.
func (e *Engine) Tick(deltaMs float64) {
	if deltaMs <= 0 || len(e.timers) == 0 {
		return
	}

	start := time.Now()
	nextGen := e.generation + 1
	log := e.logger.WithGeneration(nextGen)
	log.WithField("delta_ms", deltaMs).Debug("tick started")
	e.notifyTickStart(nextGen, start)

	nodes := e.graph.Nodes()
	ports := e.graph.Ports()

	for _, tb := range e.timers {
		node := &nodes[tb.idx]
		if len(node.Outputs) == 0 {
			continue
		}
		computeType := ports[node.Outputs[0]].DataType
		ctx := &executionContext{eng: e, node: node, nodeIdx: tb.idx, computeType: computeType}

		prev := e.ports.Value(node.Outputs[0])
		result, err := tb.ticker.Tick(ctx, deltaMs)
		if err != nil {
			log.WithNodeID(node.ID).WithError(err).Error("timer tick failed")
			continue
		}

		for _, outHandle := range node.Outputs {
			coerced := result.CoerceTo(ports[outHandle].DataType)
			e.ports.Set(outHandle, coerced, nextGen)
			e.propagate(outHandle, coerced, nextGen)
		}

		pulsed := e.sideState.Timer(tb.idx).Pulse
		changed := pulsed || !prev.Equal(e.ports.Value(node.Outputs[0]))
		e.notifyNodeEvaluated(node, nextGen, changed, nil)

		if changed {
			for _, dep := range e.graph.ForwardDependents(tb.idx) {
				e.enqueue(dep, nextGen)
			}
		}
	}

	if e.telemetry != nil {
		e.telemetry.RecordTick(context.Background(), e.LoadID(), time.Since(start), len(e.timers))
	}
	log.Debug("tick completed")
	e.notifyTickEnd(nextGen, start)
}

// SetInput writes value into a DeviceTrigger node's "value" parameter
// and, if it changed, enqueues the node itself (not literally its
// dependents: only re-running the DeviceTrigger's own Execute copies
// the new parameter into its output port, and that run's own
// change-detection step cascades to its forward dependents) for the
// next Evaluate. Targeting an unknown node, or one that is not a
// DeviceTrigger, is a silent no-op.
func (e *Engine) SetInput(nodeID string, value float64) {
	idx, ok := e.graph.NodeIndexFor(nodeID)
	if !ok {
		return
	}
	nodes := e.graph.Nodes()
	node := &nodes[idx]
	if node.Kind != types.KindDeviceTrigger {
		return
	}

	computeType, ok := node.ComputeType(e.graph.Ports())
	if !ok {
		return
	}
	newVal := types.F64Value(value).CoerceTo(computeType)

	oldVal, hadOld := node.Params.Value("value")
	changed := !hadOld || !oldVal.Equal(newVal)

	if node.Params == nil {
		node.Params = types.ParamBag{}
	}
	node.Params["value"] = newVal

	if changed {
		e.enqueue(idx, e.generation+1)
	}
}

// SetInputConfig sets the legacy min_interval/max_interval timing
// parameters on a node (retained for compatibility with random-timed
// DeviceTrigger descriptions; ignored by the five built-in node
// kinds' semantics). Targeting an unknown node is a silent no-op.
func (e *Engine) SetInputConfig(nodeID string, min, max int) {
	idx, ok := e.graph.NodeIndexFor(nodeID)
	if !ok {
		return
	}
	nodes := e.graph.Nodes()
	node := &nodes[idx]
	if node.Params == nil {
		node.Params = types.ParamBag{}
	}
	node.Params["min_interval"] = types.F64Value(float64(min))
	node.Params["max_interval"] = types.F64Value(float64(max))
}

// Snapshot returns every output port's current value, keyed
// "node_id:port_id".
func (e *Engine) Snapshot() map[string]types.Value {
	ports := e.graph.Ports()
	out := make(map[string]types.Value)
	for _, p := range ports {
		if p.Direction != types.DirectionOutput {
			continue
		}
		out[p.NodeID+":"+p.PortID] = e.ports.Value(p.Handle)
	}
	return out
}

// Delta returns every output port whose generation stamp is strictly
// greater than since, along with its current value.
func (e *Engine) Delta(since uint64) map[types.PortHandle]types.Value {
	ports := e.graph.Ports()
	out := make(map[types.PortHandle]types.Value)
	for _, p := range ports {
		if p.Direction != types.DirectionOutput {
			continue
		}
		if e.ports.Generation(p.Handle) > since {
			out[p.Handle] = e.ports.Value(p.Handle)
		}
	}
	return out
}

// enqueue adds node table index idx to the ready queue for generation
// gen, keeping the queue ordered by (topological index, node
// identifier) and suppressing a node already enqueued for gen.
func (e *Engine) enqueue(idx int, gen uint64) {
	if e.lastEnqueuedGen[idx] == gen {
		return
	}
	e.lastEnqueuedGen[idx] = gen

	nodes := e.graph.Nodes()
	pos := sort.Search(len(e.ready), func(i int) bool {
		return nodeLess(nodes, idx, e.ready[i])
	})
	e.ready = append(e.ready, 0)
	copy(e.ready[pos+1:], e.ready[pos:])
	e.ready[pos] = idx
}

func nodeLess(nodes []types.Node, a, b int) bool {
	if nodes[a].Index != nodes[b].Index {
		return nodes[a].Index < nodes[b].Index
	}
	return nodes[a].ID < nodes[b].ID
}

// executionContext implements executor.ExecutionContext for one node
// evaluation, reading directly from the engine's port arena and
// per-node-kind side state without copying.
type executionContext struct {
	eng         *Engine
	node        *types.Node
	nodeIdx     int
	computeType types.DataType
}

func (c *executionContext) Inputs() []types.Value {
	vals := make([]types.Value, len(c.node.Inputs))
	for i, h := range c.node.Inputs {
		vals[i] = c.eng.ports.Value(h).CoerceTo(c.computeType)
	}
	return vals
}

func (c *executionContext) ComputeType() types.DataType { return c.computeType }

func (c *executionContext) Params() types.ParamBag { return c.node.Params }

func (c *executionContext) Timer() *state.TimerState { return c.eng.sideState.Timer(c.nodeIdx) }

func (c *executionContext) Counter() *state.CounterState { return c.eng.sideState.Counter(c.nodeIdx) }

// ============================================================================
// Observer notification helpers
// ============================================================================

func (e *Engine) notifyLoad() {
	if !e.observerMgr.HasObservers() {
		return
	}
	e.observerMgr.Notify(context.Background(), observer.Event{
		Type:      observer.EventLoad,
		Status:    observer.StatusCompleted,
		Timestamp: time.Now(),
		LoadID:    e.graph.LoadID(),
	})
}

func (e *Engine) notifyEvaluateStart(gen uint64, start time.Time) {
	if !e.observerMgr.HasObservers() {
		return
	}
	e.observerMgr.Notify(context.Background(), observer.Event{
		Type:                 observer.EventEvaluateStart,
		Status:               observer.StatusStarted,
		Timestamp:            start,
		LoadID:               e.graph.LoadID(),
		EvaluationGeneration: gen,
		StartTime:            start,
	})
}

func (e *Engine) notifyEvaluateEnd(gen uint64, start time.Time, readyQueueDepth int) {
	if !e.observerMgr.HasObservers() {
		return
	}
	e.observerMgr.Notify(context.Background(), observer.Event{
		Type:                 observer.EventEvaluateEnd,
		Status:               observer.StatusCompleted,
		Timestamp:            time.Now(),
		LoadID:               e.graph.LoadID(),
		EvaluationGeneration: gen,
		StartTime:            start,
		ElapsedTime:          time.Since(start),
		Metadata:             map[string]interface{}{"ready_queue_depth": readyQueueDepth},
	})
}

func (e *Engine) notifyTickStart(gen uint64, start time.Time) {
	if !e.observerMgr.HasObservers() {
		return
	}
	e.observerMgr.Notify(context.Background(), observer.Event{
		Type:                 observer.EventTickStart,
		Status:               observer.StatusStarted,
		Timestamp:            start,
		LoadID:               e.graph.LoadID(),
		EvaluationGeneration: gen,
		StartTime:            start,
	})
}

func (e *Engine) notifyTickEnd(gen uint64, start time.Time) {
	if !e.observerMgr.HasObservers() {
		return
	}
	e.observerMgr.Notify(context.Background(), observer.Event{
		Type:                 observer.EventTickEnd,
		Status:               observer.StatusCompleted,
		Timestamp:            time.Now(),
		LoadID:               e.graph.LoadID(),
		EvaluationGeneration: gen,
		StartTime:            start,
		ElapsedTime:          time.Since(start),
	})
}

func (e *Engine) notifyNodeEvaluated(node *types.Node, gen uint64, changed bool, err error) {
	if !e.observerMgr.HasObservers() {
		return
	}
	e.observerMgr.Notify(context.Background(), observer.Event{
		Type:                 observer.EventNodeEvaluated,
		Status:               observer.StatusCompleted,
		Timestamp:            time.Now(),
		LoadID:               e.graph.LoadID(),
		EvaluationGeneration: gen,
		NodeID:               node.ID,
		NodeKind:             node.Kind,
		Changed:              changed,
		Error:                err,
	})
}
