// Package engine provides the dataflow evaluation engine: an
// interpreter that loads a graph of typed computational nodes and
// evaluates it deterministically in response to external input events
// and the passage of time.
//
// # Overview
//
// The engine owns an immutable-after-load graph (pkg/graph), a
// handle-indexed port-value/port-generation arena (pkg/state), a
// per-node-kind side-state table for Timer and Counter nodes
// (pkg/state), and a Strategy-pattern executor registry dispatching by
// node kind (pkg/executor). Evaluation is driven by two entry points:
//
//	eng.Tick(deltaMs)  // advances Timer nodes
//	eng.Evaluate()     // drains the ready queue
//
// # Cold start vs. steady state
//
// The first Evaluate() after Load performs a full topological sweep:
// every node is evaluated once, and every output port's generation
// stamp is set to 1 regardless of whether its value changed. Every
// subsequent Evaluate() drains a ready queue of nodes whose upstream
// inputs changed, in (topological index, node identifier) order, with
// duplicate suppression per generation. Once the ready queue empties,
// Evaluate() decays any Timer pulse it just served back to low and
// settles whatever that decay affects, so a Timer's high output is
// visible for exactly the one Evaluate() following the Tick that
// produced it.
//
// # Change observation
//
// Snapshot and Delta expose the current or recently-changed state of
// every output port for host observers, independent of the Observer
// notifications delivered through RegisterObserver.
//
// # Concurrency
//
// Engine is single-threaded by design: no suspension points, no
// cancellation, no internal locking. A caller sharing an Engine across
// goroutines must hold an external mutex serializing SetInput, Tick,
// and Evaluate calls.
package engine
