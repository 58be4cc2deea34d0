// Package types provides the shared data model for the dataflow evaluation
// engine.
//
// # Overview
//
// This package defines the tagged scalar value domain, the
// declarative description document ingested by the graph loader,
// and the handle-bearing Node/Port/Edge tables a loaded graph is built
// from. It has no dependency on any other engine package, so it can
// be imported by the loader, the graph store, the executors, the
// scheduler and the code generator without creating cycles.
//
// # Value domain
//
// Value is a four-variant tagged scalar: 32-bit signed integer, 32-bit
// float, 64-bit float, and UTF-8 string. Only the three numeric variants
// participate in arithmetic; strings are carried through unchanged.
// Coercion between numeric variants happens at every edge write and
// inside every node (see Value.CoerceTo).
//
// # Node kinds
//
// The engine recognizes a closed set of five node kinds: Value (a
// constant), DeviceTrigger (an externally-driven source), Timer (a
// periodic pulse generator), Counter (a rising-edge counter) and Add (a
// typed sum). Node kind semantics live in pkg/executor; this package
// only defines the NodeKind enum itself.
package types
