// Package graph builds the immutable-after-load graph store:
// handle interning, topological ordering, reverse port adjacency and
// forward node dependents, from an external Description document.
//
// # Handle interning
//
// Load assigns every declared port a dense integer handle in the range
// [0, total_ports), in load order: for each node, in declared order,
// inputs are handled before outputs. Two Load calls over an identical
// Description always produce identical handles — the assignment is a
// pure function of declared order.
//
// # Topological order
//
// Load computes the order returned by TopologicalOrder with Kahn's
// algorithm: in-degree counting, a fixed-size array queue seeded with
// zero-in-degree nodes in load order, and a single pass over the edge
// list to build adjacency and in-degree together. A graph
// with a cycle fails load with ErrCycleDetected rather than returning a
// partial order.
package graph
