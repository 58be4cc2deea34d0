// Package state holds per-node-kind state that is not a port value. Only Timer and
// Counter kinds need such state; the arrays are indexed by node table
// position and pre-sized at load, so no node evaluation allocates.
package state
