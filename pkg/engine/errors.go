package engine

import "errors"

// Sentinel errors for engine-level operations. Graph-structural errors
// (cycles, unknown references, type mismatches, duplicate identifiers)
// are reported by pkg/graph and simply propagated from Load.
var (
	ErrNilRegistry      = errors.New("executor registry cannot be nil")
	ErrMaxNodesExceeded = errors.New("graph node count exceeds configured limit")
	ErrMaxEdgesExceeded = errors.New("graph connection count exceeds configured limit")
)
