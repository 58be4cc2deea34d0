package graph

import "errors"

// Sentinel errors for graph load failures.
var (
	ErrCycleDetected = errors.New("graph contains a cycle")
	ErrUnknownReference = errors.New("edge references an unknown node or port")
	ErrTypeMismatch = errors.New("edge connects incompatible port types")
	ErrDuplicateID = errors.New("duplicate node id")
	ErrDuplicatePortID = errors.New("duplicate port id within a node")
	ErrMultipleEdgesToInput = errors.New("input port is the destination of more than one edge")
	ErrNotLoaded = errors.New("graph has not been loaded")
)
