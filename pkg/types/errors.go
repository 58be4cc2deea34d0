package types

import "errors"

// Sentinel errors shared by the graph loader and the scheduler.
var (
	ErrUnknownNodeKind = errors.New("unknown node kind")
	ErrMissingParam    = errors.New("missing required parameter")
)
