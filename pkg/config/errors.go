package config

import "errors"

// Sentinel errors for configuration validation.
var (
	ErrInvalidMaxNodes           = errors.New("invalid max nodes: must be non-negative")
	ErrInvalidMaxEdges           = errors.New("invalid max edges: must be non-negative")
	ErrInvalidMaxReadyQueueDepth = errors.New("invalid max ready queue depth: must be non-negative")
	ErrInvalidTickInterval       = errors.New("invalid default tick interval: must be non-negative")
)
