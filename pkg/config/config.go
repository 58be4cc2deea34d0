package config

import "time"

// Config holds evaluation engine configuration. All configuration options
// are centralized here for easy management and validation.
type Config struct {
	// MaxNodes bounds the number of nodes a loaded graph may declare.
	MaxNodes int
	// MaxEdges bounds the number of connections a loaded graph may declare.
	MaxEdges int
	// MaxReadyQueueDepth is a soft limit: the scheduler logs a warning
	// through its logger when the ready queue grows past it, but keeps
	// draining rather than dropping work.
	MaxReadyQueueDepth int
	// DefaultTickInterval is a suggested Δt for callers that pick their
	// own tick cadence. Neither the engine nor cmd/enginectl reads it:
	// Engine.Tick always takes an explicit Δt.
	DefaultTickInterval time.Duration
}

// Default returns a Config with generous limits suitable for interactive
// use and most production graphs.
func Default() *Config {
	return &Config{
		MaxNodes:            1000,
		MaxEdges:            5000,
		MaxReadyQueueDepth:  1000,
		DefaultTickInterval: 100 * time.Millisecond,
	}
}

// Strict returns a Config with tight limits, suited to untrusted or
// multi-tenant graph sources.
func Strict() *Config {
	cfg := Default()
	cfg.MaxNodes = 200
	cfg.MaxEdges = 1000
	cfg.MaxReadyQueueDepth = 200
	return cfg
}

// Development returns a Config with relaxed limits for local iteration.
func Development() *Config {
	cfg := Default()
	cfg.MaxNodes = 10000
	cfg.MaxEdges = 50000
	cfg.MaxReadyQueueDepth = 10000
	return cfg
}

// Validate checks if the configuration values are valid.
func (c *Config) Validate() error {
	if c.MaxNodes < 0 {
		return ErrInvalidMaxNodes
	}
	if c.MaxEdges < 0 {
		return ErrInvalidMaxEdges
	}
	if c.MaxReadyQueueDepth < 0 {
		return ErrInvalidMaxReadyQueueDepth
	}
	if c.DefaultTickInterval < 0 {
		return ErrInvalidTickInterval
	}
	return nil
}

// Clone creates a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
