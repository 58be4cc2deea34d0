// Package observer provides the Observer pattern implementation for
// engine lifecycle monitoring. This allows library consumers to track load,
// evaluate, tick, and per-node evaluation behavior without coupling to the
// engine implementation.
package observer

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nodeflow/engine/pkg/types"
)

// EventType represents the type of engine lifecycle event.
type EventType string

const (
	// Load-level events
	EventLoad EventType = "load"

	// Evaluate-level events, one pair per evaluate() call
	EventEvaluateStart EventType = "evaluate_start"
	EventEvaluateEnd   EventType = "evaluate_end"

	// Tick-level events, one pair per tick(Δt) call
	EventTickStart EventType = "tick_start"
	EventTickEnd   EventType = "tick_end"

	// Node-level events, one per node evaluated during evaluate() or tick()
	EventNodeEvaluated EventType = "node_evaluated"
)

// ExecutionStatus represents the status of a lifecycle event.
type ExecutionStatus string

const (
	StatusStarted   ExecutionStatus = "started"
	StatusSuccess   ExecutionStatus = "success"
	StatusFailure   ExecutionStatus = "failure"
	StatusCompleted ExecutionStatus = "completed"
)

// Event represents a lifecycle event with all relevant metadata.
type Event struct {
	Type      EventType       `json:"type"`
	Status    ExecutionStatus `json:"status"`
	Timestamp time.Time       `json:"timestamp"`

	// LoadID identifies the loaded graph this event concerns.
	LoadID uuid.UUID `json:"load_id"`

	// EvaluationGeneration is the generation current when the event was
	// emitted (zero for load events, which precede the first evaluate()).
	EvaluationGeneration uint64 `json:"evaluation_generation,omitempty"`

	// Node-specific data (empty for load/evaluate/tick-level events)
	NodeID   string         `json:"node_id,omitempty"`
	NodeKind types.NodeKind `json:"node_kind,omitempty"`
	Changed  bool           `json:"changed,omitempty"`

	// Timing information
	StartTime   time.Time     `json:"start_time,omitempty"`
	ElapsedTime time.Duration `json:"elapsed_time,omitempty"`

	// Execution results
	Error error `json:"error,omitempty"`

	// Additional metadata
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Observer defines the interface for engine lifecycle observers. Observers
// receive notifications about various stages of load, evaluate, and tick.
type Observer interface {
	// OnEvent is called when a lifecycle event occurs. The context can be
	// used for cancellation and passing request-scoped values.
	OnEvent(ctx context.Context, event Event)
}

// Logger defines the interface for custom logging. This allows library
// consumers to integrate with their own logging systems.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}
