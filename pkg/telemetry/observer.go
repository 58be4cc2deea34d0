package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/nodeflow/engine/pkg/observer"
	"github.com/nodeflow/engine/pkg/types"
)

// TelemetryObserver implements observer.Observer and records telemetry data
// for load, evaluate, tick, and node-evaluation events.
type TelemetryObserver struct {
	provider *Provider

	evaluateSpan trace.Span
	tickSpan     trace.Span
	nodeSpans    map[string]trace.Span

	evaluateStartTime time.Time
	tickStartTime     time.Time
	nodeStartTimes    map[string]time.Time

	nodesEvaluated int
	timersAdvanced int
}

// NewTelemetryObserver creates a new telemetry observer.
func NewTelemetryObserver(provider *Provider) *TelemetryObserver {
	return &TelemetryObserver{
		provider:       provider,
		nodeSpans:      make(map[string]trace.Span),
		nodeStartTimes: make(map[string]time.Time),
	}
}

// OnEvent handles lifecycle events and records telemetry data.
func (o *TelemetryObserver) OnEvent(ctx context.Context, event observer.Event) {
	switch event.Type {
	case observer.EventEvaluateStart:
		o.handleEvaluateStart(ctx, event)
	case observer.EventEvaluateEnd:
		o.handleEvaluateEnd(ctx, event)
	case observer.EventTickStart:
		o.handleTickStart(ctx, event)
	case observer.EventTickEnd:
		o.handleTickEnd(ctx, event)
	case observer.EventNodeEvaluated:
		o.handleNodeEvaluated(ctx, event)
	}
}

func (o *TelemetryObserver) handleEvaluateStart(ctx context.Context, event observer.Event) {
	_, span := o.provider.Tracer().Start(ctx, "engine.evaluate",
		trace.WithAttributes(
			attribute.String("load.id", event.LoadID.String()),
			attribute.Int64("generation", int64(event.EvaluationGeneration)),
		),
	)

	o.evaluateSpan = span
	o.evaluateStartTime = event.Timestamp
	o.nodesEvaluated = 0
}

func (o *TelemetryObserver) handleEvaluateEnd(ctx context.Context, event observer.Event) {
	duration := time.Since(o.evaluateStartTime)

	readyQueueDepth := 0
	if val, ok := event.Metadata["ready_queue_depth"]; ok {
		if depth, ok := val.(int); ok {
			readyQueueDepth = depth
		}
	}

	o.provider.RecordEvaluation(ctx, event.LoadID.String(), duration, o.nodesEvaluated, readyQueueDepth)

	if o.evaluateSpan != nil {
		if event.Error != nil {
			o.evaluateSpan.RecordError(event.Error)
			o.evaluateSpan.SetStatus(codes.Error, event.Error.Error())
		} else {
			o.evaluateSpan.SetStatus(codes.Ok, "evaluate completed")
		}
		o.evaluateSpan.End()
	}
}

func (o *TelemetryObserver) handleTickStart(ctx context.Context, event observer.Event) {
	_, span := o.provider.Tracer().Start(ctx, "engine.tick",
		trace.WithAttributes(
			attribute.String("load.id", event.LoadID.String()),
		),
	)

	o.tickSpan = span
	o.tickStartTime = event.Timestamp
	o.timersAdvanced = 0
}

func (o *TelemetryObserver) handleTickEnd(ctx context.Context, event observer.Event) {
	duration := time.Since(o.tickStartTime)

	o.provider.RecordTick(ctx, event.LoadID.String(), duration, o.timersAdvanced)

	if o.tickSpan != nil {
		if event.Error != nil {
			o.tickSpan.RecordError(event.Error)
			o.tickSpan.SetStatus(codes.Error, event.Error.Error())
		} else {
			o.tickSpan.SetStatus(codes.Ok, "tick completed")
		}
		o.tickSpan.End()
	}
}

func (o *TelemetryObserver) handleNodeEvaluated(ctx context.Context, event observer.Event) {
	o.nodesEvaluated++
	if event.NodeKind == types.KindTimer {
		o.timersAdvanced++
	}

	o.provider.RecordNodeEvaluation(ctx, event.NodeID, event.NodeKind, event.Changed)

	var span trace.Span
	parent := o.evaluateSpan
	if parent == nil {
		parent = o.tickSpan
	}
	spanCtx := ctx
	if parent != nil {
		spanCtx = trace.ContextWithSpan(ctx, parent)
	}

	_, span = o.provider.Tracer().Start(spanCtx, "node.evaluate",
		trace.WithAttributes(
			attribute.String("node.id", event.NodeID),
			attribute.String("node.kind", string(event.NodeKind)),
			attribute.Bool("changed", event.Changed),
		),
	)
	if event.Error != nil {
		span.RecordError(event.Error)
		span.SetStatus(codes.Error, event.Error.Error())
	} else {
		span.SetStatus(codes.Ok, "node evaluated")
	}
	span.End()
}
