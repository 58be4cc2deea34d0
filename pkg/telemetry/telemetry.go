package telemetry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/nodeflow/engine/pkg/types"
)

const (
	serviceName = "nodeflow-engine"

	metricEvaluations        = "engine_evaluations_total"
	metricEvaluationDuration = "engine_evaluation_duration_seconds"
	metricTicks              = "engine_ticks_total"
	metricTickDuration       = "engine_ticks_duration_seconds"
	metricNodeEvaluations    = "engine_node_evaluations_total"
	metricReadyQueueDepth    = "engine_ready_queue_depth"
)

// Provider manages OpenTelemetry setup and provides access to tracers and
// meters for the evaluation engine.
type Provider struct {
	meterProvider  *sdkmetric.MeterProvider
	tracerProvider trace.TracerProvider
	meter          metric.Meter
	tracer         trace.Tracer

	evaluations        metric.Int64Counter
	evaluationDuration metric.Float64Histogram
	ticks              metric.Int64Counter
	tickDuration       metric.Float64Histogram
	nodeEvaluations    metric.Int64Counter
	readyQueueDepth    metric.Int64Gauge

	mu sync.RWMutex
}

// Config holds telemetry configuration.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	EnableTracing  bool
	EnableMetrics  bool
}

// DefaultConfig returns default telemetry configuration.
func DefaultConfig() Config {
	return Config{
		ServiceName:    serviceName,
		ServiceVersion: "0.1.0",
		Environment:    "development",
		EnableTracing:  true,
		EnableMetrics:  true,
	}
}

// NewProvider creates a new telemetry provider with a Prometheus metrics
// exporter, initializing OpenTelemetry with the given configuration.
func NewProvider(ctx context.Context, config Config) (*Provider, error) {
	provider := &Provider{}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(config.ServiceName),
			semconv.ServiceVersion(config.ServiceVersion),
			attribute.String("environment", config.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	if config.EnableMetrics {
		if err := provider.initMetrics(res); err != nil {
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
	}

	if config.EnableTracing {
		provider.initTracing()
	}

	return provider, nil
}

func (p *Provider) initMetrics(res *resource.Resource) error {
	exporter, err := prometheus.New()
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	p.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(p.meterProvider)
	p.meter = p.meterProvider.Meter(serviceName)

	return p.createMetricInstruments()
}

func (p *Provider) initTracing() {
	p.tracerProvider = otel.GetTracerProvider()
	p.tracer = p.tracerProvider.Tracer(serviceName)
}

func (p *Provider) createMetricInstruments() error {
	var err error

	p.evaluations, err = p.meter.Int64Counter(
		metricEvaluations,
		metric.WithDescription("Total number of evaluate() calls"),
	)
	if err != nil {
		return err
	}

	p.evaluationDuration, err = p.meter.Float64Histogram(
		metricEvaluationDuration,
		metric.WithDescription("evaluate() wall-clock duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	p.ticks, err = p.meter.Int64Counter(
		metricTicks,
		metric.WithDescription("Total number of tick(Δt) calls"),
	)
	if err != nil {
		return err
	}

	p.tickDuration, err = p.meter.Float64Histogram(
		metricTickDuration,
		metric.WithDescription("tick(Δt) wall-clock duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	p.nodeEvaluations, err = p.meter.Int64Counter(
		metricNodeEvaluations,
		metric.WithDescription("Total number of per-node evaluations, labeled by kind"),
	)
	if err != nil {
		return err
	}

	p.readyQueueDepth, err = p.meter.Int64Gauge(
		metricReadyQueueDepth,
		metric.WithDescription("Ready queue depth observed at the start of the most recent evaluate() call"),
	)
	if err != nil {
		return err
	}

	return nil
}

// Tracer returns the tracer for creating spans.
func (p *Provider) Tracer() trace.Tracer {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.tracer
}

// Meter returns the meter for recording metrics.
func (p *Provider) Meter() metric.Meter {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.meter
}

// RecordEvaluation records metrics for one evaluate() call.
func (p *Provider) RecordEvaluation(ctx context.Context, loadID string, duration time.Duration, nodesEvaluated int, readyQueueDepth int) {
	if p.meter == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("load.id", loadID),
		attribute.Int("nodes.evaluated", nodesEvaluated),
	}

	p.evaluations.Add(ctx, 1, metric.WithAttributes(attrs...))
	p.evaluationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	p.readyQueueDepth.Record(ctx, int64(readyQueueDepth), metric.WithAttributes(attribute.String("load.id", loadID)))
}

// RecordTick records metrics for one tick(Δt) call.
func (p *Provider) RecordTick(ctx context.Context, loadID string, duration time.Duration, timersAdvanced int) {
	if p.meter == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("load.id", loadID),
		attribute.Int("timers.advanced", timersAdvanced),
	}

	p.ticks.Add(ctx, 1, metric.WithAttributes(attrs...))
	p.tickDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordNodeEvaluation records one node's evaluation, labeled by kind.
func (p *Provider) RecordNodeEvaluation(ctx context.Context, nodeID string, kind types.NodeKind, changed bool) {
	if p.meter == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("node.id", nodeID),
		attribute.String("node.kind", string(kind)),
		attribute.Bool("changed", changed),
	}

	p.nodeEvaluations.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// Shutdown gracefully shuts down the telemetry provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.meterProvider != nil {
		if err := p.meterProvider.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown meter provider: %w", err)
		}
	}

	return nil
}
