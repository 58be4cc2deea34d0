// Package telemetry provides OpenTelemetry integration for distributed tracing and metrics.
// It enables comprehensive observability for graph evaluation with support for:
//   - Distributed tracing with trace IDs and span context propagation
//   - Prometheus metrics for evaluate(), tick(), and per-node evaluation statistics
//   - Custom metrics exporters and collectors
//   - Integration with industry-standard observability platforms
package telemetry
