package orchestrator

import (
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var (
	metricsOnce     sync.Once
	runCounter      metric.Int64Counter
	runErrorCounter metric.Int64Counter
	runLatencyMs    metric.Float64Histogram
	stepLatencyMs   metric.Float64Histogram
	degradedCounter metric.Int64Counter
)

func initMetrics() {
	metricsOnce.Do(func() {
		meter := otel.Meter("scout/orchestrator")
		runCounter, _ = meter.Int64Counter("scout.runs.total",
			metric.WithDescription("Total orchestration runs started"))
		runErrorCounter, _ = meter.Int64Counter("scout.runs.errors",
			metric.WithDescription("Orchestration runs that failed before producing an answer"))
		runLatencyMs, _ = meter.Float64Histogram("scout.run.duration_ms",
			metric.WithDescription("End-to-end run latency in milliseconds"))
		stepLatencyMs, _ = meter.Float64Histogram("scout.step.duration_ms",
			metric.WithDescription("Per-step latency in milliseconds"))
		degradedCounter, _ = meter.Int64Counter("scout.steps.degraded",
			metric.WithDescription("Steps that failed and were carried forward as degraded"))
	})
}
