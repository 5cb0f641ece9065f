// Copyright 2026 © The Scout Authors
// SPDX-License-Identifier: Apache-2.0

// Package orchestrator runs the plan-route-synthesize loop: ask the planner
// for a plan, repair it against the registry, execute steps sequentially
// with context threading, and combine the answers.
package orchestrator

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/scouthq/scout/pkg/audit"
	"github.com/scouthq/scout/pkg/capability"
	"github.com/scouthq/scout/pkg/core"
	"github.com/scouthq/scout/pkg/errors"
	"github.com/scouthq/scout/pkg/plan"
	"github.com/scouthq/scout/pkg/planner"
	"github.com/scouthq/scout/pkg/registry"
	"github.com/scouthq/scout/pkg/resilience"
	"github.com/scouthq/scout/pkg/telemetry"
)

// degradedAnswer is what a failed step contributes to context threading and
// synthesis. The failure reason stays in StepResult.Error and the logs.
const degradedAnswer = "This step could not be completed."

// Orchestrator executes questions against an immutable capability registry.
type Orchestrator struct {
	planner        planner.Planner
	registry       *registry.Registry
	emitter        core.EventEmitter
	auditStore     audit.Store
	plannerTimeout resilience.TimeoutConfig
	stepTimeout    resilience.TimeoutConfig
	tracer         trace.Tracer
	errorMetrics   *telemetry.ErrorMetrics
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithEventEmitter routes semantic events to a sink.
func WithEventEmitter(emitter core.EventEmitter) Option {
	return func(o *Orchestrator) {
		if emitter != nil {
			o.emitter = emitter
		}
	}
}

// WithAuditStore persists step outcomes.
func WithAuditStore(store audit.Store) Option {
	return func(o *Orchestrator) { o.auditStore = store }
}

// WithPlannerTimeout bounds the planning call. Zero means no limit.
func WithPlannerTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.plannerTimeout = resilience.TimeoutConfig{Duration: d} }
}

// WithStepTimeout bounds each handler call. Zero means no limit.
func WithStepTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.stepTimeout = resilience.TimeoutConfig{Duration: d} }
}

// New creates an orchestrator over a planner and registry.
func New(p planner.Planner, reg *registry.Registry, opts ...Option) (*Orchestrator, error) {
	if p == nil {
		return nil, fmt.Errorf("planner is required")
	}
	if reg == nil {
		return nil, fmt.Errorf("registry is required")
	}
	o := &Orchestrator{
		planner:  p,
		registry: reg,
		emitter:  core.NoopEventEmitter{},
		tracer:   otel.Tracer("scout/orchestrator"),
	}
	// Error metrics are best effort; a meter failure never blocks runs.
	o.errorMetrics, _ = telemetry.NewErrorMetrics(context.Background())
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Run answers a question. Cancellation mid-run returns the partial Result
// with Cancelled set alongside the context error; every other handler
// failure degrades its step and the run continues.
func (o *Orchestrator) Run(ctx context.Context, question string) (*Result, error) {
	ctx, runID := core.EnsureRunID(ctx)
	ctx, span := o.tracer.Start(ctx, "Orchestrator.Run")
	defer span.End()
	span.SetAttributes(telemetry.RunAttributes(runID, question)...)
	log := slog.Default()

	initMetrics()
	runCounter.Add(ctx, 1)
	start := time.Now()

	log.Info("run.start",
		slog.String("run_id", runID),
		slog.String("question", question),
	)
	o.emit(ctx, core.EventRunStarted, runID, map[string]any{"question": question})

	raw, err := resilience.WithTimeoutResult(ctx, o.plannerTimeout, func(ctx context.Context) ([]plan.RawStep, error) {
		return o.planner.Plan(ctx, question, o.registry.Describe())
	})
	if err != nil {
		runErrorCounter.Add(ctx, 1)
		var ke *errors.ScoutError
		if !stderrors.As(err, &ke) {
			ke = errors.New(errors.CodePlannerError, "planning failed", err)
		}
		o.errorMetrics.RecordErrorMetric(ctx, ke, "planner")
		log.Error("run.planner.error",
			slog.String("run_id", runID),
			slog.String("error", err.Error()),
			slog.String("error_code", string(ke.Code)),
		)
		o.emit(ctx, core.EventRunError, runID, map[string]any{"stage": "planner", "error": err.Error()})
		return nil, ke
	}

	p, repairs := plan.Normalize(raw, o.registry, o.registry.DefaultIntent(), question)
	fallback := len(raw) == 0
	span.SetAttributes(telemetry.PlanAttributes(p.Len(), len(repairs), fallback)...)
	o.emit(ctx, core.EventPlanCreated, runID, map[string]any{"steps": p.Len()})
	o.reportRepairs(ctx, log, runID, repairs)

	if err := p.Validate(o.registry); err != nil {
		runErrorCounter.Add(ctx, 1)
		return nil, errors.New(errors.CodeInternal, "repaired plan failed validation", err)
	}

	result := &Result{RunID: runID, Question: question, Plan: p, Repairs: repairs}
	var accumulated strings.Builder

	for i, step := range p.Steps {
		if ctx.Err() != nil {
			result.Cancelled = true
			break
		}

		handler, err := o.registry.Resolve(step.Intent)
		if err != nil {
			// The plan was validated against this registry; a miss here is a
			// defect, not a runtime condition to degrade around.
			runErrorCounter.Add(ctx, 1)
			ke := errors.New(errors.CodeInternal,
				fmt.Sprintf("validated step %d has no handler for intent %q", i, step.Intent), err)
			o.errorMetrics.RecordErrorMetric(ctx, ke, "registry")
			log.Error("run.registry.miss",
				slog.String("run_id", runID),
				slog.Int("step_index", i),
				slog.String("intent", step.Intent),
			)
			o.emit(ctx, core.EventRunError, runID, map[string]any{"stage": "resolve", "intent": step.Intent})
			return result, ke
		}

		sr := o.runStep(ctx, log, runID, i, step, handler, accumulated.String())
		result.Steps = append(result.Steps, sr)
		fmt.Fprintf(&accumulated, "\nStep %d (%s): %s\n", i, step.Intent, sr.Answer)

		if ctx.Err() != nil {
			result.Cancelled = true
			break
		}
	}

	result.Answer = Synthesize(result.Steps)
	runLatencyMs.Record(ctx, time.Since(start).Seconds()*1000)

	if result.Cancelled {
		log.Warn("run.cancelled",
			slog.String("run_id", runID),
			slog.Int("steps_completed", len(result.Steps)),
			slog.Int("steps_planned", p.Len()),
		)
		o.emit(ctx, core.EventRunCancelled, runID, map[string]any{
			"steps_completed": len(result.Steps),
			"steps_planned":   p.Len(),
		})
		return result, ctx.Err()
	}

	log.Info("run.complete",
		slog.String("run_id", runID),
		slog.Int("steps", len(result.Steps)),
	)
	o.emit(ctx, core.EventRunCompleted, runID, map[string]any{"steps": len(result.Steps)})
	return result, nil
}

func (o *Orchestrator) runStep(ctx context.Context, log *slog.Logger, runID string, index int, step plan.Step, handler capability.Handler, accumulated string) StepResult {
	stepCtx, span := o.tracer.Start(ctx, "Orchestrator.Step",
		trace.WithAttributes(telemetry.StepAttributes(index, step.Intent, step.Subquery)...))
	defer span.End()

	o.emit(stepCtx, core.EventStepStarted, runID, map[string]any{
		"step_index": index,
		"intent":     step.Intent,
		"subquery":   step.Subquery,
	})

	start := time.Now()
	answer, err := resilience.WithTimeoutResult(stepCtx, o.stepTimeout, func(ctx context.Context) (string, error) {
		return handler.Answer(ctx, step.Subquery, accumulated)
	})
	duration := time.Since(start)
	stepLatencyMs.Record(ctx, duration.Seconds()*1000)

	sr := StepResult{
		Index:    index,
		Intent:   step.Intent,
		Subquery: step.Subquery,
		Duration: duration,
	}
	status := audit.StatusCompleted

	if err != nil {
		sr.Degraded = true
		sr.Error = err.Error()
		sr.Answer = degradedAnswer
		status = audit.StatusDegraded
		if ctx.Err() != nil {
			status = audit.StatusCancelled
		}
		degradedCounter.Add(ctx, 1)
		o.errorMetrics.RecordErrorMetric(stepCtx, err, "step")
		if status == audit.StatusDegraded {
			// The run carries on with a placeholder answer; count it as a
			// recovery rather than a run failure.
			o.errorMetrics.RecordRecovery(stepCtx, errors.AsScoutError(err).Code)
		}
		span.SetAttributes(attribute.Bool(telemetry.AttrStepDegraded, true))
		log.Warn("step.degraded",
			slog.String("run_id", runID),
			slog.Int("step_index", index),
			slog.String("intent", step.Intent),
			slog.String("error", err.Error()),
		)
		o.emit(stepCtx, core.EventStepDegraded, runID, map[string]any{
			"step_index": index,
			"intent":     step.Intent,
			"error":      err.Error(),
		})
	} else {
		// Stored as the handler produced it; a single-step run returns this
		// string unchanged as the final answer.
		sr.Answer = answer
		log.Info("step.complete",
			slog.String("run_id", runID),
			slog.Int("step_index", index),
			slog.String("intent", step.Intent),
			slog.Duration("duration", duration),
		)
		o.emit(stepCtx, core.EventStepCompleted, runID, map[string]any{
			"step_index": index,
			"intent":     step.Intent,
		})
	}

	o.recordAudit(ctx, runID, sr, status, start)
	return sr
}

func (o *Orchestrator) reportRepairs(ctx context.Context, log *slog.Logger, runID string, repairs []plan.Repair) {
	for _, r := range repairs {
		eventType := core.EventPlanRepaired
		if r.Field == "plan" {
			eventType = core.EventPlanFallback
		}
		log.Warn("plan.repaired",
			slog.String("run_id", runID),
			slog.Int("step_index", r.StepIndex),
			slog.String("field", r.Field),
			slog.String("original", r.Original),
			slog.String("substituted", r.Substituted),
		)
		o.emit(ctx, eventType, runID, map[string]any{
			"step_index":  r.StepIndex,
			"field":       r.Field,
			"original":    r.Original,
			"substituted": r.Substituted,
		})
	}
}

func (o *Orchestrator) recordAudit(ctx context.Context, runID string, sr StepResult, status string, started time.Time) {
	if o.auditStore == nil {
		return
	}
	event := audit.StepEvent{
		RunID:      runID,
		StepIndex:  sr.Index,
		Intent:     sr.Intent,
		Subquery:   sr.Subquery,
		Answer:     sr.Answer,
		Status:     status,
		Error:      sr.Error,
		StartedAt:  started,
		FinishedAt: started.Add(sr.Duration),
	}
	if err := o.auditStore.Record(context.WithoutCancel(ctx), event); err != nil {
		slog.Default().Warn("audit.record_failed",
			slog.String("run_id", runID),
			slog.Int("step_index", sr.Index),
			slog.String("error", err.Error()),
		)
	}
}

func (o *Orchestrator) emit(ctx context.Context, eventType core.EventType, runID string, payload map[string]any) {
	o.emitter.Emit(ctx, core.NewEvent(eventType, runID, payload))
}
