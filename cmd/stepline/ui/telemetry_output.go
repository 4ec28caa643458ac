package ui

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"stepline/progress"
	"stepline/telemetry"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// RunTelemetry owns a tracer provider whose spans drive a progress
// reporter. The root span's plan attribute seeds the step list; child spans
// transition the matching steps as they start and end.
type RunTelemetry struct {
	provider *sdktrace.TracerProvider
}

// NewRunTelemetry wires span lifecycle events to report.
func NewRunTelemetry(report progress.Reporter) *RunTelemetry {
	observer := newStepObserver(report)
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(&stepSpanProcessor{observer: observer}),
	)
	return &RunTelemetry{provider: provider}
}

// Tracer returns a tracer feeding the reporter.
func (o *RunTelemetry) Tracer(name string) trace.Tracer {
	if o == nil || o.provider == nil {
		return otel.Tracer(name)
	}
	return o.provider.Tracer(name)
}

// Close flushes and shuts down the provider.
func (o *RunTelemetry) Close() {
	if o == nil || o.provider == nil {
		return
	}
	_ = o.provider.Shutdown(context.Background())
}

// stepObserver maps span events onto a progress tracker. The tracker is
// created on the first plan; spans for unplanned step ids append steps at
// the end, so ad-hoc spans still render.
type stepObserver struct {
	mu      sync.Mutex
	report  progress.Reporter
	tracker *progress.Tracker
	ends    map[string]func(error)
}

func newStepObserver(report progress.Reporter) *stepObserver {
	return &stepObserver{
		report: report,
		ends:   make(map[string]func(error)),
	}
}

func (o *stepObserver) onPlan(plan telemetry.Plan) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.tracker != nil {
		return
	}

	cfgs := make([]progress.StepConfig, 0, len(plan.Steps))
	for _, step := range plan.Steps {
		cfgs = append(cfgs, progress.StepConfig{ID: step.ID, Label: step.Label})
	}
	o.tracker = progress.New(o.report, cfgs...)
}

func (o *stepObserver) onStepStart(id string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.ends[id] = o.trackerLocked().Start(id)
}

func (o *stepObserver) onStepEnd(id string, failed bool, message string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	end := o.ends[id]
	delete(o.ends, id)
	if end == nil {
		end = o.trackerLocked().Start(id)
	}

	if failed {
		if strings.TrimSpace(message) == "" {
			message = "failed"
		}
		end(errors.New(message))
		return
	}
	end(nil)
}

func (o *stepObserver) trackerLocked() *progress.Tracker {
	if o.tracker == nil {
		o.tracker = progress.New(o.report)
	}
	return o.tracker
}

// stepSpanProcessor forwards span lifecycle events to the observer. Root
// spans carry the plan; child spans are steps.
type stepSpanProcessor struct {
	observer *stepObserver
}

func (p *stepSpanProcessor) OnStart(_ context.Context, span sdktrace.ReadWriteSpan) {
	if p == nil || p.observer == nil {
		return
	}

	if span.Parent().IsValid() {
		p.observer.onStepStart(span.Name())
		return
	}

	planJSON := attributeValue(span.Attributes(), telemetry.PlanJSONKey)
	if strings.TrimSpace(planJSON) == "" {
		return
	}

	var plan telemetry.Plan
	if err := json.Unmarshal([]byte(planJSON), &plan); err != nil {
		return
	}
	p.observer.onPlan(plan)
}

func (p *stepSpanProcessor) OnEnd(span sdktrace.ReadOnlySpan) {
	if p == nil || p.observer == nil {
		return
	}
	if !span.Parent().IsValid() {
		return
	}

	status := span.Status()
	p.observer.onStepEnd(span.Name(), status.Code == codes.Error, strings.TrimSpace(status.Description))
}

func (p *stepSpanProcessor) Shutdown(context.Context) error {
	return nil
}

func (p *stepSpanProcessor) ForceFlush(context.Context) error {
	return nil
}

func attributeValue(attrs []attribute.KeyValue, key string) string {
	for _, attr := range attrs {
		if string(attr.Key) == key {
			return attr.Value.AsString()
		}
	}
	return ""
}
