package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// OperationContext tracks one traced and measured operation.
type OperationContext struct {
	Component     string
	OperationName string
	StartTime     time.Time
	Metrics       *Metrics
}

// NewOperationContext creates a new operation context.
// If metrics is nil, metric recording is skipped.
func NewOperationContext(component, operationName string, metrics *Metrics) *OperationContext {
	return &OperationContext{
		Component:     component,
		OperationName: operationName,
		StartTime:     time.Now(),
		Metrics:       metrics,
	}
}

// Start opens a span named component.operation.
func (oc *OperationContext) Start(ctx context.Context) (context.Context, trace.Span) {
	ctx, span := StartSpan(ctx, oc.Component+"."+oc.OperationName)
	span.SetAttributes(
		attribute.String(AttrComponent, oc.Component),
		attribute.String(AttrOperationName, oc.OperationName),
	)
	return ctx, span
}

// End closes the span and records the operation metric. status is a short
// label such as "ok", "conflict" or "error".
func (oc *OperationContext) End(ctx context.Context, span trace.Span, status string, err error) {
	duration := time.Since(oc.StartTime)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, status)
	}
	span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	span.End()

	oc.Metrics.RecordOperation(ctx, oc.OperationName, status, duration)
}

// Duration returns the elapsed time since operation start.
func (oc *OperationContext) Duration() time.Duration {
	return time.Since(oc.StartTime)
}
