package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "labelforge"

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, name, trace.WithAttributes(attrs...))
}

// StartAssignmentSpan traces one assignment scan-and-claim pass.
func StartAssignmentSpan(ctx context.Context, annotatorID string) (context.Context, trace.Span) {
	return startSpan(ctx, "assignment", attribute.String("annotator.id", annotatorID))
}

// StartConsensusSpan traces a consensus finalization.
func StartConsensusSpan(ctx context.Context, taskID string) (context.Context, trace.Span) {
	return startSpan(ctx, "consensus", attribute.String("task.id", taskID))
}
