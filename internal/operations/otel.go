package operations

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kavya1280/JK-Insights/internal/infrastructure"
)

// TracerName is the instrumentation scope of job spans
const TracerName = "jk-insights.operations"

func defaultTracer() trace.Tracer {
	return otel.Tracer(TracerName)
}

// startInsightSpan opens the span around one detector run
func startInsightSpan(ctx context.Context, tracer trace.Tracer, insight string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "insight.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("insight.id", insight)),
	)
}

// endInsightSpan records the outcome on span and closes it
func endInsightSpan(ctx context.Context, span trace.Span, res InsightResult, err error) {
	span.SetAttributes(
		attribute.String("insight.status", string(res.Status)),
		attribute.Int("insight.outputs", len(res.Outputs)),
	)
	if err != nil {
		infrastructure.RecordError(ctx, err)
	}
	span.End()
}
