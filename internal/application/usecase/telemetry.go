package usecase

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/bibbank/microlend/internal/application/usecase"

// Evaluation outcomes recorded on the scoring.evaluations counter.
const (
	outcomeOK       = "ok"
	outcomeRejected = "rejected"
	outcomeFallback = "fallback"
	outcomeError    = "error"
)

var (
	tracer      = otel.Tracer(instrumentationName)
	evaluations metric.Int64Counter
)

func init() {
	var err error
	evaluations, err = otel.Meter(instrumentationName).Int64Counter(
		"scoring.evaluations",
		metric.WithDescription("Scoring engine evaluations by operation and outcome."),
	)
	if err != nil {
		otel.Handle(err)
	}
}

func startSpan(ctx context.Context, operation, userID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "scoring."+operation,
		trace.WithAttributes(attribute.String("user_id", userID)))
}

// finish records the outcome on the span and the evaluations counter, then
// ends the span.
func finish(ctx context.Context, span trace.Span, operation, outcome string, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.SetAttributes(attribute.String("outcome", outcome))
	if evaluations != nil {
		evaluations.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("outcome", outcome),
		))
	}
	span.End()
}
