package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/rkissoon/randomart/internal/domain"
)

// TracingPublisher wraps a domain.VisitPublisher with OpenTelemetry tracing.
type TracingPublisher struct {
	next   domain.VisitPublisher
	tracer trace.Tracer
}

// Compile-time check: TracingPublisher implements domain.VisitPublisher.
var _ domain.VisitPublisher = (*TracingPublisher)(nil)

// NewTracingPublisher creates a tracing decorator around the given publisher.
func NewTracingPublisher(next domain.VisitPublisher) *TracingPublisher {
	return &TracingPublisher{
		next:   next,
		tracer: otel.Tracer(tracerName),
	}
}

func (p *TracingPublisher) Publish(ctx context.Context, visit domain.Visit) error {
	ctx, span := p.tracer.Start(ctx, "VisitPublisher.Publish",
		trace.WithAttributes(
			attribute.String("visit.id", visit.ID),
			attribute.String("visit.event_type", visit.EventType),
		),
	)
	defer span.End()

	err := p.next.Publish(ctx, visit)
	recordError(span, err)
	return err
}
