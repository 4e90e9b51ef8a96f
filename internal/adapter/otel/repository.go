package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rkissoon/randomart/internal/domain"
)

const tracerName = "github.com/rkissoon/randomart/internal/adapter/otel"

// TracingRepository wraps a domain.VisitRepository with OpenTelemetry tracing.
// Each method creates a span with semantic attributes and records errors.
type TracingRepository struct {
	next   domain.VisitRepository
	tracer trace.Tracer
}

// Compile-time check: TracingRepository implements domain.VisitRepository.
var _ domain.VisitRepository = (*TracingRepository)(nil)

// NewTracingRepository creates a tracing decorator around the given repository.
func NewTracingRepository(next domain.VisitRepository) *TracingRepository {
	return &TracingRepository{
		next:   next,
		tracer: otel.Tracer(tracerName),
	}
}

func (r *TracingRepository) Create(ctx context.Context, visit domain.Visit) error {
	ctx, span := r.tracer.Start(ctx, "VisitRepository.Create",
		trace.WithAttributes(
			attribute.String("visit.id", visit.ID),
			attribute.String("visit.event_type", visit.EventType),
		),
	)
	defer span.End()

	err := r.next.Create(ctx, visit)
	recordError(span, err)
	return err
}

func (r *TracingRepository) GetByID(ctx context.Context, id string) (domain.Visit, error) {
	ctx, span := r.tracer.Start(ctx, "VisitRepository.GetByID",
		trace.WithAttributes(attribute.String("visit.id", id)),
	)
	defer span.End()

	visit, err := r.next.GetByID(ctx, id)
	recordError(span, err)
	return visit, err
}

func (r *TracingRepository) FirstVisits(ctx context.Context, filter domain.GalleryFilter) ([]domain.Visit, error) {
	ctx, span := r.tracer.Start(ctx, "VisitRepository.FirstVisits",
		trace.WithAttributes(
			attribute.Int("filter.limit", filter.Limit),
			attribute.Int("filter.offset", filter.Offset),
		),
	)
	defer span.End()

	visits, err := r.next.FirstVisits(ctx, filter)
	if err == nil {
		span.SetAttributes(attribute.Int("result.count", len(visits)))
	}
	recordError(span, err)
	return visits, err
}

// recordError marks span as failed when err is set.
func recordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
