package notify

import (
	"context"

	"github.com/RaikyD/laundry-intake-service/internal/domain"
	"github.com/RaikyD/laundry-intake-service/internal/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/RaikyD/laundry-intake-service/internal/notify")

func startSpan(ctx context.Context, name string, ev domain.RecordCreated) (context.Context, trace.Span) {
	return tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("record.collection", ev.Collection),
			attribute.String("record.id", ev.RecordID.String()),
		),
	)
}

// Handler reacts to one record-created event. A returned error that IsTransient asks
// for the event to be delivered again; any other error is final.
type Handler interface {
	Handle(ctx context.Context, ev domain.RecordCreated) error
}

// Dispatcher routes events to the handler registered for their collection.
type Dispatcher map[string]Handler

func (d Dispatcher) Handle(ctx context.Context, ev domain.RecordCreated) error {
	h, ok := d[ev.Collection]
	if !ok {
		logger.Info("no handler for collection, skipping", "collection", ev.Collection, "id", ev.RecordID)
		return nil
	}
	return h.Handle(ctx, ev)
}
