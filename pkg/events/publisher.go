package events

import (
	"context"

	"go.uber.org/zap"
)

// Publisher defines the interface for publishing domain events
type Publisher interface {
	// Publish publishes an event to the message broker
	Publish(ctx context.Context, exchange string, event *Event, headers Headers) error

	// Close closes the publisher connection
	Close() error
}

// NopPublisher drops events. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(_ context.Context, exchange string, event *Event, _ Headers) error {
	zap.L().Debug("Event dropped, no broker configured",
		zap.String("exchange", exchange),
		zap.String("event", event.Event),
	)
	return nil
}

func (NopPublisher) Close() error {
	return nil
}

// Emit builds the event and publishes it. Failures are logged only: events
// never undo a committed write.
func Emit(ctx context.Context, publisher Publisher, exchange, name string, payload any, service string) {
	headers := NewHeaders(service)

	event, err := NewEvent(name, EventVersionV1, payload, headers)
	if err != nil {
		zap.L().Error("Failed to build event", zap.String("event", name), zap.Error(err))
		return
	}

	if err := publisher.Publish(ctx, exchange, event, headers); err != nil {
		zap.L().Error("Failed to publish event",
			zap.String("event", name),
			zap.String("exchange", exchange),
			zap.String("traceId", headers.TraceID),
			zap.Error(err),
		)
	}
}
