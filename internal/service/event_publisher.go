package service

import (
	"context"

	"prompt-library-be/internal/pkg/logger"
	"prompt-library-be/pkg/events"
)

// EventSink is anything that accepts domain events: the NATS publisher, the websocket hub.
type EventSink interface {
	Publish(ctx context.Context, event events.Event) error
}

type Broadcaster interface {
	Broadcast(ctx context.Context, event events.Event)
}

type IEventPublisher interface {
	Publish(ctx context.Context, event events.Event)
}

// eventPublisher fans an event out to the durable bus and the live feed.
// Both targets are optional; delivery failures are logged, never returned.
type eventPublisher struct {
	bus    EventSink
	feed   Broadcaster
	logger logger.ILogger
}

func NewEventPublisher(bus EventSink, feed Broadcaster, log logger.ILogger) IEventPublisher {
	return &eventPublisher{bus: bus, feed: feed, logger: log}
}

func (p *eventPublisher) Publish(ctx context.Context, event events.Event) {
	if p == nil {
		return
	}
	if p.bus != nil {
		if err := p.bus.Publish(ctx, event); err != nil {
			p.logger.Warn("EVENTS", "Failed to publish event", logger.Fields{
				"type":  event.EventType(),
				"error": err.Error(),
			})
		}
	}
	if p.feed != nil {
		p.feed.Broadcast(ctx, event)
	}
}
