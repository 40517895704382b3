package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"prompt-library-be/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// EventHandler is a function that processes an event.
type EventHandler func(ctx context.Context, event events.Event) error

// Subscriber handles listening for events from NATS.
type Subscriber struct {
	nc      *nats.Conn
	js      jetstream.JetStream
	running []jetstream.ConsumeContext
}

func NewSubscriber(url string) (*Subscriber, error) {
	nc, js, err := connect(url)
	if err != nil {
		return nil, err
	}
	return &Subscriber{nc: nc, js: js}, nil
}

// Decode turns a stream message back into an event. Messages published before
// the envelope format carry only the payload, so the subject supplies the type.
func Decode(subject string, data []byte) (events.BaseEvent, error) {
	var env events.BaseEvent
	if err := json.Unmarshal(data, &env); err != nil {
		return events.BaseEvent{}, err
	}
	if env.Type == "" {
		var payload map[string]interface{}
		if err := json.Unmarshal(data, &payload); err != nil {
			return events.BaseEvent{}, err
		}
		env = events.New(subject, payload)
	}
	return env, nil
}

// Subscribe registers a durable consumer on subject. An empty durable name creates
// an ephemeral consumer that starts from new messages.
func (s *Subscriber) Subscribe(ctx context.Context, subject, durableName string, handler EventHandler) error {
	cfg := jetstream.ConsumerConfig{
		Durable:       durableName,
		FilterSubject: subject,
		AckPolicy:     jetstream.AckExplicitPolicy,
	}
	if durableName == "" {
		cfg.DeliverPolicy = jetstream.DeliverNewPolicy
	}

	consumer, err := s.js.CreateOrUpdateConsumer(ctx, StreamName, cfg)
	if err != nil {
		return fmt.Errorf("failed to create consumer: %w", err)
	}

	cc, err := consumer.Consume(func(msg jetstream.Msg) {
		event, err := Decode(msg.Subject(), msg.Data())
		if err != nil {
			log.Printf("Error unmarshalling event data: %v", err)
			msg.Term() // malformed, never redeliver
			return
		}

		if err := handler(ctx, event); err != nil {
			log.Printf("Handler failed for event %s: %v", msg.Subject(), err)
			msg.Nak()
			return
		}
		msg.Ack()
	})
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}
	s.running = append(s.running, cc)

	log.Printf("Subscribed to %s with durable %q", subject, durableName)
	return nil
}

func (s *Subscriber) Close() {
	for _, cc := range s.running {
		cc.Stop()
	}
	if s.nc != nil {
		s.nc.Close()
	}
}
