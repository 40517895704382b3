// Command eventtail prints prompt library events from the JetStream stream.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"prompt-library-be/internal/config"
	"prompt-library-be/pkg/events"
	pktNats "prompt-library-be/pkg/nats"
)

func main() {
	subject := flag.String("subject", pktNats.SubjectPrefix+".>", "subject filter")
	durable := flag.String("durable", "", "durable consumer name (empty for ephemeral)")
	flag.Parse()

	cfg := config.Load()
	if cfg.Events.NatsURL == "" {
		log.Fatal("NATS_URL is not set")
	}

	sub, err := pktNats.NewSubscriber(cfg.Events.NatsURL)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer sub.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	enc := json.NewEncoder(os.Stdout)
	err = sub.Subscribe(ctx, *subject, *durable, func(ctx context.Context, event events.Event) error {
		return enc.Encode(events.Envelope(event))
	})
	if err != nil {
		log.Fatalf("Failed to subscribe: %v", err)
	}

	fmt.Fprintf(os.Stderr, "tailing %s\n", *subject)
	<-ctx.Done()
}
