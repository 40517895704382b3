package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"prompt-library-be/internal/pkg/logger"
	"prompt-library-be/pkg/events"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// FanoutChannel carries feed messages between instances.
const FanoutChannel = "prompt_library_events"

type fanoutMessage struct {
	Origin  string          `json:"origin"`
	Message json.RawMessage `json:"message"`
}

type Hub struct {
	clients map[*Client]struct{}

	register chan *Client
	// done is closed when Run returns
	done chan struct{}

	mu sync.RWMutex

	// Redis connection for cross-instance communication
	rdb *redis.Client
	// instanceID tags our own redis publishes so they are not delivered twice locally
	instanceID string

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[*Client]struct{}),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

// Run owns client registration until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				close(client.Send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", logger.Fields{"client_id": client.ID})
		}
	}
}

// join hands the client to Run. It reports false once the hub has stopped.
func (h *Hub) join(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// remove is idempotent; both pumps and the hub may race to drop a client.
func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.Send)
		h.logger.Info("Hub", "Client unregistered", logger.Fields{"client_id": client.ID})
	}
}

// ClientCount reports locally connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends the event to every local client and, when redis is configured,
// to every other instance.
func (h *Hub) Broadcast(ctx context.Context, event events.Event) {
	data, err := json.Marshal(events.Envelope(event))
	if err != nil {
		h.logger.Error("Hub", "Failed to encode event", logger.Fields{"error": err.Error()})
		return
	}

	h.deliverLocal(data)

	if h.rdb != nil {
		payload, _ := json.Marshal(fanoutMessage{Origin: h.instanceID, Message: data})
		if err := h.rdb.Publish(ctx, FanoutChannel, payload).Err(); err != nil {
			h.logger.Warn("Hub", "Redis publish failed", logger.Fields{"error": err.Error()})
		}
	}
}

func (h *Hub) deliverLocal(data []byte) {
	var slow []*Client

	h.mu.RLock()
	for client := range h.clients {
		select {
		case client.Send <- data:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	// Clients whose buffer is full are dropped rather than blocking the publisher.
	for _, client := range slow {
		h.logger.Warn("Hub", "Client send buffer full, dropping client", logger.Fields{"client_id": client.ID})
		h.remove(client)
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, FanoutChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var payload fanoutMessage
			if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
				h.logger.Warn("Hub", "Redis message parse error", logger.Fields{"error": err.Error()})
				continue
			}
			if payload.Origin == h.instanceID {
				continue
			}
			h.deliverLocal(payload.Message)
		}
	}
}
