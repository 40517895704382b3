package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"prompt-library-be/internal/pkg/logger"
	"prompt-library-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(nil, logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func TestBroadcastReachesEveryClient(t *testing.T) {
	hub := startHub(t)

	a := &Client{ID: "a", Hub: hub, Send: make(chan []byte, 1)}
	b := &Client{ID: "b", Hub: hub, Send: make(chan []byte, 1)}
	require.True(t, hub.join(a))
	require.True(t, hub.join(b))
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 5*time.Millisecond)

	hub.Broadcast(context.Background(), events.New(events.PromptCreated, map[string]interface{}{"id": 1}))

	for _, c := range []*Client{a, b} {
		select {
		case msg := <-c.Send:
			var env events.BaseEvent
			require.NoError(t, json.Unmarshal(msg, &env))
			assert.Equal(t, events.PromptCreated, env.Type)
		case <-time.After(time.Second):
			t.Fatalf("client %s got nothing", c.ID)
		}
	}
}

func TestSlowClientIsDropped(t *testing.T) {
	hub := startHub(t)

	slow := &Client{ID: "slow", Hub: hub, Send: make(chan []byte)}
	require.True(t, hub.join(slow))
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.Broadcast(context.Background(), events.New(events.PromptViewed, nil))

	assert.Equal(t, 0, hub.ClientCount())
	_, open := <-slow.Send
	assert.False(t, open)
}

func TestJoinAfterStopFails(t *testing.T) {
	hub := NewHub(nil, logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	assert.False(t, hub.join(&Client{ID: "late", Hub: hub, Send: make(chan []byte, 1)}))
}
