package ws

import (
	"context"
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Hub relays visit change events from the Redis channel to connected
// dashboard sockets. Events are forwarded at most once, with no replay
// across reconnects; dashboards refetch on reconnect.
type Hub struct {
	client  *redis.Client
	channel string

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// NewHub creates a hub relaying the given Redis channel.
func NewHub(client *redis.Client, channel string) *Hub {
	return &Hub{
		client:  client,
		channel: channel,
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// Run subscribes to the Redis channel and fans messages out to every
// connected client until ctx is cancelled. Meant to run in its own
// goroutine.
func (h *Hub) Run(ctx context.Context) {
	sub := h.client.Subscribe(ctx, h.channel)
	defer sub.Close()

	log.Printf("Visit feed listening on channel %q", h.channel)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.broadcast([]byte(msg.Payload))
		}
	}
}

func (h *Hub) broadcast(payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

func (h *Hub) register(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
}

// UpgradeGuard rejects plain HTTP requests on the websocket route.
func UpgradeGuard(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Handler returns the websocket endpoint for dashboard feeds. The read
// loop exists only to detect the client going away.
func (h *Hub) Handler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		h.register(conn)
		defer func() {
			h.unregister(conn)
			conn.Close()
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
}
