// Package ws pushes workspace events to websocket clients.
package ws

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/samhotchkiss/biztask/internal/metrics"
)

// BroadcastMessage packages a payload for a workspace-scoped broadcast.
// An empty Topic reaches every client of the workspace.
type BroadcastMessage struct {
	WorkspaceID string
	Topic       string
	Payload     []byte
}

// Hub manages active clients and workspace-scoped broadcasts.
type Hub struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan BroadcastMessage
	done       chan struct{}

	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewHub builds a new Hub. Both arguments may be nil.
func NewHub(logger *zap.Logger, m *metrics.Metrics) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan BroadcastMessage),
		done:       make(chan struct{}),
		logger:     logger,
		metrics:    m,
	}
}

// Run starts the hub loop and blocks until ctx is done. Remaining clients
// are disconnected on return. Run must be called at most once.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		for client := range h.clients {
			h.drop(client)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.clients[client] = struct{}{}
			h.metrics.AddWSConnection(1)
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				if client.WorkspaceID() != message.WorkspaceID {
					continue
				}
				if message.Topic != "" && !client.IsSubscribedToTopic(message.Topic) {
					continue
				}
				select {
				case client.Send <- message.Payload:
				default:
					h.logger.Warn("dropping slow websocket client", zap.String("workspace_id", message.WorkspaceID))
					h.drop(client)
				}
			}
		}
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.Send)
	h.metrics.AddWSConnection(-1)
}

// Broadcast sends a payload to all clients in a workspace.
func (h *Hub) Broadcast(workspaceID string, payload []byte) {
	h.send(BroadcastMessage{WorkspaceID: workspaceID, Payload: payload})
}

// BroadcastTopic sends a payload to the clients in a workspace subscribed to topic.
func (h *Hub) BroadcastTopic(workspaceID, topic string, payload []byte) {
	h.send(BroadcastMessage{WorkspaceID: workspaceID, Topic: topic, Payload: payload})
}

func (h *Hub) send(message BroadcastMessage) {
	select {
	case h.broadcast <- message:
	case <-h.done:
	}
}

// Register adds a client to the hub. A client registered after the hub has
// stopped is closed immediately.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
		close(c.Send)
	}
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Client represents a websocket connection bound to one workspace.
type Client struct {
	Conn *websocket.Conn
	Hub  *Hub
	Send chan []byte

	workspaceID string

	mu     sync.RWMutex
	topics map[string]struct{}
}

// NewClient returns a client ready for registration.
func NewClient(hub *Hub, conn *websocket.Conn, workspaceID string) *Client {
	return &Client{
		Conn:        conn,
		Hub:         hub,
		Send:        make(chan []byte, 256),
		workspaceID: workspaceID,
		topics:      make(map[string]struct{}),
	}
}

// WorkspaceID returns the workspace the client is bound to.
func (c *Client) WorkspaceID() string {
	return c.workspaceID
}

// SubscribeTopic adds topic to the client's subscriptions.
func (c *Client) SubscribeTopic(topic string) {
	c.mu.Lock()
	c.topics[topic] = struct{}{}
	c.mu.Unlock()
}

// UnsubscribeTopic removes topic from the client's subscriptions.
func (c *Client) UnsubscribeTopic(topic string) {
	c.mu.Lock()
	delete(c.topics, topic)
	c.mu.Unlock()
}

// IsSubscribedToTopic reports whether the client receives topic broadcasts.
func (c *Client) IsSubscribedToTopic(topic string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.topics[topic]
	return ok
}
