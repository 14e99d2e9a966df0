package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"english-tutor-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ClusterChannel carries practice replies between server instances.
const ClusterChannel = "tutor:practice"

// Hub tracks practice connections per session. Every tab attached to a
// session sees the replies produced by any of them.
type Hub struct {
	clients map[string][]*Client
	mu      sync.RWMutex

	// Optional; set when replies must reach tabs served by other instances.
	rdb *redis.Client

	// Identifies this instance on the cluster channel.
	origin string

	logger logger.ILogger
}

type clusterMessage struct {
	SessionID string          `json:"session_id"`
	Origin    string          `json:"origin"`
	Message   json.RawMessage `json:"message"`
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		clients: make(map[string][]*Client),
		rdb:     rdb,
		origin:  uuid.NewString(),
		logger:  log,
	}
}

// Run relays cluster messages until ctx is done. Without redis it only waits.
func (h *Hub) Run(ctx context.Context) {
	if h.rdb == nil {
		<-ctx.Done()
		return
	}

	pubsub := h.rdb.Subscribe(ctx, ClusterChannel)
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
			var payload clusterMessage
			if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
				h.logger.Warn("Hub", "Dropping malformed cluster message", map[string]interface{}{"error": err.Error()})
				continue
			}
			if payload.Origin == h.origin {
				continue
			}
			h.deliverLocal(payload.SessionID, payload.Message)
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
	count := len(h.clients[client.SessionID])
	h.mu.Unlock()

	h.logger.Info("Hub", "Client registered", map[string]interface{}{
		"session_id":  client.SessionID,
		"connections": count,
	})
}

// Unregister removes the client and closes its send channel. Safe to call twice.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.clients[client.SessionID]
	for i, c := range clients {
		if c == client {
			h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
			client.close()
			break
		}
	}
	if len(h.clients[client.SessionID]) == 0 {
		delete(h.clients, client.SessionID)
	}
}

// Connections reports how many sockets are attached to sessionID on this instance.
func (h *Hub) Connections(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}

// Send delivers data to every local tab of the session and, with redis, to
// tabs on other instances.
func (h *Hub) Send(ctx context.Context, sessionID string, data []byte) {
	h.deliverLocal(sessionID, data)

	if h.rdb == nil {
		return
	}
	payload, err := json.Marshal(clusterMessage{SessionID: sessionID, Origin: h.origin, Message: data})
	if err != nil {
		return
	}
	if err := h.rdb.Publish(ctx, ClusterChannel, payload).Err(); err != nil {
		h.logger.Warn("Hub", "Failed to publish to cluster", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}
}

func (h *Hub) deliverLocal(sessionID string, data []byte) {
	h.mu.RLock()
	clients := append([]*Client(nil), h.clients[sessionID]...)
	h.mu.RUnlock()

	for _, client := range clients {
		if !client.enqueue(data) {
			h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{"session_id": sessionID})
			h.Unregister(client)
		}
	}
}
