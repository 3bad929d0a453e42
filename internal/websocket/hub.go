// Package websocket pushes live new-message notifications to connected
// inbox viewers. Delivery is best-effort: a slow client simply misses an
// update and catches up on its next poll.
package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/erlandi/tempmail-backend/internal/models"
)

// MessageType represents the type of WebSocket message
type MessageType string

const (
	MessageTypeNewMessage MessageType = "new_message"
	MessageTypeError      MessageType = "error"
)

// WSMessage represents a WebSocket frame sent to clients
type WSMessage struct {
	Type    MessageType `json:"type"`
	InboxID string      `json:"inboxId,omitempty"`
	Message interface{} `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Hub maintains the set of active clients, keyed by the inbox token each
// client subscribed to.
type Hub struct {
	// Inbox subscriptions: inbox token -> set of clients
	subscriptions map[string]map[*Client]bool

	register   chan *subscriptionRequest
	unregister chan *Client
	broadcast  chan *broadcastMessage

	mu sync.RWMutex

	logger *slog.Logger
}

type subscriptionRequest struct {
	client  *Client
	inboxID string
}

type broadcastMessage struct {
	inboxID string
	message []byte
}

// NewHub creates a new Hub instance
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		subscriptions: make(map[string]map[*Client]bool),
		register:      make(chan *subscriptionRequest),
		unregister:    make(chan *Client),
		broadcast:     make(chan *broadcastMessage, 256),
		logger:        logger,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case req := <-h.register:
			h.mu.Lock()
			if h.subscriptions[req.inboxID] == nil {
				h.subscriptions[req.inboxID] = make(map[*Client]bool)
			}
			h.subscriptions[req.inboxID][req.client] = true
			h.mu.Unlock()
			if h.logger != nil {
				h.logger.Debug("client subscribed to inbox")
			}

		case client := <-h.unregister:
			h.mu.Lock()
			if subscribers, ok := h.subscriptions[client.inboxID]; ok {
				if _, registered := subscribers[client]; registered {
					delete(subscribers, client)
					close(client.send)
					if len(subscribers) == 0 {
						delete(h.subscriptions, client.inboxID)
					}
				}
			}
			h.mu.Unlock()
			if h.logger != nil {
				h.logger.Debug("client unsubscribed from inbox")
			}

		case msg := <-h.broadcast:
			h.mu.RLock()
			subscribers := h.subscriptions[msg.inboxID]
			for client := range subscribers {
				select {
				case client.send <- msg.message:
				default:
					// Client buffer full, skip
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register subscribes a client to an inbox
func (h *Hub) Register(client *Client) {
	h.register <- &subscriptionRequest{client: client, inboxID: client.inboxID}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// NewMessage broadcasts a new-message notification to every client
// subscribed to the inbox. It satisfies the ingestion pipeline's Notifier
// interface.
func (h *Hub) NewMessage(inboxID string, item models.MessageListItem) {
	msg := WSMessage{
		Type:    MessageTypeNewMessage,
		InboxID: inboxID,
		Message: item,
	}

	data, err := json.Marshal(msg)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("failed to marshal broadcast message", slog.Any("error", err))
		}
		return
	}

	h.broadcast <- &broadcastMessage{
		inboxID: inboxID,
		message: data,
	}
}

// SubscriberCount reports the number of clients watching an inbox.
func (h *Hub) SubscriberCount(inboxID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscriptions[inboxID])
}
